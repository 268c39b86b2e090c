package store

import (
	"context"

	"go.uber.org/zap"

	"github.com/21haoxingxiu/core/internal/config"
	"github.com/21haoxingxiu/core/internal/repository"
	"github.com/21haoxingxiu/core/internal/store/memory"
	"github.com/21haoxingxiu/core/internal/store/mysql"
)

// Store is the union of the repositories the service persists through.
type Store interface {
	repository.SubscriberRepository
	repository.ContentRepository
}

// NewStore uses MySQL when a DSN is configured and falls back to the
// in-memory store otherwise.
func NewStore(cfg *config.Config, logger *zap.Logger) (Store, error) {
	if cfg.MySQLDSN == "" {
		logger.Warn("MYSQL_DSN not set, subscribers and content are kept in memory")
		return memory.New(logger), nil
	}
	s, err := mysql.Open(context.Background(), cfg.MySQLDSN, logger)
	if err != nil {
		logger.Error("mysql store unavailable", zap.Error(err))
		return nil, err
	}
	return s, nil
}

func NewSubscriberRepository(s Store) repository.SubscriberRepository {
	return s
}

func NewContentRepository(s Store) repository.ContentRepository {
	return s
}
