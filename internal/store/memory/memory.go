package memory

import (
	"sync"

	"go.uber.org/zap"

	"github.com/21haoxingxiu/core/internal/model"
)

type Store struct {
	mu          sync.Mutex
	nextID      int64
	nextNid     int64
	contents    []model.Content
	subscribers map[string]model.Subscriber
	log         *zap.Logger
}

func New(logger *zap.Logger) *Store {
	return &Store{
		nextID:      1,
		nextNid:     1,
		subscribers: make(map[string]model.Subscriber),
		log:         logger,
	}
}
