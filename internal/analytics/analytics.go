// Package analytics counts anonymous page views and unique visitors.
//
// PV is every recorded GET; UV counts an IP once per UTC day. Counts live in
// Redis when the HTTP cache runs on Redis, and in process memory otherwise.
package analytics

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/21haoxingxiu/core/internal/config"
	"github.com/21haoxingxiu/core/internal/kvcache"
)

// Visit is one anonymous GET request.
type Visit struct {
	IP        string
	Path      string
	UserAgent string
	At        time.Time
}

type Counts struct {
	PV    int64
	UV    int64
	Paths map[string]int64
}

type Recorder interface {
	Record(ctx context.Context, v Visit) error
	Counts(ctx context.Context) (Counts, error)
}

// NewRecorder shares the Redis client of store when it is Redis-backed.
func NewRecorder(cfg *config.Config, store kvcache.Store, logger *zap.Logger) Recorder {
	if rs, ok := store.(*kvcache.RedisStore); ok {
		logger.Info("analytics recording to redis", zap.String("prefix", cfg.AnalyticsKeyPrefix))
		return NewRedisRecorder(rs.Client(), cfg.AnalyticsKeyPrefix)
	}
	return NewMemoryRecorder()
}

func day(t time.Time) string {
	return t.UTC().Format(time.DateOnly)
}
