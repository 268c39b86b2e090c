package httpcache

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/21haoxingxiu/core/internal/kvcache"
)

const writeTimeout = 3 * time.Second

type pendingWrite struct {
	key   string
	value []byte
	ttl   time.Duration
}

// WriteBack persists cache entries off the request path. Writes are dropped
// when the queue is full; the cache is an optimisation, not a source of truth.
type WriteBack struct {
	store kvcache.Store
	log   *zap.Logger
	queue chan pendingWrite

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

func NewWriteBack(store kvcache.Store, buffer int, logger *zap.Logger) *WriteBack {
	if buffer <= 0 {
		buffer = 1
	}
	w := &WriteBack{
		store: store,
		log:   logger,
		queue: make(chan pendingWrite, buffer),
		done:  make(chan struct{}),
	}
	go w.run()
	return w
}

// Enqueue schedules a write and reports whether it was accepted.
func (w *WriteBack) Enqueue(key string, value []byte, ttl time.Duration) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.closed {
		return false
	}
	select {
	case w.queue <- pendingWrite{key: key, value: value, ttl: ttl}:
		return true
	default:
		CacheErrors.WithLabelValues("drop").Inc()
		w.log.Warn("cache write queue full, dropping entry", zap.String("key", key))
		return false
	}
}

// Close stops accepting writes and waits until queued ones are flushed or
// ctx is done.
func (w *WriteBack) Close(ctx context.Context) error {
	w.mu.Lock()
	if !w.closed {
		w.closed = true
		close(w.queue)
	}
	w.mu.Unlock()

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (w *WriteBack) run() {
	defer close(w.done)
	for item := range w.queue {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		if err := w.store.Set(ctx, item.key, item.value, item.ttl); err != nil {
			CacheErrors.WithLabelValues("set").Inc()
			w.log.Warn("cache write failed", zap.String("key", item.key), zap.Error(err))
		}
		cancel()
	}
}
