package analytics

import (
	"context"
	"regexp"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/21haoxingxiu/core/internal/config"
	"github.com/21haoxingxiu/core/internal/kvcache"
)

const recordTimeout = 3 * time.Second

// Tracker records visits off the request path. Visits are dropped when the
// queue is full or the tracker is closed.
type Tracker struct {
	recorder Recorder
	bots     []*regexp.Regexp
	disabled bool
	log      *zap.Logger
	queue    chan Visit

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

func NewTracker(cfg *config.Config, store kvcache.Store, logger *zap.Logger) *Tracker {
	bots, err := LoadBotList(cfg.BotListFile)
	if err != nil {
		logger.Warn("bot list unavailable, no user agent is treated as a bot",
			zap.String("file", cfg.BotListFile), zap.Error(err))
	}
	t := newTracker(NewRecorder(cfg, store, logger), bots, cfg.AnalyticsBuffer, logger)
	t.disabled = cfg.AnalyticsDisable
	return t
}

func newTracker(recorder Recorder, bots []*regexp.Regexp, buffer int, logger *zap.Logger) *Tracker {
	if buffer <= 0 {
		buffer = 1
	}
	t := &Tracker{
		recorder: recorder,
		bots:     bots,
		log:      logger,
		queue:    make(chan Visit, buffer),
		done:     make(chan struct{}),
	}
	go t.run()
	return t
}

func (t *Tracker) Enabled() bool {
	return !t.disabled
}

// IsBot reports whether userAgent matches the bot list.
func (t *Tracker) IsBot(userAgent string) bool {
	for _, re := range t.bots {
		if re.MatchString(userAgent) {
			return true
		}
	}
	return false
}

// Track queues v and reports whether it was accepted.
func (t *Tracker) Track(v Visit) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.closed {
		return false
	}
	select {
	case t.queue <- v:
		return true
	default:
		Visits.WithLabelValues("dropped").Inc()
		t.log.Debug("analytics queue full, dropping visit", zap.String("path", v.Path))
		return false
	}
}

func (t *Tracker) Counts(ctx context.Context) (Counts, error) {
	return t.recorder.Counts(ctx)
}

// Close stops accepting visits and waits until queued ones are recorded or
// ctx is done.
func (t *Tracker) Close(ctx context.Context) error {
	t.mu.Lock()
	if !t.closed {
		t.closed = true
		close(t.queue)
	}
	t.mu.Unlock()

	select {
	case <-t.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (t *Tracker) run() {
	defer close(t.done)
	for v := range t.queue {
		ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
		if err := t.recorder.Record(ctx, v); err != nil {
			Visits.WithLabelValues("failed").Inc()
			t.log.Warn("record visit failed", zap.String("path", v.Path), zap.Error(err))
		} else {
			Visits.WithLabelValues("recorded").Inc()
		}
		cancel()
	}
}
