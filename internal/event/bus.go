package event

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

type Handler func(ctx context.Context, e Event)

// Forwarder hands an event to the other processes of the deployment.
type Forwarder interface {
	Forward(ctx context.Context, e Event) error
}

type listener struct {
	scope   Scope
	handler Handler
}

// Bus delivers events to in-process listeners, each on its own goroutine.
// With a forwarder set, emitted events are also sent to the leader.
type Bus struct {
	mu        sync.RWMutex
	listeners map[Kind][]listener
	forwarder Forwarder
	log       *zap.Logger
	inflight  sync.WaitGroup
}

func NewBus(logger *zap.Logger) *Bus {
	return &Bus{
		listeners: make(map[Kind][]listener),
		log:       logger,
	}
}

// On registers handler for events of kind whose scope overlaps scope.
func (b *Bus) On(kind Kind, handler Handler, scope Scope) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listeners[kind] = append(b.listeners[kind], listener{scope: scope, handler: handler})
}

func (b *Bus) SetForwarder(f Forwarder) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.forwarder = f
}

// Emit dispatches locally and forwards when a forwarder is set. Forwarding
// errors are returned; local listeners have already been started.
func (b *Bus) Emit(ctx context.Context, e Event) error {
	b.Dispatch(ctx, e)

	b.mu.RLock()
	forwarder := b.forwarder
	b.mu.RUnlock()
	if forwarder == nil {
		return nil
	}
	if err := forwarder.Forward(ctx, e); err != nil {
		b.log.Error("event forward failed", zap.String("kind", string(e.Kind)), zap.Error(err))
		return err
	}
	return nil
}

// Dispatch runs matching local listeners without forwarding. Listeners get a
// context that outlives the caller's cancellation.
func (b *Bus) Dispatch(ctx context.Context, e Event) int {
	b.mu.RLock()
	var matched []Handler
	for _, l := range b.listeners[e.Kind] {
		if l.scope&e.Scope != 0 {
			matched = append(matched, l.handler)
		}
	}
	b.mu.RUnlock()

	detached := context.WithoutCancel(ctx)
	for _, h := range matched {
		b.inflight.Add(1)
		go func(h Handler) {
			defer b.inflight.Done()
			defer func() {
				if r := recover(); r != nil {
					b.log.Error("event listener panicked", zap.String("kind", string(e.Kind)), zap.Any("error", r))
				}
			}()
			h(detached, e)
		}(h)
	}
	return len(matched)
}

// Wait blocks until running listeners return or ctx is done.
func (b *Bus) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		b.inflight.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
