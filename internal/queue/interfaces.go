// Package queue abstracts the broker that carries events between workers.
package queue

import "context"

// Consumer receives forwarded events until ctx is cancelled.
type Consumer interface {
	Start(ctx context.Context) error
}

// Publisher sends an encoded event under routingKey.
type Publisher interface {
	Publish(ctx context.Context, payload []byte, routingKey string) error
}

// NoopConsumer blocks until shutdown. It stands in when this worker has
// nothing to consume.
type NoopConsumer struct{}

func (NoopConsumer) Start(ctx context.Context) error {
	<-ctx.Done()
	return ctx.Err()
}

// NoopPublisher drops everything.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, []byte, string) error {
	return nil
}
