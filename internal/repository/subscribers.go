package repository

import (
	"context"

	"github.com/21haoxingxiu/core/internal/model"
)

// SubscriberRepository is the durable store behind the subscriber registry.
// GetSubscriber returns domain.ErrSubscriberNotFound when the email is unknown.
type SubscriberRepository interface {
	ListSubscribers(ctx context.Context) ([]model.Subscriber, error)
	GetSubscriber(ctx context.Context, email string) (model.Subscriber, error)
	// UpsertSubscriber inserts subscriber, or replaces the bitmask of the
	// existing record with the same email while keeping its cancel token. It
	// returns the record as stored.
	UpsertSubscriber(ctx context.Context, subscriber model.Subscriber) (model.Subscriber, error)
	DeleteSubscriber(ctx context.Context, email string) error
}
