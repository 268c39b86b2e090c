package mysql

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/21haoxingxiu/core/internal/db"
	"github.com/21haoxingxiu/core/internal/domain"
	"github.com/21haoxingxiu/core/internal/model"
)

func (s *Store) ListSubscribers(ctx context.Context) ([]model.Subscriber, error) {
	rows, err := s.queries.ListSubscribers(ctx)
	if err != nil {
		s.log.Error("sql list subscribers failed", zap.Error(err))
		return nil, err
	}
	result := make([]model.Subscriber, 0, len(rows))
	for _, row := range rows {
		result = append(result, toSubscriber(row))
	}
	return result, nil
}

func (s *Store) GetSubscriber(ctx context.Context, email string) (model.Subscriber, error) {
	row, err := s.queries.GetSubscriberByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Subscriber{}, domain.ErrSubscriberNotFound
		}
		s.log.Error("sql get subscriber failed", zap.String("email", email), zap.Error(err))
		return model.Subscriber{}, err
	}
	return toSubscriber(row), nil
}

// UpsertSubscriber relies on the unique email index: a duplicate only
// rewrites subscribe, so the first cancel token survives concurrent inserts.
func (s *Store) UpsertSubscriber(ctx context.Context, subscriber model.Subscriber) (model.Subscriber, error) {
	if subscriber.CreatedAt.IsZero() {
		subscriber.CreatedAt = time.Now().UTC()
	}
	err := s.queries.UpsertSubscriber(ctx, db.UpsertSubscriberParams{
		Email:       subscriber.Email,
		Subscribe:   int32(subscriber.Subscribe),
		CancelToken: subscriber.CancelToken,
		CreatedAt:   subscriber.CreatedAt,
	})
	if err != nil {
		s.log.Error("sql upsert subscriber failed", zap.String("email", subscriber.Email), zap.Error(err))
		return model.Subscriber{}, err
	}
	return s.GetSubscriber(ctx, subscriber.Email)
}

func (s *Store) DeleteSubscriber(ctx context.Context, email string) error {
	result, err := s.queries.DeleteSubscriber(ctx, email)
	if err != nil {
		s.log.Error("sql delete subscriber failed", zap.String("email", email), zap.Error(err))
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrSubscriberNotFound
	}
	return nil
}

func toSubscriber(row db.Subscriber) model.Subscriber {
	return model.Subscriber{
		ID:          row.ID,
		Email:       row.Email,
		Subscribe:   int(row.Subscribe),
		CancelToken: row.CancelToken,
		CreatedAt:   row.CreatedAt,
	}
}
