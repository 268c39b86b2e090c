package memory

import (
	"context"
	"sort"
	"time"

	"github.com/21haoxingxiu/core/internal/domain"
	"github.com/21haoxingxiu/core/internal/model"
)

func (s *Store) ListSubscribers(_ context.Context) ([]model.Subscriber, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := make([]model.Subscriber, 0, len(s.subscribers))
	for _, record := range s.subscribers {
		result = append(result, record)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (s *Store) GetSubscriber(_ context.Context, email string) (model.Subscriber, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.subscribers[email]
	if !ok {
		return model.Subscriber{}, domain.ErrSubscriberNotFound
	}
	return record, nil
}

func (s *Store) UpsertSubscriber(_ context.Context, subscriber model.Subscriber) (model.Subscriber, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.subscribers[subscriber.Email]; ok {
		existing.Subscribe = subscriber.Subscribe
		s.subscribers[subscriber.Email] = existing
		return existing, nil
	}
	subscriber.ID = s.nextID
	s.nextID++
	if subscriber.CreatedAt.IsZero() {
		subscriber.CreatedAt = time.Now().UTC()
	}
	s.subscribers[subscriber.Email] = subscriber
	return subscriber, nil
}

func (s *Store) DeleteSubscriber(_ context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.subscribers[email]; !ok {
		return domain.ErrSubscriberNotFound
	}
	delete(s.subscribers, email)
	return nil
}
