package memory

import (
	"context"
	"time"

	"github.com/21haoxingxiu/core/internal/domain"
	"github.com/21haoxingxiu/core/internal/model"
)

func (s *Store) CreateContent(_ context.Context, content model.Content) (model.Content, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	content.ID = s.nextID
	s.nextID++
	if content.Kind == domain.ContentKindNote && content.Nid == 0 {
		content.Nid = s.nextNid
		s.nextNid++
	}
	if content.CreatedAt.IsZero() {
		content.CreatedAt = time.Now().UTC()
	}
	s.contents = append(s.contents, content)
	return content, nil
}

func (s *Store) GetContent(_ context.Context, kind string, id int64) (model.Content, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, record := range s.contents {
		if record.Kind == kind && record.ID == id {
			return record, nil
		}
	}
	return model.Content{}, domain.ErrContentNotFound
}

func (s *Store) GetNoteByNid(_ context.Context, nid int64) (model.Content, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, record := range s.contents {
		if record.Kind == domain.ContentKindNote && record.Nid == nid {
			return record, nil
		}
	}
	return model.Content{}, domain.ErrContentNotFound
}

func (s *Store) ListContents(_ context.Context, kind string, limit int) ([]model.Content, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result []model.Content
	for i := len(s.contents) - 1; i >= 0; i-- {
		record := s.contents[i]
		if record.Kind != kind {
			continue
		}
		result = append(result, record)
		if limit > 0 && len(result) >= limit {
			break
		}
	}
	return result, nil
}
