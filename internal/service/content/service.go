package content

import (
	"context"

	"go.uber.org/zap"

	"github.com/21haoxingxiu/core/internal/domain"
	"github.com/21haoxingxiu/core/internal/event"
	"github.com/21haoxingxiu/core/internal/model"
	"github.com/21haoxingxiu/core/internal/repository"
)

type Emitter interface {
	Emit(ctx context.Context, e event.Event) error
}

type Service struct {
	store  repository.ContentRepository
	events Emitter
	log    *zap.Logger
}

func NewService(store repository.ContentRepository, bus *event.Bus, logger *zap.Logger) *Service {
	return &Service{store: store, events: bus, log: logger}
}

// Create stores a post or note and announces it to visitors and the system.
// A failed announcement is logged; the content is already saved.
func (s *Service) Create(ctx context.Context, content model.Content) (model.Content, error) {
	if !domain.IsValidContentKind(content.Kind) {
		return model.Content{}, domain.ErrInvalidContentKind
	}
	created, err := s.store.CreateContent(ctx, content)
	if err != nil {
		s.log.Error("store create content failed",
			zap.String("kind", content.Kind),
			zap.String("title", content.Title),
			zap.Error(err),
		)
		return model.Content{}, err
	}

	e, err := event.New(createdKind(created.Kind), event.ScopeVisitor|event.ScopeSystem, created)
	if err != nil {
		s.log.Error("encode content event failed", zap.Int64("id", created.ID), zap.Error(err))
		return created, nil
	}
	if err := s.events.Emit(ctx, e); err != nil {
		s.log.Warn("content event not delivered", zap.Int64("id", created.ID), zap.Error(err))
	}
	return created, nil
}

func (s *Service) Get(ctx context.Context, kind string, id int64) (model.Content, error) {
	return s.store.GetContent(ctx, kind, id)
}

func (s *Service) GetNote(ctx context.Context, nid int64) (model.Content, error) {
	return s.store.GetNoteByNid(ctx, nid)
}

// Latest returns the most recent item of kind.
func (s *Service) Latest(ctx context.Context, kind string) (model.Content, error) {
	items, err := s.List(ctx, kind, 1)
	if err != nil {
		return model.Content{}, err
	}
	if len(items) == 0 {
		return model.Content{}, domain.ErrContentNotFound
	}
	return items[0], nil
}

func (s *Service) List(ctx context.Context, kind string, limit int) ([]model.Content, error) {
	items, err := s.store.ListContents(ctx, kind, limit)
	if err != nil {
		s.log.Error("store list contents failed", zap.String("kind", kind), zap.Int("limit", limit), zap.Error(err))
		return nil, err
	}
	return items, nil
}

func createdKind(kind string) event.Kind {
	if kind == domain.ContentKindNote {
		return event.KindNoteCreated
	}
	return event.KindPostCreated
}
