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

func (s *Store) CreateContent(ctx context.Context, content model.Content) (model.Content, error) {
	if content.CreatedAt.IsZero() {
		content.CreatedAt = time.Now().UTC()
	}
	if content.Kind == domain.ContentKindNote && content.Nid == 0 {
		nid, err := s.queries.NextNoteNid(ctx)
		if err != nil {
			s.log.Error("sql next note nid failed", zap.Error(err))
			return model.Content{}, err
		}
		content.Nid = nid
	}
	result, err := s.queries.CreateContent(ctx, db.CreateContentParams{
		Kind:      content.Kind,
		Nid:       content.Nid,
		Slug:      content.Slug,
		Category:  content.Category,
		Title:     content.Title,
		Text:      content.Text,
		CreatedAt: content.CreatedAt,
	})
	if err != nil {
		s.log.Error("sql create content failed",
			zap.String("kind", content.Kind),
			zap.String("title", content.Title),
			zap.Error(err),
		)
		return model.Content{}, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		s.log.Error("sql last insert id failed", zap.Error(err))
		return model.Content{}, err
	}
	content.ID = id
	return content, nil
}

func (s *Store) GetContent(ctx context.Context, kind string, id int64) (model.Content, error) {
	row, err := s.queries.GetContent(ctx, db.GetContentParams{Kind: kind, ID: id})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Content{}, domain.ErrContentNotFound
		}
		s.log.Error("sql get content failed", zap.String("kind", kind), zap.Int64("id", id), zap.Error(err))
		return model.Content{}, err
	}
	return toContent(row), nil
}

func (s *Store) GetNoteByNid(ctx context.Context, nid int64) (model.Content, error) {
	row, err := s.queries.GetNoteByNid(ctx, nid)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Content{}, domain.ErrContentNotFound
		}
		s.log.Error("sql get note failed", zap.Int64("nid", nid), zap.Error(err))
		return model.Content{}, err
	}
	return toContent(row), nil
}

func (s *Store) ListContents(ctx context.Context, kind string, limit int) ([]model.Content, error) {
	rows, err := s.queries.ListContentsByKind(ctx, db.ListContentsByKindParams{
		Kind:  kind,
		Limit: int32(limit),
	})
	if err != nil {
		s.log.Error("sql list contents failed", zap.String("kind", kind), zap.Int("limit", limit), zap.Error(err))
		return nil, err
	}

	var result []model.Content
	for _, row := range rows {
		result = append(result, toContent(row))
	}
	return result, nil
}

func toContent(row db.Content) model.Content {
	return model.Content{
		ID:        row.ID,
		Kind:      row.Kind,
		Nid:       row.Nid,
		Slug:      row.Slug,
		Category:  row.Category,
		Title:     row.Title,
		Text:      row.Text,
		CreatedAt: row.CreatedAt,
	}
}
