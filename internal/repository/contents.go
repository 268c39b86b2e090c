package repository

import (
	"context"

	"github.com/21haoxingxiu/core/internal/model"
)

type ContentRepository interface {
	CreateContent(ctx context.Context, content model.Content) (model.Content, error)
	GetContent(ctx context.Context, kind string, id int64) (model.Content, error)
	GetNoteByNid(ctx context.Context, nid int64) (model.Content, error)
	ListContents(ctx context.Context, kind string, limit int) ([]model.Content, error)
}
