package dto

import (
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/21haoxingxiu/core/internal/model"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

type CreatePostRequest struct {
	Title    string `json:"title"`
	Text     string `json:"text"`
	Slug     string `json:"slug"`
	Category string `json:"category"`
}

func (r CreatePostRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Text, validation.Required),
		validation.Field(&r.Slug, validation.Required, validation.Match(slugPattern)),
		validation.Field(&r.Category, validation.Required, validation.Match(slugPattern)),
	)
}

type CreateNoteRequest struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

func (r CreateNoteRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Text, validation.Required),
	)
}

type ContentListResponse struct {
	Data []model.Content `json:"data"`
}
