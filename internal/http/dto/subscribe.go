package dto

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

type SubscribeRequest struct {
	Email string   `json:"email"`
	Types []string `json:"types"`
}

// Validate checks shape only; type names are checked by the registry.
func (r SubscribeRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, validation.Length(3, 254), is.EmailFormat),
		validation.Field(&r.Types, validation.Required),
	)
}

type UnsubscribeQuery struct {
	Email       string `form:"email"`
	CancelToken string `form:"cancelToken"`
}

func (q UnsubscribeQuery) Validate() error {
	return validation.ValidateStruct(&q,
		validation.Field(&q.Email, validation.Required),
		validation.Field(&q.CancelToken, validation.Required),
	)
}

type SubscribeStatusResponse struct {
	Email     string   `json:"email"`
	Subscribe int      `json:"subscribe"`
	Types     []string `json:"types"`
}
