package model

import "time"

type Subscriber struct {
	ID          int64     `json:"id"`
	Email       string    `json:"email"`
	Subscribe   int       `json:"subscribe"`
	CancelToken string    `json:"-"`
	CreatedAt   time.Time `json:"created_at"`
}
