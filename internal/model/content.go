package model

import "time"

// Content is a published post or note.
type Content struct {
	ID        int64     `json:"id"`
	Kind      string    `json:"kind"`
	Nid       int64     `json:"nid,omitempty"`
	Slug      string    `json:"slug,omitempty"`
	Category  string    `json:"category,omitempty"`
	Title     string    `json:"title"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

type Owner struct {
	Name   string `json:"name"`
	Avatar string `json:"avatar,omitempty"`
}
