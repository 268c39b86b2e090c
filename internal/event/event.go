package event

import (
	"encoding/json"
	"fmt"
)

type Kind string

const (
	KindPostCreated       Kind = "post.created"
	KindNoteCreated       Kind = "note.created"
	KindSubscriberChanged Kind = "subscriber.changed"
)

// Scope selects which listeners see an event. Scopes are bit flags so an
// event can target several audiences at once.
type Scope int

const (
	ScopeSystem Scope = 1 << iota
	ScopeVisitor
	ScopeAdmin
)

type Event struct {
	Kind    Kind            `json:"kind"`
	Scope   Scope           `json:"scope"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

func New(kind Kind, scope Scope, payload any) (Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Event{}, fmt.Errorf("encode %s payload: %w", kind, err)
	}
	return Event{Kind: kind, Scope: scope, Payload: data}, nil
}

func (e Event) Decode(v any) error {
	if err := json.Unmarshal(e.Payload, v); err != nil {
		return fmt.Errorf("decode %s payload: %w", e.Kind, err)
	}
	return nil
}
