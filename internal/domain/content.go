package domain

import "errors"

const (
	ContentKindPost = "post"
	ContentKindNote = "note"
)

var (
	ErrInvalidContentKind = errors.New("invalid content kind")
	ErrContentNotFound    = errors.New("content not found")
)

func IsValidContentKind(value string) bool {
	switch value {
	case ContentKindPost, ContentKindNote:
		return true
	default:
		return false
	}
}

// SubscribeBitForKind returns the subscription bit a subscriber needs to be
// notified about newly created content of the given kind.
func SubscribeBitForKind(kind string) int {
	if kind == ContentKindNote {
		return SubscribeNoteCreateBit
	}
	return SubscribePostCreateBit
}
