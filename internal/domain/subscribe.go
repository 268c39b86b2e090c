package domain

import (
	"errors"
	"sort"
)

// Subscription preference bits. A subscriber's bitmask is the OR of the
// bits for every content type they opted into.
const (
	SubscribePostCreateBit   = 1 << 0
	SubscribeNoteCreateBit   = 1 << 1
	SubscribeSayCreateBit    = 1 << 2
	SubscribeRecentCreateBit = 1 << 3

	SubscribeAllBit = SubscribePostCreateBit | SubscribeNoteCreateBit | SubscribeSayCreateBit | SubscribeRecentCreateBit
)

const (
	SubscribeTypePost   = "post_c"
	SubscribeTypeNote   = "note_c"
	SubscribeTypeSay    = "say_c"
	SubscribeTypeRecent = "recently_c"
	SubscribeTypeAll    = "all"
)

var (
	ErrInvalidSubscribeType = errors.New("subscribe type is not valid")
	ErrSubscriberNotFound   = errors.New("subscriber not found")
)

var subscribeTypeToBit = map[string]int{
	SubscribeTypePost:   SubscribePostCreateBit,
	SubscribeTypeNote:   SubscribeNoteCreateBit,
	SubscribeTypeSay:    SubscribeSayCreateBit,
	SubscribeTypeRecent: SubscribeRecentCreateBit,
	SubscribeTypeAll:    SubscribeAllBit,
}

// SubscribeTypeToBit maps a subscription type name to its bit.
func SubscribeTypeToBit(name string) (int, error) {
	bit, ok := subscribeTypeToBit[name]
	if !ok {
		return 0, ErrInvalidSubscribeType
	}
	return bit, nil
}

// SubscribeTypesToBitmask ORs the bits of every named type. An empty list is
// rejected, so is any unknown name.
func SubscribeTypesToBitmask(names []string) (int, error) {
	if len(names) == 0 {
		return 0, ErrInvalidSubscribeType
	}
	mask := 0
	for _, name := range names {
		bit, err := SubscribeTypeToBit(name)
		if err != nil {
			return 0, err
		}
		mask |= bit
	}
	return mask, nil
}

// SubscribeBitmaskToTypes is the inverse of SubscribeTypesToBitmask, without
// the "all" alias.
func SubscribeBitmaskToTypes(mask int) []string {
	var names []string
	for name, bit := range subscribeTypeToBit {
		if name == SubscribeTypeAll {
			continue
		}
		if mask&bit != 0 {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

func IsValidSubscribeBitmask(mask int) bool {
	return mask > 0 && mask&^SubscribeAllBit == 0
}
