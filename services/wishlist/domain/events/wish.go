package events

import (
	"time"

	"github.com/google/uuid"
)

// Watermill topics published by the wishlist record store.
const (
	TopicWishCreated = "wish.created"
	TopicWishUpdated = "wish.updated"
	TopicWishDeleted = "wish.deleted"
)

// Topics lists every wishlist topic, in lifecycle order.
var Topics = []string{TopicWishCreated, TopicWishUpdated, TopicWishDeleted}

// CurrentVersion is the schema version stamped on new events.
const CurrentVersion = 1

// WishEvent is published in the same transaction as the mutation it
// describes. Name and Item are empty for wish.deleted.
type WishEvent struct {
	EventID    uuid.UUID `json:"event_id"` // deduplication key for consumers
	Version    int       `json:"version"`
	WishID     uuid.UUID `json:"wish_id"`
	Name       string    `json:"name,omitempty"`
	Item       string    `json:"item,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// ActionForTopic maps a topic to the activity verb recorded by consumers.
func ActionForTopic(topic string) (string, bool) {
	switch topic {
	case TopicWishCreated:
		return "created", true
	case TopicWishUpdated:
		return "updated", true
	case TopicWishDeleted:
		return "deleted", true
	default:
		return "", false
	}
}
