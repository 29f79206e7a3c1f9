package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	domainevents "github.com/ghuser/wishlist/services/wishlist/domain/events"
	"github.com/ghuser/wishlist/services/wishlist/domain/repositories"
)

// ErrMalformedEvent marks a message that can never be processed. Consumers
// should acknowledge it instead of retrying.
var ErrMalformedEvent = errors.New("malformed wish event")

// ActivityService turns wish events into activity trail entries.
type ActivityService struct {
	repo repositories.ActivityRepository
}

// NewActivityService returns an ActivityService backed by repo.
func NewActivityService(repo repositories.ActivityRepository) *ActivityService {
	return &ActivityService{repo: repo}
}

// Apply records the event in payload received on topic. It reports
// inserted=false when the event was already recorded.
func (s *ActivityService) Apply(ctx context.Context, topic string, payload []byte) (inserted bool, err error) {
	action, ok := domainevents.ActionForTopic(topic)
	if !ok {
		return false, fmt.Errorf("%w: unknown topic %q", ErrMalformedEvent, topic)
	}

	var evt domainevents.WishEvent
	if err := json.Unmarshal(payload, &evt); err != nil {
		return false, fmt.Errorf("%w: %w", ErrMalformedEvent, err)
	}
	if evt.EventID == uuid.Nil || evt.WishID == uuid.Nil {
		return false, fmt.Errorf("%w: missing event_id or wish_id", ErrMalformedEvent)
	}
	if evt.Version < 1 || evt.Version > domainevents.CurrentVersion {
		return false, fmt.Errorf("%w: unsupported version %d", ErrMalformedEvent, evt.Version)
	}

	inserted, err = s.repo.Record(ctx, repositories.ActivityEntry{
		EventID:    evt.EventID,
		WishID:     evt.WishID,
		Action:     action,
		Name:       evt.Name,
		Item:       evt.Item,
		OccurredAt: evt.OccurredAt,
	})
	if err != nil {
		return false, fmt.Errorf("record %s: %w", topic, err)
	}
	return inserted, nil
}

// History returns what happened to the wish with id, oldest first.
func (s *ActivityService) History(ctx context.Context, id uuid.UUID) ([]repositories.ActivityEntry, error) {
	entries, err := s.repo.History(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("activity for %s: %w", id, err)
	}
	return entries, nil
}
