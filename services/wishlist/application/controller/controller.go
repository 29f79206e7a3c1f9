// Package controller drives the wishlist page: it sequences the pure
// viewstate transitions around calls to the record store.
//
// Every store failure is logged and swallowed. The page never shows an error;
// a failed action simply appears to do nothing. After every successful
// mutation the whole record set is reloaded from the store.
package controller

import (
	"context"
	"errors"
	"slices"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/ghuser/wishlist/pkg/logger"
	"github.com/ghuser/wishlist/pkg/telemetry"
	wishdomain "github.com/ghuser/wishlist/services/wishlist/domain"
	"github.com/ghuser/wishlist/services/wishlist/domain/models"
	"github.com/ghuser/wishlist/services/wishlist/domain/viewstate"
)

// Action names reported to the ActionRecorder.
const (
	ActionLoad   = "load"
	ActionCreate = "create"
	ActionDelete = "delete"
	ActionSave   = "save"
)

// Store is the subset of the wish service the controller needs.
type Store interface {
	List(ctx context.Context) ([]models.Wish, error)
	Create(ctx context.Context, name, item string) (models.Wish, error)
	Update(ctx context.Context, id uuid.UUID, name, item string) (models.Wish, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ActionRecorder counts controller actions by outcome.
type ActionRecorder interface {
	RecordAction(ctx context.Context, action, outcome string)
}

type nopRecorder struct{}

func (nopRecorder) RecordAction(context.Context, string, string) {}

// snapshot is a successfully loaded record set tagged with the sequence
// number its load started with.
type snapshot struct {
	seq    uint64
	wishes []models.Wish
}

// Controller implements the page operations. It is safe for concurrent use;
// the only state it keeps is the last record set loaded successfully.
type Controller struct {
	store    Store
	log      logger.Logger
	recorder ActionRecorder
	loadSeq  atomic.Uint64
	lastGood atomic.Pointer[snapshot]
}

// New returns a Controller. recorder may be nil.
func New(store Store, log logger.Logger, recorder ActionRecorder) *Controller {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &Controller{store: store, log: log, recorder: recorder}
}

// Restore seeds s with the last record set any request loaded successfully,
// so a page whose own Load fails still shows the stale list.
func (c *Controller) Restore(s viewstate.State) viewstate.State {
	if last := c.lastGood.Load(); last != nil {
		s = viewstate.FinishLoad(s, last.wishes)
	}
	return s
}

// Load fetches every wish newest first and replaces the record set. On
// failure the previous set is kept and nothing is retried.
func (c *Controller) Load(ctx context.Context, s viewstate.State) viewstate.State {
	s = viewstate.StartLoad(s)
	seq := c.loadSeq.Add(1)

	wishes, err := c.store.List(ctx)
	if err != nil {
		c.log.ErrorContext(ctx, "error fetching wishes", "error", err)
		c.recorder.RecordAction(ctx, ActionLoad, telemetry.OutcomeFailed)
		return viewstate.FailLoad(s)
	}

	c.remember(seq, wishes)
	c.recorder.RecordAction(ctx, ActionLoad, telemetry.OutcomeOK)
	return viewstate.FinishLoad(s, wishes)
}

// remember keeps wishes as the last good set unless a load that started later
// has already stored its own.
func (c *Controller) remember(seq uint64, wishes []models.Wish) {
	next := &snapshot{seq: seq, wishes: slices.Clone(wishes)}
	for {
		cur := c.lastGood.Load()
		if cur != nil && cur.seq > seq {
			return
		}
		if c.lastGood.CompareAndSwap(cur, next) {
			return
		}
	}
}

// Create inserts the pending wish. Blank fields make it a no-op. On success
// the pending fields are cleared and the list reloaded; on failure the
// pending fields are kept.
func (c *Controller) Create(ctx context.Context, s viewstate.State) viewstate.State {
	draft, ok := viewstate.CreateDraft(s)
	if !ok {
		c.recorder.RecordAction(ctx, ActionCreate, telemetry.OutcomeSkipped)
		return s
	}

	w, err := c.store.Create(ctx, draft.Name.String(), draft.Item.String())
	if err != nil {
		c.log.ErrorContext(ctx, "error adding wish", "error", err)
		c.recorder.RecordAction(ctx, ActionCreate, telemetry.OutcomeFailed)
		return s
	}

	c.log.InfoContext(ctx, "wish added", "wish_id", w.ID)
	c.recorder.RecordAction(ctx, ActionCreate, telemetry.OutcomeOK)
	return c.Load(ctx, viewstate.ClearPending(s))
}

// Delete removes the wish with id and reloads the list. No confirmation.
// A wish already removed elsewhere only triggers the reload.
func (c *Controller) Delete(ctx context.Context, s viewstate.State, id uuid.UUID) viewstate.State {
	err := c.store.Delete(ctx, id)
	if errors.Is(err, wishdomain.ErrWishNotFound) {
		c.log.WarnContext(ctx, "wish already deleted", "wish_id", id)
		c.recorder.RecordAction(ctx, ActionDelete, telemetry.OutcomeSkipped)
		return c.Load(ctx, s)
	}
	if err != nil {
		c.log.ErrorContext(ctx, "error deleting wish", "wish_id", id, "error", err)
		c.recorder.RecordAction(ctx, ActionDelete, telemetry.OutcomeFailed)
		return s
	}

	c.log.InfoContext(ctx, "wish deleted", "wish_id", id)
	c.recorder.RecordAction(ctx, ActionDelete, telemetry.OutcomeOK)
	return c.Load(ctx, s)
}

// BeginEdit puts w's row into edit mode. Any other unsaved edit is dropped.
func (c *Controller) BeginEdit(s viewstate.State, w models.Wish) viewstate.State {
	return viewstate.BeginEdit(s, w)
}

// SaveEdit submits the edit fields for the row being edited. It is a no-op
// when no row is being edited or a field is blank. On success edit mode is
// left and the list reloaded; on failure the row stays in edit mode. If the
// row was deleted elsewhere meanwhile, edit mode is left and the list reloaded.
func (c *Controller) SaveEdit(ctx context.Context, s viewstate.State) viewstate.State {
	id, draft, ok := viewstate.EditDraft(s)
	if !ok {
		c.recorder.RecordAction(ctx, ActionSave, telemetry.OutcomeSkipped)
		return s
	}

	_, err := c.store.Update(ctx, id, draft.Name.String(), draft.Item.String())
	if errors.Is(err, wishdomain.ErrWishNotFound) {
		c.log.WarnContext(ctx, "edited wish no longer exists", "wish_id", id)
		c.recorder.RecordAction(ctx, ActionSave, telemetry.OutcomeSkipped)
		return c.Load(ctx, viewstate.CancelEdit(s))
	}
	if err != nil {
		c.log.ErrorContext(ctx, "error updating wish", "wish_id", id, "error", err)
		c.recorder.RecordAction(ctx, ActionSave, telemetry.OutcomeFailed)
		return s
	}

	c.log.InfoContext(ctx, "wish updated", "wish_id", id)
	c.recorder.RecordAction(ctx, ActionSave, telemetry.OutcomeOK)
	return c.Load(ctx, viewstate.CancelEdit(s))
}

// CancelEdit leaves edit mode without touching the store.
func (c *Controller) CancelEdit(s viewstate.State) viewstate.State {
	return viewstate.CancelEdit(s)
}
