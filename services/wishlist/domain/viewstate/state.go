// Package viewstate holds the wishlist page's state and its transitions.
//
// Every transition is a pure function: it takes a State by value and returns
// the next State. Nothing here talks to the record store; the controller
// sequences transitions around store calls.
package viewstate

import (
	"slices"

	"github.com/google/uuid"

	"github.com/ghuser/wishlist/services/wishlist/domain/models"
	domainsvcs "github.com/ghuser/wishlist/services/wishlist/domain/services"
)

// State is the page state: the loaded record set, the two pending create
// fields, the row being edited with its two pending edit fields, and the
// loading flag. At most one row is edited at a time.
type State struct {
	Wishes []models.Wish

	NewName string
	NewItem string

	EditingID *uuid.UUID
	EditName  string
	EditItem  string

	Loading bool
}

// Initial is the state of a freshly opened page: nothing loaded yet.
func Initial() State {
	return State{Loading: true}
}

// StartLoad raises the loading flag.
func StartLoad(s State) State {
	s.Loading = true
	return s
}

// FinishLoad replaces the record set with wishes and clears the loading flag.
func FinishLoad(s State, wishes []models.Wish) State {
	s.Wishes = slices.Clone(wishes)
	s.Loading = false
	return s
}

// FailLoad clears the loading flag and keeps the last loaded record set.
func FailLoad(s State) State {
	s.Loading = false
	return s
}

// SetPending records what the user typed into the create form. Values are
// kept verbatim; trimming happens only on submission.
func SetPending(s State, name, item string) State {
	s.NewName = name
	s.NewItem = item
	return s
}

// ClearPending empties the create form.
func ClearPending(s State) State {
	s.NewName = ""
	s.NewItem = ""
	return s
}

// CreateDraft returns the draft to insert, or ok=false when the pending
// fields are blank after trimming (or otherwise invalid).
func CreateDraft(s State) (models.WishDraft, bool) {
	d, err := domainsvcs.PrepareDraft(s.NewName, s.NewItem)
	if err != nil {
		return models.WishDraft{}, false
	}
	return d, true
}

// BeginEdit puts w's row in edit mode, seeding the edit fields from its
// current values. Any other row's unsaved edit is dropped.
func BeginEdit(s State, w models.Wish) State {
	id := w.ID
	s.EditingID = &id
	s.EditName = w.Name.String()
	s.EditItem = w.Item.String()
	return s
}

// SetEditFields records what the user typed into the edit form.
func SetEditFields(s State, name, item string) State {
	s.EditName = name
	s.EditItem = item
	return s
}

// EditDraft returns the edit target and the draft to save, or ok=false when
// no row is being edited or an edit field is blank after trimming.
func EditDraft(s State) (uuid.UUID, models.WishDraft, bool) {
	if s.EditingID == nil {
		return uuid.Nil, models.WishDraft{}, false
	}
	d, err := domainsvcs.PrepareDraft(s.EditName, s.EditItem)
	if err != nil {
		return uuid.Nil, models.WishDraft{}, false
	}
	return *s.EditingID, d, true
}

// CancelEdit leaves edit mode and clears the edit fields.
func CancelEdit(s State) State {
	s.EditingID = nil
	s.EditName = ""
	s.EditItem = ""
	return s
}

// IsEditing reports whether the row with id is in edit mode.
func IsEditing(s State, id uuid.UUID) bool {
	return s.EditingID != nil && *s.EditingID == id
}

// Find returns the loaded wish with id.
func Find(s State, id uuid.UUID) (models.Wish, bool) {
	i := slices.IndexFunc(s.Wishes, func(w models.Wish) bool { return w.ID == id })
	if i < 0 {
		return models.Wish{}, false
	}
	return s.Wishes[i], true
}
