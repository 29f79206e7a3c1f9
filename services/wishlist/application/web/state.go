package web

import (
	"github.com/google/uuid"
	"github.com/gorilla/sessions"

	"github.com/ghuser/wishlist/services/wishlist/domain/viewstate"
)

// Session value keys. Only strings are stored so the gob payload needs no
// registered types.
const (
	keyNewName   = "new_name"
	keyNewItem   = "new_item"
	keyEditingID = "editing_id"
	keyEditName  = "edit_name"
	keyEditItem  = "edit_item"
)

// applySession copies the form and edit state kept in sess onto s.
// The record set is never stored in the session.
func applySession(s viewstate.State, sess *sessions.Session) viewstate.State {
	s = viewstate.SetPending(s, stringValue(sess, keyNewName), stringValue(sess, keyNewItem))
	if id, err := uuid.Parse(stringValue(sess, keyEditingID)); err == nil {
		s.EditingID = &id
		s = viewstate.SetEditFields(s, stringValue(sess, keyEditName), stringValue(sess, keyEditItem))
	}
	return s
}

// storeSession writes the form and edit state of s into sess.
func storeSession(sess *sessions.Session, s viewstate.State) {
	sess.Values[keyNewName] = s.NewName
	sess.Values[keyNewItem] = s.NewItem
	if s.EditingID == nil {
		delete(sess.Values, keyEditingID)
		delete(sess.Values, keyEditName)
		delete(sess.Values, keyEditItem)
		return
	}
	sess.Values[keyEditingID] = s.EditingID.String()
	sess.Values[keyEditName] = s.EditName
	sess.Values[keyEditItem] = s.EditItem
}

func stringValue(sess *sessions.Session, key string) string {
	v, _ := sess.Values[key].(string)
	return v
}
