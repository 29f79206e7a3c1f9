// Package web serves the server-rendered wishlist page. Each button is a form
// post that runs one controller operation, keeps the view state in the
// session and redirects back to the page.
package web

import (
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/sessions"

	"github.com/ghuser/wishlist/pkg/httpx"
	"github.com/ghuser/wishlist/pkg/logger"
	"github.com/ghuser/wishlist/services/wishlist/application/controller"
	"github.com/ghuser/wishlist/services/wishlist/domain/viewstate"
)

const (
	// Title is the page heading.
	Title = "Shared Public Wishlist"

	sessionName = "wishlist"
	pagePath    = "/wishlist"
)

// Page handles the wishlist page routes.
type Page struct {
	ctrl     *controller.Controller
	sessions sessions.Store
	log      logger.Logger
	tmpl     *template.Template
}

// NewPage parses the embedded templates and returns a Page.
func NewPage(ctrl *controller.Controller, store sessions.Store, log logger.Logger) (*Page, error) {
	tmpl, err := parseTemplates()
	if err != nil {
		return nil, err
	}
	return &Page{ctrl: ctrl, sessions: store, log: log, tmpl: tmpl}, nil
}

// Routes registers the page, its form actions and the stylesheet on r.
func (p *Page) Routes(r chi.Router) {
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, pagePath, http.StatusFound)
	})
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(StaticFS()))))

	r.Route(pagePath, func(r chi.Router) {
		r.Get("/", p.show)
		r.Post("/", p.create)
		r.Post("/edit", p.saveEdit)
		r.Post("/edit/cancel", p.cancelEdit)
		r.Post("/{id}/edit", p.beginEdit)
		r.Post("/{id}/delete", p.delete)
	})
}

type row struct {
	ID       string
	Name     string
	Item     string
	Editing  bool
	EditName string
	EditItem string
}

type pageData struct {
	Title   string
	NewName string
	NewItem string
	Rows    []row
}

func newPageData(s viewstate.State) pageData {
	data := pageData{
		Title:   Title,
		NewName: s.NewName,
		NewItem: s.NewItem,
		Rows:    make([]row, 0, len(s.Wishes)),
	}
	for _, w := range s.Wishes {
		r := row{ID: w.ID.String(), Name: w.Name.String(), Item: w.Item.String()}
		if viewstate.IsEditing(s, w.ID) {
			r.Editing = true
			r.EditName = s.EditName
			r.EditItem = s.EditItem
		}
		data.Rows = append(data.Rows, r)
	}
	return data
}

func (p *Page) show(w http.ResponseWriter, r *http.Request) {
	_, s := p.restore(r)
	s = p.ctrl.Load(r.Context(), s)

	if err := httpx.HTML(w, http.StatusOK, p.tmpl, "layout", newPageData(s)); err != nil {
		p.log.ErrorContext(r.Context(), "render wishlist page", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func (p *Page) create(w http.ResponseWriter, r *http.Request) {
	sess, s := p.restore(r)
	s = viewstate.SetPending(s, r.PostFormValue("name"), r.PostFormValue("item"))
	s = p.ctrl.Create(r.Context(), s)
	p.finish(w, r, sess, s)
}

func (p *Page) delete(w http.ResponseWriter, r *http.Request) {
	sess, s := p.restore(r)
	if id, err := uuid.Parse(chi.URLParam(r, "id")); err == nil {
		s = p.ctrl.Delete(r.Context(), s, id)
	}
	p.finish(w, r, sess, s)
}

func (p *Page) beginEdit(w http.ResponseWriter, r *http.Request) {
	sess, s := p.restore(r)
	if id, err := uuid.Parse(chi.URLParam(r, "id")); err == nil {
		s = p.ctrl.Load(r.Context(), s)
		if wish, ok := viewstate.Find(s, id); ok {
			s = p.ctrl.BeginEdit(s, wish)
		}
	}
	p.finish(w, r, sess, s)
}

func (p *Page) saveEdit(w http.ResponseWriter, r *http.Request) {
	sess, s := p.restore(r)
	s = viewstate.SetEditFields(s, r.PostFormValue("name"), r.PostFormValue("item"))
	s = p.ctrl.SaveEdit(r.Context(), s)
	p.finish(w, r, sess, s)
}

func (p *Page) cancelEdit(w http.ResponseWriter, r *http.Request) {
	sess, s := p.restore(r)
	s = p.ctrl.CancelEdit(s)
	p.finish(w, r, sess, s)
}

// restore rebuilds the view state from the last good record set and the
// session. A session that cannot be read is replaced by an empty one.
func (p *Page) restore(r *http.Request) (*sessions.Session, viewstate.State) {
	sess, err := p.sessions.Get(r, sessionName)
	if err != nil {
		p.log.WarnContext(r.Context(), "session unavailable", "error", err)
	}
	if sess == nil {
		sess = sessions.NewSession(p.sessions, sessionName)
		sess.Options = &sessions.Options{Path: "/", HttpOnly: true, SameSite: http.SameSiteLaxMode}
	}
	s := p.ctrl.Restore(viewstate.Initial())
	return sess, applySession(s, sess)
}

// finish persists s and redirects to the page.
func (p *Page) finish(w http.ResponseWriter, r *http.Request, sess *sessions.Session, s viewstate.State) {
	storeSession(sess, s)
	if err := sess.Save(r, w); err != nil {
		p.log.WarnContext(r.Context(), "session not saved", "error", err)
	}
	httpx.SeeOther(w, r, pagePath)
}
