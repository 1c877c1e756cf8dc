package httpapi

import (
	"errors"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/yourorg/branch-search/view"
	"github.com/yourorg/branch-search/widget"
)

const (
	sessionCookie = "branch_session"
	listPath      = "/widget/list"
	detailPath    = "/widget/detail"
)

type WidgetDeps struct {
	Sessions     *Sessions
	Title        string
	SecureCookie bool
}

// RegisterWidget serves the widget page and the fragments its script swaps
// into the result container.
func RegisterWidget(r chi.Router, d WidgetDeps) {
	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		sess := d.startSession(w, req)
		// failures are already logged and rendered as a notice
		_ = sess.Controller.Init(req.Context())
		content, value := sess.View.Snapshot()
		render.HTML(w, req, view.Shell(view.ShellData{
			Title:       d.Title,
			SearchValue: value,
			Content:     template.HTML(content),
			ListPath:    listPath,
			DetailPath:  detailPath,
		}))
	})

	r.Get(listPath, func(w http.ResponseWriter, req *http.Request) {
		sess, ok := d.session(req)
		if !ok {
			sessionGone(w, req)
			return
		}
		err := sess.Controller.Input(req.Context(), req.URL.Query().Get("q"))
		writeFragment(w, req, sess, err)
	})

	r.Get(detailPath+"/{code}", func(w http.ResponseWriter, req *http.Request) {
		sess, ok := d.session(req)
		if !ok {
			sessionGone(w, req)
			return
		}
		err := sess.Controller.ClickCard(req.Context(), chi.URLParam(req, "code"))
		if errors.Is(err, view.ErrNotBound) {
			// the card is from a list that has since been replaced
			render.Status(req, http.StatusNotFound)
			render.HTML(w, req, "")
			return
		}
		if err == nil {
			_, value := sess.View.Snapshot()
			w.Header().Set("X-Search-Value", value)
		}
		writeFragment(w, req, sess, err)
	})
}

func writeFragment(w http.ResponseWriter, req *http.Request, sess *Session, err error) {
	switch {
	case errors.Is(err, widget.ErrSuperseded):
		render.NoContent(w, req)
		return
	case err != nil:
		render.Status(req, http.StatusBadGateway)
	}
	w.Header().Set("X-Widget-State", sess.Controller.State().String())
	content, _ := sess.View.Snapshot()
	render.HTML(w, req, content)
}

func (d WidgetDeps) session(req *http.Request) (*Session, bool) {
	c, err := req.Cookie(sessionCookie)
	if err != nil {
		return nil, false
	}
	return d.Sessions.Get(c.Value)
}

// startSession reuses the caller's session or opens a new one. Only the page
// load opens sessions; fragment requests must already hold one.
func (d WidgetDeps) startSession(w http.ResponseWriter, req *http.Request) *Session {
	if sess, ok := d.session(req); ok {
		return sess
	}
	sess := d.Sessions.Create()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    sess.ID,
		Path:     "/",
		HttpOnly: true,
		Secure:   d.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	return sess
}

// sessionGone tells the page script to reload and pick up a fresh session.
func sessionGone(w http.ResponseWriter, req *http.Request) {
	render.Status(req, http.StatusGone)
	render.HTML(w, req, "")
}
