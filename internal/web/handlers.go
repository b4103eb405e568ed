package web

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/shiftboard/internal/board"
	"github.com/JonMunkholm/shiftboard/internal/cache"
	"github.com/JonMunkholm/shiftboard/internal/core"
	"github.com/JonMunkholm/shiftboard/internal/grid"
	"github.com/JonMunkholm/shiftboard/internal/logging"
	"github.com/JonMunkholm/shiftboard/internal/web/templates"
)

// PageResponse is the JSON form of a page.
type PageResponse struct {
	Key       string         `json:"key"`
	Title     string         `json:"title"`
	TestID    string         `json:"testId"`
	CacheKey  core.CacheKey  `json:"cacheKey"`
	Status    cache.Status   `json:"status"`
	Error     *ErrorResponse `json:"error,omitempty"`
	UpdatedAt *time.Time     `json:"updatedAt,omitempty"`
	Grid      *grid.Grid     `json:"grid,omitempty"`
}

func newPageResponse(v board.View, withGrid bool) PageResponse {
	resp := PageResponse{
		Key:      v.Page.Key,
		Title:    v.Page.Title,
		TestID:   v.Page.TestID,
		CacheKey: v.Page.CacheKey(),
		Status:   v.Snapshot.Status,
	}
	if v.Snapshot.Err != nil {
		resp.Error = newErrorResponse(core.MapError(v.Snapshot.Err))
	}
	if !v.Snapshot.UpdatedAt.IsZero() {
		t := v.Snapshot.UpdatedAt
		resp.UpdatedAt = &t
	}
	if withGrid {
		g := v.Grid
		resp.Grid = &g
	}
	return resp
}

// handleIndex redirects to the first page.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	pages := s.board.Pages()
	if len(pages) == 0 {
		http.NotFound(w, r)
		return
	}
	http.Redirect(w, r, "/"+pages[0].Key, http.StatusSeeOther)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"pages":  len(s.board.Pages()),
	})
}

// handleListPages lists every page with its fetch status.
func (s *Server) handleListPages(w http.ResponseWriter, r *http.Request) {
	defs := s.board.Pages()
	out := make([]PageResponse, 0, len(defs))
	for _, def := range defs {
		v, err := s.board.View(def.Key)
		if err != nil {
			s.respondError(w, r, err)
			return
		}
		out = append(out, newPageResponse(v, false))
	}
	writeJSON(w, http.StatusOK, out)
}

// handlePageJSON returns a page's grid and status.
func (s *Server) handlePageJSON(w http.ResponseWriter, r *http.Request) {
	v, err := s.board.View(chi.URLParam(r, "page"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newPageResponse(v, true))
}

// handlePage renders a page; HTMX requests get just its section.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	v, err := s.board.View(chi.URLParam(r, "page"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.renderPage(w, r, v)
}

// handleRefetch reloads a page's rows and waits for them.
func (s *Server) handleRefetch(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "page")
	if err := s.board.Refetch(key); err != nil {
		s.respondError(w, r, err)
		return
	}

	v, err := s.board.Wait(r.Context(), key)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	switch {
	case isHTMX(r):
		s.renderSection(w, r, v)
	case wantsJSON(r):
		writeJSON(w, http.StatusOK, newPageResponse(v, true))
	default:
		http.Redirect(w, r, "/"+key, http.StatusSeeOther)
	}
}

// handleAction activates an action control for the record named by the
// "row" form field. A successful mutation invalidates the page, so the
// response waits for the refetch to settle.
func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "page")
	control := chi.URLParam(r, "control")
	rowID := r.FormValue(grid.RowFormField)
	ctx := r.Context()

	if err := s.board.Activate(ctx, key, control, rowID); err != nil {
		s.respondError(w, r, err)
		return
	}
	logging.FromContext(ctx).Info("action completed", "page", key, "control", control, "row", rowID)

	v, err := s.board.Wait(ctx, key)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	switch {
	case isHTMX(r):
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := v.Grid.Component(actionPath(key)).Render(ctx, w); err != nil {
			logging.FromContext(ctx).Error("render grid", "page", key, "error", err)
		}
	case wantsJSON(r):
		writeJSON(w, http.StatusOK, newPageResponse(v, true))
	default:
		http.Redirect(w, r, "/"+key, http.StatusSeeOther)
	}
}

func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, v board.View) {
	if isHTMX(r) {
		s.renderSection(w, r, v)
		return
	}

	nav := make([]templates.NavItem, 0)
	for _, def := range s.board.Pages() {
		nav = append(nav, templates.NavItem{
			Title:  def.Title,
			Href:   "/" + def.Key,
			Active: def.Key == v.Page.Key,
		})
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	page := templates.Layout(v.Page.Title, nav, templates.PageSection(pageData(v)))
	if err := page.Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render page", "page", v.Page.Key, "error", err)
	}
}

func (s *Server) renderSection(w http.ResponseWriter, r *http.Request, v board.View) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.PageSection(pageData(v)).Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render section", "page", v.Page.Key, "error", err)
	}
}

func pageData(v board.View) templates.PageData {
	data := templates.PageData{
		Key:         v.Page.Key,
		Title:       v.Page.Title,
		Status:      string(v.Snapshot.Status),
		UpdatedAt:   v.Snapshot.UpdatedAt,
		Grid:        v.Grid,
		ActionPath:  actionPath(v.Page.Key),
		RefetchPath: "/" + v.Page.Key + "/refetch",
	}
	if v.Snapshot.Err != nil {
		msg := core.MapError(v.Snapshot.Err)
		data.Error = &msg
	}
	return data
}

func actionPath(key string) string {
	return "/" + key + "/actions"
}
