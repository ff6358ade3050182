package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/JonMunkholm/StandardsTable/internal/core"
	"github.com/JonMunkholm/StandardsTable/internal/logging"
	"github.com/JonMunkholm/StandardsTable/internal/markdown"
	"github.com/JonMunkholm/StandardsTable/internal/theme"
	"github.com/JonMunkholm/StandardsTable/internal/web/templates"
	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"
)

// maxFormBytes bounds event request bodies.
const maxFormBytes = 1 << 20

// selectionRequest is the JSON form of a selection or export body.
type selectionRequest struct {
	IDs []string `json:"ids"`
}

// handlePage starts a fresh view and renders the full page.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	v := s.service.NewView()
	st := v.State()

	logging.FromContext(r.Context()).Debug("view created",
		"view_id", v.ID(),
		"views_live", s.service.Views().Len(),
	)

	s.render(w, r, http.StatusOK, templates.Page(templates.PageData{
		Title:   pageTitle,
		Palette: theme.NewPalette(st.Mode),
		Table:   s.tableData(st),
	}))
}

// handleQuery replaces the view's search query.
func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	v, ok := s.view(w, r)
	if !ok {
		return
	}
	if err := parseForm(w, r); err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}
	st := v.SetQuery(r.PostForm.Get("q"))
	s.render(w, r, http.StatusOK, templates.Table(s.tableData(st)))
}

// handleFacet applies a click on a jurisdiction badge.
func (s *Server) handleFacet(w http.ResponseWriter, r *http.Request) {
	v, ok := s.view(w, r)
	if !ok {
		return
	}
	if err := parseForm(w, r); err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}
	st := v.ToggleFacet(r.PostForm.Get("country"))
	s.render(w, r, http.StatusOK, templates.Table(s.tableData(st)))
}

// handleSelection replaces the view's selection with the reported ids.
func (s *Server) handleSelection(w http.ResponseWriter, r *http.Request) {
	v, ok := s.view(w, r)
	if !ok {
		return
	}
	ids, err := readIDs(w, r)
	if err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}
	st := v.ReplaceSelection(ids)
	writeJSON(w, http.StatusOK, map[string]int{"selected": st.Selection.Len()})
}

// handleViewExport downloads the view's selected rows as CSV. An empty
// selection answers 422 with the notice and changes nothing.
func (s *Server) handleViewExport(w http.ResponseWriter, r *http.Request) {
	ctx := WithRequestMetadata(r.Context(), r)
	exp := &HTTPExporter{W: w}

	_, err := s.service.ExportView(ctx, chi.URLParam(r, "viewID"), exp)
	s.finishExport(w, r, exp, err)
}

// handleTheme flips the view's theme mode and returns the new palette.
func (s *Server) handleTheme(w http.ResponseWriter, r *http.Request) {
	v, ok := s.view(w, r)
	if !ok {
		return
	}
	st := v.ToggleTheme()
	s.render(w, r, http.StatusOK, templates.PaletteStyle(theme.NewPalette(st.Mode)))
}

// handleRecord renders the detail panel for one record.
func (s *Server) handleRecord(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.view(w, r); !ok {
		return
	}
	rec, err := s.service.Record(chi.URLParam(r, "recordID"))
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	description, err := markdown.ToHTML(rec.Description)
	if err != nil {
		respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	abstract, err := markdown.ToHTML(rec.Abstract)
	if err != nil {
		respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	s.render(w, r, http.StatusOK, templates.RecordDetail(templates.RecordData{
		Record:      rec,
		Columns:     core.Columns(),
		Description: description,
		Abstract:    abstract,
	}))
}

// view resolves the {viewID} URL parameter, writing a 404 if it is unknown.
func (s *Server) view(w http.ResponseWriter, r *http.Request) (*core.View, bool) {
	v, err := s.service.View(chi.URLParam(r, "viewID"))
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return nil, false
	}
	return v, true
}

func (s *Server) tableData(st core.ViewState) templates.TableData {
	return templates.TableData{
		ViewID:    st.ID,
		Query:     st.Query,
		Facet:     st.Facet,
		Columns:   core.Columns(),
		Rows:      s.service.Rows(st),
		Total:     s.service.Dataset().Len(),
		Selection: st.Selection,
		Facets:    s.service.Facets(),
	}
}

// finishExport reports an export error unless the download already started.
func (s *Server) finishExport(w http.ResponseWriter, r *http.Request, exp *HTTPExporter, err error) {
	if err == nil {
		return
	}
	if exp.Sent() {
		logging.FromContext(r.Context()).Warn("export download interrupted", "error", err)
		return
	}
	respondError(w, r, err, statusFor(err))
}

// render writes an HTML component with status.
func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := c.Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render failed", "error", err)
	}
}

func parseForm(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		return errors.Join(errInvalidBody, err)
	}
	return nil
}

// readIDs reads row ids from a JSON body ({"ids": [...]}) or from repeated
// "id" form fields.
func readIDs(w http.ResponseWriter, r *http.Request) ([]string, error) {
	if strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		var req selectionRequest
		dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxFormBytes))
		if err := dec.Decode(&req); err != nil {
			return nil, errors.Join(errInvalidBody, err)
		}
		return req.IDs, nil
	}
	if err := parseForm(w, r); err != nil {
		return nil, err
	}
	return r.PostForm["id"], nil
}
