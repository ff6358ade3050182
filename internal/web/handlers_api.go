package web

import (
	"net/http"

	"github.com/JonMunkholm/StandardsTable/internal/core"
	"github.com/go-chi/chi/v5"
)

// recordsResponse is the body of GET /api/records.
type recordsResponse struct {
	Query   string                `json:"query"`
	Country string                `json:"country"`
	Total   int                   `json:"total"`
	Count   int                   `json:"count"`
	Records []core.StandardRecord `json:"records"`
}

// handleHealth reports liveness and dataset size.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"records": s.service.Dataset().Len(),
		"views":   s.service.Views().Len(),
		"matcher": s.service.MatcherName(),
		"dataset": s.fingerprint,
	})
}

// handleAPIRecords filters the dataset without touching any view.
func (s *Server) handleAPIRecords(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	country := r.URL.Query().Get("country")

	rows := s.service.Query(q, country)
	if rows == nil {
		rows = []core.StandardRecord{}
	}
	writeJSON(w, http.StatusOK, recordsResponse{
		Query:   q,
		Country: country,
		Total:   s.service.Dataset().Len(),
		Count:   len(rows),
		Records: rows,
	})
}

// handleAPIRecord returns one record.
func (s *Server) handleAPIRecord(w http.ResponseWriter, r *http.Request) {
	rec, err := s.service.Record(chi.URLParam(r, "recordID"))
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// handleAPIFacets lists jurisdiction countries with record counts.
func (s *Server) handleAPIFacets(w http.ResponseWriter, r *http.Request) {
	facets := s.service.Facets()
	if facets == nil {
		facets = []core.FacetValue{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"field":  core.FieldJurisdictionCountry,
		"values": facets,
	})
}

// handleAPIExport exports the records named in a JSON {"ids": [...]} body.
func (s *Server) handleAPIExport(w http.ResponseWriter, r *http.Request) {
	ids, err := readIDs(w, r)
	if err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}

	ctx := WithRequestMetadata(r.Context(), r)
	exp := &HTTPExporter{W: w}
	_, err = s.service.ExportIDs(ctx, ids, exp)
	s.finishExport(w, r, exp, err)
}
