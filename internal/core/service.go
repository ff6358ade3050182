package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/JonMunkholm/StandardsTable/internal/logging"
	"github.com/JonMunkholm/StandardsTable/internal/theme"
)

// ErrRecordNotFound is returned when a record id is not in the dataset.
var ErrRecordNotFound = errors.New("record not found")

// ServiceConfig holds Service settings.
type ServiceConfig struct {
	Matcher      string     // Registered matcher name (default: substring)
	ExportMode   ExportMode // CSV encoding (default: quoted)
	DefaultTheme theme.Mode // Mode for new views (default: dark)
	Views        ViewStoreConfig
}

// Service is the entry point for table operations: it owns the immutable
// dataset, the configured matcher, and the live views.
type Service struct {
	dataset      *Dataset
	matcherName  string
	matcher      Matcher
	exportMode   ExportMode
	defaultTheme theme.Mode
	views        *ViewStore
}

// NewService creates a Service over ds.
func NewService(ds *Dataset, cfg ServiceConfig) (*Service, error) {
	if ds == nil {
		return nil, errors.New("nil dataset")
	}
	if cfg.Matcher == "" {
		cfg.Matcher = DefaultMatcher
	}
	m, ok := Get(cfg.Matcher)
	if !ok {
		return nil, fmt.Errorf("unknown matcher %q (registered: %v)", cfg.Matcher, Names())
	}
	if cfg.ExportMode == "" {
		cfg.ExportMode = ExportQuoted
	}
	if cfg.DefaultTheme == "" {
		cfg.DefaultTheme = theme.Dark
	}

	return &Service{
		dataset:      ds,
		matcherName:  cfg.Matcher,
		matcher:      m,
		exportMode:   cfg.ExportMode,
		defaultTheme: cfg.DefaultTheme,
		views:        NewViewStore(cfg.Views),
	}, nil
}

// Dataset returns the dataset the service reads from.
func (s *Service) Dataset() *Dataset {
	return s.dataset
}

// Views returns the live view registry.
func (s *Service) Views() *ViewStore {
	return s.views
}

// MatcherName returns the configured matcher name.
func (s *Service) MatcherName() string {
	return s.matcherName
}

// ExportMode returns the configured CSV encoding.
func (s *Service) ExportMode() ExportMode {
	return s.exportMode
}

// NewView creates a view in the default theme mode.
func (s *Service) NewView() *View {
	return s.views.Create(s.defaultTheme)
}

// View returns a live view by id.
func (s *Service) View(id string) (*View, error) {
	return s.views.Get(id)
}

// Rows derives the filtered rows for a view state.
func (s *Service) Rows(st ViewState) []StandardRecord {
	return s.dataset.Filter(st.Query, st.Facet, s.matcher)
}

// Query filters the dataset without any view state.
func (s *Service) Query(query, facet string) []StandardRecord {
	return s.dataset.Filter(query, facet, s.matcher)
}

// Facets lists the facet values of the full dataset.
func (s *Service) Facets() []FacetValue {
	return FacetValues(s.dataset.records)
}

// Record returns one record by id.
func (s *Service) Record(id string) (StandardRecord, error) {
	rec, ok := s.dataset.Get(id)
	if !ok {
		return StandardRecord{}, fmt.Errorf("%w: %s", ErrRecordNotFound, id)
	}
	return rec, nil
}

// ExportView exports the selected rows of a view. An empty selection returns
// ErrNoRowsSelected and leaves the view untouched.
func (s *Service) ExportView(ctx context.Context, viewID string, exp FileExporter) (ExportResult, error) {
	v, err := s.views.Get(viewID)
	if err != nil {
		return ExportResult{}, err
	}
	st := v.State()
	return s.export(ctx, st.Selection, exp, "view_id", viewID)
}

// ExportIDs exports the records with the given ids.
func (s *Service) ExportIDs(ctx context.Context, ids []string, exp FileExporter) (ExportResult, error) {
	return s.export(ctx, NewSelection(ids...), exp)
}

func (s *Service) export(ctx context.Context, sel Selection, exp FileExporter, attrs ...any) (ExportResult, error) {
	logger := logging.WithFields(ctx, attrs...)

	res, err := Export(ctx, s.dataset, sel, s.exportMode, exp)
	if err != nil {
		if errors.Is(err, ErrNoRowsSelected) {
			logger.Info("export skipped", "reason", err.Error())
		} else {
			logger.Error("export failed", "error", err)
		}
		return res, err
	}

	logger.Info("export completed",
		"file", res.Filename,
		"rows", res.Rows,
		"selected", sel.Len(),
		"bytes", res.Bytes,
		"mode", s.exportMode,
		"ip", IPAddressFromContext(ctx),
		"user_agent", UserAgentFromContext(ctx),
	)
	return res, nil
}
