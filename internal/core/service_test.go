package core

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/JonMunkholm/StandardsTable/internal/theme"
)

func newTestService(t *testing.T, cfg ServiceConfig) *Service {
	t.Helper()
	svc, err := NewService(mustDataset(t, testRecords()), cfg)
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}
	return svc
}

func TestNewService_Defaults(t *testing.T) {
	svc := newTestService(t, ServiceConfig{})

	if svc.MatcherName() != MatcherSubstring {
		t.Errorf("MatcherName() = %q", svc.MatcherName())
	}
	if svc.ExportMode() != ExportQuoted {
		t.Errorf("ExportMode() = %q", svc.ExportMode())
	}
	if mode := svc.NewView().State().Mode; mode != theme.Dark {
		t.Errorf("new view mode = %q, want dark", mode)
	}
}

func TestNewService_UnknownMatcher(t *testing.T) {
	_, err := NewService(mustDataset(t, testRecords()), ServiceConfig{Matcher: "fuzzy"})
	if err == nil || !strings.Contains(err.Error(), "unknown matcher") {
		t.Errorf("NewService() error = %v, want unknown matcher", err)
	}
}

func TestService_RowsFollowViewState(t *testing.T) {
	svc := newTestService(t, ServiceConfig{})
	v := svc.NewView()

	v.SetQuery("widget")
	if got := strings.Join(ids(svc.Rows(v.State())), ","); got != "ISO-1,BS-2" {
		t.Errorf("rows = %q", got)
	}

	st := v.ToggleFacet("France")
	if got := strings.Join(ids(svc.Rows(st)), ","); got != "ISO-1" {
		t.Errorf("rows with facet = %q", got)
	}
}

func TestService_Record(t *testing.T) {
	svc := newTestService(t, ServiceConfig{})

	rec, err := svc.Record("DIN-3")
	if err != nil || rec.Title != "Concrete Mixes" {
		t.Errorf("Record(DIN-3) = %+v, %v", rec, err)
	}
	if _, err := svc.Record("ZZ-9"); !errors.Is(err, ErrRecordNotFound) {
		t.Errorf("Record(ZZ-9) error = %v, want ErrRecordNotFound", err)
	}
}

func TestService_ExportView(t *testing.T) {
	svc := newTestService(t, ServiceConfig{ExportMode: ExportLiteral})
	v := svc.NewView()
	exp := &memExporter{}

	if _, err := svc.ExportView(context.Background(), v.ID(), exp); !errors.Is(err, ErrNoRowsSelected) {
		t.Fatalf("empty export error = %v, want ErrNoRowsSelected", err)
	}

	v.ReplaceSelection([]string{"BS-2"})
	v.SetQuery("timber") // hides BS-2
	res, err := svc.ExportView(context.Background(), v.ID(), exp)
	if err != nil {
		t.Fatalf("ExportView() error = %v", err)
	}
	if res.Rows != 1 || !strings.Contains(string(exp.data), "\nBS-2,United Kingdom,") {
		t.Errorf("export = %+v\n%s", res, exp.data)
	}

	if !v.State().Selection.Contains("BS-2") {
		t.Error("export should not clear the selection")
	}
}

func TestService_ExportViewUnknown(t *testing.T) {
	svc := newTestService(t, ServiceConfig{})
	if _, err := svc.ExportView(context.Background(), "gone", &memExporter{}); !errors.Is(err, ErrViewNotFound) {
		t.Errorf("error = %v, want ErrViewNotFound", err)
	}
}

func TestService_Facets(t *testing.T) {
	svc := newTestService(t, ServiceConfig{})
	if got := svc.Facets(); len(got) != 3 || got[0].Value != "France" {
		t.Errorf("Facets() = %v", got)
	}
}
