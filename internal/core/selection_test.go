package core

import (
	"slices"
	"testing"
)

func TestSelection_ReplaceIsWholesale(t *testing.T) {
	s := NewSelection("ISO-1", "BS-2")
	s.Replace([]string{"DIN-3"})

	if got := s.IDs(); !slices.Equal(got, []string{"DIN-3"}) {
		t.Errorf("IDs() = %v, want [DIN-3]", got)
	}
	if s.Contains("ISO-1") {
		t.Error("old id survived Replace")
	}
}

func TestSelection_DropsDuplicatesAndEmpty(t *testing.T) {
	s := NewSelection("NF-4", "", "ISO-1", "NF-4")

	if got := s.IDs(); !slices.Equal(got, []string{"NF-4", "ISO-1"}) {
		t.Errorf("IDs() = %v, want [NF-4 ISO-1]", got)
	}
	if s.Len() != 2 {
		t.Errorf("Len() = %d, want 2", s.Len())
	}
}

func TestSelection_Empty(t *testing.T) {
	var zero Selection
	if !zero.Empty() || zero.Contains("ISO-1") {
		t.Error("zero Selection should be empty")
	}

	s := NewSelection("ISO-1")
	s.Replace(nil)
	if !s.Empty() {
		t.Error("Replace(nil) should clear the selection")
	}
}

func TestSelection_IDsIsCopy(t *testing.T) {
	s := NewSelection("ISO-1")
	got := s.IDs()
	got[0] = "changed"

	if !s.Contains("ISO-1") || s.IDs()[0] != "ISO-1" {
		t.Error("IDs() exposed internal slice")
	}
}

func TestToggleFacet(t *testing.T) {
	tests := []struct {
		current, clicked, want string
	}{
		{"", "France", "France"},
		{"France", "France", ""},
		{"France", "Germany", "Germany"},
	}
	for _, tt := range tests {
		if got := ToggleFacet(tt.current, tt.clicked); got != tt.want {
			t.Errorf("ToggleFacet(%q, %q) = %q, want %q", tt.current, tt.clicked, got, tt.want)
		}
	}
}

func TestFacetValues(t *testing.T) {
	recs := append(testRecords(), StandardRecord{ID: "X-5"})
	got := FacetValues(recs)

	want := []FacetValue{
		{Value: "France", Count: 2},
		{Value: "United Kingdom", Count: 1},
		{Value: "Germany", Count: 1},
	}
	if !slices.Equal(got, want) {
		t.Errorf("FacetValues() = %v, want %v", got, want)
	}
}

func TestDataset_Resolve(t *testing.T) {
	ds := mustDataset(t, testRecords())

	got := ids(ds.Resolve([]string{"NF-4", "missing", "ISO-1", "NF-4"}))
	if !slices.Equal(got, []string{"ISO-1", "NF-4"}) {
		t.Errorf("Resolve() = %v, want [ISO-1 NF-4]", got)
	}
}

func TestNewDataset_Invalid(t *testing.T) {
	if _, err := NewDataset([]StandardRecord{{ID: "A"}, {ID: "A"}}); err == nil {
		t.Error("duplicate ids: want error")
	}
	if _, err := NewDataset([]StandardRecord{{Title: "no id"}}); err == nil {
		t.Error("missing id: want error")
	}
}
