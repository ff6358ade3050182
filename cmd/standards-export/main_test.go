package main

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/JonMunkholm/StandardsTable/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points every dataset and export setting at test-owned values.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for _, key := range []string{"DATASET_PATH", "DATABASE_URL", "DB_URL", "EXPORT_CSV_MODE", "SEARCH_MATCHER"} {
		t.Setenv(key, "")
	}
	t.Setenv("EXPORT_DIR", dir)
	t.Setenv("LOG_LEVEL", "error")
	return dir
}

// exportRecords parses the written file; the sample abstracts span several
// lines, so rows are only recoverable through a CSV reader.
func exportRecords(t *testing.T, dir string) [][]string {
	t.Helper()
	f, err := os.Open(filepath.Join(dir, core.ExportFilename))
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return records
}

func TestRun_ExplicitIDs(t *testing.T) {
	dir := isolate(t)
	var stdout, stderr bytes.Buffer

	err := run(context.Background(), []string{"--ids", "AC-0004,AC-0001"}, &stdout, &stderr)
	require.NoError(t, err, stderr.String())

	records := exportRecords(t, dir)
	require.Len(t, records, 3)
	assert.Equal(t, "AC Code", records[0][0])
	assert.Len(t, records[0], len(core.Columns()))
	assert.Equal(t, "AC-0001", records[1][0], "dataset order")
	assert.Equal(t, "AC-0004", records[2][0])
	assert.Contains(t, records[1][7], "\n", "multi-line abstract kept in one field")
	assert.Contains(t, stdout.String(), "wrote 2 rows")
}

func TestRun_AllWithFacet(t *testing.T) {
	dir := isolate(t)
	out := filepath.Join(dir, "nested")
	var stdout, stderr bytes.Buffer

	err := run(context.Background(), []string{"--all", "-c", "France", "-o", out}, &stdout, &stderr)
	require.NoError(t, err, stderr.String())

	records := exportRecords(t, out)
	require.Len(t, records, 3)
	assert.Equal(t, "AC-0001", records[1][0])
	assert.Equal(t, "France", records[1][1])
	assert.Equal(t, "AC-0005", records[2][0])
}

func TestRun_NothingSelected(t *testing.T) {
	dir := isolate(t)
	var stdout, stderr bytes.Buffer

	err := run(context.Background(), nil, &stdout, &stderr)

	var coder interface{ ExitCode() int }
	require.True(t, errors.As(err, &coder), "err = %v", err)
	assert.Equal(t, exitNoRows, coder.ExitCode())
	assert.Contains(t, stderr.String(), "No rows selected for export.")

	_, statErr := os.Stat(filepath.Join(dir, core.ExportFilename))
	assert.True(t, os.IsNotExist(statErr), "no file should be written")
}

func TestRun_FilterMatchesNothing(t *testing.T) {
	isolate(t)
	var stdout, stderr bytes.Buffer

	err := run(context.Background(), []string{"--all", "-q", "no such standard anywhere"}, &stdout, &stderr)

	var exit exitError
	require.True(t, errors.As(err, &exit))
	assert.Equal(t, exitNoRows, exit.code)
}

func TestRun_BadFlags(t *testing.T) {
	isolate(t)
	var stdout, stderr bytes.Buffer

	assert.Error(t, run(context.Background(), []string{"--mode", "tsv", "--ids", "AC-0001"}, &stdout, &stderr))
	assert.Error(t, run(context.Background(), []string{"--matcher", "regex", "--ids", "AC-0001"}, &stdout, &stderr))
	assert.Error(t, run(context.Background(), []string{"stray"}, &stdout, &stderr))
}

func TestRun_UnsupportedDatasetReported(t *testing.T) {
	isolate(t)
	var stdout, stderr, out bytes.Buffer

	err := run(context.Background(), []string{"--all", "--dataset", "standards.xml"}, &stdout, &stderr)
	require.Error(t, err)

	var ue *core.UserError
	require.True(t, errors.As(err, &ue))
	assert.Equal(t, "DS003", ue.User.Code)

	report(&out, err)
	assert.Equal(t, "error: "+core.FormatUserError(ue.Technical)+"\n", out.String())
	assert.Contains(t, out.String(), "(Code: DS003)")
}

func TestReport(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"plain error", errors.New("unexpected arguments: [stray]"), "error: unexpected arguments: [stray]\n"},
		{"uncoded user error", core.NewUserError(errors.New("disk on fire")), "error: disk on fire\n"},
		{"coded user error", core.NewUserError(core.ErrNoRowsSelected), "error: " + core.FormatUserError(core.ErrNoRowsSelected) + "\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			report(&out, tt.err)
			assert.Equal(t, tt.want, out.String())
		})
	}
}

func TestRun_Help(t *testing.T) {
	isolate(t)
	var stdout, stderr bytes.Buffer

	require.NoError(t, run(context.Background(), []string{"-h"}, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "Usage:")
	assert.Contains(t, stderr.String(), "--ids")
}

func TestBuildSelection(t *testing.T) {
	ds, err := core.NewDataset([]core.StandardRecord{
		{ID: "ISO-1", JurisdictionCountry: "France", Title: "Widget Std"},
		{ID: "BS-2", JurisdictionCountry: "United Kingdom", Title: "Bolt Torque"},
		{ID: "NF-4", JurisdictionCountry: "France", Title: "Timber Frames"},
	})
	require.NoError(t, err)
	m := core.MustGet(core.DefaultMatcher)

	t.Run("ids only", func(t *testing.T) {
		sel, unknown := buildSelection(ds, m, options{ids: []string{"BS-2", "", "GONE"}})
		assert.Equal(t, []string{"BS-2", "GONE"}, sel.IDs())
		assert.Equal(t, []string{"GONE"}, unknown)
	})

	t.Run("all respects filter", func(t *testing.T) {
		sel, unknown := buildSelection(ds, m, options{all: true, country: "France", query: "widget"})
		assert.Equal(t, []string{"ISO-1"}, sel.IDs())
		assert.Empty(t, unknown)
	})

	t.Run("all plus hidden id", func(t *testing.T) {
		sel, _ := buildSelection(ds, m, options{all: true, country: "France", ids: []string{"BS-2", "NF-4"}})
		assert.Equal(t, []string{"ISO-1", "NF-4", "BS-2"}, sel.IDs())
	})

	t.Run("nothing", func(t *testing.T) {
		sel, _ := buildSelection(ds, m, options{query: "widget"})
		assert.True(t, sel.Empty())
	})
}
