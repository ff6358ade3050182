package templates

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/JonMunkholm/StandardsTable/internal/core"
	"github.com/JonMunkholm/StandardsTable/internal/theme"
	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Render(context.Background(), &buf))
	return buf.String()
}

func tableData() TableData {
	return TableData{
		ViewID:  "view-1",
		Facet:   "France",
		Columns: core.Columns(),
		Rows: []core.StandardRecord{
			{ID: "ISO-1", JurisdictionCountry: "France", Title: "Widget <Std>", Description: "line one\nline two"},
		},
		Total:     4,
		Selection: core.NewSelection("ISO-1"),
		Facets:    []core.FacetValue{{Value: "France", Count: 2}, {Value: "Germany", Count: 1}},
	}
}

func TestTable(t *testing.T) {
	out := render(t, Table(tableData()))

	assert.Contains(t, out, `1 of 4`)
	assert.Contains(t, out, `1 selected`)
	assert.Contains(t, out, `<th data-field="issuingBody">Issuing Body</th>`)
	assert.Contains(t, out, `value="ISO-1" aria-label="Select ISO-1" checked`)
	assert.Contains(t, out, `class="badge" data-facet="France" aria-pressed="true"`)
	assert.Contains(t, out, `<tr data-id="ISO-1" aria-selected="true">`)
	assert.Contains(t, out, `data-facet="Germany" aria-pressed="false"`)
	assert.Contains(t, out, `Widget &lt;Std&gt;`)
	assert.NotContains(t, out, `<Std>`)
	assert.Contains(t, out, `>line one line two</span>`)
}

func TestTable_Empty(t *testing.T) {
	d := tableData()
	d.Rows = nil
	out := render(t, Table(d))

	assert.Contains(t, out, `colspan="14">No rows`)
	assert.Contains(t, out, `0 of 4`)
}

func TestPage(t *testing.T) {
	out := render(t, Page(PageData{
		Title:   "Standards",
		Palette: theme.NewPalette(theme.Light),
		Table:   tableData(),
	}))

	assert.Contains(t, out, `<html lang="en" data-theme="light">`)
	assert.Contains(t, out, `<body data-view="view-1">`)
	assert.Contains(t, out, `<style id="palette" data-mode="light">:root{`)
	assert.Contains(t, out, `id="export"`)
	assert.Contains(t, out, `/static/app.js`)
}

func TestRecordDetail(t *testing.T) {
	out := render(t, RecordDetail(RecordData{
		Record:   core.StandardRecord{ID: "ISO-1", Title: "Widget", Status: "Published & current"},
		Columns:  core.Columns(),
		Abstract: "<p><strong>core</strong></p>",
	}))

	assert.Contains(t, out, `<h2>Widget</h2>`)
	assert.Contains(t, out, `<dd data-field="abstract"><p><strong>core</strong></p></dd>`)
	assert.Contains(t, out, `Published &amp; current`)
}

func TestTable_EscapesAttributes(t *testing.T) {
	d := tableData()
	d.Rows = []core.StandardRecord{{ID: `X"1`, JurisdictionCountry: `<France>`}}
	d.Selection = core.NewSelection()
	out := render(t, Table(d))

	assert.Contains(t, out, `<tr data-id="X&#34;1" aria-selected="false">`)
	assert.Contains(t, out, `data-facet="&lt;France&gt;">&lt;France&gt;</button>`)
	assert.NotContains(t, out, ` checked`)
}

func TestPaletteStyle(t *testing.T) {
	out := render(t, PaletteStyle(theme.NewPalette(theme.Dark)))

	assert.True(t, strings.HasPrefix(out, `<style id="palette" data-mode="dark">:root{`), out)
	assert.True(t, strings.HasSuffix(out, `</style>`), out)
}

func TestErrorAlert(t *testing.T) {
	out := render(t, ErrorAlert("No rows selected for export.", "Select one or more rows and try again", "SEL001"))

	assert.Contains(t, out, `data-code="SEL001"`)
	assert.Contains(t, out, `<strong>No rows selected for export.</strong>`)
	assert.Contains(t, out, `<span class="action">Select one or more rows and try again</span>`)
	assert.Contains(t, out, `<code>SEL001</code>`)

	bare := render(t, ErrorAlert("Oops", "", ""))
	assert.NotContains(t, bare, `class="action"`)
	assert.NotContains(t, bare, `<code>`)
}
