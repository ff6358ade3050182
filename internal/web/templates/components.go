// Package templates holds the templ components of the standards table.
//
// Edit the .templ files and run `templ generate`; the _templ.go files are
// generated. This file holds the data the components render and the small
// helpers they call.
package templates

//go:generate go run github.com/a-h/templ/cmd/templ@v0.3.960 generate

import (
	"fmt"
	"strings"

	"github.com/JonMunkholm/StandardsTable/internal/core"
	"github.com/JonMunkholm/StandardsTable/internal/theme"
	"github.com/a-h/templ"
)

// TableData is everything the table partial renders.
type TableData struct {
	ViewID    string
	Query     string
	Facet     string
	Columns   []core.Column
	Rows      []core.StandardRecord
	Total     int
	Selection core.Selection
	Facets    []core.FacetValue
}

// PageData is the full page for a fresh view.
type PageData struct {
	Title   string
	Palette theme.Palette
	Table   TableData
}

// RecordData is one record for the detail panel. Description and Abstract
// hold rendered HTML.
type RecordData struct {
	Record      core.StandardRecord
	Columns     []core.Column
	Description string
	Abstract    string
}

func themeIcon(m theme.Mode) string {
	if m == theme.Light {
		return "☾"
	}
	return "☀"
}

// paletteStyle is the <style> element PaletteStyle writes. templ does not
// interpolate inside <style>, so the element is built here; the variables
// come from the fixed token table.
func paletteStyle(p theme.Palette) string {
	return `<style id="palette" data-mode="` + templ.EscapeString(string(p.Mode)) + `">` +
		p.CSSVariables() + `</style>`
}

func rowSummary(d TableData) string {
	return fmt.Sprintf("%d of %d", len(d.Rows), d.Total)
}

func selectedSummary(d TableData) string {
	return fmt.Sprintf("%d selected", d.Selection.Len())
}

// cellText collapses v to one line for display in a grid cell.
func cellText(v string) string {
	return strings.Join(strings.Fields(v), " ")
}
