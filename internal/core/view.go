package core

import (
	"sync"
	"time"

	"github.com/JonMunkholm/StandardsTable/internal/theme"
)

// View holds the state of one table page load: the search query lifted from
// the search bar, the active facet, the selection, and the theme mode.
//
// All methods are safe for concurrent use; each call runs to completion
// under the view's lock before the next one starts.
type View struct {
	id string

	mu        sync.Mutex
	query     string
	facet     string
	selection Selection
	mode      theme.Mode
	lastSeen  time.Time
}

// ViewState is a point-in-time copy of a view's state.
type ViewState struct {
	ID        string
	Query     string
	Facet     string
	Selection Selection
	Mode      theme.Mode
}

// ID returns the view identifier.
func (v *View) ID() string {
	return v.id
}

// State returns a copy of the current state.
func (v *View) State() ViewState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.stateLocked()
}

func (v *View) stateLocked() ViewState {
	return ViewState{
		ID:        v.id,
		Query:     v.query,
		Facet:     v.facet,
		Selection: NewSelection(v.selection.ids...),
		Mode:      v.mode,
	}
}

// SetQuery replaces the search query. The selection is left as is.
func (v *View) SetQuery(q string) ViewState {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.query = q
	return v.stateLocked()
}

// ToggleFacet applies a click on the facet badge for country.
func (v *View) ToggleFacet(country string) ViewState {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.facet = ToggleFacet(v.facet, country)
	return v.stateLocked()
}

// ReplaceSelection takes ids as the complete set of checked rows.
func (v *View) ReplaceSelection(ids []string) ViewState {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.selection.Replace(ids)
	return v.stateLocked()
}

// ToggleTheme flips between dark and light mode.
func (v *View) ToggleTheme() ViewState {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.mode = v.mode.Toggle()
	return v.stateLocked()
}

func (v *View) touch(now time.Time) {
	v.mu.Lock()
	v.lastSeen = now
	v.mu.Unlock()
}

func (v *View) seenAt() time.Time {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.lastSeen
}
