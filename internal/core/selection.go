package core

import "slices"

// Selection mirrors the set of row ids currently checked in the grid.
// It is replaced wholesale on each selection-change event; filter changes
// never touch it.
type Selection struct {
	ids   []string
	index map[string]bool
}

// NewSelection returns a selection holding ids (duplicates collapsed).
func NewSelection(ids ...string) Selection {
	var s Selection
	s.Replace(ids)
	return s
}

// Replace discards the current set and takes ids as the new one.
// Report order is kept; duplicates and empty ids are dropped.
func (s *Selection) Replace(ids []string) {
	s.ids = make([]string, 0, len(ids))
	s.index = make(map[string]bool, len(ids))
	for _, id := range ids {
		if id == "" || s.index[id] {
			continue
		}
		s.index[id] = true
		s.ids = append(s.ids, id)
	}
}

// IDs returns the selected ids in the order they were reported.
func (s Selection) IDs() []string {
	return slices.Clone(s.ids)
}

// Contains reports whether id is selected.
func (s Selection) Contains(id string) bool {
	return s.index[id]
}

// Len returns the number of selected ids.
func (s Selection) Len() int {
	return len(s.ids)
}

// Empty reports whether nothing is selected.
func (s Selection) Empty() bool {
	return len(s.ids) == 0
}
