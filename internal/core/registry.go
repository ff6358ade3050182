package core

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Matcher decides whether a record matches a free-text query.
// Implementations must accept every record for an empty query.
type Matcher interface {
	Match(rec StandardRecord, query string) bool
}

// MatcherFunc adapts a plain function to the Matcher interface.
type MatcherFunc func(rec StandardRecord, query string) bool

// Match calls f(rec, query).
func (f MatcherFunc) Match(rec StandardRecord, query string) bool {
	return f(rec, query)
}

// Built-in matcher names.
const (
	MatcherSubstring = "substring"
	MatcherWords     = "words"
)

// DefaultMatcher is the matcher used when none is configured.
const DefaultMatcher = MatcherSubstring

var (
	registry   = make(map[string]Matcher)
	registryMu sync.RWMutex
)

func init() {
	Register(MatcherSubstring, MatcherFunc(matchSubstring))
	Register(MatcherWords, MatcherFunc(matchWords))
}

// Register adds a matcher under name.
// Panics if a matcher with the same name is already registered.
func Register(name string, m Matcher) {
	registryMu.Lock()
	defer registryMu.Unlock()

	key := strings.ToLower(name)
	if _, exists := registry[key]; exists {
		panic(fmt.Sprintf("matcher already registered: %s", name))
	}
	registry[key] = m
}

// Get returns a matcher by name (case-insensitive).
// Returns false if not found.
func Get(name string) (Matcher, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	m, ok := registry[strings.ToLower(name)]
	return m, ok
}

// MustGet returns the named matcher or the default one when name is unknown.
func MustGet(name string) Matcher {
	if m, ok := Get(name); ok {
		return m
	}
	m, _ := Get(DefaultMatcher)
	return m
}

// Names returns all registered matcher names.
// Sorted alphabetically.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// matchSubstring accepts a record when any attribute, case-folded,
// contains the case-folded query.
func matchSubstring(rec StandardRecord, query string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	for _, v := range rec.Values() {
		if strings.Contains(strings.ToLower(v), q) {
			return true
		}
	}
	return false
}

// matchWords accepts a record when every whitespace-separated term of the
// query is contained in at least one attribute.
func matchWords(rec StandardRecord, query string) bool {
	terms := strings.Fields(query)
	if len(terms) == 0 {
		return true
	}
	values := rec.Values()
	for i, v := range values {
		values[i] = strings.ToLower(v)
	}
	for _, term := range terms {
		t := strings.ToLower(term)
		found := false
		for _, v := range values {
			if strings.Contains(v, t) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
