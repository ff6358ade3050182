package core

// view_store.go keeps the views of open pages in memory.
//
// A view lives from the page load that created it until it has been idle for
// IdleTTL. A reload creates a fresh view, so query, facet, and selection never
// carry across reloads. When MaxViews is reached the least recently used view
// is evicted to make room.
//
// The sweeper is long-running and context-aware for graceful shutdown.

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/JonMunkholm/StandardsTable/internal/theme"
	"github.com/google/uuid"
)

// ErrViewNotFound is returned for an unknown or evicted view id.
var ErrViewNotFound = errors.New("view not found")

// Default view store limits.
const (
	DefaultViewIdleTTL = 2 * time.Hour
	DefaultMaxViews    = 10000
)

// ViewStoreConfig holds view store settings.
// All fields have sensible defaults if zero values are provided.
type ViewStoreConfig struct {
	IdleTTL  time.Duration    // Idle time before eviction (default: 2h)
	MaxViews int              // Max live views (default: 10000)
	Now      func() time.Time // Clock (default: time.Now)
}

// ViewStore is an in-memory registry of live views keyed by id.
type ViewStore struct {
	idleTTL  time.Duration
	maxViews int
	now      func() time.Time

	mu    sync.RWMutex
	views map[string]*View
}

// NewViewStore creates an empty store.
func NewViewStore(cfg ViewStoreConfig) *ViewStore {
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = DefaultViewIdleTTL
	}
	if cfg.MaxViews <= 0 {
		cfg.MaxViews = DefaultMaxViews
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &ViewStore{
		idleTTL:  cfg.IdleTTL,
		maxViews: cfg.MaxViews,
		now:      cfg.Now,
		views:    make(map[string]*View),
	}
}

// Create registers a new view with empty query, facet, and selection.
func (s *ViewStore) Create(mode theme.Mode) *View {
	v := &View{
		id:       uuid.NewString(),
		mode:     mode,
		lastSeen: s.now(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.views) >= s.maxViews {
		s.evictOldestLocked()
	}
	s.views[v.id] = v
	return v
}

// Get returns the view with id and marks it as recently used.
func (s *ViewStore) Get(id string) (*View, error) {
	s.mu.RLock()
	v, ok := s.views[id]
	s.mu.RUnlock()

	if !ok {
		return nil, ErrViewNotFound
	}
	v.touch(s.now())
	return v, nil
}

// Len returns the number of live views.
func (s *ViewStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.views)
}

// Sweep evicts views idle longer than the TTL and returns how many it removed.
func (s *ViewStore) Sweep() int {
	cutoff := s.now().Add(-s.idleTTL)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, v := range s.views {
		if v.seenAt().Before(cutoff) {
			delete(s.views, id)
			removed++
		}
	}
	return removed
}

func (s *ViewStore) evictOldestLocked() {
	var oldestID string
	var oldest time.Time
	for id, v := range s.views {
		seen := v.seenAt()
		if oldestID == "" || seen.Before(oldest) {
			oldestID, oldest = id, seen
		}
	}
	if oldestID != "" {
		delete(s.views, oldestID)
		slog.Debug("view evicted", "view_id", oldestID, "reason", "capacity")
	}
}

// StartSweeper periodically evicts idle views until ctx is cancelled.
func (s *ViewStore) StartSweeper(ctx context.Context, interval time.Duration) {
	slog.Info("view sweeper started",
		"idle_ttl", s.idleTTL,
		"interval", interval,
		"max_views", s.maxViews,
	)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("view sweeper stopped")
			return
		case <-ticker.C:
			start := time.Now()
			if removed := s.Sweep(); removed > 0 {
				slog.Info("idle views evicted",
					"views_evicted", removed,
					"views_live", s.Len(),
					"duration_ms", time.Since(start).Milliseconds(),
				)
			}
		}
	}
}
