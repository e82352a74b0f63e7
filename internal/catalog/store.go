// Package catalog holds the active endpoint catalog behind a versioned
// snapshot. Queries bind to the snapshot current at their start; re-ingestion
// replaces the whole snapshot atomically so an in-flight query never sees a
// partially updated catalog.
package catalog

import (
	"errors"
	"sync"

	"github.com/usestring/apimatch-mcp/pkg/types"
)

// ErrEmptyCatalog is returned when a match is requested before any endpoints
// have been ingested. It is the only engine error that propagates to callers.
var ErrEmptyCatalog = errors.New("catalog: no endpoints registered")

// Store holds the current catalog snapshot.
type Store struct {
	mu      sync.RWMutex
	current *types.Catalog
	version uint64
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{}
}

// Replace installs a new catalog wholesale and bumps the version.
func (s *Store) Replace(c *types.Catalog) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = c
	s.version++
}

// Snapshot returns the current catalog and its version. The returned catalog
// must be treated as read-only. Returns ErrEmptyCatalog if nothing has been
// ingested or the catalog has no endpoints.
func (s *Store) Snapshot() (*types.Catalog, uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current.Len() == 0 {
		return nil, s.version, ErrEmptyCatalog
	}
	return s.current, s.version, nil
}

// Version returns the current snapshot version.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}
