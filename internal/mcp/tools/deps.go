package tools

import (
	"context"
	"sync"

	"github.com/usestring/apimatch-mcp/internal/catalog"
	"github.com/usestring/apimatch-mcp/internal/config"
	"github.com/usestring/apimatch-mcp/internal/executor"
	"github.com/usestring/apimatch-mcp/internal/index"
	"github.com/usestring/apimatch-mcp/internal/ingest"
	"github.com/usestring/apimatch-mcp/internal/matcher"
	"github.com/usestring/apimatch-mcp/pkg/types"
)

// Deps contains all dependencies needed by tool handlers.
type Deps struct {
	Config   *config.Config
	Store    *catalog.Store
	Engine   *matcher.Engine
	Loader   *ingest.Loader
	Executor *executor.Executor

	mu  sync.Mutex
	idx *index.Index
}

// Snapshot returns the current catalog snapshot.
func (d *Deps) Snapshot() (*types.Catalog, uint64, error) {
	return d.Store.Snapshot()
}

// Index returns the inverted index for the current catalog snapshot,
// rebuilding it when the snapshot version has moved.
func (d *Deps) Index() (*index.Index, error) {
	cat, version, err := d.Store.Snapshot()
	if err != nil {
		return nil, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.idx == nil || d.idx.Version() != version {
		d.idx = index.Build(cat, version)
	}
	return d.idx, nil
}

// Reload re-ingests the configured spec sources and replaces the catalog.
func (d *Deps) Reload(ctx context.Context, sources []string) (*types.Catalog, error) {
	if len(sources) == 0 {
		sources = d.Config.SpecSources
	}
	return d.Loader.Load(ctx, sources)
}
