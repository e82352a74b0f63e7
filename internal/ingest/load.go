package ingest

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/usestring/apimatch-mcp/internal/catalog"
	"github.com/usestring/apimatch-mcp/pkg/types"
)

const (
	fetchTimeout  = 30 * time.Second
	maxSpecSize   = 16 << 20 // 16 MB
	loaderWorkers = 4
)

// Loader reads spec sources, parses them and replaces the catalog store
// snapshot. Sources may be file paths or http(s) URLs.
type Loader struct {
	store      *catalog.Store
	httpClient *http.Client
}

// NewLoader creates a loader that publishes into the given store.
func NewLoader(store *catalog.Store) *Loader {
	return &Loader{
		store:      store,
		httpClient: &http.Client{Timeout: fetchTimeout},
	}
}

// Load fetches and parses all sources concurrently, merges the resulting
// catalogs, and replaces the store snapshot. The first source's metadata
// wins; endpoints from later sources are appended in source order. On any
// source failure the store is left untouched.
func (l *Loader) Load(ctx context.Context, sources []string) (*types.Catalog, error) {
	if len(sources) == 0 {
		return nil, fmt.Errorf("ingest: no spec sources configured")
	}

	catalogs := make([]*types.Catalog, len(sources))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(loaderWorkers)

	for i, source := range sources {
		i, source := i, source

		g.Go(func() error {
			data, err := l.fetch(ctx, source)
			if err != nil {
				return fmt.Errorf("ingest: reading %s: %w", source, err)
			}
			cat, err := Parse(data)
			if err != nil {
				return fmt.Errorf("ingest: %s: %w", source, err)
			}
			slog.Info("loaded spec source",
				"source", source,
				"api", cat.Meta.Name,
				"endpoints", cat.Len())
			catalogs[i] = cat
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := mergeCatalogs(catalogs)
	l.store.Replace(merged)

	slog.Info("catalog replaced",
		"sources", len(sources),
		"endpoints", merged.Len(),
		"version", l.store.Version())

	return merged, nil
}

func (l *Loader) fetch(ctx context.Context, source string) ([]byte, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
		if err != nil {
			return nil, err
		}
		resp, err := l.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
		}
		return io.ReadAll(io.LimitReader(resp.Body, maxSpecSize))
	}

	return os.ReadFile(source)
}

// mergeCatalogs combines per-source catalogs into one. Duplicate
// (path, method) pairs keep the first occurrence.
func mergeCatalogs(catalogs []*types.Catalog) *types.Catalog {
	merged := &types.Catalog{}

	seen := make(map[string]bool)
	for _, cat := range catalogs {
		if cat == nil {
			continue
		}
		if merged.Meta.Name == "" {
			merged.Meta = cat.Meta
		}
		for _, ep := range cat.Endpoints {
			key := strings.ToUpper(ep.Method) + " " + ep.Path
			if seen[key] {
				slog.Warn("duplicate endpoint skipped", "method", ep.Method, "path", ep.Path)
				continue
			}
			seen[key] = true
			merged.Endpoints = append(merged.Endpoints, ep)
		}
	}

	return merged
}
