// Package matcher implements the query-to-endpoint matching engine: a
// semantic strategy backed by a language model, a deterministic fallback
// built on keyword and regex heuristics, and an enricher that merges either
// raw result with catalog metadata into the final match contract.
package matcher

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/usestring/apimatch-mcp/internal/catalog"
	"github.com/usestring/apimatch-mcp/pkg/types"
)

const defaultSemanticTimeout = 15 * time.Second

// Strategy produces an unenriched match result for one query against one
// catalog snapshot. Implementations must be safe for concurrent use.
type Strategy interface {
	Name() string
	Match(ctx context.Context, query string, cat *types.Catalog) (*types.MatchResult, error)
}

// Engine is the degrading matcher: it tries the semantic strategy first and
// falls back to the deterministic strategy on any failure, including
// timeout. Every query binds to the catalog snapshot current at its start.
type Engine struct {
	store           *catalog.Store
	semantic        Strategy // nil means fallback-only mode
	fallback        Strategy
	semanticTimeout time.Duration
	cache           *lru.Cache[string, *types.MatchResult]
}

// Option configures an Engine.
type Option func(*Engine)

// WithSemantic enables the semantic strategy. A nil strategy keeps the
// engine in fallback-only mode.
func WithSemantic(s Strategy) Option {
	return func(e *Engine) { e.semantic = s }
}

// WithSemanticTimeout bounds the model call.
func WithSemanticTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.semanticTimeout = d
		}
	}
}

// WithFallback replaces the default fallback strategy (used by tests and by
// embedders with a custom vocabulary).
func WithFallback(s Strategy) Option {
	return func(e *Engine) { e.fallback = s }
}

// New creates an Engine reading catalog snapshots from store. cacheSize
// bounds the fallback-result memoization; zero disables it.
func New(store *catalog.Store, cacheSize int, opts ...Option) (*Engine, error) {
	e := &Engine{
		store:           store,
		fallback:        NewFallback(),
		semanticTimeout: defaultSemanticTimeout,
	}
	for _, opt := range opts {
		opt(e)
	}

	if cacheSize > 0 {
		c, err := lru.New[string, *types.MatchResult](cacheSize)
		if err != nil {
			return nil, fmt.Errorf("matcher: creating result cache: %w", err)
		}
		e.cache = c
	}

	return e, nil
}

// Match resolves one query to an enriched MatchResult. It always succeeds
// unless the catalog is empty: semantic failures degrade silently to the
// fallback strategy for this query only.
func (e *Engine) Match(ctx context.Context, query string) (*types.MatchResult, error) {
	cat, version, err := e.store.Snapshot()
	if err != nil {
		return nil, err
	}

	if e.semantic != nil {
		semCtx, cancel := context.WithTimeout(ctx, e.semanticTimeout)
		raw, semErr := e.semantic.Match(semCtx, query, cat)
		cancel()

		if semErr == nil {
			return Enrich(raw, cat), nil
		}
		slog.Warn("semantic match failed, degrading to fallback",
			"query", query, "error", semErr)
	}

	return e.matchFallback(ctx, query, cat, version)
}

// matchFallback runs the deterministic strategy with per-snapshot
// memoization. Fallback results are pure functions of (catalog, query), so
// caching them changes nothing observable.
func (e *Engine) matchFallback(ctx context.Context, query string, cat *types.Catalog, version uint64) (*types.MatchResult, error) {
	key := fmt.Sprintf("%d\x00%s", version, query)
	if e.cache != nil {
		if cached, ok := e.cache.Get(key); ok {
			return cached, nil
		}
	}

	raw, err := e.fallback.Match(ctx, query, cat)
	if err != nil {
		return nil, err
	}

	enriched := Enrich(raw, cat)
	if e.cache != nil {
		e.cache.Add(key, enriched)
	}
	return enriched, nil
}

// FallbackOnly reports whether the engine runs without a semantic backend.
func (e *Engine) FallbackOnly() bool {
	return e.semantic == nil
}
