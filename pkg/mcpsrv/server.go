package mcpsrv

import (
	"context"
	"fmt"
	"log/slog"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/apimatch-mcp/internal/catalog"
	"github.com/usestring/apimatch-mcp/internal/config"
	"github.com/usestring/apimatch-mcp/internal/executor"
	"github.com/usestring/apimatch-mcp/internal/ingest"
	"github.com/usestring/apimatch-mcp/internal/llm"
	"github.com/usestring/apimatch-mcp/internal/logging"
	"github.com/usestring/apimatch-mcp/internal/matcher"
	"github.com/usestring/apimatch-mcp/internal/mcp"
	"github.com/usestring/apimatch-mcp/internal/mcp/tools"
)

// Server is the apimatch MCP server.
// It wraps the internal implementation and provides extension points.
type Server struct {
	internal   *mcp.Server
	deps       *Deps
	logCleanup func() error
}

// NewServer creates a new MCP server with the builtin apimatch tools.
//
// Configuration is loaded from environment variables; use functional options
// to override logging or register custom tools, prompts, and resources.
func NewServer(opts ...Option) (*Server, error) {
	srvCfg := &serverConfig{}
	for _, opt := range opts {
		opt(srvCfg)
	}

	cfg := config.Load()
	if srvCfg.logLevel != "" {
		cfg.LogLevel = srvCfg.logLevel
	}
	if srvCfg.logFile != "" {
		cfg.LogFile = srvCfg.logFile
	}

	logCleanup, err := logging.Setup(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to setup logging: %w", err)
	}

	// Build the engine stack: catalog store, matcher tiers, loader, executor.
	store := catalog.NewStore()
	loader := ingest.NewLoader(store)

	var engineOpts []matcher.Option
	if cfg.SemanticEnabled() {
		client := llm.New(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel, cfg.LLMTimeout)
		engineOpts = append(engineOpts,
			matcher.WithSemantic(matcher.NewSemantic(client)),
			matcher.WithSemanticTimeout(cfg.SemanticTimeout),
		)
	} else {
		slog.Info("no LLM API key configured, running fallback matcher only")
	}

	engine, err := matcher.New(store, cfg.MatchCacheSize, engineOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create match engine: %w", err)
	}

	execOpts := []executor.Option{executor.WithTimeout(cfg.CallTimeout)}
	if cfg.APIAuthHeader != "" && cfg.APIAuthValue != "" {
		execOpts = append(execOpts, executor.WithHeader(cfg.APIAuthHeader, cfg.APIAuthValue))
	}
	exec := executor.New(execOpts...)

	toolDeps := &tools.Deps{
		Config:   cfg,
		Store:    store,
		Engine:   engine,
		Loader:   loader,
		Executor: exec,
	}

	// Public deps (same values, different type for the public API).
	deps := &Deps{
		Config:   cfg,
		Store:    store,
		Engine:   engine,
		Loader:   loader,
		Executor: exec,
	}

	var internalOpts []mcp.ServerOption
	if !srvCfg.disableBuiltinTools {
		internalOpts = append(internalOpts, mcp.WithBuiltinTools())
	}
	if !srvCfg.disableBuiltinPrompts {
		internalOpts = append(internalOpts, mcp.WithBuiltinPrompts())
	}

	for _, fn := range srvCfg.toolRegistrations {
		internalOpts = append(internalOpts, mcp.WithCustomRegistration(fn))
	}
	for _, fn := range srvCfg.promptRegistrations {
		internalOpts = append(internalOpts, mcp.WithCustomRegistration(fn))
	}
	for _, fn := range srvCfg.resourceRegistrations {
		internalOpts = append(internalOpts, mcp.WithCustomRegistration(fn))
	}
	for _, fn := range srvCfg.deferredToolRegistrations {
		fn := fn
		internalOpts = append(internalOpts, mcp.WithCustomRegistration(func(srv *sdkmcp.Server) {
			fn(srv, deps)
		}))
	}

	internal, err := mcp.NewServer(toolDeps, internalOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create server: %w", err)
	}

	return &Server{
		internal:   internal,
		deps:       deps,
		logCleanup: logCleanup,
	}, nil
}

// Run loads the configured spec sources and starts the MCP server with
// stdio transport. A failed initial load is logged, not fatal: the catalog
// stays empty until a reload succeeds. The server runs until the context is
// cancelled.
func (s *Server) Run(ctx context.Context) error {
	if len(s.deps.Config.SpecSources) > 0 {
		if _, err := s.deps.Loader.Load(ctx, s.deps.Config.SpecSources); err != nil {
			slog.Error("initial spec load failed", "error", err)
		}
	} else {
		slog.Warn("no spec sources configured, catalog is empty until reload_specs is called")
	}

	return s.internal.Run(ctx)
}

// Close cleans up server resources.
func (s *Server) Close() error {
	if s.logCleanup != nil {
		return s.logCleanup()
	}
	return nil
}

// Deps returns the dependencies for building custom tools.
func (s *Server) Deps() *Deps {
	return s.deps
}
