package mcpsrv

import (
	"github.com/usestring/apimatch-mcp/internal/catalog"
	"github.com/usestring/apimatch-mcp/internal/config"
	"github.com/usestring/apimatch-mcp/internal/executor"
	"github.com/usestring/apimatch-mcp/internal/ingest"
	"github.com/usestring/apimatch-mcp/internal/matcher"
)

// Deps contains all dependencies available to custom tools.
// This gives custom tools access to the same infrastructure as builtin tools.
type Deps struct {
	Config   *config.Config
	Store    *catalog.Store
	Engine   *matcher.Engine
	Loader   *ingest.Loader
	Executor *executor.Executor
}
