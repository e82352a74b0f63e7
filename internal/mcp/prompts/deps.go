// Package prompts contains MCP prompt implementations for apimatch.
package prompts

import (
	"github.com/usestring/apimatch-mcp/internal/catalog"
)

// Deps holds dependencies needed by prompts.
type Deps struct {
	Store *catalog.Store
}
