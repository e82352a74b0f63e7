package tools

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// ReloadSpecsInput is the input for apimatch_reload_specs.
type ReloadSpecsInput struct {
	Sources []string `json:"sources,omitempty" jsonschema:"Spec file paths or URLs to load. Empty reloads the configured sources."`
}

// ReloadSpecsOutput is the output for apimatch_reload_specs.
type ReloadSpecsOutput struct {
	API       string `json:"api"`
	Endpoints int    `json:"endpoints"`
	Version   uint64 `json:"catalog_version"`
}

// ToolReloadSpecs re-ingests API specs and replaces the catalog wholesale.
// In-flight matches keep the snapshot they started with.
func ToolReloadSpecs(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input ReloadSpecsInput) (*sdkmcp.CallToolResult, ReloadSpecsOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input ReloadSpecsInput) (*sdkmcp.CallToolResult, ReloadSpecsOutput, error) {
		cat, err := d.Reload(ctx, input.Sources)
		if err != nil {
			return nil, ReloadSpecsOutput{}, WrapEngineError(err)
		}

		return nil, ReloadSpecsOutput{
			API:       cat.Meta.Name,
			Endpoints: cat.Len(),
			Version:   d.Store.Version(),
		}, nil
	}
}
