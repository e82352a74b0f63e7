// Package tools contains the MCP tool implementations for apimatch.
package tools

import (
	"context"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/apimatch-mcp/pkg/types"
)

// MatchQueryInput is the input for apimatch_match_query.
type MatchQueryInput struct {
	Query string `json:"query" jsonschema:"Natural language request to match against the API, e.g. 'book an oil change at Joe's Garage tomorrow at 2pm'"`
}

// MatchQueryOutput is the output for apimatch_match_query.
type MatchQueryOutput struct {
	Result *types.MatchResult `json:"result,omitempty"`
	Hint   string             `json:"hint,omitempty"`
}

// ToolMatchQuery maps a natural language query to an endpoint with typed
// parameters and missing-information analysis.
func ToolMatchQuery(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input MatchQueryInput) (*sdkmcp.CallToolResult, MatchQueryOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input MatchQueryInput) (*sdkmcp.CallToolResult, MatchQueryOutput, error) {
		if strings.TrimSpace(input.Query) == "" {
			return nil, MatchQueryOutput{}, ErrInvalidInput("query is required")
		}

		result, err := d.Engine.Match(ctx, input.Query)
		if err != nil {
			return nil, MatchQueryOutput{}, WrapEngineError(err)
		}

		output := MatchQueryOutput{Result: result}
		switch {
		case result.HasMissing():
			output.Hint = "The request is missing required information; see result.missing_info and guidance. Ask the user, then match again with a completed query."
		case result.Confidence < 0.4:
			output.Hint = "Low confidence match. Use apimatch_search_endpoints to check for better candidates before calling."
		default:
			output.Hint = "All required parameters resolved. Use apimatch_call with the matched endpoint and params to execute."
		}

		return nil, output, nil
	}
}
