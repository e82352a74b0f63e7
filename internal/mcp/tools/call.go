package tools

import (
	"context"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/apimatch-mcp/internal/executor"
)

// CallInput is the input for apimatch_call.
type CallInput struct {
	Path       string         `json:"path" jsonschema:"Endpoint path from a match result, e.g. /garages/{garage_id}/slots"`
	Method     string         `json:"method" jsonschema:"HTTP method of the endpoint"`
	Params     map[string]any `json:"params,omitempty" jsonschema:"Completed parameter values, typically result.params from apimatch_match_query"`
	Project    string         `json:"project,omitempty" jsonschema:"Optional jq expression applied to the JSON response, e.g. '.slots[].time'"`
	MaxResults int            `json:"max_results,omitempty" jsonschema:"Max projected values to return (default: unlimited)"`
}

// CallOutput is the output for apimatch_call.
type CallOutput struct {
	Status    int      `json:"status"`
	URL       string   `json:"url"`
	Body      any      `json:"body,omitempty"`
	Raw       string   `json:"raw,omitempty"`
	Projected []any    `json:"projected,omitzero"`
	Errors    []string `json:"errors,omitzero"`
}

// ToolCall executes a matched endpoint against the upstream API.
func ToolCall(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input CallInput) (*sdkmcp.CallToolResult, CallOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input CallInput) (*sdkmcp.CallToolResult, CallOutput, error) {
		if input.Path == "" || input.Method == "" {
			return nil, CallOutput{}, ErrInvalidInput("path and method are required")
		}
		if input.Project != "" {
			if err := executor.ValidateExpression(input.Project); err != nil {
				return nil, CallOutput{}, ErrInvalidInput(err.Error())
			}
		}

		cat, _, err := d.Snapshot()
		if err != nil {
			return nil, CallOutput{}, WrapEngineError(err)
		}
		if cat.Find(input.Path, input.Method) == nil {
			return nil, CallOutput{}, ErrNotFound("endpoint", strings.ToUpper(input.Method)+" "+input.Path)
		}

		resp, err := d.Executor.Execute(ctx, cat, input.Path, input.Method, input.Params)
		if err != nil {
			return nil, CallOutput{}, WrapEngineError(err)
		}

		output := CallOutput{
			Status: resp.Status,
			URL:    resp.URL,
			Body:   resp.Body,
			Raw:    resp.Raw,
		}

		if input.Project != "" && resp.Body != nil {
			projection, err := executor.Project(resp.Body, input.Project, input.MaxResults)
			if err != nil {
				return nil, CallOutput{}, ErrInvalidInput(err.Error())
			}
			output.Projected = projection.Values
			output.Errors = projection.Errors
			output.Body = nil // projection replaces the full body
		}

		return nil, output, nil
	}
}
