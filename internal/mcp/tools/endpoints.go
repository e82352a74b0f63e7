package tools

import (
	"context"
	"sort"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/apimatch-mcp/internal/catalog"
	"github.com/usestring/apimatch-mcp/pkg/types"
)

// ListEndpointsInput is the input for apimatch_list_endpoints.
type ListEndpointsInput struct{}

// EndpointSummary is one catalog entry in a listing.
type EndpointSummary struct {
	Path        string `json:"path"`
	Method      string `json:"method"`
	Description string `json:"description,omitempty"`
}

// ListEndpointsOutput is the output for apimatch_list_endpoints.
type ListEndpointsOutput struct {
	API       types.APIMeta     `json:"api"`
	Endpoints []EndpointSummary `json:"endpoints,omitzero"`
	Version   uint64            `json:"catalog_version"`
}

// ToolListEndpoints lists every endpoint in the active catalog.
func ToolListEndpoints(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input ListEndpointsInput) (*sdkmcp.CallToolResult, ListEndpointsOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input ListEndpointsInput) (*sdkmcp.CallToolResult, ListEndpointsOutput, error) {
		cat, version, err := d.Snapshot()
		if err != nil {
			return nil, ListEndpointsOutput{}, WrapEngineError(err)
		}

		output := ListEndpointsOutput{
			API:       cat.Meta,
			Endpoints: make([]EndpointSummary, len(cat.Endpoints)),
			Version:   version,
		}
		for i, ep := range cat.Endpoints {
			output.Endpoints[i] = EndpointSummary{
				Path:        ep.Path,
				Method:      ep.Method,
				Description: ep.Description,
			}
		}

		return nil, output, nil
	}
}

// DescribeEndpointInput is the input for apimatch_describe_endpoint.
type DescribeEndpointInput struct {
	Path   string `json:"path" jsonschema:"Endpoint path, e.g. /bookings"`
	Method string `json:"method" jsonschema:"HTTP method of the endpoint"`
}

// ParameterInfo describes one parameter with its resolved request location
// and an example value.
type ParameterInfo struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Required    bool   `json:"required"`
	Location    string `json:"location"`
	Description string `json:"description,omitempty"`
	Example     string `json:"example"`
}

// DescribeEndpointOutput is the output for apimatch_describe_endpoint.
type DescribeEndpointOutput struct {
	Path        string          `json:"path"`
	Method      string          `json:"method"`
	Description string          `json:"description,omitempty"`
	Parameters  []ParameterInfo `json:"parameters,omitzero"`
	BodyFields  []ParameterInfo `json:"body_fields,omitzero"`
}

// ToolDescribeEndpoint returns the full declaration of one endpoint.
func ToolDescribeEndpoint(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input DescribeEndpointInput) (*sdkmcp.CallToolResult, DescribeEndpointOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input DescribeEndpointInput) (*sdkmcp.CallToolResult, DescribeEndpointOutput, error) {
		if input.Path == "" || input.Method == "" {
			return nil, DescribeEndpointOutput{}, ErrInvalidInput("path and method are required")
		}

		cat, _, err := d.Snapshot()
		if err != nil {
			return nil, DescribeEndpointOutput{}, WrapEngineError(err)
		}

		ep := cat.Find(input.Path, input.Method)
		if ep == nil {
			return nil, DescribeEndpointOutput{}, ErrNotFound("endpoint", strings.ToUpper(input.Method)+" "+input.Path)
		}

		output := DescribeEndpointOutput{
			Path:        ep.Path,
			Method:      ep.Method,
			Description: ep.Description,
		}

		for i := range ep.Parameters {
			p := &ep.Parameters[i]
			output.Parameters = append(output.Parameters, ParameterInfo{
				Name:        p.Name,
				Type:        p.Type,
				Required:    p.Required,
				Location:    catalog.InferLocation(ep, p),
				Description: p.Description,
				Example:     catalog.ExampleLiteral(p.Name, p.Type),
			})
		}

		if ep.RequestBody != nil {
			names := make([]string, 0, len(ep.RequestBody.Properties))
			for name := range ep.RequestBody.Properties {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				prop := ep.RequestBody.Properties[name]
				output.BodyFields = append(output.BodyFields, ParameterInfo{
					Name:        name,
					Type:        prop.Type,
					Required:    prop.Required,
					Location:    types.LocationBody,
					Description: prop.Description,
					Example:     catalog.ExampleLiteral(name, prop.Type),
				})
			}
		}

		return nil, output, nil
	}
}
