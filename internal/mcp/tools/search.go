package tools

import (
	"context"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// SearchEndpointsInput is the input for apimatch_search_endpoints.
type SearchEndpointsInput struct {
	Query  string `json:"query,omitempty" jsonschema:"Free text search across paths, descriptions, and parameter names. Tokens are ANDed. Empty returns all endpoints."`
	Method string `json:"method,omitempty" jsonschema:"Restrict results to one HTTP method"`
	Limit  int    `json:"limit,omitempty" jsonschema:"Max results (default: 10)"`
}

// EndpointHit is one scored endpoint from a search.
type EndpointHit struct {
	Path        string  `json:"path"`
	Method      string  `json:"method"`
	Description string  `json:"description,omitempty"`
	Score       float64 `json:"score"`
}

// SearchEndpointsOutput is the output for apimatch_search_endpoints.
type SearchEndpointsOutput struct {
	Results []EndpointHit `json:"results,omitzero"`
	Hint    string        `json:"hint,omitempty"`
}

// ToolSearchEndpoints searches the catalog's inverted index.
func ToolSearchEndpoints(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input SearchEndpointsInput) (*sdkmcp.CallToolResult, SearchEndpointsOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input SearchEndpointsInput) (*sdkmcp.CallToolResult, SearchEndpointsOutput, error) {
		idx, err := d.Index()
		if err != nil {
			return nil, SearchEndpointsOutput{}, WrapEngineError(err)
		}

		limit := input.Limit
		if limit <= 0 {
			limit = d.Config.DefaultSearchLimit
		}

		hits := idx.Search(input.Query, strings.ToUpper(input.Method), limit)

		output := SearchEndpointsOutput{
			Results: make([]EndpointHit, len(hits)),
		}
		for i, hit := range hits {
			output.Results[i] = EndpointHit{
				Path:        hit.Endpoint.Path,
				Method:      hit.Endpoint.Method,
				Description: hit.Endpoint.Description,
				Score:       hit.Score,
			}
		}

		if len(hits) == 0 {
			output.Hint = "No endpoints matched. Try fewer or broader terms, or apimatch_list_endpoints to see the whole catalog."
		} else {
			output.Hint = "Use apimatch_describe_endpoint for parameter details of a result."
		}

		return nil, output, nil
	}
}
