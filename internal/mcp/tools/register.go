package tools

import (
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Register registers all tools with the MCP server.
func Register(srv *sdkmcp.Server, d *Deps) {
	// Tool 1: apimatch_match_query
	AddTool(srv, &sdkmcp.Tool{
		Name:        "apimatch_match_query",
		Description: "Map a natural language request to an API endpoint. Returns the matched endpoint, extracted typed parameters, a confidence score, and missing-information analysis with suggestions and an example query when required values are absent. Always returns a best-effort match; check result.missing_info before calling.",
	}, ToolMatchQuery(d))

	// Tool 2: apimatch_call
	AddTool(srv, &sdkmcp.Tool{
		Name:        "apimatch_call",
		Description: "Execute an endpoint against the upstream API with completed parameters. Path placeholders, query string, headers, and JSON body are assembled from the endpoint's declared parameter locations. Set project to a jq expression to slim large responses (e.g. '.slots[].time').",
	}, ToolCall(d))

	// Tool 3: apimatch_search_endpoints
	AddTool(srv, &sdkmcp.Tool{
		Name:        "apimatch_search_endpoints",
		Description: "Search the endpoint catalog with free text. Tokens are ANDed across paths, descriptions, and parameter names; results are scored and sorted. Use when match_query confidence is low or to explore what the API offers.",
	}, ToolSearchEndpoints(d))

	// Tool 4: apimatch_list_endpoints
	AddTool(srv, &sdkmcp.Tool{
		Name:        "apimatch_list_endpoints",
		Description: "List every endpoint in the active catalog with the API metadata and catalog version.",
	}, ToolListEndpoints(d))

	// Tool 5: apimatch_describe_endpoint
	AddTool(srv, &sdkmcp.Tool{
		Name:        "apimatch_describe_endpoint",
		Description: "Show one endpoint's full declaration: parameters and body fields with types, required flags, resolved request locations, and example values.",
	}, ToolDescribeEndpoint(d))

	// Tool 6: apimatch_reload_specs
	AddTool(srv, &sdkmcp.Tool{
		Name:        "apimatch_reload_specs",
		Description: "Re-ingest API specs (OpenAPI or collection JSON, from files or URLs) and replace the catalog wholesale. Empty sources reloads the configured ones. In-flight matches keep their snapshot.",
	}, ToolReloadSpecs(d))
}
