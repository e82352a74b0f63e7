package prompts

import (
	"context"
	"fmt"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// HandleExploreAPI implements the API survey workflow.
func HandleExploreAPI(d *Deps) func(ctx context.Context, req *sdkmcp.GetPromptRequest) (*sdkmcp.GetPromptResult, error) {
	return func(ctx context.Context, req *sdkmcp.GetPromptRequest) (*sdkmcp.GetPromptResult, error) {
		topic := ""
		if req.Params.Arguments != nil {
			topic = req.Params.Arguments["topic"]
		}

		var sb strings.Builder

		sb.WriteString("# Explore the API\n\n")
		sb.WriteString("Survey the ingested endpoint catalog and explain what the API can do in plain language.\n\n")

		sb.WriteString("## Workflow Steps\n\n")
		sb.WriteString("1. Call `apimatch_list_endpoints` for the full catalog and API metadata\n")
		if topic != "" {
			fmt.Fprintf(&sb, "2. Call `apimatch_search_endpoints` with %q to find the relevant operations\n", topic)
		} else {
			sb.WriteString("2. Group endpoints by resource (shared path prefixes) and by read vs. write\n")
		}
		sb.WriteString("3. For the most useful endpoints, call `apimatch_describe_endpoint` to see required parameters and example values\n")
		sb.WriteString("4. Summarize: what the API manages, which requests need what information, and two or three example queries a user could ask\n\n")

		// Inline the catalog name when one is loaded so the summary opens
		// with it.
		if cat, _, err := d.Store.Snapshot(); err == nil {
			fmt.Fprintf(&sb, "The active catalog is %q with %d endpoints.\n", cat.Meta.Name, cat.Len())
		} else {
			sb.WriteString("No catalog is loaded yet; run `apimatch_reload_specs` first.\n")
		}

		return &sdkmcp.GetPromptResult{
			Messages: []*sdkmcp.PromptMessage{
				{
					Role:    "user",
					Content: &sdkmcp.TextContent{Text: sb.String()},
				},
			},
		}, nil
	}
}
