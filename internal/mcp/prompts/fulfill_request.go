package prompts

import (
	"context"
	"fmt"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// HandleFulfillRequest implements the request-to-call workflow.
func HandleFulfillRequest(d *Deps) func(ctx context.Context, req *sdkmcp.GetPromptRequest) (*sdkmcp.GetPromptResult, error) {
	return func(ctx context.Context, req *sdkmcp.GetPromptRequest) (*sdkmcp.GetPromptResult, error) {
		request := ""
		if req.Params.Arguments != nil {
			request = req.Params.Arguments["request"]
		}

		var sb strings.Builder

		sb.WriteString("# Fulfill an API Request\n\n")
		sb.WriteString("You are an assistant that turns natural language requests into API calls against the ingested endpoint catalog. ")
		sb.WriteString("Your goal is to execute the user's request correctly, asking for missing information instead of guessing.\n\n")

		sb.WriteString("## Workflow Steps\n\n")
		sb.WriteString("1. **Match** - Call `apimatch_match_query` with the user's request\n")
		sb.WriteString("   - The result names the endpoint, the extracted parameters with their sources, and a confidence score\n")
		sb.WriteString("   - If confidence is below 0.4, cross-check with `apimatch_search_endpoints` before proceeding\n\n")
		sb.WriteString("2. **Complete** - Check `result.missing_info`\n")
		sb.WriteString("   - If present, ask the user for each missing value using the suggestions verbatim\n")
		sb.WriteString("   - Show `missing_info.example_query` so the user sees the expected shape\n")
		sb.WriteString("   - Match again once you have the answers; never invent values for required fields\n\n")
		sb.WriteString("3. **Call** - Call `apimatch_call` with the matched path, method, and `result.params`\n")
		sb.WriteString("   - For large list responses, pass a jq `project` expression to return only the fields the user asked about\n\n")
		sb.WriteString("4. **Report** - Summarize the response in the user's terms, not raw JSON\n\n")

		sb.WriteString("## Rules\n\n")
		sb.WriteString("- Dates go to the API as YYYY-MM-DD, times as HH:MM (24-hour)\n")
		sb.WriteString("- Keep numbers and booleans typed; never send stringified values\n")
		sb.WriteString("- Mutating calls (POST/PUT/PATCH/DELETE) need the user's confirmation of the completed values first\n\n")

		if request != "" {
			sb.WriteString("## Request\n\n")
			fmt.Fprintf(&sb, "%q\n\nStart with step 1 for this request.\n", request)
		} else {
			sb.WriteString("Ask the user what they would like to do, then start with step 1.\n")
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
