package prompts

import (
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Register registers all prompts with the MCP server.
func Register(srv *sdkmcp.Server, d *Deps) {
	// Prompt 1: Fulfill a user request end to end
	srv.AddPrompt(&sdkmcp.Prompt{
		Name:        "fulfill_request",
		Description: "RECOMMENDED: Turn a natural language request into an executed API call. Walks through matching, completing missing parameters with the user, and calling the endpoint.",
		Arguments: []*sdkmcp.PromptArgument{
			{
				Name:        "request",
				Description: "The user's request in their own words (e.g., 'book an oil change for tomorrow afternoon')",
				Required:    false,
			},
		},
	}, HandleFulfillRequest(d))

	// Prompt 2: Explore the API surface
	srv.AddPrompt(&sdkmcp.Prompt{
		Name:        "explore_api",
		Description: "Survey the ingested API: what endpoints exist, what they need, and what kinds of requests they can serve.",
		Arguments: []*sdkmcp.PromptArgument{
			{
				Name:        "topic",
				Description: "Optional topic to focus on (e.g., 'bookings', 'customers')",
				Required:    false,
			},
		},
	}, HandleExploreAPI(d))
}
