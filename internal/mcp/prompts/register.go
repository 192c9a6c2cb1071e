package prompts

import (
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Register registers all prompts with the MCP server.
func Register(srv *sdkmcp.Server, cfg *Config) {
	srv.AddPrompt(&sdkmcp.Prompt{
		Name:        "plan_flight_search",
		Description: "RECOMMENDED: Plan a flight search from a traveller's request. Start here - explains which search tool to call, how to fill its parameters and how to drill into offers cheaply.",
		Arguments: []*sdkmcp.PromptArgument{
			{
				Name:        "trip",
				Description: "The trip in plain words, e.g. 'London to New York on 1 June, back a week later, business class'",
				Required:    false,
			},
		},
	}, HandlePlanFlightSearch(cfg))

	srv.AddPrompt(&sdkmcp.Prompt{
		Name:        "compare_offers",
		Description: "Compare the offers of a search and recommend one. Walks through fetching details for the shortlisted offers without pulling full offer bodies.",
		Arguments: []*sdkmcp.PromptArgument{
			{
				Name:        "request_id",
				Description: "Offer request ID from a previous search (starts with orq_)",
				Required:    false,
			},
			{
				Name:        "priority",
				Description: "What matters most: price, duration, connections or flexibility",
				Required:    false,
			},
		},
	}, HandleCompareOffers(cfg))
}

func promptResult(description, text string) *sdkmcp.GetPromptResult {
	return &sdkmcp.GetPromptResult{
		Description: description,
		Messages: []*sdkmcp.PromptMessage{
			{
				Role:    "user",
				Content: &sdkmcp.TextContent{Text: text},
			},
		},
	}
}

func argument(req *sdkmcp.GetPromptRequest, name string) string {
	if req == nil || req.Params == nil || req.Params.Arguments == nil {
		return ""
	}
	return req.Params.Arguments[name]
}
