package prompts

import (
	"context"
	"fmt"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// HandleCompareOffers implements the offer comparison workflow.
func HandleCompareOffers(cfg *Config) func(ctx context.Context, req *sdkmcp.GetPromptRequest) (*sdkmcp.GetPromptResult, error) {
	return func(ctx context.Context, req *sdkmcp.GetPromptRequest) (*sdkmcp.GetPromptResult, error) {
		requestID := argument(req, "request_id")
		priority := argument(req, "priority")
		if priority == "" {
			priority = "price"
		}

		var sb strings.Builder

		sb.WriteString("# Compare Flight Offers\n\n")
		fmt.Fprintf(&sb, "Recommend one offer, optimising for **%s**, and explain the trade-offs against the runners-up.\n\n", priority)

		sb.WriteString("## Workflow Steps\n\n")
		sb.WriteString("1. **Load the offers**\n")
		if requestID != "" {
			fmt.Fprintf(&sb, "   - `get_offer_request(request_id: %q, limit: %d)`\n", requestID, cfg.MaxOfferLimit)
		} else {
			sb.WriteString("   - `list_offer_requests()` to find the search, then `get_offer_request(request_id: \"orq_...\")`\n")
		}
		sb.WriteString("2. **Shortlist** at most 3 offers from the formatted list (price, departure, arrival, connections)\n")
		sb.WriteString("3. **Check conditions** for each shortlisted offer only\n")
		sb.WriteString("   - `get_offer_details(offer_id: \"off_...\", jq: \"{conditions, total_emissions_kg}\")`\n\n")

		sb.WriteString("## Expected Output Format\n\n")
		sb.WriteString("1. **Recommendation**: offer_id, price and one sentence why\n")
		sb.WriteString("2. **Alternatives**: up to 2 offers with what they trade away\n")
		sb.WriteString("3. **Caveats**: fare rules or tight connections the traveller should know\n\n")

		sb.WriteString("## Constraints\n\n")
		sb.WriteString("- Do NOT read the `duffel://offers/{offer_id}` resource unless a field is missing from the jq projection\n")
		sb.WriteString("- Do NOT fetch details for offers outside the shortlist\n")
		sb.WriteString("- Connections shorter than 1 hour are tight; flag them\n")

		return promptResult("Guide for comparing flight offers", sb.String()), nil
	}
}
