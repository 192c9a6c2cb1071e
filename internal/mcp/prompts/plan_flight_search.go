package prompts

import (
	"context"
	"fmt"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// HandlePlanFlightSearch serves the search planning guide.
func HandlePlanFlightSearch(cfg *Config) func(ctx context.Context, req *sdkmcp.GetPromptRequest) (*sdkmcp.GetPromptResult, error) {
	return func(ctx context.Context, req *sdkmcp.GetPromptRequest) (*sdkmcp.GetPromptResult, error) {
		trip := argument(req, "trip")

		var sb strings.Builder

		sb.WriteString("# Plan a Flight Search\n\n")
		sb.WriteString("You are a travel assistant with access to live flight offers. ")
		sb.WriteString("Turn the traveller's request into one search call, then summarise the best options.\n\n")
		if trip != "" {
			fmt.Fprintf(&sb, "## Traveller's Request\n\n%s\n\n", trip)
		}

		sb.WriteString("## Choosing the Tool\n\n")
		sb.WriteString("| Trip | Tool | Required parameters |\n")
		sb.WriteString("|------|------|---------------------|\n")
		sb.WriteString("| One way | `search_flights` | `type: \"one_way\"`, origin, destination, departure_date |\n")
		sb.WriteString("| Return | `search_flights` | `type: \"round_trip\"`, origin, destination, departure_date, return_date |\n")
		sb.WriteString("| Three or more airports | `search_multi_city` | `segments` with origin, destination, departure_date each |\n")

		sb.WriteString("\n**Key rules**:\n")
		sb.WriteString("- Airports are 3-letter IATA codes (LHR, JFK). Resolve city names to their main airport first\n")
		sb.WriteString("- Dates are YYYY-MM-DD and must not be in the past\n")
		sb.WriteString("- `cabin_class` is economy (default), premium_economy, business or first\n")
		sb.WriteString("- `adults` is 1 to 9 (default 1)\n")
		sb.WriteString("- Time windows `{from, to}` use HH:MM. On a round trip they apply to the outbound flight only\n")
		sb.WriteString("- Set `max_connections: 0` only when the traveller insists on direct flights\n")

		sb.WriteString("\n## Results (Token-Optimized)\n")
		fmt.Fprintf(&sb, "- Searches return %d offers by default, at most %d. Ask for more with `limit` only if needed\n",
			cfg.DefaultOfferLimit, cfg.MaxOfferLimit)
		sb.WriteString("- Offers keep Duffel's order. Each has offer_id, price and slices with connections\n")
		sb.WriteString("- Repeating an identical search within five minutes is served from cache\n")

		sb.WriteString("\n## Drilling Into an Offer\n")
		sb.WriteString("1. `get_offer_details(offer_id: \"off_...\", body_mode: \"summary\")` for a cheap check\n")
		sb.WriteString("2. `get_offer_details(offer_id: \"off_...\", jq: \".conditions\")` for change and refund rules\n")
		sb.WriteString("3. `get_seat_map(offer_id: \"off_...\", jq: \"[.[].cabins[].rows[].sections[].elements[] | select(.type == \\\"seat\\\")] | length\")` to count seats\n")

		sb.WriteString("\n## If Things Go Wrong\n\n")
		sb.WriteString("- **INVALID_INPUT**: fix the named field and retry; nothing was sent upstream\n")
		sb.WriteString("- **TIMEOUT**: the search was already retried once; try fewer constraints or another date\n")
		sb.WriteString("- **NOT_FOUND** on an offer: offers expire, run the search again\n")
		sb.WriteString("- **No offers**: widen time windows, drop `max_connections` or try nearby airports\n")

		return promptResult("Guide for planning a flight search", sb.String()), nil
	}
}
