package tools

import (
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Tool names.
const (
	NameSearchFlights     = "search_flights"
	NameSearchMultiCity   = "search_multi_city"
	NameGetOfferDetails   = "get_offer_details"
	NameGetSeatMap        = "get_seat_map"
	NameListOfferRequests = "list_offer_requests"
	NameGetOfferRequest   = "get_offer_request"
)

// Register registers all tools with the MCP server.
func Register(srv *sdkmcp.Server, d *Deps) error {
	readOnly := &sdkmcp.ToolAnnotations{ReadOnlyHint: true}

	regs := []func() error{
		func() error {
			return addTool(srv, &sdkmcp.Tool{
				Name:        NameSearchFlights,
				Description: "Search for flights between airports. type is one_way, round_trip (requires return_date) or multi_city (requires additional_stops). Dates are YYYY-MM-DD, airports are 3-letter IATA codes, optional departure_time/arrival_time windows are {from, to} in HH:MM. Returns {request_id, offers: [{offer_id, price, slices}]}; pass offer_id to get_offer_details or get_seat_map.",
				Annotations: readOnly,
			}, ToolSearchFlights(d))
		},
		func() error {
			return addTool(srv, &sdkmcp.Tool{
				Name:        NameSearchMultiCity,
				Description: "Search a multi-city itinerary of two or more legs, each with origin, destination and departure_date. Returns the same offer list as search_flights.",
				Annotations: readOnly,
			}, ToolSearchMultiCity(d))
		},
		func() error {
			return addTool(srv, &sdkmcp.Tool{
				Name:        NameGetOfferDetails,
				Description: "Get a single offer by offer_id. Returns the formatted offer plus the raw offer body (compact by default). Set body_mode to 'summary', 'schema' or 'full', or pass a jq expression to extract fields such as conditions or baggage.",
				Annotations: readOnly,
			}, ToolGetOfferDetails(d))
		},
		func() error {
			return addTool(srv, &sdkmcp.Tool{
				Name:        NameGetSeatMap,
				Description: "Get the seat maps for an offer, one per segment. Body is compact by default; use body_mode='schema' for structure or jq to count or filter seats. An empty result means the airline does not support seat selection.",
				Annotations: readOnly,
			}, ToolGetSeatMap(d))
		},
		func() error {
			return addTool(srv, &sdkmcp.Tool{
				Name:        NameListOfferRequests,
				Description: "List past searches (offer requests), newest first. Page with the after/before cursors from the previous response.",
				Annotations: readOnly,
			}, ToolListOfferRequests(d))
		},
		func() error {
			return addTool(srv, &sdkmcp.Tool{
				Name:        NameGetOfferRequest,
				Description: "Get a past search by request_id with its offers, formatted like search_flights.",
				Annotations: readOnly,
			}, ToolGetOfferRequest(d))
		},
	}
	for _, reg := range regs {
		if err := reg(); err != nil {
			return err
		}
	}
	return nil
}
