package tools

import (
	"context"
	"log/slog"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/find-flights-mcp/internal/format"
	"github.com/usestring/find-flights-mcp/internal/itinerary"
	"github.com/usestring/find-flights-mcp/pkg/duffel"
)

// LegInput is one leg of a multi-city search.
type LegInput struct {
	Origin        string             `json:"origin" jsonschema:"Origin airport IATA code, e.g. LHR"`
	Destination   string             `json:"destination" jsonschema:"Destination airport IATA code, e.g. JFK"`
	DepartureDate string             `json:"departure_date" jsonschema:"Departure date (YYYY-MM-DD)"`
	DepartureTime *duffel.TimeWindow `json:"departure_time,omitempty" jsonschema:"Departure time window {from, to} in HH:MM (default: whole day)"`
	ArrivalTime   *duffel.TimeWindow `json:"arrival_time,omitempty" jsonschema:"Arrival time window {from, to} in HH:MM (default: whole day)"`
}

func (l LegInput) leg() itinerary.Leg {
	return itinerary.Leg{
		Origin:        l.Origin,
		Destination:   l.Destination,
		DepartureDate: l.DepartureDate,
		DepartureTime: l.DepartureTime,
		ArrivalTime:   l.ArrivalTime,
	}
}

// SearchFlightsInput is the input for search_flights.
type SearchFlightsInput struct {
	Type            string             `json:"type" jsonschema:"Type of flight: one_way, round_trip or multi_city"`
	Origin          string             `json:"origin" jsonschema:"Origin airport IATA code"`
	Destination     string             `json:"destination" jsonschema:"Destination airport IATA code"`
	DepartureDate   string             `json:"departure_date" jsonschema:"Departure date (YYYY-MM-DD)"`
	ReturnDate      string             `json:"return_date,omitempty" jsonschema:"Return date for round trips (YYYY-MM-DD)"`
	DepartureTime   *duffel.TimeWindow `json:"departure_time,omitempty" jsonschema:"Departure time window of the first leg in HH:MM"`
	ArrivalTime     *duffel.TimeWindow `json:"arrival_time,omitempty" jsonschema:"Arrival time window of the first leg in HH:MM"`
	AdditionalStops []LegInput         `json:"additional_stops,omitempty" jsonschema:"Further legs after the first one, required for multi_city"`
	CabinClass      string             `json:"cabin_class,omitempty" jsonschema:"Cabin class: economy (default), premium_economy, business or first"`
	Adults          int                `json:"adults,omitempty" jsonschema:"Number of adult passengers, 1 to 9 (default: 1)"`
	MaxConnections  *int               `json:"max_connections,omitempty" jsonschema:"Maximum connections per slice"`
	Limit           int                `json:"limit,omitempty" jsonschema:"Maximum offers to return (default: 5)"`
}

// SearchMultiCityInput is the input for search_multi_city.
type SearchMultiCityInput struct {
	Segments       []LegInput `json:"segments" jsonschema:"Legs in travel order, at least 2"`
	CabinClass     string     `json:"cabin_class,omitempty" jsonschema:"Cabin class: economy (default), premium_economy, business or first"`
	Adults         int        `json:"adults,omitempty" jsonschema:"Number of adult passengers, 1 to 9 (default: 1)"`
	MaxConnections *int       `json:"max_connections,omitempty" jsonschema:"Maximum connections per slice"`
	Limit          int        `json:"limit,omitempty" jsonschema:"Maximum offers to return (default: 5)"`
}

// ToolSearchFlights searches one-way, round-trip and multi-city itineraries.
func ToolSearchFlights(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input SearchFlightsInput) (*sdkmcp.CallToolResult, format.Result, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input SearchFlightsInput) (*sdkmcp.CallToolResult, format.Result, error) {
		opts := itinerary.Options{
			CabinClass:     input.CabinClass,
			Adults:         input.Adults,
			MaxConnections: input.MaxConnections,
		}
		first := itinerary.Leg{
			Origin:        input.Origin,
			Destination:   input.Destination,
			DepartureDate: input.DepartureDate,
			DepartureTime: input.DepartureTime,
			ArrivalTime:   input.ArrivalTime,
		}

		var (
			intent *itinerary.Intent
			err    error
		)
		switch itinerary.Kind(input.Type) {
		case itinerary.OneWay:
			intent, err = itinerary.NewOneWay(first, opts)
		case itinerary.RoundTrip:
			intent, err = itinerary.NewRoundTrip(first, input.ReturnDate, opts)
		case itinerary.MultiCity:
			if len(input.AdditionalStops) == 0 {
				return nil, format.Result{}, ErrInvalidInput("additional_stops are required for multi_city searches")
			}
			legs := []itinerary.Leg{first}
			for _, stop := range input.AdditionalStops {
				legs = append(legs, stop.leg())
			}
			intent, err = itinerary.NewMultiCity(legs, opts)
		default:
			return nil, format.Result{}, ErrInvalidInput("type must be 'one_way', 'round_trip' or 'multi_city', got %q", input.Type)
		}
		if err != nil {
			return nil, format.Result{}, WrapDuffelError(err)
		}

		return search(ctx, d, intent, input.Limit)
	}
}

// ToolSearchMultiCity searches an explicit list of legs.
func ToolSearchMultiCity(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input SearchMultiCityInput) (*sdkmcp.CallToolResult, format.Result, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input SearchMultiCityInput) (*sdkmcp.CallToolResult, format.Result, error) {
		legs := make([]itinerary.Leg, len(input.Segments))
		for i, s := range input.Segments {
			legs[i] = s.leg()
		}
		intent, err := itinerary.NewMultiCity(legs, itinerary.Options{
			CabinClass:     input.CabinClass,
			Adults:         input.Adults,
			MaxConnections: input.MaxConnections,
		})
		if err != nil {
			return nil, format.Result{}, WrapDuffelError(err)
		}
		return search(ctx, d, intent, input.Limit)
	}
}

func search(ctx context.Context, d *Deps, intent *itinerary.Intent, limit int) (*sdkmcp.CallToolResult, format.Result, error) {
	res, err := d.Client.CreateOfferRequest(ctx, intent.Params(d.Config.SupplierTimeoutMs))
	if err != nil {
		return nil, format.Result{}, WrapDuffelError(err)
	}

	output := format.NewResult(res, d.offerLimit(limit))
	slog.Debug("search completed",
		slog.String("kind", string(intent.Kind())),
		slog.String("request_id", output.RequestID),
		slog.Int("offers_total", len(res.Offers)),
		slog.Int("offers_returned", len(output.Offers)),
	)

	result, err := MakeJSONToolResult(output)
	if err != nil {
		return nil, format.Result{}, err
	}
	return result, output, nil
}
