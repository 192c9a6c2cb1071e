// Package format compresses Duffel offers into the compact shape returned to
// agents.
package format

import (
	"encoding/json"

	"github.com/usestring/find-flights-mcp/pkg/duffel"
)

// Price is an offer total. Amount is kept as the upstream decimal string.
type Price struct {
	Amount   *string `json:"amount" jsonschema:"Total amount as a decimal string"`
	Currency *string `json:"currency" jsonschema:"ISO 4217 currency code"`
}

// Connection describes the change between two consecutive segments.
//
// Duration is the stated duration of the onward segment, not the layover.
type Connection struct {
	Airport   *string `json:"airport" jsonschema:"IATA code of the connecting airport"`
	Arrival   *string `json:"arrival" jsonschema:"Arrival time at the connecting airport"`
	Departure *string `json:"departure" jsonschema:"Departure time of the onward segment"`
	Duration  *string `json:"duration" jsonschema:"ISO 8601 duration of the onward segment"`
}

// Slice is a flattened directional leg.
type Slice struct {
	Origin      *string      `json:"origin" jsonschema:"Origin IATA code"`
	Destination *string      `json:"destination" jsonschema:"Destination IATA code"`
	Departure   *string      `json:"departure" jsonschema:"Departure time of the first segment"`
	Arrival     *string      `json:"arrival" jsonschema:"Arrival time of the last segment"`
	Duration    *string      `json:"duration" jsonschema:"ISO 8601 duration of the slice"`
	Carrier     *string      `json:"carrier" jsonschema:"Marketing carrier of the first segment"`
	Connections []Connection `json:"connections,omitzero" jsonschema:"Connections between segments, empty for direct flights"`
}

// Offer is the compact form of a duffel.Offer. OfferID is always set since
// the client rejects offers without an id.
type Offer struct {
	OfferID string  `json:"offer_id" jsonschema:"Offer ID for get_offer_details"`
	Price   Price   `json:"price" jsonschema:"Total price"`
	Slices  []Slice `json:"slices,omitzero" jsonschema:"Slices with at least one segment"`
}

// Result is the envelope returned by the search tools.
type Result struct {
	RequestID string  `json:"request_id" jsonschema:"Offer request ID"`
	Offers    []Offer `json:"offers,omitzero" jsonschema:"Offers in upstream ranking order"`
}

// Offers formats the first limit offers, in upstream order.
// A non-positive limit keeps every offer.
func Offers(offers []duffel.Offer, limit int) []Offer {
	if limit > 0 && len(offers) > limit {
		offers = offers[:limit]
	}
	out := make([]Offer, 0, len(offers))
	for _, o := range offers {
		out = append(out, formatOffer(o))
	}
	return out
}

// NewResult builds the search tool envelope for r.
func NewResult(r *duffel.OfferRequestResult, limit int) Result {
	if r == nil {
		return Result{Offers: []Offer{}}
	}
	return Result{RequestID: r.RequestID, Offers: Offers(r.Offers, limit)}
}

// Render serializes v as indented JSON.
func Render(v any) (string, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func formatOffer(o duffel.Offer) Offer {
	out := Offer{
		OfferID: o.ID,
		Price:   Price{Amount: o.TotalAmount, Currency: o.TotalCurrency},
		Slices:  make([]Slice, 0, len(o.Slices)),
	}
	for _, s := range o.Slices {
		if len(s.Segments) == 0 {
			continue
		}
		out.Slices = append(out.Slices, formatSlice(s))
	}
	return out
}

func formatSlice(s duffel.Slice) Slice {
	first := s.Segments[0]
	last := s.Segments[len(s.Segments)-1]

	out := Slice{
		Origin:      iata(s.Origin),
		Destination: iata(s.Destination),
		Departure:   first.DepartingAt,
		Arrival:     last.ArrivingAt,
		Duration:    s.Duration,
		Connections: make([]Connection, 0, len(s.Segments)-1),
	}
	if first.MarketingCarrier != nil {
		out.Carrier = first.MarketingCarrier.Name
	}

	for i := 0; i+1 < len(s.Segments); i++ {
		cur, next := s.Segments[i], s.Segments[i+1]
		out.Connections = append(out.Connections, Connection{
			Airport:   iata(cur.Destination),
			Arrival:   cur.ArrivingAt,
			Departure: next.DepartingAt,
			Duration:  next.Duration,
		})
	}
	return out
}

func iata(p *duffel.Place) *string {
	if p == nil {
		return nil
	}
	return p.IATACode
}
