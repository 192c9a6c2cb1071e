package duffel

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Cabin classes accepted by the offer request endpoint.
const (
	CabinEconomy        = "economy"
	CabinPremiumEconomy = "premium_economy"
	CabinBusiness       = "business"
	CabinFirst          = "first"
)

// OfferIDPrefix is the prefix every Duffel offer ID carries.
const OfferIDPrefix = "off_"

// MaxPageLimit is the largest page size the list endpoints accept.
const MaxPageLimit = 200

// DefaultSupplierTimeoutMs is the upstream search budget used when the caller
// does not set one.
const DefaultSupplierTimeoutMs = 15000

// ValidCabinClass reports whether c is one of the cabin class constants.
func ValidCabinClass(c string) bool {
	switch c {
	case CabinEconomy, CabinPremiumEconomy, CabinBusiness, CabinFirst:
		return true
	}
	return false
}

// TimeWindow bounds a departure or arrival time of day, both ends "HH:MM".
type TimeWindow struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// FullDay is the window used when a slice does not restrict the time of day.
func FullDay() *TimeWindow {
	return &TimeWindow{From: "00:00", To: "23:59"}
}

// SliceRequest is one directional leg of a search as sent to Duffel.
type SliceRequest struct {
	Origin        string      `json:"origin"`
	Destination   string      `json:"destination"`
	DepartureDate string      `json:"departure_date"`
	DepartureTime *TimeWindow `json:"departure_time,omitempty"`
	ArrivalTime   *TimeWindow `json:"arrival_time,omitempty"`
}

// Passenger is a passenger entry of an offer request.
type Passenger struct {
	Type string `json:"type"`
}

// OfferRequestParams describes a search.
type OfferRequestParams struct {
	Slices     []SliceRequest
	CabinClass string
	AdultCount int
	// MaxConnections is sent only when set.
	MaxConnections *int
	// SupplierTimeoutMs is the upstream search budget passed as a query
	// parameter. It is unrelated to the client's own request timeout.
	SupplierTimeoutMs int
}

func (p OfferRequestParams) validate() error {
	if len(p.Slices) == 0 {
		return Invalid("slices", "at least one slice is required")
	}
	if !ValidCabinClass(p.CabinClass) {
		return Invalid("cabin_class", "%q is not one of economy, premium_economy, business, first", p.CabinClass)
	}
	if p.AdultCount < 1 {
		return Invalid("adults", "must be a positive integer, got %d", p.AdultCount)
	}
	if p.MaxConnections != nil && *p.MaxConnections < 0 {
		return Invalid("max_connections", "must not be negative")
	}
	return nil
}

type offerRequestPayload struct {
	Data offerRequestBody `json:"data"`
}

type offerRequestBody struct {
	Slices         []SliceRequest `json:"slices"`
	Passengers     []Passenger    `json:"passengers"`
	CabinClass     string         `json:"cabin_class"`
	MaxConnections *int           `json:"max_connections,omitempty"`
}

// Place is an airport or city reference inside an offer.
type Place struct {
	IATACode *string `json:"iata_code"`
	Name     *string `json:"name"`
	CityName *string `json:"city_name"`
	Type     *string `json:"type"`
}

// Carrier is an airline reference.
type Carrier struct {
	Name     *string `json:"name"`
	IATACode *string `json:"iata_code"`
}

// Segment is one physical flight within a slice.
type Segment struct {
	ID                           *string  `json:"id"`
	Origin                       *Place   `json:"origin"`
	Destination                  *Place   `json:"destination"`
	DepartingAt                  *string  `json:"departing_at"`
	ArrivingAt                   *string  `json:"arriving_at"`
	Duration                     *string  `json:"duration"`
	MarketingCarrier             *Carrier `json:"marketing_carrier"`
	OperatingCarrier             *Carrier `json:"operating_carrier"`
	MarketingCarrierFlightNumber *string  `json:"marketing_carrier_flight_number"`
}

// Segments decodes from a JSON array, a single segment object or null.
// Some upstream shapes inline a lone segment instead of wrapping it.
type Segments []Segment

// UnmarshalJSON implements custom unmarshaling for Segments.
func (s *Segments) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*s = nil
		return nil
	}

	switch trimmed[0] {
	case '[':
		var list []Segment
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return err
		}
		*s = list
	case '{':
		var one Segment
		if err := json.Unmarshal(trimmed, &one); err != nil {
			return err
		}
		*s = Segments{one}
	default:
		return fmt.Errorf("segments: unexpected JSON %q", trimmed[:1])
	}
	return nil
}

// Slice is one directional leg of an offer.
type Slice struct {
	ID          *string  `json:"id"`
	Origin      *Place   `json:"origin"`
	Destination *Place   `json:"destination"`
	Duration    *string  `json:"duration"`
	Segments    Segments `json:"segments"`
}

// Offer is a priced itinerary returned by a search. ID is always non-empty:
// responses carrying an offer without one are rejected before decoding.
type Offer struct {
	ID            string   `json:"id"`
	TotalAmount   *string  `json:"total_amount"`
	TotalCurrency *string  `json:"total_currency"`
	ExpiresAt     *string  `json:"expires_at"`
	Owner         *Carrier `json:"owner"`
	Slices        []Slice  `json:"slices"`
}

// OfferRequestResult is the outcome of a search, either fresh or cached.
// Callers must treat it as read-only: cached results are shared.
type OfferRequestResult struct {
	RequestID string  `json:"request_id"`
	Offers    []Offer `json:"offers"`
}

// OfferRequest is an offer request as returned by the get endpoint.
type OfferRequest struct {
	ID         string  `json:"id"`
	CabinClass *string `json:"cabin_class"`
	CreatedAt  *string `json:"created_at"`
	LiveMode   *bool   `json:"live_mode"`
	Offers     []Offer `json:"offers"`
}

// OfferRequestSummary is one row of the list endpoint.
type OfferRequestSummary struct {
	ID         string  `json:"id"`
	CabinClass *string `json:"cabin_class"`
	CreatedAt  *string `json:"created_at"`
	LiveMode   *bool   `json:"live_mode"`
}

// ListOptions holds the pagination cursors of the list endpoint.
type ListOptions struct {
	After  string
	Before string
	// Limit is clamped to MaxPageLimit. Zero uses the upstream default.
	Limit int
}

// PageMeta carries the cursors for the neighbouring pages.
type PageMeta struct {
	After  *string `json:"after"`
	Before *string `json:"before"`
	Limit  *int    `json:"limit"`
}

// OfferRequestPage is one page of offer requests.
type OfferRequestPage struct {
	Data []OfferRequestSummary `json:"data"`
	Meta PageMeta              `json:"meta"`
}

// OfferDetails is a single offer, both decoded and as the raw upstream
// object for callers that need fields the typed view omits.
type OfferDetails struct {
	Offer Offer
	Raw   map[string]any
}
