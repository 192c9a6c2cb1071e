// Package itinerary turns validated search intents into Duffel slices.
package itinerary

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/usestring/find-flights-mcp/pkg/duffel"
)

// Kind selects the shape of a search.
type Kind string

const (
	OneWay    Kind = "one_way"
	RoundTrip Kind = "round_trip"
	MultiCity Kind = "multi_city"
)

// MaxAdults is the largest passenger count Duffel accepts in one request.
const MaxAdults = 9

// Leg is one requested journey between two airports.
type Leg struct {
	Origin        string
	Destination   string
	DepartureDate string // YYYY-MM-DD
	DepartureTime *duffel.TimeWindow
	ArrivalTime   *duffel.TimeWindow
}

// Options are the search settings shared by every leg.
type Options struct {
	// CabinClass defaults to economy.
	CabinClass string
	// Adults defaults to 1.
	Adults         int
	MaxConnections *int
}

// Intent is a validated search. It cannot be modified after construction.
type Intent struct {
	kind           Kind
	legs           []Leg
	cabinClass     string
	adults         int
	maxConnections *int
}

// NewOneWay builds a single-leg search.
func NewOneWay(leg Leg, opts Options) (*Intent, error) {
	return newIntent(OneWay, []Leg{leg}, opts)
}

// NewRoundTrip builds an outbound leg plus the reverse journey on returnDate.
// The outbound time windows do not carry over to the return leg.
func NewRoundTrip(outbound Leg, returnDate string, opts Options) (*Intent, error) {
	if strings.TrimSpace(returnDate) == "" {
		return nil, duffel.Invalid("return_date", "is required for round trips")
	}
	inbound := Leg{
		Origin:        outbound.Destination,
		Destination:   outbound.Origin,
		DepartureDate: returnDate,
	}
	in, err := newIntent(RoundTrip, []Leg{outbound, inbound}, opts)
	if err != nil {
		return nil, err
	}
	if in.legs[1].DepartureDate < in.legs[0].DepartureDate {
		return nil, duffel.Invalid("return_date", "%s is before the departure date %s", returnDate, in.legs[0].DepartureDate)
	}
	return in, nil
}

// NewMultiCity builds a search with one slice per leg, in order.
func NewMultiCity(legs []Leg, opts Options) (*Intent, error) {
	if len(legs) < 2 {
		return nil, duffel.Invalid("segments", "multi-city searches need at least 2 legs, got %d", len(legs))
	}
	return newIntent(MultiCity, legs, opts)
}

func newIntent(kind Kind, legs []Leg, opts Options) (*Intent, error) {
	cabin := strings.ToLower(strings.TrimSpace(opts.CabinClass))
	if cabin == "" {
		cabin = duffel.CabinEconomy
	}
	if !duffel.ValidCabinClass(cabin) {
		return nil, duffel.Invalid("cabin_class", "%q is not one of economy, premium_economy, business, first", opts.CabinClass)
	}

	adults := opts.Adults
	if adults == 0 {
		adults = 1
	}
	if adults < 1 || adults > MaxAdults {
		return nil, duffel.Invalid("adults", "must be between 1 and %d, got %d", MaxAdults, opts.Adults)
	}

	var maxConn *int
	if opts.MaxConnections != nil {
		if *opts.MaxConnections < 0 {
			return nil, duffel.Invalid("max_connections", "must not be negative")
		}
		v := *opts.MaxConnections
		maxConn = &v
	}

	normalized := make([]Leg, len(legs))
	for i, leg := range legs {
		prefix := ""
		if len(legs) > 1 {
			prefix = fmt.Sprintf("legs[%d].", i)
		}
		n, err := normalizeLeg(prefix, leg)
		if err != nil {
			return nil, err
		}
		normalized[i] = n
	}

	return &Intent{
		kind:           kind,
		legs:           normalized,
		cabinClass:     cabin,
		adults:         adults,
		maxConnections: maxConn,
	}, nil
}

var timeOfDay = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

func normalizeLeg(prefix string, leg Leg) (Leg, error) {
	origin, err := airport(prefix+"origin", leg.Origin)
	if err != nil {
		return Leg{}, err
	}
	dest, err := airport(prefix+"destination", leg.Destination)
	if err != nil {
		return Leg{}, err
	}
	if origin == dest {
		return Leg{}, duffel.Invalid(prefix+"destination", "must differ from origin %s", origin)
	}

	date := strings.TrimSpace(leg.DepartureDate)
	if _, err := time.Parse(time.DateOnly, date); err != nil {
		return Leg{}, duffel.Invalid(prefix+"departure_date", "%q is not a YYYY-MM-DD date", leg.DepartureDate)
	}

	dep, err := window(prefix+"departure_time", leg.DepartureTime)
	if err != nil {
		return Leg{}, err
	}
	arr, err := window(prefix+"arrival_time", leg.ArrivalTime)
	if err != nil {
		return Leg{}, err
	}

	return Leg{
		Origin:        origin,
		Destination:   dest,
		DepartureDate: date,
		DepartureTime: dep,
		ArrivalTime:   arr,
	}, nil
}

func airport(field, code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != 3 {
		return "", duffel.Invalid(field, "%q is not a 3-letter IATA code", code)
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return "", duffel.Invalid(field, "%q is not a 3-letter IATA code", code)
		}
	}
	return code, nil
}

// window validates w and fills in the full day when it is unset.
func window(field string, w *duffel.TimeWindow) (*duffel.TimeWindow, error) {
	if w == nil {
		return duffel.FullDay(), nil
	}
	if !timeOfDay.MatchString(w.From) {
		return nil, duffel.Invalid(field+".from", "%q is not a HH:MM time", w.From)
	}
	if !timeOfDay.MatchString(w.To) {
		return nil, duffel.Invalid(field+".to", "%q is not a HH:MM time", w.To)
	}
	if w.From > w.To {
		return nil, duffel.Invalid(field, "from %s is after to %s", w.From, w.To)
	}
	return &duffel.TimeWindow{From: w.From, To: w.To}, nil
}

// Kind returns the search shape.
func (in *Intent) Kind() Kind { return in.kind }

// CabinClass returns the normalized cabin class.
func (in *Intent) CabinClass() string { return in.cabinClass }

// Adults returns the passenger count.
func (in *Intent) Adults() int { return in.adults }

// MaxConnections returns the connection bound, or nil when unset.
func (in *Intent) MaxConnections() *int {
	if in.maxConnections == nil {
		return nil
	}
	v := *in.maxConnections
	return &v
}

// Legs returns a copy of the normalized legs.
func (in *Intent) Legs() []Leg {
	out := make([]Leg, len(in.legs))
	for i, leg := range in.legs {
		out[i] = leg
		out[i].DepartureTime = copyWindow(leg.DepartureTime)
		out[i].ArrivalTime = copyWindow(leg.ArrivalTime)
	}
	return out
}

// Slices maps the intent to the upstream slice schema, one slice per leg.
func (in *Intent) Slices() []duffel.SliceRequest {
	out := make([]duffel.SliceRequest, len(in.legs))
	for i, leg := range in.legs {
		out[i] = duffel.SliceRequest{
			Origin:        leg.Origin,
			Destination:   leg.Destination,
			DepartureDate: leg.DepartureDate,
			DepartureTime: copyWindow(leg.DepartureTime),
			ArrivalTime:   copyWindow(leg.ArrivalTime),
		}
	}
	return out
}

// Params returns the offer request parameters for this search.
func (in *Intent) Params(supplierTimeoutMs int) duffel.OfferRequestParams {
	return duffel.OfferRequestParams{
		Slices:            in.Slices(),
		CabinClass:        in.cabinClass,
		AdultCount:        in.adults,
		MaxConnections:    in.MaxConnections(),
		SupplierTimeoutMs: supplierTimeoutMs,
	}
}

// BuildSlices returns the upstream slices for in.
func BuildSlices(in *Intent) ([]duffel.SliceRequest, error) {
	if in == nil || len(in.legs) == 0 {
		return nil, duffel.Invalid("", "empty search")
	}
	return in.Slices(), nil
}

func copyWindow(w *duffel.TimeWindow) *duffel.TimeWindow {
	if w == nil {
		return nil
	}
	c := *w
	return &c
}
