package format

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usestring/find-flights-mcp/pkg/duffel"
)

func strPtr(s string) *string { return &s }

func place(code string) *duffel.Place { return &duffel.Place{IATACode: strPtr(code)} }

func segment(from, to, dep, arr, dur string) duffel.Segment {
	return duffel.Segment{
		Origin:           place(from),
		Destination:      place(to),
		DepartingAt:      strPtr(dep),
		ArrivingAt:       strPtr(arr),
		Duration:         strPtr(dur),
		MarketingCarrier: &duffel.Carrier{Name: strPtr("Carrier " + from)},
	}
}

func TestOffers_ThreeSegmentConnections(t *testing.T) {
	offer := duffel.Offer{
		ID:            "off_1",
		TotalAmount:   strPtr("450.00"),
		TotalCurrency: strPtr("USD"),
		Slices: []duffel.Slice{{
			Origin:      place("AAA"),
			Destination: place("DDD"),
			Duration:    strPtr("PT12H"),
			Segments: duffel.Segments{
				segment("AAA", "BBB", "2025-06-01T08:00:00", "2025-06-01T10:00:00", "PT2H"),
				segment("BBB", "CCC", "2025-06-01T11:30:00", "2025-06-01T14:00:00", "PT2H30M"),
				segment("CCC", "DDD", "2025-06-01T16:00:00", "2025-06-01T20:00:00", "PT4H"),
			},
		}},
	}

	got := Offers([]duffel.Offer{offer}, 5)
	require.Len(t, got, 1)
	assert.Equal(t, "off_1", got[0].OfferID)
	assert.Equal(t, "450.00", *got[0].Price.Amount)
	assert.Equal(t, "USD", *got[0].Price.Currency)

	require.Len(t, got[0].Slices, 1)
	s := got[0].Slices[0]
	assert.Equal(t, "AAA", *s.Origin)
	assert.Equal(t, "DDD", *s.Destination)
	assert.Equal(t, "2025-06-01T08:00:00", *s.Departure)
	assert.Equal(t, "2025-06-01T20:00:00", *s.Arrival)
	assert.Equal(t, "PT12H", *s.Duration)
	assert.Equal(t, "Carrier AAA", *s.Carrier)

	require.Len(t, s.Connections, 2)
	assert.Equal(t, Connection{
		Airport:   strPtr("BBB"),
		Arrival:   strPtr("2025-06-01T10:00:00"),
		Departure: strPtr("2025-06-01T11:30:00"),
		Duration:  strPtr("PT2H30M"),
	}, s.Connections[0])
	assert.Equal(t, "CCC", *s.Connections[1].Airport)
	assert.Equal(t, "PT4H", *s.Connections[1].Duration)
}

func TestOffers_DirectFlightHasNoConnections(t *testing.T) {
	offer := duffel.Offer{
		ID: "off_1",
		Slices: []duffel.Slice{{
			Segments: duffel.Segments{segment("LHR", "JFK", "2025-06-01T09:00:00", "2025-06-01T12:00:00", "PT8H")},
		}},
	}

	got := Offers([]duffel.Offer{offer}, 0)
	require.Len(t, got[0].Slices, 1)
	assert.NotNil(t, got[0].Slices[0].Connections)
	assert.Empty(t, got[0].Slices[0].Connections)
}

func TestOffers_EmptySliceDropped(t *testing.T) {
	offer := duffel.Offer{
		ID: "off_1",
		Slices: []duffel.Slice{
			{Origin: place("LHR"), Destination: place("JFK")},
			{Segments: duffel.Segments{}},
			{Segments: duffel.Segments{segment("JFK", "LHR", "2025-06-08T18:00:00", "2025-06-09T06:00:00", "PT7H")}},
		},
	}

	got := Offers([]duffel.Offer{offer}, 5)
	require.Len(t, got, 1)
	require.Len(t, got[0].Slices, 1)
	assert.Equal(t, "2025-06-08T18:00:00", *got[0].Slices[0].Departure)
}

func TestOffers_LimitTruncatesInOrder(t *testing.T) {
	offers := make([]duffel.Offer, 20)
	for i := range offers {
		offers[i] = duffel.Offer{ID: fmt.Sprintf("off_%02d", i)}
	}

	got := Offers(offers, 5)
	require.Len(t, got, 5)
	for i, o := range got {
		assert.Equal(t, fmt.Sprintf("off_%02d", i), o.OfferID)
	}

	assert.Len(t, Offers(offers, 0), 20)
	assert.Len(t, Offers(offers, 50), 20)
	assert.NotNil(t, Offers(nil, 5))
}

func TestOffers_AbsentFieldsRenderAsNull(t *testing.T) {
	offer := duffel.Offer{
		ID:     "off_1",
		Slices: []duffel.Slice{{Segments: duffel.Segments{{}}}},
	}

	out, err := Render(NewResult(&duffel.OfferRequestResult{RequestID: "orq_1", Offers: []duffel.Offer{offer}}, 5))
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))

	o := decoded["offers"].([]any)[0].(map[string]any)
	assert.Equal(t, map[string]any{"amount": nil, "currency": nil}, o["price"])

	s := o["slices"].([]any)[0].(map[string]any)
	for _, k := range []string{"origin", "destination", "departure", "arrival", "duration", "carrier"} {
		v, ok := s[k]
		assert.True(t, ok, k)
		assert.Nil(t, v, k)
	}
	assert.Equal(t, []any{}, s["connections"])
}

func TestNewResult(t *testing.T) {
	r := NewResult(&duffel.OfferRequestResult{RequestID: "orq_1", Offers: []duffel.Offer{}}, 5)
	assert.Equal(t, "orq_1", r.RequestID)
	assert.NotNil(t, r.Offers)

	out, err := Render(r)
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"request_id\": \"orq_1\",\n  \"offers\": []\n}", out)

	assert.NotNil(t, NewResult(nil, 5).Offers)
}
