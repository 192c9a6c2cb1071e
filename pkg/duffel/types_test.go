package duffel

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSegments_UnmarshalShapes(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantLen int
		wantNil bool
	}{
		{"array", `{"segments":[{"id":"seg_1"},{"id":"seg_2"}]}`, 2, false},
		{"single object", `{"segments":{"id":"seg_1"}}`, 1, false},
		{"null", `{"segments":null}`, 0, true},
		{"missing", `{}`, 0, true},
		{"empty array", `{"segments":[]}`, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s Slice
			require.NoError(t, json.Unmarshal([]byte(tt.input), &s))
			assert.Len(t, s.Segments, tt.wantLen)
			if tt.wantNil {
				assert.Nil(t, s.Segments)
			}
		})
	}
}

func TestSegments_RejectsScalar(t *testing.T) {
	var s Slice
	err := json.Unmarshal([]byte(`{"segments":"seg_1"}`), &s)
	assert.Error(t, err)
}

func TestOffer_OptionalFieldsStayNil(t *testing.T) {
	var o Offer
	require.NoError(t, json.Unmarshal([]byte(`{"id":"off_1","slices":[{"segments":[{"id":"seg_1"}]}]}`), &o))

	assert.Nil(t, o.TotalAmount)
	assert.Nil(t, o.TotalCurrency)
	require.Len(t, o.Slices, 1)
	assert.Nil(t, o.Slices[0].Origin)
	assert.Nil(t, o.Slices[0].Segments[0].MarketingCarrier)
}

func TestValidCabinClass(t *testing.T) {
	for _, c := range []string{CabinEconomy, CabinPremiumEconomy, CabinBusiness, CabinFirst} {
		assert.True(t, ValidCabinClass(c), c)
	}
	assert.False(t, ValidCabinClass("Economy"))
	assert.False(t, ValidCabinClass(""))
}

func TestAPIError_Message(t *testing.T) {
	err := parseError(422, "application/json", []byte(`{"errors":[{"code":"validation_error","message":"first"},{"title":"second"}]}`))
	assert.EqualError(t, err, "duffel API error 422 (validation_error): first; second")

	err = parseError(502, "text/plain", []byte("bad gateway"))
	assert.EqualError(t, err, "duffel API error 502: bad gateway")

	err = parseError(503, "text/html; charset=utf-8", []byte("<html><body>maintenance</body></html>"))
	assert.EqualError(t, err, "duffel API error 503: Service Unavailable (HTML error page)")
}
