package tools

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usestring/find-flights-mcp/internal/format"
)

func TestCheckOutputSchema(t *testing.T) {
	type nilSlice struct {
		Items []string `json:"items"`
	}
	type omitzeroSlice struct {
		Items []string `json:"items,omitzero"`
	}
	type ptrSlice struct {
		Items *[]string `json:"items"`
	}
	type scalars struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	tests := []struct {
		name    string
		check   func() error
		wantErr string
	}{
		{"nil slice", CheckOutputSchema[nilSlice], "mark nil slices omitzero"},
		{"omitzero slice", CheckOutputSchema[omitzeroSlice], ""},
		{"pointer to slice", CheckOutputSchema[ptrSlice], ""},
		{"scalars", CheckOutputSchema[scalars], ""},
		{"any", CheckOutputSchema[any], ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.check()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestCheckOutputSchema_RawMessage(t *testing.T) {
	type inner struct {
		Data json.RawMessage `json:"data,omitempty"`
	}
	type outer struct {
		Inner *inner            `json:"inner,omitempty"`
		List  []json.RawMessage `json:"list,omitzero"`
		ByKey map[string]*inner `json:"by_key,omitempty"`
	}

	err := CheckOutputSchema[outer]()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Inner.Data")
	assert.Contains(t, err.Error(), "List.[]")
	assert.Contains(t, err.Error(), "ByKey.[value].Data")
}

func TestCheckOutputSchema_ToolOutputs(t *testing.T) {
	checks := map[string]func() error{
		NameSearchFlights:     CheckOutputSchema[format.Result],
		NameGetOfferDetails:   CheckOutputSchema[GetOfferDetailsOutput],
		NameGetSeatMap:        CheckOutputSchema[GetSeatMapOutput],
		NameListOfferRequests: CheckOutputSchema[ListOfferRequestsOutput],
		NameGetOfferRequest:   CheckOutputSchema[GetOfferRequestOutput],
	}
	for name, check := range checks {
		assert.NoError(t, check(), name)
	}
}
