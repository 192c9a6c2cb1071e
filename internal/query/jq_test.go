package query

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const offerJSON = `{
	"id": "off_1",
	"total_amount": "120.50",
	"slices": [
		{"segments": [{"origin": {"iata_code": "LHR"}, "destination": {"iata_code": "CDG"}}]},
		{"segments": [
			{"origin": {"iata_code": "CDG"}, "destination": {"iata_code": "AMS"}},
			{"origin": {"iata_code": "AMS"}, "destination": {"iata_code": "LHR"}}
		]}
	],
	"conditions": {"refund_before_departure": null}
}`

func decode(t *testing.T, s string) any {
	t.Helper()
	var v any
	require.NoError(t, json.Unmarshal([]byte(s), &v))
	return v
}

func TestProgram_Run(t *testing.T) {
	tests := []struct {
		name string
		expr string
		want []any
	}{
		{"field", ".total_amount", []any{"120.50"}},
		{"iterate", ".slices[].segments[].destination.iata_code", []any{"CDG", "AMS", "LHR"}},
		{"select", `.slices[] | select((.segments | length) > 1) | .segments[0].origin.iata_code`, []any{"CDG"}},
		{"null skipped", ".conditions.refund_before_departure", []any{}},
		{"construct", `{id, n: (.slices | length)}`, []any{map[string]any{"id": "off_1", "n": 2}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Compile(tt.expr)
			require.NoError(t, err)

			res, err := p.Run(context.Background(), decode(t, offerJSON), 0)
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.Values)
			assert.Empty(t, res.Errors)
			assert.False(t, res.Truncated)
		})
	}
}

func TestProgram_RunMaxResults(t *testing.T) {
	p, err := Compile(".[]")
	require.NoError(t, err)

	res, err := p.Run(context.Background(), decode(t, `[1, 2, 3, 4, 5]`), 3)
	require.NoError(t, err)
	assert.Equal(t, []any{float64(1), float64(2), float64(3)}, res.Values)
	assert.True(t, res.Truncated)
}

func TestProgram_RunCollectsErrors(t *testing.T) {
	p, err := Compile(".slices.segments")
	require.NoError(t, err)

	res, err := p.Run(context.Background(), decode(t, offerJSON), 0)
	require.NoError(t, err)
	assert.Empty(t, res.Values)
	assert.Len(t, res.Errors, 1)
}

func TestProgram_RunHalt(t *testing.T) {
	p, err := Compile(`"stop" | halt_error`)
	require.NoError(t, err)

	res, err := p.Run(context.Background(), decode(t, `{}`), 0)
	require.NoError(t, err)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "query halted with: stop", res.Errors[0])
}

func TestCompile_Invalid(t *testing.T) {
	_, err := Compile(".slices[")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid jq expression")

	_, err = Compile("undefined_function(1)")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to compile")
}

func TestProgram_String(t *testing.T) {
	p, err := Compile(".id")
	require.NoError(t, err)
	assert.Equal(t, ".id", p.String())
}
