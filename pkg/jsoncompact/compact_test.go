package jsoncompact

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func compactMap(t *testing.T, input string, opts *Options) map[string]any {
	t.Helper()
	var v any
	require.NoError(t, json.Unmarshal([]byte(input), &v))
	parsed, ok := CompactValue(v, opts).(map[string]any)
	require.True(t, ok)
	return parsed
}

func TestCompact_TrimsArrays(t *testing.T) {
	tests := []struct {
		name  string
		input string
		max   int
		want  []any
	}{
		{"over limit", `{"offers": [1, 2, 3, 4, 5]}`, 3, []any{float64(1), float64(2), float64(3), "... (2 more items)"}},
		{"at limit", `{"offers": [1, 2, 3]}`, 3, []any{float64(1), float64(2), float64(3)}},
		{"empty", `{"offers": []}`, 3, []any{}},
		{"disabled", `{"offers": [1, 2, 3, 4]}`, 0, []any{float64(1), float64(2), float64(3), float64(4)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed := compactMap(t, tt.input, &Options{MaxArrayItems: tt.max})
			assert.Equal(t, tt.want, parsed["offers"])
		})
	}
}

func TestCompact_NestedSegments(t *testing.T) {
	input := `{
		"slices": [
			{"segments": [{"id": "seg_1"}, {"id": "seg_2"}, {"id": "seg_3"}]},
			{"segments": [{"id": "seg_4"}]},
			{"segments": []}
		]
	}`
	parsed := compactMap(t, input, &Options{MaxArrayItems: 2})

	slices := parsed["slices"].([]any)
	require.Len(t, slices, 3)
	assert.Equal(t, "... (1 more items)", slices[2])

	segs := slices[0].(map[string]any)["segments"].([]any)
	require.Len(t, segs, 3)
	assert.Equal(t, "... (1 more items)", segs[2])
}

func TestCompact_TruncatesStrings(t *testing.T) {
	parsed := compactMap(t, `{"terms": "abcdefghij", "code": "BA"}`, &Options{MaxStringLen: 4})
	assert.Equal(t, "abcd... (6 more chars)", parsed["terms"])
	assert.Equal(t, "BA", parsed["code"])
}

func TestCompact_MaxDepth(t *testing.T) {
	input := `{"a": {"b": {"c": {"d": [1]}}, "n": 1}}`
	parsed := compactMap(t, input, &Options{MaxDepth: 2})

	a := parsed["a"].(map[string]any)
	assert.Equal(t, "[max depth]", a["b"])
	assert.Equal(t, float64(1), a["n"])
}

func TestCompact_DropKeys(t *testing.T) {
	input := `{
		"id": "off_1",
		"available_services": [{"id": "ase_1"}],
		"slices": [{"segments": [{"id": "seg_1", "available_services": []}]}]
	}`
	parsed := compactMap(t, input, &Options{DropKeys: []string{"available_services"}})

	assert.NotContains(t, parsed, "available_services")
	seg := parsed["slices"].([]any)[0].(map[string]any)["segments"].([]any)[0].(map[string]any)
	assert.Equal(t, map[string]any{"id": "seg_1"}, seg)
}

func TestCompactValue_Scalars(t *testing.T) {
	assert.Nil(t, CompactValue(nil, nil))
	assert.Equal(t, float64(3), CompactValue(float64(3), nil))
	assert.Equal(t, true, CompactValue(true, nil))
}

func TestCompactValue_DefaultsAndDoesNotMutate(t *testing.T) {
	input := map[string]any{"offers": []any{1, 2, 3, 4, 5}}

	out := CompactValue(input, nil).(map[string]any)
	assert.Len(t, out["offers"], DefaultMaxArrayItems+1)
	assert.Len(t, input["offers"], 5)
}
