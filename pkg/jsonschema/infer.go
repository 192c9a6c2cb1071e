// Package jsonschema infers JSON Schemas (Draft 2020-12) from decoded JSON
// payloads, so agents can see the structure of a large Duffel object without
// its values.
package jsonschema

import (
	"encoding/json"
	"math"
	"sort"

	"github.com/invopop/jsonschema"
)

// Inferred is a schema merged from one or more samples.
type Inferred struct {
	Schema      *jsonschema.Schema `json:"schema"`
	SampleCount int                `json:"sample_count"`
	Uniform     bool               `json:"uniform"` // every sample produced the same schema
}

// Infer merges the schemas of values decoded by encoding/json.
// Object properties present and non-null in every sample are required.
// It returns nil when no samples are given.
func Infer(samples ...any) *Inferred {
	if len(samples) == 0 {
		return nil
	}

	schemas := make([]*jsonschema.Schema, len(samples))
	for i, s := range samples {
		schemas[i] = schemaOf(s)
	}

	merged := merge(schemas)
	markRequired(merged, samples)

	return &Inferred{
		Schema:      merged,
		SampleCount: len(samples),
		Uniform:     uniform(schemas),
	}
}

// ToAny converts the inferred schema into a plain JSON value.
func (in *Inferred) ToAny() (any, error) {
	b, err := json.Marshal(in)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func schemaOf(v any) *jsonschema.Schema {
	switch val := v.(type) {
	case nil:
		return &jsonschema.Schema{Type: "null"}
	case bool:
		return &jsonschema.Schema{Type: "boolean"}
	case float64:
		if !math.IsInf(val, 0) && math.Trunc(val) == val {
			return &jsonschema.Schema{Type: "integer"}
		}
		return &jsonschema.Schema{Type: "number"}
	case int, int64:
		return &jsonschema.Schema{Type: "integer"}
	case string:
		return &jsonschema.Schema{Type: "string"}
	case []any:
		s := &jsonschema.Schema{Type: "array"}
		if len(val) > 0 {
			items := make([]*jsonschema.Schema, len(val))
			for i, item := range val {
				items[i] = schemaOf(item)
			}
			s.Items = merge(items)
		}
		return s
	case map[string]any:
		s := &jsonschema.Schema{Type: "object", Properties: jsonschema.NewProperties()}
		for _, k := range sortedKeys(val) {
			s.Properties.Set(k, schemaOf(val[k]))
		}
		return s
	default:
		return &jsonschema.Schema{}
	}
}

// merge folds schemas into one. Mixed types become an anyOf in type order.
func merge(schemas []*jsonschema.Schema) *jsonschema.Schema {
	if len(schemas) == 1 {
		return schemas[0]
	}

	byType := make(map[string][]*jsonschema.Schema)
	for _, s := range schemas {
		if s.Type != "" {
			byType[s.Type] = append(byType[s.Type], s)
		}
	}

	types := make([]string, 0, len(byType))
	for t := range byType {
		types = append(types, t)
	}
	sort.Strings(types)

	variants := make([]*jsonschema.Schema, 0, len(types))
	for _, t := range types {
		group := byType[t]
		switch t {
		case "object":
			variants = append(variants, mergeObjects(group))
		case "array":
			variants = append(variants, mergeArrays(group))
		default:
			variants = append(variants, &jsonschema.Schema{Type: t})
		}
	}

	switch len(variants) {
	case 0:
		return &jsonschema.Schema{}
	case 1:
		return variants[0]
	}
	return &jsonschema.Schema{AnyOf: variants}
}

func mergeObjects(schemas []*jsonschema.Schema) *jsonschema.Schema {
	props := make(map[string][]*jsonschema.Schema)
	for _, s := range schemas {
		for pair := s.Properties.Oldest(); pair != nil; pair = pair.Next() {
			props[pair.Key] = append(props[pair.Key], pair.Value)
		}
	}
	out := &jsonschema.Schema{Type: "object", Properties: jsonschema.NewProperties()}
	for _, k := range sortedKeys(props) {
		out.Properties.Set(k, merge(props[k]))
	}
	return out
}

func mergeArrays(schemas []*jsonschema.Schema) *jsonschema.Schema {
	var items []*jsonschema.Schema
	for _, s := range schemas {
		if s.Items != nil {
			items = append(items, s.Items)
		}
	}
	out := &jsonschema.Schema{Type: "array"}
	if len(items) > 0 {
		out.Items = merge(items)
	}
	return out
}

// markRequired sets Required on object schemas from the samples that
// produced them, descending into nested objects and arrays of objects.
func markRequired(s *jsonschema.Schema, samples []any) {
	if s == nil || s.Type != "object" || s.Properties == nil {
		return
	}

	var objects []map[string]any
	for _, sample := range samples {
		if obj, ok := sample.(map[string]any); ok {
			objects = append(objects, obj)
		}
	}
	if len(objects) == 0 {
		return
	}

	var required []string
	for pair := s.Properties.Oldest(); pair != nil; pair = pair.Next() {
		key := pair.Key
		present := 0
		var nested []any
		for _, obj := range objects {
			v, ok := obj[key]
			if !ok || v == nil {
				continue
			}
			present++
			if arr, isArr := v.([]any); isArr {
				nested = append(nested, arr...)
			} else {
				nested = append(nested, v)
			}
		}
		if present == len(objects) {
			required = append(required, key)
		}

		child := pair.Value
		if child.Type == "array" {
			child = child.Items
		}
		markRequired(child, nested)
	}
	if len(required) > 0 {
		s.Required = required
	}
}

func uniform(schemas []*jsonschema.Schema) bool {
	first, _ := json.Marshal(schemas[0])
	for _, s := range schemas[1:] {
		other, _ := json.Marshal(s)
		if string(first) != string(other) {
			return false
		}
	}
	return true
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
