package tools

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// addTool registers a typed tool after checking that its output type can
// round-trip through the schema the SDK will infer for it.
func addTool[In, Out any](srv *sdkmcp.Server, t *sdkmcp.Tool, h sdkmcp.ToolHandlerFor[In, Out]) error {
	if err := CheckOutputSchema[Out](); err != nil {
		return fmt.Errorf("tool %q: %w", t.Name, err)
	}
	sdkmcp.AddTool(srv, t, h)
	return nil
}

// CheckOutputSchema reports whether the zero value of T validates against
// the schema inferred from T.
//
// encoding/json writes nil slices as null while the inferred schema says
// "array", so slice fields need omitzero or an empty default. json.RawMessage
// fields are rejected outright: they marshal as inline JSON but infer as a
// byte array.
func CheckOutputSchema[T any]() error {
	rt := reflect.TypeFor[T]()
	if rt == reflect.TypeFor[any]() {
		return nil
	}
	for rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}

	if paths := rawMessagePaths(rt); len(paths) > 0 {
		return fmt.Errorf("output type %s uses json.RawMessage at %s; decode into any instead",
			rt, strings.Join(paths, ", "))
	}

	schema, err := jsonschema.ForType(rt, &jsonschema.ForOptions{})
	if err != nil {
		// Left for the SDK to report on registration.
		return nil
	}
	resolved, err := schema.Resolve(&jsonschema.ResolveOptions{})
	if err != nil {
		return nil
	}

	data, err := json.Marshal(reflect.Zero(rt).Interface())
	if err != nil {
		return fmt.Errorf("marshal zero %s: %w", rt, err)
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil
	}
	if err := resolved.Validate(&doc); err != nil {
		return fmt.Errorf("zero value of %s fails its own schema (%s): %w; mark nil slices omitzero",
			rt, data, err)
	}
	return nil
}

var rawMessageType = reflect.TypeFor[json.RawMessage]()

// rawMessagePaths lists the dotted field paths under t that hold a
// json.RawMessage.
func rawMessagePaths(t reflect.Type) []string {
	var (
		found []string
		seen  = map[reflect.Type]bool{}
		walk  func(t reflect.Type, path string)
	)
	walk = func(t reflect.Type, path string) {
		for t.Kind() == reflect.Pointer {
			t = t.Elem()
		}
		if t == rawMessageType {
			found = append(found, path)
			return
		}
		if seen[t] {
			return
		}
		seen[t] = true
		defer delete(seen, t)

		switch t.Kind() {
		case reflect.Struct:
			for i := range t.NumField() {
				if f := t.Field(i); f.IsExported() {
					walk(f.Type, joinPath(path, f.Name))
				}
			}
		case reflect.Slice, reflect.Array:
			walk(t.Elem(), joinPath(path, "[]"))
		case reflect.Map:
			walk(t.Elem(), joinPath(path, "[value]"))
		}
	}
	walk(t, "")
	return found
}

func joinPath(path, elem string) string {
	if path == "" {
		return elem
	}
	return path + "." + elem
}
