// Package jsoncompact shrinks decoded JSON for agent consumption by trimming
// long arrays and strings, cutting deep nesting and dropping noisy keys.
package jsoncompact

import "fmt"

// Options controls JSON compaction behavior.
type Options struct {
	MaxArrayItems int      // Trim arrays to N items (0 = no limit)
	MaxStringLen  int      // Truncate strings longer than N bytes (0 = no limit)
	MaxDepth      int      // Replace values nested deeper than N (0 = unlimited)
	DropKeys      []string // Object keys removed at every depth
}

// Default values for compaction options.
const (
	DefaultMaxArrayItems = 3
	DefaultMaxStringLen  = 500
	DefaultMaxDepth      = 0
)

// DefaultOptions returns the default compaction settings.
func DefaultOptions() *Options {
	return &Options{
		MaxArrayItems: DefaultMaxArrayItems,
		MaxStringLen:  DefaultMaxStringLen,
		MaxDepth:      DefaultMaxDepth,
	}
}

// CompactValue compacts a value decoded by encoding/json without modifying
// it. If opts is nil, DefaultOptions() is used.
func CompactValue(v any, opts *Options) any {
	if opts == nil {
		opts = DefaultOptions()
	}
	c := compactor{opts: opts}
	if len(opts.DropKeys) > 0 {
		c.drop = make(map[string]bool, len(opts.DropKeys))
		for _, k := range opts.DropKeys {
			c.drop[k] = true
		}
	}
	return c.value(v, 0)
}

type compactor struct {
	opts *Options
	drop map[string]bool
}

func (c compactor) value(v any, depth int) any {
	if c.opts.MaxDepth > 0 && depth >= c.opts.MaxDepth {
		switch v.(type) {
		case []any, map[string]any:
			return "[max depth]"
		}
	}
	switch val := v.(type) {
	case []any:
		return c.array(val, depth)
	case map[string]any:
		return c.object(val, depth)
	case string:
		return c.string(val)
	default:
		return v
	}
}

func (c compactor) string(s string) string {
	limit := c.opts.MaxStringLen
	if limit <= 0 || len(s) <= limit {
		return s
	}
	return fmt.Sprintf("%s... (%d more chars)", s[:limit], len(s)-limit)
}

func (c compactor) array(arr []any, depth int) []any {
	keep := len(arr)
	if c.opts.MaxArrayItems > 0 && keep > c.opts.MaxArrayItems {
		keep = c.opts.MaxArrayItems
	}
	out := make([]any, 0, keep+1)
	for _, item := range arr[:keep] {
		out = append(out, c.value(item, depth+1))
	}
	if dropped := len(arr) - keep; dropped > 0 {
		out = append(out, fmt.Sprintf("... (%d more items)", dropped))
	}
	return out
}

func (c compactor) object(obj map[string]any, depth int) map[string]any {
	out := make(map[string]any, len(obj))
	for k, v := range obj {
		if c.drop[k] {
			continue
		}
		out[k] = c.value(v, depth+1)
	}
	return out
}
