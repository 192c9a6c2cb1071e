// Package query projects Duffel payloads with jq expressions.
package query

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/itchyny/gojq"
)

// Program is a compiled jq expression. It is safe for concurrent use.
type Program struct {
	expr string
	code *gojq.Code
}

// Compile parses and compiles a jq expression.
func Compile(expression string) (*Program, error) {
	q, err := gojq.Parse(expression)
	if err != nil {
		var parseErr *gojq.ParseError
		if errors.As(err, &parseErr) {
			return nil, fmt.Errorf("invalid jq expression at position %d: %w", parseErr.Offset, err)
		}
		return nil, fmt.Errorf("invalid jq expression: %w", err)
	}
	code, err := gojq.Compile(q)
	if err != nil {
		return nil, fmt.Errorf("failed to compile jq expression: %w", err)
	}
	return &Program{expr: expression, code: code}, nil
}

// String returns the source expression.
func (p *Program) String() string {
	return p.expr
}

// Result holds the values a program emitted.
type Result struct {
	Values    []any    `json:"values"`
	Errors    []string `json:"errors,omitempty"`
	Truncated bool     `json:"truncated,omitempty"`
}

// Run evaluates p against input, a value decoded with encoding/json.
// Null outputs are skipped. Runtime errors are collected, not returned, so a
// partially matching expression still yields its values. A positive
// maxResults stops evaluation after that many values.
func (p *Program) Run(ctx context.Context, input any, maxResults int) (*Result, error) {
	res := &Result{Values: make([]any, 0)}
	seenErrors := make(map[string]bool)

	iter := p.code.RunWithContext(ctx, input)
	for {
		v, ok := iter.Next()
		if !ok {
			break
		}
		if err, isErr := v.(error); isErr {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil, err
			}
			msg := describe(err)
			if !seenErrors[msg] {
				seenErrors[msg] = true
				res.Errors = append(res.Errors, msg)
			}
			continue
		}
		if v == nil {
			continue
		}
		if maxResults > 0 && len(res.Values) >= maxResults {
			res.Truncated = true
			break
		}
		res.Values = append(res.Values, v)
	}
	return res, nil
}

// describe adds a hint to common runtime errors. gojq reports these as plain
// errors, so the hints key off the message text.
func describe(err error) string {
	var haltErr *gojq.HaltError
	if errors.As(err, &haltErr) {
		if haltErr.Value() == nil {
			return "query halted"
		}
		return fmt.Sprintf("query halted with: %v", haltErr.Value())
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "cannot iterate over: null"):
		return msg + " (the path may not exist in this offer)"
	case strings.Contains(msg, "cannot index") && strings.Contains(msg, "with"):
		return msg + " (field not found or wrong type)"
	case strings.Contains(msg, "object") && strings.Contains(msg, "cannot be iterated"):
		return msg + " (expected array but got object, try removing '[]')"
	case strings.Contains(msg, "array") && strings.Contains(msg, "cannot be indexed"):
		return msg + " (expected object but got array, try adding '[]')"
	}
	return msg
}
