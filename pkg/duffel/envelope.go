package duffel

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Envelope schemas for the response shapes the client decodes. Only the
// fields the client relies on are constrained; everything else passes through.
const (
	objectEnvelopeSchema = `{
		"type": "object",
		"required": ["data"],
		"properties": {"data": {"type": "object"}}
	}`

	listEnvelopeSchema = `{
		"type": "object",
		"required": ["data"],
		"properties": {"data": {"type": "array"}}
	}`

	offerRequestEnvelopeSchema = `{
		"type": "object",
		"required": ["data"],
		"properties": {
			"data": {
				"type": "object",
				"required": ["id"],
				"properties": {
					"id": {"type": "string", "minLength": 1},
					"offers": {
						"type": ["array", "null"],
						"items": {
							"type": "object",
							"required": ["id"],
							"properties": {
								"id": {"type": "string", "minLength": 1},
								"slices": {"type": ["array", "null"]}
							}
						}
					}
				}
			}
		}
	}`

	offerEnvelopeSchema = `{
		"type": "object",
		"required": ["data"],
		"properties": {
			"data": {
				"type": "object",
				"required": ["id"],
				"properties": {"id": {"type": "string", "minLength": 1}}
			}
		}
	}`
)

var (
	objectEnvelope       = mustCompile("object.json", objectEnvelopeSchema)
	listEnvelope         = mustCompile("list.json", listEnvelopeSchema)
	offerRequestEnvelope = mustCompile("offer_request.json", offerRequestEnvelopeSchema)
	offerEnvelope        = mustCompile("offer.json", offerEnvelopeSchema)
)

func mustCompile(name, src string) *jsonschema.Schema {
	var doc any
	if err := json.Unmarshal([]byte(src), &doc); err != nil {
		panic(fmt.Sprintf("duffel: parsing schema %s: %v", name, err))
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource(name, doc); err != nil {
		panic(fmt.Sprintf("duffel: adding schema %s: %v", name, err))
	}
	s, err := c.Compile(name)
	if err != nil {
		panic(fmt.Sprintf("duffel: compiling schema %s: %v", name, err))
	}
	return s
}

// printer renders validation messages in English.
var printer = message.NewPrinter(language.English)

// checkEnvelope validates a decoded body against schema and returns a single
// error listing every violation.
func checkEnvelope(schema *jsonschema.Schema, body any) error {
	err := schema.Validate(body)
	if err == nil {
		return nil
	}

	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return fmt.Errorf("unexpected response shape: %w", err)
	}

	seen := make(map[string]bool)
	collectViolations(verr, seen)
	msgs := make([]string, 0, len(seen))
	for m := range seen {
		msgs = append(msgs, m)
	}
	sort.Strings(msgs)
	return fmt.Errorf("unexpected response shape: %s", strings.Join(msgs, "; "))
}

// collectViolations gathers leaf errors keyed by "path: message".
func collectViolations(err *jsonschema.ValidationError, into map[string]bool) {
	if err.ErrorKind != nil && len(err.Causes) == 0 {
		path := "/" + strings.Join(err.InstanceLocation, "/")
		into[path+": "+err.ErrorKind.LocalizedString(printer)] = true
	}
	for _, cause := range err.Causes {
		collectViolations(cause, into)
	}
}
