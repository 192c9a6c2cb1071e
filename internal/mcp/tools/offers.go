package tools

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/find-flights-mcp/internal/format"
	"github.com/usestring/find-flights-mcp/internal/query"
	"github.com/usestring/find-flights-mcp/pkg/duffel"
	"github.com/usestring/find-flights-mcp/pkg/jsoncompact"
	"github.com/usestring/find-flights-mcp/pkg/jsonschema"
)

// Body modes for the passthrough tools.
const (
	BodyModeSummary = "summary"
	BodyModeCompact = "compact"
	BodyModeSchema  = "schema"
	BodyModeFull    = "full"
)

// maxQueryValues caps the values a jq projection may return.
const maxQueryValues = 500

// GetOfferDetailsInput is the input for get_offer_details.
type GetOfferDetailsInput struct {
	OfferID  string `json:"offer_id" jsonschema:"Offer ID from a search result (starts with off_)"`
	BodyMode string `json:"body_mode,omitempty" jsonschema:"Raw offer display: compact (default - arrays trimmed), summary (formatted offer only), schema (JSON schema only), full (complete offer)"`
	JQ       string `json:"jq,omitempty" jsonschema:"jq expression applied to the raw offer, e.g. .conditions or .passengers[].id. Replaces the body."`
}

// GetOfferDetailsOutput is the output for get_offer_details.
type GetOfferDetailsOutput struct {
	Offer     format.Offer  `json:"offer"`
	ExpiresAt *string       `json:"expires_at"`
	Owner     *string       `json:"owner"`
	BodyMode  string        `json:"body_mode"`
	Body      any           `json:"body,omitempty"`
	Query     *query.Result `json:"query,omitempty"`
	Resource  string        `json:"resource"`
	Hint      string        `json:"hint,omitempty"`
}

// GetSeatMapInput is the input for get_seat_map.
type GetSeatMapInput struct {
	OfferID  string `json:"offer_id" jsonschema:"Offer ID from a search result (starts with off_)"`
	BodyMode string `json:"body_mode,omitempty" jsonschema:"Seat map display: compact (default - arrays trimmed), schema (JSON schema only), full (complete seat maps)"`
	JQ       string `json:"jq,omitempty" jsonschema:"jq expression applied to the seat map array, e.g. [.[].cabins[].rows[].sections[].elements[] | select(.type == \"seat\")] | length"`
}

// GetSeatMapOutput is the output for get_seat_map.
type GetSeatMapOutput struct {
	OfferID  string        `json:"offer_id"`
	Count    int           `json:"seat_map_count"`
	BodyMode string        `json:"body_mode"`
	Body     any           `json:"body,omitempty"`
	Query    *query.Result `json:"query,omitempty"`
	Hint     string        `json:"hint,omitempty"`
}

// ToolGetOfferDetails retrieves a single offer.
func ToolGetOfferDetails(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input GetOfferDetailsInput) (*sdkmcp.CallToolResult, GetOfferDetailsOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input GetOfferDetailsInput) (*sdkmcp.CallToolResult, GetOfferDetailsOutput, error) {
		if err := duffel.ValidateOfferID(input.OfferID); err != nil {
			return nil, GetOfferDetailsOutput{}, WrapDuffelError(err)
		}
		bodyMode, err := parseBodyMode(input.BodyMode, BodyModeSummary, BodyModeCompact, BodyModeSchema, BodyModeFull)
		if err != nil {
			return nil, GetOfferDetailsOutput{}, err
		}
		prog, err := compileJQ(input.JQ)
		if err != nil {
			return nil, GetOfferDetailsOutput{}, err
		}

		details, err := d.Client.GetOffer(ctx, input.OfferID)
		if err != nil {
			return nil, GetOfferDetailsOutput{}, WrapDuffelError(err)
		}

		formatted := format.Offers([]duffel.Offer{details.Offer}, 1)
		output := GetOfferDetailsOutput{
			Offer:     formatted[0],
			ExpiresAt: details.Offer.ExpiresAt,
			BodyMode:  bodyMode,
			Resource:  OfferResourceURI(details.Offer.ID),
		}
		if details.Offer.Owner != nil {
			output.Owner = details.Offer.Owner.Name
		}

		var raw any = details.Raw
		if prog != nil {
			output.Query, err = prog.Run(ctx, raw, maxQueryValues)
			if err != nil {
				return nil, GetOfferDetailsOutput{}, err
			}
			output.Hint = "Projected with jq. Drop jq to see the offer body."
		} else {
			output.Body, output.Hint, err = renderBody(d, bodyMode, raw)
			if err != nil {
				return nil, GetOfferDetailsOutput{}, err
			}
		}

		result, err := MakeJSONToolResult(output)
		if err != nil {
			return nil, GetOfferDetailsOutput{}, err
		}
		return result, output, nil
	}
}

// ToolGetSeatMap retrieves the seat maps for an offer.
func ToolGetSeatMap(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input GetSeatMapInput) (*sdkmcp.CallToolResult, GetSeatMapOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input GetSeatMapInput) (*sdkmcp.CallToolResult, GetSeatMapOutput, error) {
		if err := duffel.ValidateOfferID(input.OfferID); err != nil {
			return nil, GetSeatMapOutput{}, WrapDuffelError(err)
		}
		bodyMode, err := parseBodyMode(input.BodyMode, BodyModeCompact, BodyModeSchema, BodyModeFull)
		if err != nil {
			return nil, GetSeatMapOutput{}, err
		}
		prog, err := compileJQ(input.JQ)
		if err != nil {
			return nil, GetSeatMapOutput{}, err
		}

		maps, err := d.Client.GetSeatMap(ctx, input.OfferID)
		if err != nil {
			return nil, GetSeatMapOutput{}, WrapDuffelError(err)
		}

		output := GetSeatMapOutput{
			OfferID:  input.OfferID,
			Count:    len(maps),
			BodyMode: bodyMode,
		}
		switch {
		case len(maps) == 0:
			output.Body = []any{}
			output.Hint = "No seat maps: the airline does not offer seat selection for this offer."
		case prog != nil:
			output.Query, err = prog.Run(ctx, maps, maxQueryValues)
			if err != nil {
				return nil, GetSeatMapOutput{}, err
			}
		case bodyMode == BodyModeSchema:
			// One seat map per segment; merge them into one schema.
			inferred, err := jsonschema.Infer(maps...).ToAny()
			if err != nil {
				return nil, GetSeatMapOutput{}, err
			}
			output.Body = inferred
			output.Hint = "Schema-only view. Use jq to extract seats or body_mode='full' for complete data."
		default:
			output.Body, output.Hint, err = renderBody(d, bodyMode, any(maps))
			if err != nil {
				return nil, GetSeatMapOutput{}, err
			}
		}

		result, err := MakeJSONToolResult(output)
		if err != nil {
			return nil, GetSeatMapOutput{}, err
		}
		return result, output, nil
	}
}

func parseBodyMode(mode string, allowed ...string) (string, error) {
	if mode == "" {
		return BodyModeCompact, nil
	}
	for _, a := range allowed {
		if mode == a {
			return mode, nil
		}
	}
	return "", ErrInvalidInput("body_mode must be one of %v, got %q", allowed, mode)
}

func compileJQ(expr string) (*query.Program, error) {
	if expr == "" {
		return nil, nil
	}
	prog, err := query.Compile(expr)
	if err != nil {
		return nil, ErrInvalidInput("%v", err)
	}
	return prog, nil
}

// renderBody shapes a raw payload for the given body mode.
func renderBody(d *Deps, mode string, raw any) (any, string, error) {
	switch mode {
	case BodyModeSummary:
		return nil, "Summary only. Use body_mode='compact' or jq for more fields.", nil
	case BodyModeSchema:
		inferred, err := jsonschema.Infer(raw).ToAny()
		if err != nil {
			return nil, "", err
		}
		return inferred, "Schema-only view. Use jq for specific fields or body_mode='full' for actual values.", nil
	case BodyModeFull:
		return raw, "Use jq to extract specific values.", nil
	default:
		return jsoncompact.CompactValue(raw, d.compactOptions()),
			"Arrays trimmed. Use jq to extract specific fields, or body_mode='full' for complete data.", nil
	}
}
