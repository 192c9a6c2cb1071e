package tools

import (
	"context"
	"log/slog"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/find-flights-mcp/internal/format"
	"github.com/usestring/find-flights-mcp/pkg/duffel"
)

// ListOfferRequestsInput is the input for list_offer_requests.
type ListOfferRequestsInput struct {
	After  string `json:"after,omitempty" jsonschema:"Cursor from a previous page's next cursor"`
	Before string `json:"before,omitempty" jsonschema:"Cursor from a previous page's previous cursor"`
	Limit  int    `json:"limit,omitempty" jsonschema:"Page size (default 50, max 200)"`
}

// OfferRequestRow is one row of list_offer_requests.
type OfferRequestRow struct {
	RequestID  string  `json:"request_id"`
	CabinClass *string `json:"cabin_class"`
	CreatedAt  *string `json:"created_at"`
	LiveMode   *bool   `json:"live_mode"`
}

// ListOfferRequestsOutput is the output for list_offer_requests.
type ListOfferRequestsOutput struct {
	OfferRequests []OfferRequestRow `json:"offer_requests,omitzero"`
	After         *string           `json:"after"`
	Before        *string           `json:"before"`
	Hint          string            `json:"hint,omitempty"`
}

// GetOfferRequestInput is the input for get_offer_request.
type GetOfferRequestInput struct {
	RequestID string `json:"request_id" jsonschema:"Offer request ID (starts with orq_)"`
	Limit     int    `json:"limit,omitempty" jsonschema:"Maximum offers to return (default 5, max 50)"`
}

// GetOfferRequestOutput is the output for get_offer_request.
type GetOfferRequestOutput struct {
	RequestID   string         `json:"request_id"`
	CabinClass  *string        `json:"cabin_class"`
	CreatedAt   *string        `json:"created_at"`
	LiveMode    *bool          `json:"live_mode"`
	TotalOffers int            `json:"total_offers"`
	Offers      []format.Offer `json:"offers,omitzero"`
}

const defaultListLimit = 50

// ToolListOfferRequests pages through past searches.
func ToolListOfferRequests(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input ListOfferRequestsInput) (*sdkmcp.CallToolResult, ListOfferRequestsOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input ListOfferRequestsInput) (*sdkmcp.CallToolResult, ListOfferRequestsOutput, error) {
		if input.Limit < 0 {
			return nil, ListOfferRequestsOutput{}, ErrInvalidInput("limit must not be negative")
		}
		if input.After != "" && input.Before != "" {
			return nil, ListOfferRequestsOutput{}, ErrInvalidInput("after and before are mutually exclusive")
		}
		limit := input.Limit
		if limit == 0 {
			limit = defaultListLimit
		}

		page, err := d.Client.ListOfferRequests(ctx, duffel.ListOptions{
			After:  input.After,
			Before: input.Before,
			Limit:  limit,
		})
		if err != nil {
			return nil, ListOfferRequestsOutput{}, WrapDuffelError(err)
		}

		output := ListOfferRequestsOutput{
			OfferRequests: make([]OfferRequestRow, 0, len(page.Data)),
			After:         page.Meta.After,
			Before:        page.Meta.Before,
		}
		for _, s := range page.Data {
			output.OfferRequests = append(output.OfferRequests, OfferRequestRow{
				RequestID:  s.ID,
				CabinClass: s.CabinClass,
				CreatedAt:  s.CreatedAt,
				LiveMode:   s.LiveMode,
			})
		}
		if output.After != nil {
			output.Hint = "More results available: pass after=" + *output.After + " for the next page."
		}

		result, err := MakeJSONToolResult(output)
		if err != nil {
			return nil, ListOfferRequestsOutput{}, err
		}
		return result, output, nil
	}
}

// ToolGetOfferRequest retrieves a past search with its offers.
func ToolGetOfferRequest(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input GetOfferRequestInput) (*sdkmcp.CallToolResult, GetOfferRequestOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input GetOfferRequestInput) (*sdkmcp.CallToolResult, GetOfferRequestOutput, error) {
		orq, err := d.Client.GetOfferRequest(ctx, input.RequestID)
		if err != nil {
			return nil, GetOfferRequestOutput{}, WrapDuffelError(err)
		}

		output := GetOfferRequestOutput{
			RequestID:   orq.ID,
			CabinClass:  orq.CabinClass,
			CreatedAt:   orq.CreatedAt,
			LiveMode:    orq.LiveMode,
			TotalOffers: len(orq.Offers),
			Offers:      format.Offers(orq.Offers, d.offerLimit(input.Limit)),
		}
		slog.Debug("loaded offer request",
			slog.String("request_id", orq.ID),
			slog.Int("total_offers", output.TotalOffers),
			slog.Int("returned", len(output.Offers)),
		)

		result, err := MakeJSONToolResult(output)
		if err != nil {
			return nil, GetOfferRequestOutput{}, err
		}
		return result, output, nil
	}
}
