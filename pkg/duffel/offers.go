package duffel

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// ValidateOfferID checks that id looks like a Duffel offer ID.
func ValidateOfferID(id string) error {
	if !strings.HasPrefix(id, OfferIDPrefix) || len(id) == len(OfferIDPrefix) {
		return Invalid("offer_id", "%q must start with %q", id, OfferIDPrefix)
	}
	return nil
}

// GetOffer retrieves a single offer.
func (c *Client) GetOffer(ctx context.Context, offerID string) (*OfferDetails, error) {
	if err := ValidateOfferID(offerID); err != nil {
		return nil, err
	}

	path := "/offers/" + url.PathEscape(offerID)
	var resp struct {
		Data json.RawMessage `json:"data"`
	}
	if err := c.do(ctx, call{method: http.MethodGet, path: path, schema: offerEnvelope}, &resp); err != nil {
		return nil, c.fail(fmt.Sprintf("get offer %q", offerID), err)
	}

	details := &OfferDetails{}
	if err := json.Unmarshal(resp.Data, &details.Offer); err != nil {
		return nil, c.fail(fmt.Sprintf("get offer %q", offerID), fmt.Errorf("decoding offer: %w", err))
	}
	if err := json.Unmarshal(resp.Data, &details.Raw); err != nil {
		return nil, c.fail(fmt.Sprintf("get offer %q", offerID), fmt.Errorf("decoding offer: %w", err))
	}
	return details, nil
}

// GetSeatMap retrieves the seat maps for an offer, one per segment.
// Seat maps are returned undecoded since their layout varies by aircraft.
func (c *Client) GetSeatMap(ctx context.Context, offerID string) ([]any, error) {
	if err := ValidateOfferID(offerID); err != nil {
		return nil, err
	}

	query := url.Values{"offer_id": {offerID}}
	var resp struct {
		Data []any `json:"data"`
	}
	if err := c.do(ctx, call{method: http.MethodGet, path: "/seat_maps", query: query, schema: listEnvelope}, &resp); err != nil {
		return nil, c.fail(fmt.Sprintf("get seat map for offer %q", offerID), err)
	}
	if resp.Data == nil {
		resp.Data = []any{}
	}
	return resp.Data, nil
}
