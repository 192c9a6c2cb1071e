package duffel

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
)

// CreateOfferRequest searches for offers.
//
// Identical searches are answered from the cache while the entry is fresh.
// On a miss the request is sent with return_offers=true; a transport timeout
// is retried once after the configured backoff, anything else fails at once.
// Concurrent identical misses share one upstream call, which runs detached
// from the cancellation of whichever caller started it.
func (c *Client) CreateOfferRequest(ctx context.Context, p OfferRequestParams) (*OfferRequestResult, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}

	key, err := CacheKey(p.Slices, p.CabinClass, p.AdultCount)
	if err != nil {
		return nil, err
	}

	if cached, ok := c.cache.Get(key); ok {
		slog.Info("returning cached offer request",
			slog.String("request_id", cached.RequestID),
			slog.Int("offers", len(cached.Offers)),
		)
		return cached, nil
	}

	// The shared call outlives any single caller; each caller stops waiting
	// when its own context ends.
	ch := c.inflight.DoChan(key, func() (any, error) {
		res, err := c.createOfferRequest(context.WithoutCancel(ctx), p)
		if err != nil {
			return nil, err
		}
		c.cache.Put(key, res)
		return res, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			return nil, r.Err
		}
		if r.Shared {
			slog.Debug("shared in-flight offer request", slog.String("cache_key", key))
		}
		return r.Val.(*OfferRequestResult), nil
	}
}

// createOfferRequest performs the upstream call with the timeout-only retry.
func (c *Client) createOfferRequest(ctx context.Context, p OfferRequestParams) (*OfferRequestResult, error) {
	passengers := make([]Passenger, p.AdultCount)
	for i := range passengers {
		passengers[i] = Passenger{Type: "adult"}
	}

	supplierTimeout := p.SupplierTimeoutMs
	if supplierTimeout <= 0 {
		supplierTimeout = DefaultSupplierTimeoutMs
	}

	cl := call{
		method: http.MethodPost,
		path:   "/offer_requests",
		query: url.Values{
			"return_offers":    {"true"},
			"supplier_timeout": {strconv.Itoa(supplierTimeout)},
		},
		body: offerRequestPayload{Data: offerRequestBody{
			Slices:         p.Slices,
			Passengers:     passengers,
			CabinClass:     p.CabinClass,
			MaxConnections: p.MaxConnections,
		}},
		schema: offerRequestEnvelope,
	}

	logAttrs := []any{
		slog.Int("slices", len(p.Slices)),
		slog.String("cabin_class", p.CabinClass),
		slog.Int("adults", p.AdultCount),
		slog.Int("supplier_timeout_ms", supplierTimeout),
	}

	var lastErr error
	attempts := 0
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		attempts = attempt
		var resp struct {
			Data OfferRequest `json:"data"`
		}
		err := c.do(ctx, cl, &resp)
		if err == nil {
			res := &OfferRequestResult{
				RequestID: resp.Data.ID,
				Offers:    resp.Data.Offers,
			}
			if res.Offers == nil {
				res.Offers = []Offer{}
			}
			slog.Info("created offer request",
				append(logAttrs,
					slog.String("request_id", res.RequestID),
					slog.Int("offers", len(res.Offers)),
					slog.Int("attempts", attempt),
				)...,
			)
			return res, nil
		}

		lastErr = err
		if !errors.Is(err, ErrTransportTimeout) || attempt == maxAttempts {
			break
		}

		slog.Warn("offer request timed out, retrying",
			append(logAttrs, slog.Int("attempt", attempt))...,
		)
		if err := sleep(ctx, c.retryBackoff); err != nil {
			lastErr = err
			break
		}
	}

	upErr := &UpstreamError{Op: "create offer request", Attempts: attempts, Err: lastErr}
	slog.Error("offer request failed",
		append(logAttrs,
			slog.Int("attempts", upErr.Attempts),
			slog.String("error", lastErr.Error()),
		)...,
	)
	return nil, upErr
}

// ListOfferRequests retrieves a page of offer requests.
func (c *Client) ListOfferRequests(ctx context.Context, opts ListOptions) (*OfferRequestPage, error) {
	query := make(url.Values)
	if opts.After != "" {
		query.Set("after", opts.After)
	}
	if opts.Before != "" {
		query.Set("before", opts.Before)
	}
	if opts.Limit > 0 {
		query.Set("limit", strconv.Itoa(min(opts.Limit, MaxPageLimit)))
	}

	var page OfferRequestPage
	if err := c.do(ctx, call{method: http.MethodGet, path: "/offer_requests", query: query, schema: listEnvelope}, &page); err != nil {
		return nil, c.fail("list offer requests", err, slog.Int("limit", opts.Limit))
	}
	if page.Data == nil {
		page.Data = []OfferRequestSummary{}
	}
	return &page, nil
}

// GetOfferRequest retrieves a specific offer request with its offers.
func (c *Client) GetOfferRequest(ctx context.Context, requestID string) (*OfferRequest, error) {
	if requestID == "" {
		return nil, Invalid("request_id", "is required")
	}

	path := "/offer_requests/" + url.PathEscape(requestID)
	var resp struct {
		Data OfferRequest `json:"data"`
	}
	if err := c.do(ctx, call{method: http.MethodGet, path: path, schema: offerRequestEnvelope}, &resp); err != nil {
		return nil, c.fail(fmt.Sprintf("get offer request %q", requestID), err)
	}
	if resp.Data.Offers == nil {
		resp.Data.Offers = []Offer{}
	}
	return &resp.Data, nil
}

// fail logs and wraps a passthrough failure. Passthroughs never retry.
func (c *Client) fail(op string, err error, attrs ...any) error {
	slog.Error("duffel request failed",
		append([]any{slog.String("op", op), slog.String("error", err.Error())}, attrs...)...,
	)
	return &UpstreamError{Op: op, Attempts: 1, Err: err}
}
