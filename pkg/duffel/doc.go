// Package duffel provides a Go client for the Duffel flight offer API.
//
// The client wraps the subset of the Duffel Air API needed to search for
// flights from an agent: creating offer requests, listing and fetching them,
// fetching individual offers and their seat maps.
//
// # Quick Start
//
// Create a client and search for a one-way flight:
//
//	c := duffel.New(token)
//	res, err := c.CreateOfferRequest(ctx, duffel.OfferRequestParams{
//	    Slices: []duffel.SliceRequest{{
//	        Origin:        "LHR",
//	        Destination:   "JFK",
//	        DepartureDate: "2025-06-01",
//	    }},
//	    CabinClass: duffel.CabinEconomy,
//	    AdultCount: 1,
//	})
//
// # Caching
//
// Offer request creation is expensive upstream. Supply a [Cache] with
// [WithCache] and identical searches (same slices, cabin class and adult
// count) are answered from memory until the cache expires them. Cache keys
// come from [CacheKey] and do not depend on field order.
//
// # Retries
//
// Creating an offer request is not idempotent upstream, so the client retries
// exactly once and only when the transport times out waiting for a response.
// Status errors, malformed bodies and refused connections fail immediately.
//
// # Errors
//
// Input problems are reported as *[ValidationError] before any network call.
// Everything that goes wrong talking to Duffel is an *[UpstreamError]; use
// errors.As to reach the underlying *[APIError] for status failures, and
// errors.Is with [ErrTransportTimeout] for exhausted timeouts.
package duffel
