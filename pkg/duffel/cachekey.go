package duffel

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Cache memoizes offer request results by CacheKey.
// Implementations must be safe for concurrent use and must never return an
// expired entry.
type Cache interface {
	Get(key string) (*OfferRequestResult, bool)
	Put(key string, result *OfferRequestResult)
}

// noCache is used when no Cache is configured.
type noCache struct{}

func (noCache) Get(string) (*OfferRequestResult, bool) { return nil, false }
func (noCache) Put(string, *OfferRequestResult)        {}

// CacheKey returns the deterministic digest identifying a search.
//
// The key covers the slices exactly as they are sent upstream, the cabin
// class and the adult count. Inputs are round-tripped through a generic JSON
// value before hashing so object keys are emitted in sorted order; two
// searches that differ only in field order share a key. Max connections and
// the supplier timeout are not part of the key.
func CacheKey(slices []SliceRequest, cabinClass string, adultCount int) (string, error) {
	return canonicalDigest(map[string]any{
		"slices":      slices,
		"cabin_class": cabinClass,
		"adult_count": adultCount,
	})
}

// canonicalDigest hashes the sorted-key JSON encoding of v.
func canonicalDigest(v any) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encoding cache key: %w", err)
	}
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return "", fmt.Errorf("normalizing cache key: %w", err)
	}
	canonical, err := json.Marshal(generic)
	if err != nil {
		return "", fmt.Errorf("encoding cache key: %w", err)
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}
