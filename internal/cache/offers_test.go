package cache

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usestring/find-flights-mcp/pkg/duffel"
)

// fakeClock is a manually advanced clock.
type fakeClock struct {
	ns atomic.Int64
}

func newFakeClock() *fakeClock {
	c := &fakeClock{}
	c.ns.Store(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC).UnixNano())
	return c
}

func (c *fakeClock) Now() time.Time          { return time.Unix(0, c.ns.Load()) }
func (c *fakeClock) Advance(d time.Duration) { c.ns.Add(int64(d)) }

func result(id string) *duffel.OfferRequestResult {
	return &duffel.OfferRequestResult{RequestID: id, Offers: []duffel.Offer{}}
}

func TestOfferCache_TTL(t *testing.T) {
	tests := []struct {
		name    string
		age     time.Duration
		wantHit bool
	}{
		{"fresh", 0, true},
		{"just under ttl", 299 * time.Second, true},
		{"at ttl", 300 * time.Second, false},
		{"past ttl", 301 * time.Second, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clock := newFakeClock()
			c, err := NewOfferCache(10, DefaultTTL, WithClock(clock.Now))
			require.NoError(t, err)

			c.Put("k", result("orq_1"))
			clock.Advance(tt.age)

			got, ok := c.Get("k")
			assert.Equal(t, tt.wantHit, ok)
			if tt.wantHit {
				assert.Equal(t, "orq_1", got.RequestID)
			} else {
				assert.Nil(t, got)
			}
		})
	}
}

func TestOfferCache_ExpiredEntriesStayUntilOverwritten(t *testing.T) {
	clock := newFakeClock()
	c, err := NewOfferCache(10, time.Minute, WithClock(clock.Now))
	require.NoError(t, err)

	c.Put("k", result("orq_old"))
	clock.Advance(2 * time.Minute)

	_, ok := c.Get("k")
	assert.False(t, ok)
	assert.Equal(t, 1, c.Len())

	c.Put("k", result("orq_new"))
	got, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, "orq_new", got.RequestID)
	assert.Equal(t, 1, c.Len())
}

func TestOfferCache_OverwriteResetsAge(t *testing.T) {
	clock := newFakeClock()
	c, err := NewOfferCache(10, DefaultTTL, WithClock(clock.Now))
	require.NoError(t, err)

	c.Put("k", result("orq_1"))
	clock.Advance(200 * time.Second)
	c.Put("k", result("orq_2"))
	clock.Advance(200 * time.Second)

	got, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, "orq_2", got.RequestID)
}

func TestOfferCache_EvictsLeastRecentlyUsed(t *testing.T) {
	c, err := NewOfferCache(2, DefaultTTL)
	require.NoError(t, err)

	c.Put("a", result("orq_a"))
	c.Put("b", result("orq_b"))
	_, _ = c.Get("a")
	c.Put("c", result("orq_c"))

	_, ok := c.Get("b")
	assert.False(t, ok)
	_, ok = c.Get("a")
	assert.True(t, ok)
	_, ok = c.Get("c")
	assert.True(t, ok)
}

func TestOfferCache_DefaultTTL(t *testing.T) {
	c, err := NewOfferCache(1, 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultTTL, c.TTL())

	_, err = NewOfferCache(0, time.Second)
	assert.Error(t, err)
}

func TestOfferCache_Concurrent(t *testing.T) {
	c, err := NewOfferCache(64, DefaultTTL)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				key := fmt.Sprintf("k%d", j%8)
				c.Put(key, result(fmt.Sprintf("orq_%d_%d", i, j)))
				if got, ok := c.Get(key); ok {
					assert.NotEmpty(t, got.RequestID)
				}
			}
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 8, c.Len())
}
