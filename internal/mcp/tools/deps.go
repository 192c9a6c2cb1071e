package tools

import (
	"github.com/usestring/find-flights-mcp/internal/config"
	"github.com/usestring/find-flights-mcp/pkg/duffel"
	"github.com/usestring/find-flights-mcp/pkg/jsoncompact"
)

// Deps contains all dependencies needed by tool handlers.
type Deps struct {
	Client *duffel.Client
	Config *config.Config
}

// offerLimit resolves the number of offers a tool returns.
func (d *Deps) offerLimit(requested int) int {
	limit := requested
	if limit <= 0 {
		limit = d.Config.DefaultOfferLimit
	}
	if d.Config.MaxOfferLimit > 0 && limit > d.Config.MaxOfferLimit {
		limit = d.Config.MaxOfferLimit
	}
	return limit
}

func (d *Deps) compactOptions() *jsoncompact.Options {
	return &jsoncompact.Options{
		MaxArrayItems: d.Config.CompactMaxArrayItems,
		MaxStringLen:  d.Config.CompactMaxStringLen,
		MaxDepth:      d.Config.CompactMaxDepth,
		DropKeys:      d.Config.CompactDropKeys,
	}
}
