package mcpsrv

import (
	"github.com/usestring/find-flights-mcp/internal/cache"
	"github.com/usestring/find-flights-mcp/internal/config"
	"github.com/usestring/find-flights-mcp/pkg/duffel"
)

// Deps contains all dependencies available to custom tools.
type Deps struct {
	Client *duffel.Client
	Cache  *cache.OfferCache
	Config *config.Config
}
