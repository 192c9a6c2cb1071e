package mcpsrv

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"golang.org/x/time/rate"

	"github.com/usestring/find-flights-mcp/internal/cache"
	"github.com/usestring/find-flights-mcp/internal/config"
	"github.com/usestring/find-flights-mcp/internal/logging"
	"github.com/usestring/find-flights-mcp/internal/mcp"
	"github.com/usestring/find-flights-mcp/internal/mcp/tools"
	"github.com/usestring/find-flights-mcp/pkg/duffel"
)

// Server is the flight search MCP server.
type Server struct {
	internal   *mcp.Server
	deps       *Deps
	logCleanup func() error
}

// NewServer creates a new MCP server with the builtin flight tools.
//
// Configuration is loaded from the environment; a missing or placeholder
// DUFFEL_API_KEY_LIVE is an error.
func NewServer(opts ...Option) (*Server, error) {
	sc := &serverConfig{}
	for _, opt := range opts {
		opt(sc)
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if sc.baseURL != "" {
		cfg.DuffelBaseURL = sc.baseURL
	}

	logCfg := logging.Config{
		Level:      cfg.LogLevel,
		Format:     cfg.LogFormat,
		FilePath:   cfg.LogFile,
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
		MaxAgeDays: cfg.LogMaxAgeDays,
		Compress:   cfg.LogCompress,
	}
	if sc.logLevel != "" {
		logCfg.Level = sc.logLevel
	}
	if sc.logFile != "" {
		logCfg.FilePath = sc.logFile
	}
	logCleanup, err := logging.Setup(logCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to setup logging: %w", err)
	}

	s, err := newServer(cfg, sc)
	if err != nil {
		_ = logCleanup()
		return nil, err
	}
	s.logCleanup = logCleanup
	return s, nil
}

func newServer(cfg *config.Config, sc *serverConfig) (*Server, error) {
	offerCache, err := cache.NewOfferCache(cfg.OfferCacheMaxItems, cfg.OfferCacheTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to create offer cache: %w", err)
	}

	client := duffel.New(cfg.DuffelToken, clientOptions(cfg, sc.httpClient, offerCache)...)

	slog.Info("duffel client configured",
		slog.String("base_url", client.BaseURL()),
		slog.String("api_version", cfg.DuffelAPIVersion),
		slog.String("token", cfg.TokenPrefix()),
		slog.Duration("offer_cache_ttl", offerCache.TTL()),
		slog.Float64("rate_limit_rps", cfg.RateLimitRPS),
	)

	deps := &Deps{Client: client, Cache: offerCache, Config: cfg}
	toolDeps := &tools.Deps{Client: client, Config: cfg}

	var internalOpts []mcp.ServerOption
	if !sc.disableBuiltinTools {
		internalOpts = append(internalOpts, mcp.WithBuiltinTools())
	}
	if !sc.disableBuiltinPrompts {
		internalOpts = append(internalOpts, mcp.WithBuiltinPrompts())
	}
	for _, fn := range sc.registrations {
		internalOpts = append(internalOpts, mcp.WithCustomRegistration(fn))
	}
	for _, fn := range sc.deferredRegistrations {
		internalOpts = append(internalOpts, mcp.WithCustomRegistration(func(srv *sdkmcp.Server) error {
			return fn(srv, deps)
		}))
	}

	internal, err := mcp.NewServer(toolDeps, internalOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create server: %w", err)
	}

	return &Server{internal: internal, deps: deps}, nil
}

func clientOptions(cfg *config.Config, httpClient *http.Client, c duffel.Cache) []duffel.Option {
	opts := []duffel.Option{
		duffel.WithBaseURL(cfg.DuffelBaseURL),
		duffel.WithAPIVersion(cfg.DuffelAPIVersion),
		duffel.WithRequestTimeout(cfg.HTTPClientTimeout),
		duffel.WithRetryBackoff(cfg.RetryBackoff),
		duffel.WithCache(c),
	}
	if httpClient != nil {
		opts = append(opts, duffel.WithHTTPClient(httpClient))
	}
	if cfg.RateLimitRPS > 0 {
		burst := max(cfg.RateLimitBurst, 1)
		opts = append(opts, duffel.WithRateLimiter(rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), burst)))
	}
	return opts
}

// Run serves MCP over stdio until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.internal.Run(ctx)
}

// Close flushes and closes the log output.
func (s *Server) Close() error {
	if s.logCleanup != nil {
		return s.logCleanup()
	}
	return nil
}

// Deps returns the dependencies for building custom tools.
func (s *Server) Deps() *Deps {
	return s.deps
}

// MCPServer returns the underlying MCP server.
func (s *Server) MCPServer() *sdkmcp.Server {
	return s.internal.MCPServer()
}
