// Package config provides configuration loading from environment variables.
package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/usestring/find-flights-mcp/pkg/duffel"
	"github.com/usestring/find-flights-mcp/pkg/jsoncompact"
)

// TokenEnv holds the Duffel access token.
const TokenEnv = "DUFFEL_API_KEY_LIVE"

// PlaceholderToken is the value shipped in the sample environment file.
const PlaceholderToken = "your_api_key_here"

var (
	ErrMissingToken     = errors.New(TokenEnv + " is not set")
	ErrPlaceholderToken = errors.New(TokenEnv + " still holds the placeholder value")
)

// Tool output defaults
const (
	DefaultOfferLimitValue = 5
	MaxOfferLimitValue     = 50
)

// Config holds all configuration for the MCP server.
type Config struct {
	DuffelToken       string        // DUFFEL_API_KEY_LIVE, required
	DuffelBaseURL     string        // DUFFEL_BASE_URL, default "https://api.duffel.com/air"
	DuffelAPIVersion  string        // DUFFEL_API_VERSION, default "v2"
	HTTPClientTimeout time.Duration // HTTP_CLIENT_TIMEOUT_MS, default 60000ms
	SupplierTimeoutMs int           // SUPPLIER_TIMEOUT_MS, default 15000
	RetryBackoff      time.Duration // RETRY_BACKOFF_MS, default 1000ms

	OfferCacheTTL      time.Duration // OFFER_CACHE_TTL_MS, default 300000ms
	OfferCacheMaxItems int           // OFFER_CACHE_MAX_ITEMS, default 1024

	RateLimitRPS   float64 // RATE_LIMIT_RPS, default 10 (0 disables)
	RateLimitBurst int     // RATE_LIMIT_BURST, default 20

	DefaultOfferLimit int // DEFAULT_OFFER_LIMIT, default 5
	MaxOfferLimit     int // MAX_OFFER_LIMIT, default 50

	// Compaction of passthrough payloads
	CompactMaxArrayItems int      // COMPACT_MAX_ARRAY_ITEMS
	CompactMaxStringLen  int      // COMPACT_MAX_STRING_LEN
	CompactMaxDepth      int      // COMPACT_MAX_DEPTH
	CompactDropKeys      []string // COMPACT_DROP_KEYS, comma separated

	// Logging configuration
	LogLevel      string // LOG_LEVEL, default "info"
	LogFile       string // LOG_FILE, default "" (stderr only)
	LogFormat     string // LOG_FORMAT, "text" or "json", default "text"
	LogMaxSizeMB  int    // LOG_MAX_SIZE_MB, default 10
	LogMaxBackups int    // LOG_MAX_BACKUPS, default 5
	LogMaxAgeDays int    // LOG_MAX_AGE_DAYS, default 28
	LogCompress   bool   // LOG_COMPRESS, default true
}

// Load reads configuration from environment variables with sensible defaults.
// It fails when the Duffel token is missing or still the placeholder.
func Load() (*Config, error) {
	cfg := &Config{
		DuffelToken:       strings.TrimSpace(os.Getenv(TokenEnv)),
		DuffelBaseURL:     getEnvString("DUFFEL_BASE_URL", duffel.DefaultBaseURL),
		DuffelAPIVersion:  getEnvString("DUFFEL_API_VERSION", duffel.DefaultAPIVersion),
		HTTPClientTimeout: getEnvDurationMs("HTTP_CLIENT_TIMEOUT_MS", 60000),
		SupplierTimeoutMs: getEnvInt("SUPPLIER_TIMEOUT_MS", duffel.DefaultSupplierTimeoutMs),
		RetryBackoff:      getEnvDurationMs("RETRY_BACKOFF_MS", 1000),

		OfferCacheTTL:      getEnvDurationMs("OFFER_CACHE_TTL_MS", 300000),
		OfferCacheMaxItems: getEnvInt("OFFER_CACHE_MAX_ITEMS", 1024),

		RateLimitRPS:   getEnvFloat("RATE_LIMIT_RPS", 10),
		RateLimitBurst: getEnvInt("RATE_LIMIT_BURST", 20),

		DefaultOfferLimit: getEnvInt("DEFAULT_OFFER_LIMIT", DefaultOfferLimitValue),
		MaxOfferLimit:     getEnvInt("MAX_OFFER_LIMIT", MaxOfferLimitValue),

		CompactMaxArrayItems: getEnvInt("COMPACT_MAX_ARRAY_ITEMS", jsoncompact.DefaultMaxArrayItems),
		CompactMaxStringLen:  getEnvInt("COMPACT_MAX_STRING_LEN", jsoncompact.DefaultMaxStringLen),
		CompactMaxDepth:      getEnvInt("COMPACT_MAX_DEPTH", jsoncompact.DefaultMaxDepth),
		CompactDropKeys:      getEnvList("COMPACT_DROP_KEYS"),

		LogLevel:      getEnvString("LOG_LEVEL", "info"),
		LogFile:       getEnvString("LOG_FILE", ""),
		LogFormat:     getEnvString("LOG_FORMAT", "text"),
		LogMaxSizeMB:  getEnvInt("LOG_MAX_SIZE_MB", 10),
		LogMaxBackups: getEnvInt("LOG_MAX_BACKUPS", 5),
		LogMaxAgeDays: getEnvInt("LOG_MAX_AGE_DAYS", 28),
		LogCompress:   getEnvBool("LOG_COMPRESS", true),
	}

	switch cfg.DuffelToken {
	case "":
		return nil, ErrMissingToken
	case PlaceholderToken:
		return nil, ErrPlaceholderToken
	}
	return cfg, nil
}

// TokenPrefix returns the first 8 characters of the token for logging.
func (c *Config) TokenPrefix() string {
	if len(c.DuffelToken) <= 8 {
		return "***"
	}
	return c.DuffelToken[:8] + "..."
}

func getEnvBool(key string, defaultVal bool) bool {
	if v := os.Getenv(key); v != "" {
		switch strings.ToLower(v) {
		case "1", "true", "yes", "on":
			return true
		case "0", "false", "no", "off":
			return false
		}
	}
	return defaultVal
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getEnvDurationMs(key string, defaultMs int) time.Duration {
	ms := getEnvInt(key, defaultMs)
	return time.Duration(ms) * time.Millisecond
}

func getEnvList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
