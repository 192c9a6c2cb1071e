// Package prompts contains MCP prompt implementations for flight search.
package prompts

// Config holds configuration needed by prompts.
type Config struct {
	DefaultOfferLimit int
	MaxOfferLimit     int
}
