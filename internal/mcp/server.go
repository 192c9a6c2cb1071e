package mcp

import (
	"context"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/find-flights-mcp/internal/mcp/prompts"
	"github.com/usestring/find-flights-mcp/internal/mcp/tools"
)

// Implementation metadata reported to MCP clients.
const (
	ServerName    = "find-flights"
	ServerVersion = "1.0.0"
)

// Server wraps the MCP server with the flight search components.
type Server struct {
	mcpServer *sdkmcp.Server
	deps      *tools.Deps

	enableBuiltinTools   bool
	enableBuiltinPrompts bool

	customRegistrations []func(*sdkmcp.Server) error
}

// ServerOption is a functional option for configuring the Server.
type ServerOption func(*Server)

// WithBuiltinTools enables the flight search tools and the offer resource.
func WithBuiltinTools() ServerOption {
	return func(s *Server) {
		s.enableBuiltinTools = true
	}
}

// WithBuiltinPrompts enables the builtin prompts.
func WithBuiltinPrompts() ServerOption {
	return func(s *Server) {
		s.enableBuiltinPrompts = true
	}
}

// WithCustomRegistration adds a registration callback that runs after the
// builtins. A returned error aborts server construction.
func WithCustomRegistration(fn func(*sdkmcp.Server) error) ServerOption {
	return func(s *Server) {
		s.customRegistrations = append(s.customRegistrations, fn)
	}
}

// NewServer creates a new MCP server with the provided dependencies and options.
func NewServer(deps *tools.Deps, opts ...ServerOption) (*Server, error) {
	if deps == nil || deps.Client == nil || deps.Config == nil {
		return nil, fmt.Errorf("deps with client and config are required")
	}

	s := &Server{deps: deps}
	for _, opt := range opts {
		opt(s)
	}

	s.mcpServer = sdkmcp.NewServer(
		&sdkmcp.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)
	s.mcpServer.AddReceivingMiddleware(LoggingMiddleware())

	if s.enableBuiltinTools {
		if err := tools.Register(s.mcpServer, deps); err != nil {
			return nil, fmt.Errorf("registering tools: %w", err)
		}
		s.registerResources()
	}
	if s.enableBuiltinPrompts {
		prompts.Register(s.mcpServer, &prompts.Config{
			DefaultOfferLimit: deps.Config.DefaultOfferLimit,
			MaxOfferLimit:     deps.Config.MaxOfferLimit,
		})
	}

	for _, fn := range s.customRegistrations {
		if err := fn(s.mcpServer); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Run serves MCP over stdio until ctx is cancelled or the client disconnects.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &sdkmcp.StdioTransport{})
}

// MCPServer returns the underlying MCP server for testing.
func (s *Server) MCPServer() *sdkmcp.Server {
	return s.mcpServer
}
