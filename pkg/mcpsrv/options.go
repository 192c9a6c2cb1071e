package mcpsrv

import (
	"context"
	"net/http"

	mcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

type serverConfig struct {
	httpClient *http.Client

	// Overrides applied on top of the environment
	baseURL  string
	logLevel string
	logFile  string

	disableBuiltinTools   bool
	disableBuiltinPrompts bool

	registrations         []func(*mcp.Server) error
	deferredRegistrations []func(*mcp.Server, *Deps) error
}

// Option configures the server.
type Option func(*serverConfig)

// WithLogLevel sets the log level (debug, info, warn, error).
func WithLogLevel(level string) Option {
	return func(cfg *serverConfig) {
		cfg.logLevel = level
	}
}

// WithLogFile sets the log file path.
// If empty, logs are written to stderr only.
func WithLogFile(path string) Option {
	return func(cfg *serverConfig) {
		cfg.logFile = path
	}
}

// WithHTTPClient sets the HTTP client used to reach Duffel.
// The per-request timeout from HTTP_CLIENT_TIMEOUT_MS still applies.
func WithHTTPClient(c *http.Client) Option {
	return func(cfg *serverConfig) {
		cfg.httpClient = c
	}
}

// WithBaseURL overrides DUFFEL_BASE_URL.
func WithBaseURL(url string) Option {
	return func(cfg *serverConfig) {
		cfg.baseURL = url
	}
}

// WithoutBuiltinTools disables the builtin flight tools and offer resource.
func WithoutBuiltinTools() Option {
	return func(cfg *serverConfig) {
		cfg.disableBuiltinTools = true
	}
}

// WithoutBuiltinPrompts disables the builtin prompts.
func WithoutBuiltinPrompts() Option {
	return func(cfg *serverConfig) {
		cfg.disableBuiltinPrompts = true
	}
}

// WithTool registers a custom tool with the server.
//
// The handler signature must match the MCP SDK pattern:
//
//	func(ctx context.Context, req *mcp.CallToolRequest, input In) (*mcp.CallToolResult, Out, error)
func WithTool[In, Out any](tool *mcp.Tool, handler func(context.Context, *mcp.CallToolRequest, In) (*mcp.CallToolResult, Out, error)) Option {
	return func(cfg *serverConfig) {
		cfg.registrations = append(cfg.registrations, func(srv *mcp.Server) error {
			return AddTool(srv, tool, handler)
		})
	}
}

// WithDepsTool registers a custom tool whose handler is built from Deps.
func WithDepsTool[In, Out any](tool *mcp.Tool, builder func(*Deps) func(context.Context, *mcp.CallToolRequest, In) (*mcp.CallToolResult, Out, error)) Option {
	return func(cfg *serverConfig) {
		cfg.deferredRegistrations = append(cfg.deferredRegistrations, func(srv *mcp.Server, deps *Deps) error {
			return AddTool(srv, tool, builder(deps))
		})
	}
}

// WithPrompt registers a custom prompt with the server.
func WithPrompt(prompt *mcp.Prompt, handler func(context.Context, *mcp.GetPromptRequest) (*mcp.GetPromptResult, error)) Option {
	return func(cfg *serverConfig) {
		cfg.registrations = append(cfg.registrations, func(srv *mcp.Server) error {
			srv.AddPrompt(prompt, handler)
			return nil
		})
	}
}

// WithResourceTemplate registers a custom resource template with the server.
func WithResourceTemplate(template *mcp.ResourceTemplate, handler func(context.Context, *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error)) Option {
	return func(cfg *serverConfig) {
		cfg.registrations = append(cfg.registrations, func(srv *mcp.Server) error {
			srv.AddResourceTemplate(template, handler)
			return nil
		})
	}
}
