package mcpsrv

import (
	"context"
	"testing"

	mcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usestring/find-flights-mcp/internal/config"
)

type echoInput struct {
	Text string `json:"text"`
}

type echoOutput struct {
	Text string `json:"text"`
}

type badOutput struct {
	Items []string `json:"items"`
}

func TestNewServer_TokenRequired(t *testing.T) {
	t.Setenv(config.TokenEnv, "")
	_, err := NewServer()
	assert.ErrorIs(t, err, config.ErrMissingToken)

	t.Setenv(config.TokenEnv, config.PlaceholderToken)
	_, err = NewServer()
	assert.ErrorIs(t, err, config.ErrPlaceholderToken)
}

func TestNewServer_WiresDeps(t *testing.T) {
	t.Setenv(config.TokenEnv, "duffel_test_abcdefgh")
	t.Setenv("OFFER_CACHE_MAX_ITEMS", "16")

	srv, err := NewServer(WithBaseURL("http://127.0.0.1:1/air"), WithLogLevel("error"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = srv.Close() })

	deps := srv.Deps()
	require.NotNil(t, deps)
	assert.Equal(t, "http://127.0.0.1:1/air", deps.Client.BaseURL())
	assert.Equal(t, "duffel_test_abcdefgh", deps.Config.DuffelToken)
	assert.Equal(t, config.DefaultOfferLimitValue, deps.Config.DefaultOfferLimit)
	assert.Zero(t, deps.Cache.Len())
	assert.NotNil(t, srv.MCPServer())
}

func TestNewServer_CustomTools(t *testing.T) {
	t.Setenv(config.TokenEnv, "duffel_test_abcdefgh")

	echo := func(ctx context.Context, req *mcp.CallToolRequest, in echoInput) (*mcp.CallToolResult, echoOutput, error) {
		return nil, echoOutput(in), nil
	}
	var seen *Deps
	srv, err := NewServer(
		WithoutBuiltinTools(),
		WithoutBuiltinPrompts(),
		WithTool(&mcp.Tool{Name: "echo", Description: "Echo text"}, echo),
		WithDepsTool(&mcp.Tool{Name: "echo_deps", Description: "Echo text"},
			func(d *Deps) func(context.Context, *mcp.CallToolRequest, echoInput) (*mcp.CallToolResult, echoOutput, error) {
				seen = d
				return echo
			}),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = srv.Close() })
	assert.Same(t, srv.Deps(), seen)
}

func TestNewServer_RejectsNilSliceOutput(t *testing.T) {
	t.Setenv(config.TokenEnv, "duffel_test_abcdefgh")

	bad := func(ctx context.Context, req *mcp.CallToolRequest, in echoInput) (*mcp.CallToolResult, badOutput, error) {
		return nil, badOutput{}, nil
	}
	_, err := NewServer(WithTool(&mcp.Tool{Name: "bad", Description: "Bad output"}, bad))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `tool "bad"`)
}
