// Package tools contains the MCP tool implementations for Duffel flight search.
package tools

import (
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/find-flights-mcp/internal/format"
)

// MIME type constant.
const MimeJSON = "application/json"

// OfferResourceURI returns the resource URI holding the full offer.
func OfferResourceURI(offerID string) string {
	return "duffel://offers/" + offerID
}

// MakeJSONToolResult creates a CallToolResult with indented JSON text content.
// The SDK fills in the structured content from the typed output.
func MakeJSONToolResult(v any) (*sdkmcp.CallToolResult, error) {
	text, err := format.Render(v)
	if err != nil {
		return nil, err
	}
	return &sdkmcp.CallToolResult{
		Content: []sdkmcp.Content{
			&sdkmcp.TextContent{Text: text},
		},
	}, nil
}
