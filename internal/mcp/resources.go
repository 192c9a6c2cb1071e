package mcp

import (
	"context"
	"fmt"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/find-flights-mcp/internal/format"
	"github.com/usestring/find-flights-mcp/internal/mcp/tools"
)

// Resource URIs:
//   duffel://offers/{offer_id}

const offerURIPrefix = "duffel://offers/"

func (s *Server) registerResources() {
	s.mcpServer.AddResourceTemplate(&sdkmcp.ResourceTemplate{
		URITemplate: offerURIPrefix + "{offer_id}",
		Name:        "Flight Offer",
		Description: "Complete Duffel offer as returned upstream, including conditions, passengers and baggage. High context cost: get_offer_details already returns a compact view, fetch this only for the full object.",
		MIMEType:    tools.MimeJSON,
		Annotations: &sdkmcp.Annotations{
			Audience: []sdkmcp.Role{"assistant"},
			Priority: 0.5,
		},
	}, s.handleResourceOffer)
}

func (s *Server) handleResourceOffer(ctx context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
	offerID, err := parseOfferURI(req.Params.URI)
	if err != nil {
		return nil, err
	}

	details, err := s.deps.Client.GetOffer(ctx, offerID)
	if err != nil {
		if tools.IsNotFound(err) {
			return nil, sdkmcp.ResourceNotFoundError(req.Params.URI)
		}
		return nil, tools.WrapDuffelError(err)
	}
	return toResourceResult(req.Params.URI, details.Raw)
}

// parseOfferURI extracts the offer ID from duffel://offers/{offer_id}.
func parseOfferURI(uri string) (string, error) {
	id, ok := strings.CutPrefix(uri, offerURIPrefix)
	if !ok || id == "" || strings.Contains(id, "/") {
		return "", tools.ErrInvalidInput("invalid offer resource URI %q, want %s{offer_id}", uri, offerURIPrefix)
	}
	return id, nil
}

func toResourceResult(uri string, content any) (*sdkmcp.ReadResourceResult, error) {
	text, err := format.Render(content)
	if err != nil {
		return nil, fmt.Errorf("serializing resource: %w", err)
	}

	return &sdkmcp.ReadResourceResult{
		Contents: []*sdkmcp.ResourceContents{
			{
				URI:      uri,
				MIMEType: tools.MimeJSON,
				Text:     text,
			},
		},
	}, nil
}
