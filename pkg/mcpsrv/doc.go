// Package mcpsrv provides an extensible MCP server for flight search over the
// Duffel API.
//
// # Basic Usage
//
// Configuration comes from the environment; DUFFEL_API_KEY_LIVE is required:
//
//	server, err := mcpsrv.NewServer()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer server.Close()
//	server.Run(ctx)
//
// # Extension
//
// Custom tools can reuse the shared Duffel client and offer cache:
//
//	server, err := mcpsrv.NewServer(
//	    mcpsrv.WithDepsTool(
//	        &mcp.Tool{Name: "cheapest_fare", Description: "Cheapest fare for a route"},
//	        func(d *mcpsrv.Deps) func(ctx context.Context, req *mcp.CallToolRequest, in RouteInput) (*mcp.CallToolResult, FareOutput, error) {
//	            return func(ctx context.Context, req *mcp.CallToolRequest, in RouteInput) (*mcp.CallToolResult, FareOutput, error) {
//	                res, err := d.Client.CreateOfferRequest(ctx, in.Params())
//	                ...
//	            }
//	        },
//	    ),
//	)
package mcpsrv
