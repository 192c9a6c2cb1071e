package mcpsrv

import (
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/find-flights-mcp/internal/mcp/tools"
)

// AddTool registers a tool after checking that the zero value of Out
// validates against the schema the SDK infers for it. json.Marshal writes nil
// slices as null, which an inferred "array" schema rejects at call time; the
// check moves that failure to startup.
//
// Use this instead of [sdkmcp.AddTool] to get the additional check.
func AddTool[In, Out any](srv *sdkmcp.Server, t *sdkmcp.Tool, h sdkmcp.ToolHandlerFor[In, Out]) error {
	if err := tools.CheckOutputSchema[Out](); err != nil {
		return fmt.Errorf("tool %q: %w", t.Name, err)
	}
	sdkmcp.AddTool(srv, t, h)
	return nil
}
