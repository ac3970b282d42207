package mcp

import (
	"context"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/dualscreen/internal/spanning"
)

const (
	ServerName    = "dualscreen"
	ServerVersion = "0.1.0"
)

// StateSource answers state queries; the daemon's IPC client in practice.
type StateSource interface {
	GetState() (*spanning.Event, error)
	GetConstants() (*spanning.Constants, error)
}

// Server exposes the spanning state and the region computation as MCP tools.
type Server struct {
	mcpServer *mcpsdk.Server
	source    StateSource
}

// NewServer creates an MCP server reading daemon state from source.
func NewServer(source StateSource) *Server {
	s := &Server{source: source}
	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)
	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_spanning_state",
		Description: "Return the last didUpdateSpanning event from the running dualscreen daemon: whether the window spans the hinge, the window regions in density-independent units and the orientation.",
	}, s.handleGetSpanningState)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_dual_screen_constants",
		Description: "Return the hinge width (dp) and whether the observed device is dual-screen.",
	}, s.handleGetConstants)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "compute_window_regions",
		Description: "Split a window rectangle around a hinge rectangle without a running daemon. Returns the pixel regions and the same regions converted to density-independent units.",
	}, s.handleComputeWindowRegions)
}
