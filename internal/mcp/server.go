package mcp

import (
	"context"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"decisim-mcp/internal/business"
	"decisim-mcp/internal/config"
	"decisim-mcp/internal/registry"
)

// Server wraps the MCP SDK server around the simulation registry and engine.
type Server struct {
	server   *sdk.Server
	cfg      *config.AppConfig
	registry *registry.Registry
	injector *business.Injector
	version  string
}

// NewServer creates an MCP server exposing the simulation tools. The
// registry and injector are passed in rather than looked up globally so the
// process wires them exactly once at startup.
func NewServer(cfg *config.AppConfig, reg *registry.Registry, inj *business.Injector, version string) *Server {
	s := &Server{
		cfg:      cfg,
		registry: reg,
		injector: inj,
		version:  version,
	}
	s.server = sdk.NewServer(&sdk.Implementation{
		Name:    "decisim-mcp",
		Version: version,
	}, nil)
	s.registerTools()
	return s
}

func (s *Server) registerTools() {
	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "list_simulations",
		Description: "List the registered simulation documents with their metadata.",
	}, s.handleListSimulations)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "describe_simulation",
		Description: "Show a simulation's resolved document: parameters with types, bounds and defaults, parameter groups, and the declared outputs.",
	}, s.handleDescribeSimulation)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "validate_config",
		Description: "Validate a simulation document file, or every document in a directory. Structural schema errors are reported first; business-rule checks run only on structurally valid documents. Warnings never make a document invalid.",
	}, s.handleValidateConfig)

	sdk.AddTool(s.server, &sdk.Tool{
		Name: "run_simulation",
		Description: "Run a Monte Carlo simulation of a registered decision model and return per-output summary statistics, tail-risk metrics and a histogram. " +
			"Parameter overrides are validated against the document's parameter schema before any iteration runs.",
		InputSchema: runSimulationSchema,
	}, s.handleRunSimulation)
}

// Run serves MCP over stdio until the client disconnects or ctx is
// cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &sdk.StdioTransport{})
}
