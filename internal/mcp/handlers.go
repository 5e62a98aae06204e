package mcp

import (
	"context"
	"fmt"
	"os"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"

	"decisim-mcp/internal/simulation"
	"decisim-mcp/internal/stats"
	"decisim-mcp/internal/validate"
)

func (s *Server) handleListSimulations(ctx context.Context, req *sdk.CallToolRequest, args ListSimulationsInput) (*sdk.CallToolResult, ListSimulationsOutput, error) {
	docs := s.registry.List()
	out := ListSimulationsOutput{Simulations: make([]SimulationInfo, 0, len(docs)), Count: len(docs)}
	for _, doc := range docs {
		out.Simulations = append(out.Simulations, SimulationInfo{
			Name:        doc.Name,
			Category:    doc.Category,
			Description: doc.Description,
			Version:     doc.Version,
			Tags:        doc.Tags,
			Extends:     doc.Extends,
		})
	}
	return nil, out, nil
}

func (s *Server) handleDescribeSimulation(ctx context.Context, req *sdk.CallToolRequest, args DescribeSimulationInput) (*sdk.CallToolResult, DescribeSimulationOutput, error) {
	doc, err := s.registry.Get(args.Name)
	if err != nil {
		return nil, DescribeSimulationOutput{}, err
	}

	enriched := false
	if s.cfg.EnableBusinessContext {
		if injected := s.injector.Enrich(doc); injected != doc {
			doc = injected
			enriched = true
		}
	}

	engine, err := simulation.NewEngine(doc)
	if err != nil {
		return nil, DescribeSimulationOutput{}, err
	}
	return nil, DescribeSimulationOutput{
		Document: doc,
		Defaults: engine.Schema().DefaultParameters(),
		Enriched: enriched,
	}, nil
}

func (s *Server) handleValidateConfig(ctx context.Context, req *sdk.CallToolRequest, args ValidateConfigInput) (*sdk.CallToolResult, ValidateConfigOutput, error) {
	info, err := os.Stat(args.Path)
	if err != nil {
		return nil, ValidateConfigOutput{}, fmt.Errorf("stat %s: %w", args.Path, err)
	}

	if info.IsDir() {
		dirRes, err := validate.ValidateDir(ctx, args.Path)
		if err != nil {
			return nil, ValidateConfigOutput{}, err
		}
		return nil, ValidateConfigOutput{Valid: dirRes.Valid, Checked: dirRes.Checked, Files: dirRes.Files}, nil
	}

	res := validate.ValidateFile(args.Path)
	return nil, ValidateConfigOutput{
		Valid:   res.Valid,
		Checked: 1,
		Files:   []validate.FileResult{{Path: args.Path, Result: res}},
	}, nil
}

func (s *Server) handleRunSimulation(ctx context.Context, req *sdk.CallToolRequest, args RunSimulationInput) (*sdk.CallToolResult, RunSimulationOutput, error) {
	doc, err := s.registry.Get(args.Name)
	if err != nil {
		return nil, RunSimulationOutput{}, err
	}
	if s.cfg.EnableBusinessContext {
		doc = s.injector.Enrich(doc)
	}

	engine, err := simulation.NewEngine(doc)
	if err != nil {
		return nil, RunSimulationOutput{}, err
	}

	parameters := engine.Schema().DefaultParameters()
	for key, value := range engine.Schema().CoerceParameters(args.Parameters) {
		parameters[key] = value
	}

	iterations := args.Iterations
	if iterations == 0 {
		iterations = s.cfg.DefaultIterations
	}
	bins := args.HistogramBins
	if bins == 0 {
		bins = stats.DefaultBins
	}

	log.Info().
		Str("simulation", args.Name).
		Int("iterations", iterations).
		Msg("MCP run_simulation")

	result, err := engine.Run(parameters, iterations, nil)
	if err != nil {
		return nil, RunSimulationOutput{}, err
	}

	outputs := make(map[string]OutputAnalysis, len(result.Summary))
	for key, summary := range result.Summary {
		values := make([]float64, 0, len(result.Results))
		for _, r := range result.Results {
			if v, ok := r[key]; ok {
				values = append(values, v)
			}
		}
		analysis := OutputAnalysis{Summary: summary}
		if risk, err := stats.CalculateRiskMetrics(values, args.LossThreshold); err == nil {
			analysis.Risk = risk
		}
		if hist, err := stats.CalculateHistogram(values, bins); err == nil {
			analysis.Histogram = hist
		}
		outputs[key] = analysis
	}

	return nil, RunSimulationOutput{
		Metadata:   result.Metadata,
		Parameters: result.Parameters,
		Outputs:    outputs,
		Succeeded:  len(result.Results),
		Failed:     len(result.Errors),
		Errors:     result.Errors,
		DurationMS: result.Duration.Milliseconds(),
	}, nil
}
