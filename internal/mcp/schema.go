// Package mcp exposes the simulation engine over the Model Context Protocol.
package mcp

import (
	"github.com/google/jsonschema-go/jsonschema"

	"decisim-mcp/internal/document"
	"decisim-mcp/internal/simulation"
	"decisim-mcp/internal/stats"
	"decisim-mcp/internal/validate"
)

// ListSimulationsInput is the (empty) input of list_simulations.
type ListSimulationsInput struct{}

// SimulationInfo is one catalog entry.
type SimulationInfo struct {
	Name        string   `json:"name"`
	Category    string   `json:"category"`
	Description string   `json:"description"`
	Version     string   `json:"version"`
	Tags        []string `json:"tags"`
	Extends     string   `json:"extends,omitempty"`
}

// ListSimulationsOutput lists the registered simulation documents.
type ListSimulationsOutput struct {
	Simulations []SimulationInfo `json:"simulations"`
	Count       int              `json:"count"`
}

// DescribeSimulationInput selects one simulation by name.
type DescribeSimulationInput struct {
	Name string `json:"name" jsonschema:"description=Registered simulation name,required"`
}

// DescribeSimulationOutput returns the resolved document plus its default
// parameter map.
type DescribeSimulationOutput struct {
	Document *document.Document `json:"document"`
	Defaults map[string]any     `json:"defaults"`
	Enriched bool               `json:"enriched"`
}

// ValidateConfigInput selects a document file or a directory of documents.
type ValidateConfigInput struct {
	Path string `json:"path" jsonschema:"description=Path to a simulation document or a directory of documents,required"`
}

// ValidateConfigOutput carries per-file validation results.
type ValidateConfigOutput struct {
	Valid   bool                  `json:"valid"`
	Checked int                   `json:"checked"`
	Files   []validate.FileResult `json:"files"`
}

// RunSimulationInput configures one Monte Carlo run.
type RunSimulationInput struct {
	Name          string         `json:"name"`
	Parameters    map[string]any `json:"parameters,omitempty"`
	Iterations    int            `json:"iterations,omitempty"`
	LossThreshold float64        `json:"loss_threshold,omitempty"`
	HistogramBins int            `json:"histogram_bins,omitempty"`
}

// OutputAnalysis bundles everything derived from one output's sample array.
type OutputAnalysis struct {
	Summary   stats.Summary     `json:"summary"`
	Risk      stats.RiskMetrics `json:"risk"`
	Histogram []stats.Bin       `json:"histogram"`
}

// RunSimulationOutput is the structured result of run_simulation.
type RunSimulationOutput struct {
	Metadata   simulation.Metadata         `json:"metadata"`
	Parameters map[string]any              `json:"parameters"`
	Outputs    map[string]OutputAnalysis   `json:"outputs"`
	Succeeded  int                         `json:"succeeded"`
	Failed     int                         `json:"failed"`
	Errors     []simulation.IterationError `json:"errors,omitempty"`
	DurationMS int64                       `json:"duration_ms"`
}

// runSimulationSchema is declared by hand because the free-form parameter
// map cannot be described through struct tags alone.
var runSimulationSchema = &jsonschema.Schema{
	Type: "object",
	Properties: map[string]*jsonschema.Schema{
		"name": {
			Type:        "string",
			Description: "Registered simulation name",
		},
		"parameters": {
			Type:                 "object",
			Description:          "Parameter overrides keyed by parameter key; document defaults fill everything else",
			AdditionalProperties: &jsonschema.Schema{},
		},
		"iterations": {
			Type:        "integer",
			Description: "Number of Monte Carlo iterations (default: server configuration)",
		},
		"loss_threshold": {
			Type:        "number",
			Description: "Threshold below which an outcome counts as a loss (default 0)",
		},
		"histogram_bins": {
			Type:        "integer",
			Description: "Histogram bin count per output (default 20)",
		},
	},
	Required: []string{"name"},
}
