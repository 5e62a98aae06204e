// Package simulation orchestrates Monte Carlo runs of one configured
// simulation document: N independent evaluations of the sandboxed formula
// followed by statistical reduction of the successful samples.
package simulation

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/rs/zerolog/log"

	"decisim-mcp/internal/document"
	"decisim-mcp/internal/formula"
	"decisim-mcp/internal/params"
	"decisim-mcp/internal/stats"
)

// Phase tracks where a run currently is. Runs move Idle -> Validating ->
// Iterating -> Summarizing -> Done, or end in Failed.
type Phase string

const (
	PhaseIdle        Phase = "idle"
	PhaseValidating  Phase = "validating"
	PhaseIterating   Phase = "iterating"
	PhaseSummarizing Phase = "summarizing"
	PhaseDone        Phase = "done"
	PhaseFailed      Phase = "failed"
)

// progressEvery throttles progress reporting to every Nth iteration.
const progressEvery = 100

// ProgressFunc receives the completed fraction and the current iteration
// index. The engine never depends on it for correctness; callers may use it
// to yield control to a UI.
type ProgressFunc func(fraction float64, iteration int)

// IterationError records one failed evaluation. Iteration failures never
// abort the run; they are excluded from the statistical sample.
type IterationError struct {
	Iteration int    `json:"iteration"`
	Error     string `json:"error"`
}

// Metadata identifies the simulation a result belongs to.
type Metadata struct {
	Name       string `json:"name"`
	Category   string `json:"category"`
	Version    string `json:"version"`
	Iterations int    `json:"iterations"`
}

// RunResult is the structured outcome of one run. The engine owns the
// lifetime of the raw results; nothing is persisted across runs.
type RunResult struct {
	Metadata   Metadata                     `json:"metadata"`
	Parameters map[string]any               `json:"parameters"`
	Results    []map[string]float64         `json:"results"`
	Summary    map[string]stats.Summary     `json:"summary"`
	Risk       map[string]stats.RiskMetrics `json:"risk"`
	StartTime  time.Time                    `json:"startTime"`
	EndTime    time.Time                    `json:"endTime"`
	Duration   time.Duration                `json:"duration"`
	Errors     []IterationError             `json:"errors,omitempty"`
}

// Engine runs a single configured simulation. It is single-threaded: there
// is no parallelism across iterations and no shared mutable state between
// them beyond the immutable parameter map and math bindings.
type Engine struct {
	doc    *document.Document
	schema *params.Schema
	eval   *formula.Evaluator
	rng    *rand.Rand
	phase  Phase
}

// NewEngine builds an engine for doc, seeding randomness from the clock.
func NewEngine(doc *document.Document) (*Engine, error) {
	return NewEngineWithSeed(doc, time.Now().UnixNano())
}

// NewEngineWithSeed builds an engine with a fixed random seed, which makes
// runs reproducible for tests and audits.
func NewEngineWithSeed(doc *document.Document, seed int64) (*Engine, error) {
	schema, err := params.NewSchema(doc.Parameters)
	if err != nil {
		return nil, fmt.Errorf("build parameter schema: %w", err)
	}
	for _, g := range doc.Groups {
		if err := schema.AddGroup(g); err != nil {
			return nil, fmt.Errorf("register parameter group: %w", err)
		}
	}
	if doc.Simulation.Logic == "" {
		return nil, fmt.Errorf("simulation %q has no logic to execute", doc.Name)
	}
	return &Engine{
		doc:    doc,
		schema: schema,
		eval:   formula.NewEvaluator(doc.Simulation.Logic, doc.OutputKeys()),
		rng:    rand.New(rand.NewSource(seed)),
		phase:  PhaseIdle,
	}, nil
}

// Schema exposes the engine's parameter schema so callers can coerce and
// default inputs before a run.
func (e *Engine) Schema() *params.Schema {
	return e.schema
}

// Phase returns the phase the most recent run reached.
func (e *Engine) Phase() Phase {
	return e.phase
}

// Run executes the iteration loop. Parameters are validated up front and a
// failure aborts before any evaluation; individual iteration failures are
// collected and the run fails as a whole only when zero iterations succeed.
func (e *Engine) Run(parameters map[string]any, iterations int, onProgress ProgressFunc) (*RunResult, error) {
	e.phase = PhaseValidating
	if res := e.schema.ValidateParameters(parameters); !res.IsValid {
		e.phase = PhaseFailed
		return nil, fmt.Errorf("parameter validation failed: %v", res.Errors)
	}
	if iterations <= 0 {
		e.phase = PhaseFailed
		return nil, fmt.Errorf("iterations must be positive, got %d", iterations)
	}

	log.Debug().
		Str("simulation", e.doc.Name).
		Int("iterations", iterations).
		Msg("Starting simulation run")

	startTime := time.Now()
	e.phase = PhaseIterating

	results := make([]map[string]float64, 0, iterations)
	var iterationErrors []IterationError

	for i := 0; i < iterations; i++ {
		if onProgress != nil && (i%progressEvery == 0 || i == iterations-1) {
			onProgress(float64(i)/float64(iterations), i)
		}
		outcome, err := e.eval.Evaluate(parameters, e.rng)
		if err != nil {
			iterationErrors = append(iterationErrors, IterationError{Iteration: i, Error: err.Error()})
			continue
		}
		results = append(results, outcome)
	}

	if len(results) == 0 {
		e.phase = PhaseFailed
		return nil, fmt.Errorf("all iterations failed: %d errors, first: %s", len(iterationErrors), iterationErrors[0].Error)
	}

	e.phase = PhaseSummarizing
	summary, risk := summarize(results)

	endTime := time.Now()
	e.phase = PhaseDone

	log.Debug().
		Str("simulation", e.doc.Name).
		Int("succeeded", len(results)).
		Int("failed", len(iterationErrors)).
		Dur("duration", endTime.Sub(startTime)).
		Msg("Simulation run complete")

	return &RunResult{
		Metadata: Metadata{
			Name:       e.doc.Name,
			Category:   e.doc.Category,
			Version:    e.doc.Version,
			Iterations: iterations,
		},
		Parameters: parameters,
		Results:    results,
		Summary:    summary,
		Risk:       risk,
		StartTime:  startTime,
		EndTime:    endTime,
		Duration:   endTime.Sub(startTime),
		Errors:     iterationErrors,
	}, nil
}

// summarize reduces the successful samples per output key. Keys are taken
// from the first successful result; a key only present in a subset of
// results is summarized over however many results produced it, with no
// implicit zero-fill.
func summarize(results []map[string]float64) (map[string]stats.Summary, map[string]stats.RiskMetrics) {
	summary := make(map[string]stats.Summary)
	risk := make(map[string]stats.RiskMetrics)

	for key := range results[0] {
		values := make([]float64, 0, len(results))
		for _, r := range results {
			if v, ok := r[key]; ok {
				values = append(values, v)
			}
		}
		s, err := stats.CalculateSummary(values)
		if err != nil {
			continue
		}
		summary[key] = s
		if rm, err := stats.CalculateRiskMetrics(values, 0); err == nil {
			risk[key] = rm
		}
	}
	return summary, risk
}
