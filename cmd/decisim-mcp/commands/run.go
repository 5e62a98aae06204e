package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"decisim-mcp/internal/simulation"
)

var (
	runIterations int
	runSets       []string
	runParamsFile string
	runSeed       int64
)

var runCmd = &cobra.Command{
	Use:   "run <simulation>",
	Short: "Run a Monte Carlo simulation and print the result as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := reg.Get(args[0])
		if err != nil {
			return err
		}
		if cfg.EnableBusinessContext {
			doc = injector.Enrich(doc)
		}

		var engine *simulation.Engine
		if cmd.Flags().Changed("seed") {
			engine, err = simulation.NewEngineWithSeed(doc, runSeed)
		} else {
			engine, err = simulation.NewEngine(doc)
		}
		if err != nil {
			return err
		}

		overrides, err := collectOverrides()
		if err != nil {
			return err
		}

		parameters := engine.Schema().DefaultParameters()
		for key, value := range engine.Schema().CoerceParameters(overrides) {
			parameters[key] = value
		}

		iterations := runIterations
		if iterations == 0 {
			iterations = cfg.DefaultIterations
		}

		result, err := engine.Run(parameters, iterations, func(fraction float64, iteration int) {
			log.Debug().Float64("fraction", fraction).Int("iteration", iteration).Msg("Progress")
		})
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	},
}

// collectOverrides merges --file parameters with --set key=value pairs, the
// latter winning.
func collectOverrides() (map[string]any, error) {
	overrides := make(map[string]any)
	if runParamsFile != "" {
		data, err := os.ReadFile(runParamsFile)
		if err != nil {
			return nil, fmt.Errorf("read parameter file: %w", err)
		}
		if err := yaml.Unmarshal(data, &overrides); err != nil {
			return nil, fmt.Errorf("parse parameter file: %w", err)
		}
	}
	for _, pair := range runSets {
		key, value, found := strings.Cut(pair, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("invalid --set %q, expected key=value", pair)
		}
		overrides[key] = value
	}
	return overrides, nil
}

func init() {
	runCmd.Flags().IntVarP(&runIterations, "iterations", "n", 0, "iteration count (default: DEFAULT_ITERATIONS)")
	runCmd.Flags().StringArrayVar(&runSets, "set", nil, "parameter override as key=value (repeatable)")
	runCmd.Flags().StringVarP(&runParamsFile, "file", "f", "", "YAML/JSON file with parameter overrides")
	runCmd.Flags().Int64Var(&runSeed, "seed", 0, "fixed random seed for reproducible runs")
	rootCmd.AddCommand(runCmd)
}
