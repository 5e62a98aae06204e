// Package commands wires the CLI surface of decisim-mcp.
package commands

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"decisim-mcp/internal/business"
	"decisim-mcp/internal/config"
	"decisim-mcp/internal/logging"
	"decisim-mcp/internal/mcp"
	"decisim-mcp/internal/registry"
)

var (
	// Version, Commit, and BuildDate are set at build time via ldflags.
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"

	verbose bool
	cfg     *config.AppConfig

	reg      *registry.Registry
	injector *business.Injector
)

var rootCmd = &cobra.Command{
	Use:   "decisim-mcp",
	Short: "decisim-mcp is a Monte Carlo decision-simulation MCP server",
	Long: `An MCP server and CLI that evaluates declarative business-decision models:
typed input parameters, an output contract and a formula, sampled N times
under randomness to produce outcome distributions, percentiles and risk metrics.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Init(verbose)

		var err error
		cfg, err = config.Load()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load configuration")
		}

		reg = registry.New()
		loaded, err := reg.LoadDir(cfg.SimulationsDir)
		if err != nil {
			log.Warn().Err(err).Str("path", cfg.SimulationsDir).Msg("Failed to load simulation catalog")
		}
		injector = business.NewInjector()

		log.Info().
			Str("version", Version).
			Str("commit", Commit).
			Str("buildDate", BuildDate).
			Int("simulations", loaded).
			Msg("decisim-mcp starting")
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		log.Info().Msg("MCP server starting stdio loop")
		server := mcp.NewServer(cfg, reg, injector, Version)
		return server.Run(context.Background())
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}
