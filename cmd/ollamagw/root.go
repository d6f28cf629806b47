package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"mercator-hq/ollamagw/pkg/cli"
	"mercator-hq/ollamagw/pkg/config"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "ollamagw",
	Short: "ollamagw - HTTP gateway for a local Ollama daemon",
	Long: `ollamagw is an HTTP gateway that sits in front of a local Ollama daemon.

It exposes chat, generate and model management routes, validates request
bodies, forwards them to Ollama and relays the answers back:
  - Buffered and streamed (NDJSON) chat and generate
  - Model listing, pulling and removal
  - Upstream errors normalised to {"detail": "..."} with the upstream status
  - Optional API key authentication, CORS and TLS
  - Prometheus metrics, health probes and OpenTelemetry tracing`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.ExitCode(err))
	}
}

func init() {
	// Global persistent flags (available to all subcommands)
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (defaults only when empty)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// loadConfig reads the configuration file named by --config, applies the
// OLLAMAGW_* environment overrides, then lets mutate apply flag overrides
// before the result is validated again.
func loadConfig(mutate func(cfg *config.Config)) (*config.Config, error) {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return nil, cli.NewConfigError("", fmt.Sprintf("failed to load config: %v", err))
	}

	if mutate != nil {
		mutate(cfg)
		if err := config.Validate(cfg); err != nil {
			return nil, cli.NewConfigError("", err.Error())
		}
	}

	return cfg, nil
}
