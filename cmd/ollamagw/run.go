package main

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"mercator-hq/ollamagw/pkg/cli"
	"mercator-hq/ollamagw/pkg/config"
	"mercator-hq/ollamagw/pkg/security/auth"
	"mercator-hq/ollamagw/pkg/server"
	"mercator-hq/ollamagw/pkg/telemetry/health"
)

var runFlags struct {
	listenAddress string
	logLevel      string
	upstream      string
	dryRun        bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the gateway server",
	Long: `Start the gateway server with the specified configuration.

The server listens on the configured address and relays requests under the
path prefix (default /ollama) to the Ollama daemon.

Examples:
  # Start with defaults
  ollamagw run

  # Start with custom config
  ollamagw run --config /etc/ollamagw/config.yaml

  # Override listen address and daemon URL
  ollamagw run --listen 0.0.0.0:8080 --upstream http://gpu-box:11434

  # Validate config without starting server
  ollamagw run --dry-run`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runFlags.listenAddress, "listen", "l", "", "override listen address")
	runCmd.Flags().StringVar(&runFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	runCmd.Flags().StringVar(&runFlags.upstream, "upstream", "", "override Ollama base URL")
	runCmd.Flags().BoolVar(&runFlags.dryRun, "dry-run", false, "validate config without starting server")
}

func applyRunFlags(cfg *config.Config) {
	if runFlags.listenAddress != "" {
		cfg.Proxy.ListenAddress = runFlags.listenAddress
	}
	if runFlags.logLevel != "" {
		cfg.Telemetry.Logging.Level = runFlags.logLevel
	}
	if runFlags.upstream != "" {
		cfg.Upstream.BaseURL = runFlags.upstream
	}
}

func runServer(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	cfg, err := loadConfig(applyRunFlags)
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return cli.NewConfigError("telemetry.logging", err.Error())
	}
	slog.SetDefault(logger)
	config.Install(cfg)

	if runFlags.dryRun {
		fmt.Fprintln(out, "✓ Configuration valid")
		return nil
	}

	printBanner(out, cfg)

	gw, err := buildGateway(cfg, logger)
	if err != nil {
		return cli.NewCommandError("run", err)
	}
	defer gw.Close()

	srv := server.New(cfg, server.Dependencies{
		Relay:   gw.relay,
		Metrics: gw.metrics,
		Tracer:  gw.tracer,
		Guard:   gw.guard,
		Checker: gw.checker,
		Version: health.NewVersionInfo(Version, GitCommit, BuildDate),
		Logger:  logger,
	})

	ctx, stop := cli.SetupSignalHandler(cmd.Context())
	defer stop()

	go func() {
		for range cli.NotifyReload(ctx) {
			_ = reloadConfig(gw.guard, logger)
		}
	}()

	started := time.Now()
	if err := srv.Start(ctx); err != nil {
		return cli.NewCommandError("run", err)
	}

	fmt.Fprintf(out, "✓ Server stopped (uptime %s)\n", time.Since(started).Round(time.Second))
	return nil
}

// reloadConfig re-reads the configuration file with the same overrides as
// startup and refreshes the API keys. Other settings take effect on restart.
func reloadConfig(guard *auth.Guard, logger *slog.Logger) error {
	cfg, err := config.Reload(cfgFile, applyRunFlags)
	if err != nil {
		logger.Error("configuration reload failed, keeping previous configuration", "error", err)
		return err
	}

	keys, err := guard.Reload(&cfg.Security.Auth)
	if err != nil {
		logger.Error("API key reload failed", "error", err)
		return err
	}

	logger.Info("configuration reloaded", "api_keys", keys)
	return nil
}

func printBanner(out io.Writer, cfg *config.Config) {
	scheme := "http"
	if cfg.Security.TLS.Enabled {
		scheme = "https"
	}
	base := fmt.Sprintf("%s://%s", scheme, cfg.Proxy.ListenAddress)

	fmt.Fprintf(out, "ollamagw v%s\n", Version)
	if cfgFile != "" {
		fmt.Fprintf(out, "Loaded configuration from: %s\n", cfgFile)
	}
	fmt.Fprintf(out, "✓ Upstream: %s\n", cfg.Upstream.BaseURL)
	fmt.Fprintf(out, "✓ Relay routes: %s%s\n", base, cfg.Proxy.PathPrefix)
	if cfg.Telemetry.Health.Enabled {
		fmt.Fprintf(out, "✓ Health endpoints: %s%s %s%s\n",
			base, cfg.Telemetry.Health.LivenessPath,
			base, cfg.Telemetry.Health.ReadinessPath)
	}
	if cfg.Telemetry.Metrics.Enabled {
		fmt.Fprintf(out, "✓ Metrics endpoint: %s%s\n", base, cfg.Telemetry.Metrics.Path)
	}
	if cfg.Security.Auth.Enabled {
		fmt.Fprintln(out, "✓ API key authentication enabled")
	}
	fmt.Fprintln(out, "\nPress Ctrl+C to stop")
}
