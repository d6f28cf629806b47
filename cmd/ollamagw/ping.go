package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"mercator-hq/ollamagw/pkg/cli"
	"mercator-hq/ollamagw/pkg/config"
)

var pingFlags struct {
	upstream string
	format   string
	timeout  time.Duration
}

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Check that the Ollama daemon answers",
	Long: `Call the Ollama daemon root and report its status.

Exits with status 3 when the daemon cannot be reached.

Examples:
  ollamagw ping
  ollamagw ping --upstream http://gpu-box:11434 --format json`,
	RunE: pingUpstream,
}

func init() {
	rootCmd.AddCommand(pingCmd)

	pingCmd.Flags().StringVar(&pingFlags.upstream, "upstream", "", "override Ollama base URL")
	pingCmd.Flags().StringVar(&pingFlags.format, "format", "text", "output format: text, json")
	pingCmd.Flags().DurationVar(&pingFlags.timeout, "timeout", 10*time.Second, "overall timeout")
}

type pingResult struct {
	Upstream  string          `json:"upstream"`
	Status    json.RawMessage `json:"status"`
	LatencyMS float64         `json:"latency_ms"`
}

func (p pingResult) String() string {
	var body struct {
		Status string `json:"status"`
	}
	status := string(p.Status)
	if err := json.Unmarshal(p.Status, &body); err == nil && body.Status != "" {
		status = body.Status
	}
	return fmt.Sprintf("✓ %s: %s (%.1fms)", p.Upstream, status, p.LatencyMS)
}

func pingUpstream(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseFormat(pingFlags.format)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(func(cfg *config.Config) {
		if pingFlags.upstream != "" {
			cfg.Upstream.BaseURL = pingFlags.upstream
		}
	})
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return cli.NewConfigError("telemetry.logging", err.Error())
	}

	gw, err := newUpstream(cfg, logger)
	if err != nil {
		return cli.NewCommandError("ping", err)
	}
	defer gw.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), pingFlags.timeout)
	defer cancel()

	start := time.Now()
	status, err := gw.relay.Health(ctx)
	if err != nil {
		return cli.NewCommandError("ping", err)
	}

	result := pingResult{
		Upstream:  gw.relay.Client().BaseURL(),
		Status:    status,
		LatencyMS: float64(time.Since(start).Microseconds()) / 1000,
	}
	return cli.NewFormatter(format).FormatTo(cmd.OutOrStdout(), result)
}
