package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"mercator-hq/ollamagw/pkg/cli"
	"mercator-hq/ollamagw/pkg/config"
	"mercator-hq/ollamagw/pkg/ollama"
)

var modelsFlags struct {
	upstream string
	format   string
	timeout  time.Duration
}

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List the models pulled on the Ollama daemon",
	Long: `List the models the Ollama daemon has pulled, as returned by /api/tags.

Examples:
  ollamagw models
  ollamagw models --format json`,
	RunE: listModels,
}

func init() {
	rootCmd.AddCommand(modelsCmd)

	modelsCmd.Flags().StringVar(&modelsFlags.upstream, "upstream", "", "override Ollama base URL")
	modelsCmd.Flags().StringVar(&modelsFlags.format, "format", "text", "output format: text, json")
	modelsCmd.Flags().DurationVar(&modelsFlags.timeout, "timeout", 30*time.Second, "overall timeout")
}

type tagsResponse struct {
	Models []struct {
		Name       string    `json:"name"`
		Size       uint64    `json:"size"`
		Digest     string    `json:"digest"`
		ModifiedAt time.Time `json:"modified_at"`
	} `json:"models"`
}

// modelsTable renders an /api/tags body sorted by name. now anchors the
// relative MODIFIED column.
func modelsTable(body json.RawMessage, now time.Time) (cli.Table, error) {
	var tags tagsResponse
	if err := json.Unmarshal(body, &tags); err != nil {
		return cli.Table{}, fmt.Errorf("unexpected /api/tags body: %w", err)
	}

	sort.Slice(tags.Models, func(i, j int) bool {
		return tags.Models[i].Name < tags.Models[j].Name
	})

	table := cli.Table{Headers: []string{"NAME", "ID", "SIZE", "MODIFIED"}}
	for _, m := range tags.Models {
		id := m.Digest
		if len(id) > 12 {
			id = id[:12]
		}
		modified := ""
		if !m.ModifiedAt.IsZero() {
			modified = humanize.RelTime(m.ModifiedAt, now, "ago", "from now")
		}
		table.Rows = append(table.Rows, []string{m.Name, id, humanize.Bytes(m.Size), modified})
	}
	return table, nil
}

func listModels(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseFormat(modelsFlags.format)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(func(cfg *config.Config) {
		if modelsFlags.upstream != "" {
			cfg.Upstream.BaseURL = modelsFlags.upstream
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
		return cli.NewCommandError("models", err)
	}
	defer gw.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), modelsFlags.timeout)
	defer cancel()

	body, err := gw.relay.Buffered(ctx, http.MethodGet, ollama.PathTags, nil)
	if err != nil {
		return cli.NewCommandError("models", err)
	}

	table, err := modelsTable(body, time.Now())
	if err != nil {
		return cli.NewCommandError("models", err)
	}
	return cli.NewFormatter(format).FormatTo(cmd.OutOrStdout(), table)
}
