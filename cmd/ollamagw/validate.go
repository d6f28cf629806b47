package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
	"mercator-hq/ollamagw/pkg/cli"
	"mercator-hq/ollamagw/pkg/security/auth"
)

var validateFlags struct {
	print bool
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the gateway configuration",
	Long: `Load the configuration file and environment overrides, apply defaults and
validate the result without starting the server. With auth enabled the API
keys file is read as well.

Examples:
  ollamagw validate --config config.yaml

  # Print the effective configuration
  ollamagw validate --config config.yaml --print`,
	RunE: validateConfig,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().BoolVar(&validateFlags.print, "print", false, "print the effective configuration as YAML")
}

func validateConfig(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	cfg, err := loadConfig(nil)
	if err != nil {
		return err
	}

	if cfg.Security.Auth.Enabled && cfg.Security.Auth.KeysFile != "" {
		keys, err := auth.LoadKeysFile(cfg.Security.Auth.KeysFile)
		if err != nil {
			return cli.NewConfigError("security.auth.keys_file", err.Error())
		}
		if verbose {
			fmt.Fprintf(out, "✓ Keys file: %d keys\n", len(keys))
		}
	}

	fmt.Fprintln(out, "✓ Configuration valid")

	if validateFlags.print {
		// API keys never leave the process.
		cfg.Security.Auth.Keys = redactKeys(cfg.Security.Auth.Keys)

		data, err := yaml.Marshal(cfg)
		if err != nil {
			return cli.NewCommandError("validate", err)
		}
		fmt.Fprintln(out, "---")
		_, err = out.Write(data)
		return err
	}
	return nil
}

func redactKeys(keys []string) []string {
	if len(keys) == 0 {
		return keys
	}
	out := make([]string, len(keys))
	for i := range keys {
		out[i] = "[REDACTED]"
	}
	return out
}
