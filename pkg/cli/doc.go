/*
Package cli provides command-line helpers for the ollamagw binary.

Output Formatting:

Commands that print results accept --format text|json:

	format, err := cli.ParseFormat(flagValue)
	if err != nil {
		return err
	}
	table := cli.Table{Headers: []string{"NAME", "SIZE"}, Rows: rows}
	return cli.NewFormatter(format).FormatTo(os.Stdout, table)

Errors and Exit Codes:

ConfigError and CommandError wrap command failures. ExitCode maps them to
the process exit status; an unreachable Ollama daemon exits with 3.

Signal Handling:

For graceful shutdown on SIGINT/SIGTERM:

	ctx, stop := cli.SetupSignalHandler(context.Background())
	defer stop()
*/
package cli
