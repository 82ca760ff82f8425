package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "qualitygate",
		Short:         "Qualitygate runs linters and tests and aggregates a unified report",
		SilenceErrors: true,
		SilenceUsage:  true,
		Args:          cobra.NoArgs,
		RunE:          runGate,
	}

	persistent := cmd.PersistentFlags()
	persistent.StringP("dir", "C", "", "repository root to analyze (default: working directory)")
	persistent.StringArray("only", nil, "run only matching checks (repeatable, /regex/ allowed)")
	persistent.StringArray("skip", nil, "skip matching checks (repeatable, /regex/ allowed)")
	persistent.Bool("strict", false, "fail on any failed or errored check, not only the primary linters")
	persistent.String("json-report", "", "path of the JSON report")
	persistent.String("csv-report", "", "path of the CSV report")
	persistent.Bool("no-files", false, "do not write report files")
	persistent.String("log-level", "", "log level (debug|info|warn|error)")
	persistent.BoolP("verbose", "v", false, "enable debug logging")

	cmd.AddCommand(newRunCmd())
	cmd.AddCommand(newChecksCmd())

	return cmd
}
