package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bgricker/qualitygate/internal/config"
)

func gatherFlags(cmd *cobra.Command) (config.FlagValues, error) {
	flags := cmd.Flags()
	var values config.FlagValues

	if flags.Changed("only") {
		v, err := flags.GetStringArray("only")
		if err != nil {
			return values, fmt.Errorf("parse --only: %w", err)
		}
		values.Only = config.SliceFlag{Values: append([]string{}, v...)}
	}

	if flags.Changed("skip") {
		v, err := flags.GetStringArray("skip")
		if err != nil {
			return values, fmt.Errorf("parse --skip: %w", err)
		}
		values.Skip = config.SliceFlag{Values: append([]string{}, v...)}
	}

	if flags.Changed("json-report") {
		v, err := flags.GetString("json-report")
		if err != nil {
			return values, fmt.Errorf("parse --json-report: %w", err)
		}
		values.JSONReport = config.StringFlag{Value: v, Set: true}
	}

	if flags.Changed("csv-report") {
		v, err := flags.GetString("csv-report")
		if err != nil {
			return values, fmt.Errorf("parse --csv-report: %w", err)
		}
		values.CSVReport = config.StringFlag{Value: v, Set: true}
	}

	if flags.Changed("no-files") {
		v, err := flags.GetBool("no-files")
		if err != nil {
			return values, fmt.Errorf("parse --no-files: %w", err)
		}
		values.NoFiles = config.BoolFlag{Value: v, Set: true}
	}

	if flags.Changed("strict") {
		v, err := flags.GetBool("strict")
		if err != nil {
			return values, fmt.Errorf("parse --strict: %w", err)
		}
		values.Strict = config.BoolFlag{Value: v, Set: true}
	}

	if flags.Changed("verbose") {
		v, err := flags.GetBool("verbose")
		if err != nil {
			return values, fmt.Errorf("parse --verbose: %w", err)
		}
		values.Verbose = config.BoolFlag{Value: v, Set: true}
	}

	if flags.Changed("log-level") {
		v, err := flags.GetString("log-level")
		if err != nil {
			return values, fmt.Errorf("parse --log-level: %w", err)
		}
		values.LogLevel = config.StringFlag{Value: v, Set: true}
	}

	return values, nil
}
