package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bgricker/qualitygate/internal/config"
	"github.com/bgricker/qualitygate/internal/filter"
	"github.com/bgricker/qualitygate/internal/gate"
	"github.com/bgricker/qualitygate/internal/output"
	"github.com/bgricker/qualitygate/internal/version"
)

func newChecksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "checks",
		Short: "List configured checks and whether their tools are installed",
		Args:  cobra.NoArgs,
		RunE:  runChecks,
	}
	cmd.Flags().Bool("no-probe", false, "do not look up tools on PATH")
	return cmd
}

func runChecks(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	selector, err := filter.NewSelector(cfg.Only, cfg.Skip)
	if err != nil {
		return err
	}
	noProbe, err := cmd.Flags().GetBool("no-probe")
	if err != nil {
		return fmt.Errorf("parse --no-probe: %w", err)
	}

	var probe func(string) string
	if !noProbe {
		probe = func(program string) string {
			info, err := version.Detect(cmd.Context(), program)
			switch {
			case err != nil && version.Missing(err):
				return "not installed"
			case info.Version != "":
				return info.Version
			default:
				return "installed"
			}
		}
	}

	renderer := output.NewPretty(cmd.OutOrStdout())
	groups := []struct {
		scope  string
		checks []config.CommandCheck
	}{
		{"Primary checks", cfg.Checks},
		{"Client checks", cfg.ClientChecks},
		{"UI tests", cfg.UITests},
		{"Test pipeline", []config.CommandCheck{{Name: gate.TestPipeline, Command: cfg.Tests.Command}}},
	}
	for _, group := range groups {
		selected := selectChecks(group.checks, selector)
		if len(selected) == 0 {
			continue
		}
		if err := renderer.RenderChecks(group.scope, selected, probe); err != nil {
			return err
		}
	}
	return nil
}

func selectChecks(checks []config.CommandCheck, selector *filter.Selector) []config.CommandCheck {
	out := make([]config.CommandCheck, 0, len(checks))
	for _, check := range checks {
		if selector.Selected(check.Name) {
			out = append(out, check)
		}
	}
	return out
}
