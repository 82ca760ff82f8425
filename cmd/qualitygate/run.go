package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/bgricker/qualitygate/internal/config"
	"github.com/bgricker/qualitygate/internal/gate"
	"github.com/bgricker/qualitygate/internal/logging"
	"github.com/bgricker/qualitygate/internal/output"
)

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run every check and write the unified report (default command)",
		Args:  cobra.NoArgs,
		RunE:  runGate,
	}
}

func runGate(cmd *cobra.Command, args []string) error {
	cfg, root, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, err := newLogger(cmd, cfg)
	if err != nil {
		return err
	}

	g, err := gate.New(gate.Options{Root: root, Config: cfg, Logger: logger})
	if err != nil {
		return err
	}
	res, err := g.Run(cmd.Context())
	if err != nil {
		return err
	}

	if err := output.NewPretty(cmd.OutOrStdout()).Render(res.Report); err != nil {
		return err
	}

	if !cfg.Reports.Disabled {
		if cfg.Reports.JSON != "" {
			path := resolve(root, cfg.Reports.JSON)
			if err := output.WriteJSON(path, res.Report); err != nil {
				return err
			}
			logger.Info().Str("path", path).Msg("detailed report saved")
		}
		if cfg.Reports.CSV != "" {
			path := resolve(root, cfg.Reports.CSV)
			if err := output.WriteCSV(path, res.Report); err != nil {
				return err
			}
			logger.Info().Str("path", path).Msg("csv summary saved")
		}
	}

	if res.ExitCode != 0 {
		return &gateFailure{code: res.ExitCode}
	}
	return nil
}

func loadConfig(cmd *cobra.Command) (config.Config, string, error) {
	root, err := cmd.Flags().GetString("dir")
	if err != nil {
		return config.Config{}, "", fmt.Errorf("parse --dir: %w", err)
	}
	if root == "" {
		root, err = os.Getwd()
		if err != nil {
			return config.Config{}, "", fmt.Errorf("determine working directory: %w", err)
		}
	}
	root, err = filepath.Abs(root)
	if err != nil {
		return config.Config{}, "", fmt.Errorf("resolve %q: %w", root, err)
	}
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		return config.Config{}, "", fmt.Errorf("root %q is not a directory", root)
	}

	cfg, err := config.Load(root)
	if err != nil {
		return config.Config{}, "", err
	}

	flags, err := gatherFlags(cmd)
	if err != nil {
		return config.Config{}, "", err
	}
	config.ApplyFlags(&cfg, flags)

	return cfg, root, nil
}

func newLogger(cmd *cobra.Command, cfg config.Config) (zerolog.Logger, error) {
	out := cmd.ErrOrStderr()
	noColor := true
	if f, ok := out.(*os.File); ok {
		noColor = !isatty.IsTerminal(f.Fd())
	}
	return logging.New(logging.Options{Level: cfg.LogLevel, Verbose: cfg.Verbose, Out: out, NoColor: noColor})
}

func resolve(root, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(root, path)
}
