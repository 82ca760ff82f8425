package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// FileName is the optional config file looked up in the repository root.
const FileName = ".qualitygate.yml"

// Config captures gate options sourced from the config file or flags.
type Config struct {
	Checks       []CommandCheck `yaml:"checks"`
	ClientChecks []CommandCheck `yaml:"client_checks"`

	Inspect      InspectConfig    `yaml:"inspect"`
	Dependencies DependencyConfig `yaml:"dependencies"`
	Tests        TestConfig       `yaml:"tests"`
	UITests      []CommandCheck   `yaml:"ui_tests"`
	Reports      ReportConfig     `yaml:"reports"`

	Only []string `yaml:"only"`
	Skip []string `yaml:"skip"`

	Strict   bool   `yaml:"strict"`
	Verbose  bool   `yaml:"verbose"`
	LogLevel string `yaml:"log_level"`
}

// CommandCheck names an external command whose exit status decides a check.
type CommandCheck struct {
	Name    string   `yaml:"name"`
	Command []string `yaml:"command"`
}

// InspectConfig points the structural inspector at a source file.
type InspectConfig struct {
	Source string `yaml:"source"`
}

// DependencyConfig controls the redundant dependency audit.
type DependencyConfig struct {
	Manifest string          `yaml:"manifest"`
	Pairs    []RedundantPair `yaml:"pairs"`
}

// RedundantPair lists two dependencies that should not be declared together.
type RedundantPair struct {
	First   string `yaml:"first"`
	Second  string `yaml:"second"`
	Message string `yaml:"message"`
}

// TestConfig describes per-file test execution. The placeholder FilePlaceholder
// in Command is replaced by each discovered file path.
type TestConfig struct {
	Dir            string        `yaml:"dir"`
	Prefix         string        `yaml:"prefix"`
	Extension      string        `yaml:"extension"`
	Command        []string      `yaml:"command"`
	ProcessTimeout time.Duration `yaml:"process_timeout"`
}

// ReportConfig sets where reports are written. Empty paths disable a file.
type ReportConfig struct {
	JSON     string `yaml:"json"`
	CSV      string `yaml:"csv"`
	Disabled bool   `yaml:"disabled"`
}

const (
	// FilePlaceholder marks where the test file path goes in TestConfig.Command.
	FilePlaceholder = "{file}"

	LogLevelInfo  = "info"
	LogLevelDebug = "debug"
)

// Default returns the baseline configuration used when no flags or config file specify values.
func Default() Config {
	return Config{
		Checks:       scopedChecks("", "./"),
		ClientChecks: scopedChecks("Client ", "./client"),
		Inspect:      InspectConfig{Source: "app.py"},
		Dependencies: DependencyConfig{
			Manifest: "requirements.txt",
			Pairs:    DefaultPairs(),
		},
		Tests: TestConfig{
			Dir:       "./tests",
			Prefix:    "test_",
			Extension: ".py",
			Command:   []string{"pytest", FilePlaceholder, "--timeout=3", "--disable-warnings"},
		},
		UITests: []CommandCheck{
			{Name: "Mocha", Command: []string{"npm", "run", "test:mocha"}},
			{Name: "Playwright", Command: []string{"npx", "playwright", "test"}},
		},
		Reports: ReportConfig{
			JSON: "unified_summary_report.json",
			CSV:  "completion_summary.csv",
		},
		LogLevel: LogLevelInfo,
	}
}

func scopedChecks(prefix, target string) []CommandCheck {
	return []CommandCheck{
		{Name: prefix + "Type Check", Command: []string{"mypy", "--ignore-missing-imports", target}},
		{Name: prefix + "Lint Check", Command: []string{"flake8", target}},
		{Name: prefix + "Code Style Check", Command: []string{"pycodestyle", target}},
		{Name: prefix + "Formatting Check", Command: []string{"black", "--check", target}},
	}
}

// DefaultPairs returns the built-in redundant dependency table.
func DefaultPairs() []RedundantPair {
	return []RedundantPair{
		{First: "requests", Second: "httpx", Message: "Redundant HTTP libraries: requests and httpx"},
		{First: "flask", Second: "flask_restful", Message: "Redundant Flask libraries: flask and flask_restful"},
	}
}

// Load reads .qualitygate.yml from the repository root when present. Missing files are ignored.
func Load(root string) (Config, error) {
	cfg := Default()
	path := filepath.Join(root, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config %q: %w", path, err)
	}

	var fileCfg Config
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return cfg, fmt.Errorf("parse config %q: %w", path, err)
	}
	if err := fileCfg.validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %q: %w", path, err)
	}

	cfg = merge(cfg, fileCfg)
	return cfg, nil
}

func (c Config) validate() error {
	groups := map[string][]CommandCheck{"checks": c.Checks, "client_checks": c.ClientChecks, "ui_tests": c.UITests}
	for group, checks := range groups {
		for i, check := range checks {
			if check.Name == "" {
				return fmt.Errorf("%s[%d]: name is required", group, i)
			}
			if len(check.Command) == 0 {
				return fmt.Errorf("%s[%d] %q: command is required", group, i, check.Name)
			}
		}
	}
	for i, pair := range c.Dependencies.Pairs {
		if pair.First == "" || pair.Second == "" {
			return fmt.Errorf("dependencies.pairs[%d]: first and second are required", i)
		}
	}
	if c.Tests.ProcessTimeout < 0 {
		return fmt.Errorf("tests.process_timeout must not be negative")
	}
	return nil
}

func merge(base, override Config) Config {
	out := base

	if len(override.Checks) > 0 {
		out.Checks = append([]CommandCheck{}, override.Checks...)
	}
	if len(override.ClientChecks) > 0 {
		out.ClientChecks = append([]CommandCheck{}, override.ClientChecks...)
	}
	if len(override.UITests) > 0 {
		out.UITests = append([]CommandCheck{}, override.UITests...)
	}
	if override.Inspect.Source != "" {
		out.Inspect.Source = override.Inspect.Source
	}
	if override.Dependencies.Manifest != "" {
		out.Dependencies.Manifest = override.Dependencies.Manifest
	}
	if len(override.Dependencies.Pairs) > 0 {
		out.Dependencies.Pairs = append([]RedundantPair{}, override.Dependencies.Pairs...)
	}
	if override.Tests.Dir != "" {
		out.Tests.Dir = override.Tests.Dir
	}
	if override.Tests.Prefix != "" {
		out.Tests.Prefix = override.Tests.Prefix
	}
	if override.Tests.Extension != "" {
		out.Tests.Extension = override.Tests.Extension
	}
	if len(override.Tests.Command) > 0 {
		out.Tests.Command = append([]string{}, override.Tests.Command...)
	}
	if override.Tests.ProcessTimeout > 0 {
		out.Tests.ProcessTimeout = override.Tests.ProcessTimeout
	}
	if override.Reports.JSON != "" {
		out.Reports.JSON = override.Reports.JSON
	}
	if override.Reports.CSV != "" {
		out.Reports.CSV = override.Reports.CSV
	}
	if override.Reports.Disabled {
		out.Reports.Disabled = true
	}
	if len(override.Only) > 0 {
		out.Only = append([]string{}, override.Only...)
	}
	if len(override.Skip) > 0 {
		out.Skip = append([]string{}, override.Skip...)
	}
	if override.Strict {
		out.Strict = true
	}
	if override.Verbose {
		out.Verbose = true
	}
	if override.LogLevel != "" {
		out.LogLevel = override.LogLevel
	}

	return out
}

// ApplyFlags mutates cfg by applying values from CLI flags when they are present.
func ApplyFlags(cfg *Config, flags FlagValues) {
	if len(flags.Only.Values) > 0 {
		cfg.Only = append([]string{}, flags.Only.Values...)
	}
	if len(flags.Skip.Values) > 0 {
		cfg.Skip = append([]string{}, flags.Skip.Values...)
	}
	if flags.JSONReport.Set {
		cfg.Reports.JSON = flags.JSONReport.Value
	}
	if flags.CSVReport.Set {
		cfg.Reports.CSV = flags.CSVReport.Value
	}
	if flags.NoFiles.Set {
		cfg.Reports.Disabled = flags.NoFiles.Value
	}
	if flags.Strict.Set {
		cfg.Strict = flags.Strict.Value
	}
	if flags.Verbose.Set {
		cfg.Verbose = flags.Verbose.Value
	}
	if flags.LogLevel.Set {
		cfg.LogLevel = flags.LogLevel.Value
	}
}

// FlagValues captures CLI flag state with knowledge of whether each flag was set explicitly.
type FlagValues struct {
	Only       SliceFlag
	Skip       SliceFlag
	JSONReport StringFlag
	CSVReport  StringFlag
	NoFiles    BoolFlag
	Strict     BoolFlag
	Verbose    BoolFlag
	LogLevel   StringFlag
}

// StringFlag represents a string flag and whether it was set.
type StringFlag struct {
	Value string
	Set   bool
}

// SliceFlag represents a slice flag and whether it captured values via CLI.
type SliceFlag struct {
	Values []string
}

// BoolFlag represents a bool flag and whether it was set.
type BoolFlag struct {
	Value bool
	Set   bool
}
