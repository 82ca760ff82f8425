// Package pipeline runs test suites and records one outcome per invocation.
package pipeline

import (
	"context"
	"errors"
	"math"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/bgricker/qualitygate/internal/config"
	"github.com/bgricker/qualitygate/internal/discovery"
	"github.com/bgricker/qualitygate/internal/report"
	"github.com/bgricker/qualitygate/internal/runner"
)

// NoTestsFolder is the error recorded when the tests folder is absent.
const NoTestsFolder = "No tests folder found"

// Executor runs a single command. *runner.Runner satisfies it.
type Executor interface {
	Exec(ctx context.Context, name string, args ...string) runner.Execution
}

// Tests runs every discovered test file through the configured command.
type Tests struct {
	exec   Executor
	root   string
	cfg    config.TestConfig
	logger zerolog.Logger
}

// NewTests creates a per-file test pipeline rooted at root.
func NewTests(exec Executor, root string, cfg config.TestConfig, logger zerolog.Logger) *Tests {
	return &Tests{exec: exec, root: root, cfg: cfg, logger: logger}
}

// Run discovers and executes test files sequentially.
func (t *Tests) Run(ctx context.Context) ([]report.TestOutcome, error) {
	dir := t.cfg.Dir
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(t.root, dir)
	}
	files, err := discovery.TestFiles(dir, t.cfg.Prefix, t.cfg.Extension)
	if err != nil {
		if errors.Is(err, discovery.ErrNoFolder) {
			t.logger.Warn().Str("dir", t.cfg.Dir).Msg("tests folder not found")
			return []report.TestOutcome{{Error: NoTestsFolder}}, nil
		}
		return nil, err
	}

	outcomes := make([]report.TestOutcome, 0, len(files))
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return outcomes, err
		}
		outcomes = append(outcomes, t.runFile(ctx, file))
	}
	return outcomes, nil
}

func (t *Tests) runFile(ctx context.Context, file discovery.TestFile) report.TestOutcome {
	if t.cfg.ProcessTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.cfg.ProcessTimeout)
		defer cancel()
	}

	rel, err := filepath.Rel(t.root, file.Path)
	if err != nil {
		rel = file.Path
	}
	args := substitute(t.cfg.Command, rel)
	if len(args) == 0 {
		return report.TestOutcome{File: file.Name, Status: report.StatusError, Error: "no test command configured"}
	}

	res := t.exec.Exec(ctx, args[0], args[1:]...)
	if !res.Launched() {
		return report.TestOutcome{File: file.Name, Status: report.StatusError, Error: res.Err.Error()}
	}
	outcome := report.TestOutcome{
		File:        file.Name,
		Status:      statusFor(res.ExitCode),
		ElapsedTime: Seconds(res.Duration),
		Log:         strings.TrimSpace(res.Stdout),
	}
	t.logger.Debug().Str("file", rel).Str("status", string(outcome.Status)).Float64("elapsed", outcome.ElapsedTime).Msg("test file finished")
	return outcome
}

// TestsStatus passes when every outcome that carries a status passed.
// Status-less entries, such as the missing-folder sentinel, are ignored.
func TestsStatus(outcomes []report.TestOutcome) report.Status {
	for _, o := range outcomes {
		if o.HasStatus() && o.Status != report.StatusPassed {
			return report.StatusFailed
		}
	}
	return report.StatusPassed
}

// UI runs browser and JavaScript test commands in order.
type UI struct {
	exec   Executor
	tools  []config.CommandCheck
	logger zerolog.Logger
}

// NewUI creates the UI test pipeline.
func NewUI(exec Executor, tools []config.CommandCheck, logger zerolog.Logger) *UI {
	return &UI{exec: exec, tools: tools, logger: logger}
}

// UIToolsName labels the outcome recorded when a UI tool cannot be launched.
const UIToolsName = "UI Tests"

// Run executes each tool. The first launch failure is recorded and ends the
// pipeline.
func (u *UI) Run(ctx context.Context) []report.TestOutcome {
	var outcomes []report.TestOutcome
	for _, tool := range u.tools {
		if len(tool.Command) == 0 {
			continue
		}
		res := u.exec.Exec(ctx, tool.Command[0], tool.Command[1:]...)
		if !res.Launched() {
			u.logger.Warn().Str("tool", tool.Name).Err(res.Err).Msg("ui test tool could not be launched")
			return append(outcomes, report.TestOutcome{Tool: UIToolsName, Status: report.StatusError, Error: res.Err.Error()})
		}
		outcomes = append(outcomes, report.TestOutcome{
			Tool:        tool.Name,
			Status:      statusFor(res.ExitCode),
			ElapsedTime: Seconds(res.Duration),
			Log:         strings.TrimSpace(res.Stdout),
		})
	}
	return outcomes
}

// UIStatus passes only when every outcome passed.
func UIStatus(outcomes []report.TestOutcome) report.Status {
	for _, o := range outcomes {
		if o.Status != report.StatusPassed {
			return report.StatusFailed
		}
	}
	return report.StatusPassed
}

// Result wraps outcomes as a check result with one record per outcome.
func Result(status report.Status, outcomes []report.TestOutcome) report.CheckResult {
	violations := make([]report.Violation, 0, len(outcomes))
	for _, o := range outcomes {
		violations = append(violations, report.Record(o))
	}
	return report.NewResult(status, violations)
}

// Seconds rounds d to milliseconds and returns it in seconds.
func Seconds(d time.Duration) float64 {
	return math.Round(d.Seconds()*1000) / 1000
}

func statusFor(exitCode int) report.Status {
	if exitCode == 0 {
		return report.StatusPassed
	}
	return report.StatusFailed
}

func substitute(command []string, file string) []string {
	out := make([]string, 0, len(command))
	for _, arg := range command {
		out = append(out, strings.ReplaceAll(arg, config.FilePlaceholder, file))
	}
	return out
}

