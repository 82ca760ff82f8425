// Package gate runs every configured check and assembles the aggregate report.
package gate

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/bgricker/qualitygate/internal/config"
	"github.com/bgricker/qualitygate/internal/deps"
	"github.com/bgricker/qualitygate/internal/filter"
	"github.com/bgricker/qualitygate/internal/inspect"
	"github.com/bgricker/qualitygate/internal/logging"
	"github.com/bgricker/qualitygate/internal/pipeline"
	"github.com/bgricker/qualitygate/internal/report"
	"github.com/bgricker/qualitygate/internal/runner"
)

// Fixed names for checks that are not external commands.
const (
	DocstringCheck  = "Docstring Check"
	TypeHintCheck   = "Type Hint Check"
	DependencyCheck = "Dependency Check"
	TestPipeline    = "Test Cases Pipeline"
	UITestPipeline  = "UI Test Pipeline"
)

// Options configure a gate run.
type Options struct {
	Root   string
	Config config.Config
	Logger zerolog.Logger
	// Runner overrides the command runner, mostly for tests.
	Runner *runner.Runner
}

// Result is the outcome of a full gate run.
type Result struct {
	Report   *report.Report
	Primary  *report.Report
	Client   *report.Report
	ExitCode int
}

// Gate drives all checks sequentially.
type Gate struct {
	root     string
	cfg      config.Config
	logger   zerolog.Logger
	runner   *runner.Runner
	selector *filter.Selector
}

// New validates filters and builds a gate.
func New(opts Options) (*Gate, error) {
	selector, err := filter.NewSelector(opts.Config.Only, opts.Config.Skip)
	if err != nil {
		return nil, fmt.Errorf("check filters: %w", err)
	}
	r := opts.Runner
	if r == nil {
		r = runner.New(runner.Options{Root: opts.Root, Logger: logging.Component(opts.Logger, "runner")})
	}
	return &Gate{
		root:     opts.Root,
		cfg:      opts.Config,
		logger:   opts.Logger,
		runner:   r,
		selector: selector,
	}, nil
}

// Run executes the primary scope, then the client scope, merges them and
// computes the exit code. Check failures never abort the run; only context
// cancellation does.
func (g *Gate) Run(ctx context.Context) (Result, error) {
	primary, failed, err := g.runPrimary(ctx)
	if err != nil {
		return Result{}, err
	}
	client, err := g.runClient(ctx)
	if err != nil {
		return Result{}, err
	}

	merged := report.New()
	merged.Merge(primary)
	merged.Merge(client)

	res := Result{Report: merged, Primary: primary, Client: client}
	if failed {
		res.ExitCode = 1
	}
	if g.cfg.Strict && anyUnsuccessful(merged) {
		res.ExitCode = 1
	}
	g.logger.Info().Int("checks", merged.Len()).Int("exit_code", res.ExitCode).Msg("quality gate finished")
	return res, nil
}

func (g *Gate) runPrimary(ctx context.Context) (*report.Report, bool, error) {
	rep := report.New()
	failed := g.runCommands(ctx, rep, g.cfg.Checks)

	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	if g.selector.Selected(DocstringCheck) || g.selector.Selected(TypeHintCheck) {
		g.runInspector(ctx, rep)
	}
	if g.selector.Selected(DependencyCheck) {
		g.runDependencies(rep)
	}
	if g.selector.Selected(TestPipeline) {
		if err := g.runTests(ctx, rep); err != nil {
			return nil, false, err
		}
	}
	return rep, failed, nil
}

// runTests records the test pipeline. Only cancellation is returned; any
// other failure becomes an Error entry.
func (g *Gate) runTests(ctx context.Context, rep *report.Report) error {
	outcomes, err := pipeline.NewTests(g.runner, g.root, g.cfg.Tests, logging.Component(g.logger, "tests")).Run(ctx)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		g.logger.Warn().Err(err).Str("dir", g.cfg.Tests.Dir).Msg("test pipeline failed")
		rep.Set(TestPipeline, errorResult(err))
		return nil
	}
	rep.Set(TestPipeline, pipeline.Result(pipeline.TestsStatus(outcomes), outcomes))
	return nil
}

func (g *Gate) runClient(ctx context.Context) (*report.Report, error) {
	rep := report.New()
	g.runCommands(ctx, rep, g.cfg.ClientChecks)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if g.selector.Selected(UITestPipeline) && len(g.cfg.UITests) > 0 {
		outcomes := pipeline.NewUI(g.runner, g.cfg.UITests, logging.Component(g.logger, "ui-tests")).Run(ctx)
		rep.Set(UITestPipeline, pipeline.Result(pipeline.UIStatus(outcomes), outcomes))
	}
	return rep, nil
}

// runCommands records each selected command check and reports whether any
// of them returned a non-zero exit status.
func (g *Gate) runCommands(ctx context.Context, rep *report.Report, checks []config.CommandCheck) bool {
	failed := false
	for _, check := range checks {
		if !g.selector.Selected(check.Name) {
			g.logger.Debug().Str("check", check.Name).Msg("check filtered out")
			continue
		}
		if ctx.Err() != nil {
			return failed
		}
		res := g.runner.Check(ctx, check)
		g.logger.Info().Str("check", check.Name).Str("status", string(res.Status())).Int("count", res.Count()).Msg("check finished")
		if res.Status() == report.StatusFailed {
			failed = true
		}
		rep.Set(check.Name, res)
	}
	return failed
}

func (g *Gate) runInspector(ctx context.Context, rep *report.Report) {
	findings, err := inspect.New(g.root).InspectFile(ctx, g.cfg.Inspect.Source)
	if err != nil {
		g.logger.Warn().Err(err).Str("source", g.cfg.Inspect.Source).Msg("structural inspection failed")
		failure := errorResult(err)
		g.setSelected(rep, DocstringCheck, failure)
		g.setSelected(rep, TypeHintCheck, failure)
		return
	}
	g.logger.Debug().Strs("docstrings", findings.Docstrings).Strs("type_hints", findings.TypeHints).Msg("structural inspection finished")
	g.setSelected(rep, DocstringCheck, report.Judge(report.Lines(findings.Docstrings)))
	g.setSelected(rep, TypeHintCheck, report.Judge(report.Lines(findings.TypeHints)))
}

func (g *Gate) runDependencies(rep *report.Report) {
	manifest := g.cfg.Dependencies.Manifest
	path := manifest
	if !filepath.IsAbs(path) {
		path = filepath.Join(g.root, manifest)
	}
	violations, err := deps.NewAuditor(g.cfg.Dependencies.Pairs).AuditFile(path, manifest)
	if err != nil {
		g.logger.Warn().Err(err).Str("manifest", manifest).Msg("dependency audit failed")
		rep.Set(DependencyCheck, errorResult(err))
		return
	}
	g.logger.Debug().Strs("violations", violations).Msg("dependency audit finished")
	rep.Set(DependencyCheck, report.Judge(report.Lines(violations)))
}

func (g *Gate) setSelected(rep *report.Report, name string, res report.CheckResult) {
	if g.selector.Selected(name) {
		rep.Set(name, res)
	}
}

func errorResult(err error) report.CheckResult {
	return report.NewResult(report.StatusError, []report.Violation{report.Line(err.Error())})
}

func anyUnsuccessful(rep *report.Report) bool {
	bad := false
	rep.Each(func(_ string, res report.CheckResult) {
		if res.Status() == report.StatusFailed || res.Status() == report.StatusError {
			bad = true
		}
	})
	return bad
}
