package runner

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/bgricker/qualitygate/internal/config"
	"github.com/bgricker/qualitygate/internal/report"
)

// Options configure how the runner executes commands.
type Options struct {
	Root   string
	Env    []string
	Stdout io.Writer
	Stderr io.Writer
	Logger zerolog.Logger
	Now    func() time.Time
}

// Runner executes external commands sequentially.
type Runner struct {
	opts Options
}

// Execution is the captured outcome of one command.
type Execution struct {
	Stdout       string
	Stderr       string
	ExitCode     int
	Duration     time.Duration
	NotInstalled bool
	Err          error
}

// Launched reports whether the process started and exited on its own terms.
func (e Execution) Launched() bool {
	return !e.NotInstalled && e.Err == nil
}

// New creates a runner with the supplied options.
func New(opts Options) *Runner {
	if opts.Env == nil {
		opts.Env = os.Environ()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Runner{opts: opts}
}

// Exec runs name with args and no stdin. A non-zero exit is not an error;
// Err is only set when the process could not be started or waited for.
func (r *Runner) Exec(ctx context.Context, name string, args ...string) Execution {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = r.opts.Root
	cmd.Env = r.opts.Env
	cmd.Stdin = nil

	var stdoutBuf, stderrBuf strings.Builder
	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf
	if r.opts.Stdout != nil {
		cmd.Stdout = io.MultiWriter(r.opts.Stdout, &stdoutBuf)
	}
	if r.opts.Stderr != nil {
		cmd.Stderr = io.MultiWriter(r.opts.Stderr, &stderrBuf)
	}

	start := r.opts.Now()
	err := cmd.Run()
	res := Execution{
		Stdout:   stdoutBuf.String(),
		Stderr:   stderrBuf.String(),
		ExitCode: exitCode(err),
		Duration: r.opts.Now().Sub(start),
	}

	var exitErr *exec.ExitError
	switch {
	case err == nil, errors.As(err, &exitErr):
	case missing(err):
		res.NotInstalled = true
		res.Err = err
	default:
		res.Err = err
	}

	r.opts.Logger.Debug().
		Str("program", name).
		Strs("args", args).
		Int("exit_code", res.ExitCode).
		Dur("duration", res.Duration).
		Bool("not_installed", res.NotInstalled).
		Msg("command finished")

	return res
}

// Check runs a command check and classifies it by exit status.
func (r *Runner) Check(ctx context.Context, check config.CommandCheck) report.CheckResult {
	if len(check.Command) == 0 {
		return report.NewResult(report.StatusError, []report.Violation{report.Line("no command configured")})
	}
	res := r.Exec(ctx, check.Command[0], check.Command[1:]...)
	return Classify(res)
}

// Classify maps an execution onto a check result.
func Classify(res Execution) report.CheckResult {
	switch {
	case res.NotInstalled:
		return report.NewResult(report.StatusNotInstalled, nil)
	case res.Err != nil:
		return report.NewResult(report.StatusError, []report.Violation{report.Line(res.Err.Error())})
	case res.ExitCode == 0:
		return report.NewResult(report.StatusPassed, nil)
	default:
		output := strings.TrimSpace(res.Stdout) + "\n" + strings.TrimSpace(res.Stderr)
		return report.NewResult(report.StatusFailed, report.Lines(ExtractViolations(output)))
	}
}

// ExtractViolations splits output into trimmed, non-blank lines in original order.
func ExtractViolations(output string) []string {
	var out []string
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		out = append(out, line)
	}
	return out
}

func missing(err error) bool {
	return errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist)
}

func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if status, ok := exitErr.Sys().(interface{ ExitStatus() int }); ok {
			return status.ExitStatus()
		}
		return exitErr.ExitCode()
	}
	return -1
}
