package version

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"regexp"
	"strings"
)

// Info captures a tool installed on the system.
type Info struct {
	Name    string
	Path    string
	Version string
}

var versionRegex = regexp.MustCompile(`v?(\d+\.\d+(?:\.\d+)?)`)

// Detect locates program on PATH and asks it for its version with
// `--version`. A located tool whose version cannot be parsed still returns
// its path.
func Detect(ctx context.Context, program string) (Info, error) {
	info := Info{Name: program}
	path, err := exec.LookPath(program)
	if err != nil {
		return info, err
	}
	info.Path = path

	out, err := runCommand(ctx, path, "--version")
	if err != nil {
		return info, fmt.Errorf("run %s --version: %w", program, err)
	}
	info.Version = Parse(out)
	return info, nil
}

// Parse extracts the first version number from tool output.
func Parse(out string) string {
	match := versionRegex.FindStringSubmatch(out)
	if len(match) < 2 {
		return ""
	}
	return match[1]
}

func runCommand(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = nil
	var buf bytes.Buffer
	cmd.Stdout = &buf
	cmd.Stderr = &buf
	if err := cmd.Run(); err != nil {
		return "", err
	}
	return strings.TrimSpace(buf.String()), nil
}

// Missing reports whether executing the command returns a not-found error.
func Missing(cmdErr error) bool {
	return errors.Is(cmdErr, exec.ErrNotFound)
}
