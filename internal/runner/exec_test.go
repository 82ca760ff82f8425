package runner

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/bgricker/qualitygate/internal/config"
	"github.com/bgricker/qualitygate/internal/report"
)

func TestRunnerCheckPassed(t *testing.T) {
	skipWindows(t)
	r := New(Options{Root: t.TempDir()})

	res := r.Check(context.Background(), config.CommandCheck{Name: "ok", Command: []string{"sh", "-c", "echo fine"}})
	if res.Status() != report.StatusPassed || res.Count() != 0 {
		t.Fatalf("unexpected result: %v %v", res.Status(), res.ViolationStrings())
	}
}

func TestRunnerCheckFailedCollectsLines(t *testing.T) {
	skipWindows(t)
	r := New(Options{Root: t.TempDir()})
	script := "printf 'a.py:1: E1\\n\\n   \\n  a.py:2: E2  \\n'; echo 'warn' >&2; exit 3"

	res := r.Check(context.Background(), config.CommandCheck{Name: "lint", Command: []string{"sh", "-c", script}})
	if res.Status() != report.StatusFailed {
		t.Fatalf("expected failed, got %v", res.Status())
	}
	want := []string{"a.py:1: E1", "a.py:2: E2", "warn"}
	got := res.ViolationStrings()
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("violations = %q, want %q", got, want)
	}
	if res.Count() != len(got) {
		t.Fatalf("count %d != %d", res.Count(), len(got))
	}
}

func TestRunnerFailedWithoutOutput(t *testing.T) {
	skipWindows(t)
	r := New(Options{Root: t.TempDir()})

	res := r.Check(context.Background(), config.CommandCheck{Name: "quiet", Command: []string{"sh", "-c", "exit 1"}})
	if res.Status() != report.StatusFailed || res.Count() != 0 {
		t.Fatalf("unexpected result: %v %v", res.Status(), res.ViolationStrings())
	}
}

func TestRunnerToolNotInstalled(t *testing.T) {
	r := New(Options{Root: t.TempDir()})

	res := r.Check(context.Background(), config.CommandCheck{Name: "absent", Command: []string{"qualitygate-definitely-not-a-tool"}})
	if res.Status() != report.StatusNotInstalled {
		t.Fatalf("expected not installed, got %v", res.Status())
	}
	if res.Count() != 0 || len(res.Violations()) != 0 {
		t.Fatalf("expected no violations, got %v", res.ViolationStrings())
	}
}

func TestRunnerLaunchError(t *testing.T) {
	skipWindows(t)
	root := t.TempDir()
	script := filepath.Join(root, "tool")
	if err := os.WriteFile(script, []byte("#!/bin/sh\nexit 0\n"), 0o644); err != nil {
		t.Fatalf("write script: %v", err)
	}
	r := New(Options{Root: root})

	res := r.Check(context.Background(), config.CommandCheck{Name: "noexec", Command: []string{script}})
	if res.Status() != report.StatusError || res.Count() != 1 {
		t.Fatalf("expected error result, got %v %v", res.Status(), res.ViolationStrings())
	}
}

func TestRunnerWorkingDirectory(t *testing.T) {
	skipWindows(t)
	root := t.TempDir()
	sub := filepath.Join(root, "subdir")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatalf("mkdir subdir: %v", err)
	}
	r := New(Options{Root: sub})

	res := r.Exec(context.Background(), "pwd")
	if !strings.Contains(res.Stdout, "subdir") {
		t.Fatalf("expected working dir output to include subdir, got %q", res.Stdout)
	}
}

func TestRunnerMirrorsOutput(t *testing.T) {
	skipWindows(t)
	stdout := &bytes.Buffer{}
	r := New(Options{Root: t.TempDir(), Stdout: stdout})

	res := r.Exec(context.Background(), "sh", "-c", "echo hi")
	if strings.TrimSpace(res.Stdout) != "hi" || strings.TrimSpace(stdout.String()) != "hi" {
		t.Fatalf("expected stdout 'hi', got %q / %q", res.Stdout, stdout.String())
	}
}

func TestExtractViolations(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"\n \n\t\n", nil},
		{"one\r\ntwo\n", []string{"one", "two"}},
		{"dup\ndup", []string{"dup", "dup"}},
	}
	for _, c := range cases {
		got := ExtractViolations(c.in)
		if strings.Join(got, "|") != strings.Join(c.want, "|") || len(got) != len(c.want) {
			t.Fatalf("ExtractViolations(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func skipWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("test requires POSIX shell")
	}
}
