package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
)

// gateFailure carries a non-zero exit code out of a completed gate run.
type gateFailure struct {
	code int
}

func (e *gateFailure) Error() string {
	return fmt.Sprintf("quality gate failed (exit code %d)", e.code)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return 0
	}
	var failure *gateFailure
	if errors.As(err, &failure) {
		return failure.code
	}
	fmt.Fprintf(stderr, "Error: %v\n", err)
	return 2
}
