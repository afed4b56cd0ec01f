// Package appshell adapts a RunContext-style entry point to a process:
// signal-driven cancellation and exit-code normalization.
package appshell

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
)

// RunFunc is the shape of app.RunContext.
type RunFunc func(ctx context.Context, argv []string, stdout, stderr io.Writer) int

// Main runs fn with os.Args and exits with its code. SIGINT and SIGTERM
// cancel the context; an interrupted run never exits 0.
func Main(fn RunFunc) {
	os.Exit(Exec(fn, os.Args[1:], os.Stdout, os.Stderr))
}

// Exec is Main without os.Exit, for tests.
func Exec(fn RunFunc, argv []string, stdout, stderr io.Writer) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if len(argv) == 0 {
		argv = []string{"-h"}
	}
	code := fn(ctx, argv, stdout, stderr)
	// Normalize cancellation exit code.
	if ctx.Err() != nil && code == 0 {
		code = 130
	}
	return code
}
