// internal/cmdutil/log.go
package cmdutil

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"protannot/internal/version"
)

// Service is the name every log line is tagged with.
const Service = "protannot"

func Warnf(dst io.Writer, quiet bool, format string, a ...any) {
	if quiet {
		return
	}
	_, _ = fmt.Fprintf(dst, "WARN: "+format+"\n", a...)
}

// ParseLevel maps debug | info | warn | error (any case) to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.ToLower(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q", s)
	}
	return l, nil
}

// NewLogger builds the run logger on dst. quiet forces ERROR and wins over
// verbose, which forces DEBUG; otherwise level applies. Every record
// carries the service name, the build version, and a fresh run_id.
func NewLogger(dst io.Writer, level slog.Level, quiet, verbose bool) *slog.Logger {
	switch {
	case quiet:
		level = slog.LevelError
	case verbose:
		level = slog.LevelDebug
	}
	h := slog.NewTextHandler(dst, &slog.HandlerOptions{Level: level})
	return slog.New(h).With(
		"service", Service,
		"version", version.Version,
		"run_id", uuid.NewString(),
	)
}
