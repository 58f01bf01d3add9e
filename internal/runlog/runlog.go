// Package runlog sets up the CLI's structured logging: every
// invocation gets a JSON (or text) handler writing to stderr — stdout
// is reserved for command output — tagged with a per-run correlation
// ID so a collaborator piping many invocations through one log
// aggregator can still tell them apart.
package runlog

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/google/uuid"
)

// New builds a slog.Logger writing to stderr at the given level
// ("debug", "info", "warn", "error"), in either "json" or "text"
// format, tagged with a fresh run ID.
func New(level, format string) (*slog.Logger, string) {
	runID := uuid.NewString()
	handlerOpts := &slog.HandlerOptions{Level: parseLevel(level)}

	var handler slog.Handler
	if format == "text" {
		handler = slog.NewTextHandler(os.Stderr, handlerOpts)
	} else {
		handler = slog.NewJSONHandler(os.Stderr, handlerOpts)
	}

	logger := slog.New(handler).With("run_id", runID)
	return logger, runID
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// SignalContext returns a context canceled on SIGINT/SIGTERM, for
// commands that watch the filesystem or otherwise run until
// interrupted.
func SignalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}
