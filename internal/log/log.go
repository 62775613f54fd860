// Package log is the repo's structured logging layer: a small Logger
// interface over log/slog with otel trace correlation and stacktrace
// enrichment for errors. The embeddir library itself never logs; only the
// commands and their infra do.
package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

type Logger interface {
	With(kv ...any) Logger

	Debug(ctx context.Context, msg string, kv ...any)
	Info(ctx context.Context, msg string, kv ...any)
	Warn(ctx context.Context, msg string, kv ...any)
	Error(ctx context.Context, err error, msg string, kv ...any)

	Sync() error
}

type Options struct {
	App        string
	Level      slog.Level
	JsonFormat bool
	Writer     io.Writer

	// StacktraceLevel is the minimum level at which error stacks are
	// attached. nil means the default (error); a pointer distinguishes an
	// explicit info from unset, since slog.LevelInfo is the zero Level.
	StacktraceLevel *slog.Level
}

func New(opts Options) (Logger, error) { return newSlog(opts) }

func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level %s (valid levels are debug|info|warn|error)", s)
	}
}
