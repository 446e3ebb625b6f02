// Package logger provides structured logging using log/slog.
package logger

import (
	"context"
	"io"
	"log/slog"

	"cloudeng.io/logging/ctxlog"

	"github.com/lululau/hijri/internal/config"
)

// New builds a logger writing to w with the level and format from cfg.
func New(cfg *config.Config, w io.Writer) *slog.Logger {
	level := parseLevel(cfg.LogLevel)
	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug,
	}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

// Setup creates the logger, makes it the slog default and attaches it to ctx.
// Call this once at startup.
func Setup(ctx context.Context, cfg *config.Config, w io.Writer) (context.Context, *slog.Logger) {
	l := New(cfg, w)
	slog.SetDefault(l)
	return Context(ctx, l), l
}

// Context returns ctx carrying l.
func Context(ctx context.Context, l *slog.Logger) context.Context {
	return ctxlog.WithLogger(ctx, l)
}

// FromContext returns the logger attached to ctx, or a logger that discards
// everything when there is none.
func FromContext(ctx context.Context) *slog.Logger {
	return ctxlog.Logger(ctx)
}

// With returns ctx with attrs added to its logger.
func With(ctx context.Context, attrs ...any) context.Context {
	return ctxlog.WithAttributes(ctx, attrs...)
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
