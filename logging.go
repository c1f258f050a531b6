package ygggo_dbal

import (
	"context"
	"log/slog"
	"os"
	"time"
)

var defaultLogger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
	Level: slog.LevelWarn,
}))

// SetDefaultLogger replaces the logger used by connections and sessions
// that have not been given their own.
func SetDefaultLogger(logger *slog.Logger) {
	if logger != nil {
		defaultLogger = logger
	}
}

// logQuery records statement execution with structured fields.
func (c *Conn) logQuery(ctx context.Context, operation, query string, duration time.Duration, err error) {
	if c == nil || c.logger == nil {
		return
	}
	attrs := []slog.Attr{
		slog.String("driver", c.params.Driver),
		slog.String("operation", operation),
		slog.String("query", query),
		slog.Float64("duration_ms", float64(duration.Nanoseconds())/1e6),
	}
	level := slog.LevelDebug
	if err != nil {
		level = slog.LevelError
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	c.logger.LogAttrs(ctx, level, "statement executed", attrs...)
}
