package logger

import (
	"context"
	"log/slog"
	"strings"
)

// LogEvent writes one record named event. A nil log falls back to the logger
// stored in ctx and then to L.
func LogEvent(ctx context.Context, log *slog.Logger, level slog.Level, event string, attrs ...slog.Attr) {
	if log == nil {
		log = FromContext(ctx)
	}
	if log == nil {
		log = L
	}
	if log == nil {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}
	log.LogAttrs(ctx, level, event, attrs...)
}

// Component returns L scoped to the named component, or nil before any
// logger is installed.
func Component(name string) *slog.Logger {
	if L == nil {
		return nil
	}
	if name = strings.TrimSpace(name); name == "" {
		return L
	}
	return L.With("component", name)
}

// Debug logs a debug event for component.
func Debug(ctx context.Context, component, event string, attrs ...slog.Attr) {
	LogEvent(ctx, Component(component), slog.LevelDebug, event, attrs...)
}

// Info logs an info event for component.
func Info(ctx context.Context, component, event string, attrs ...slog.Attr) {
	LogEvent(ctx, Component(component), slog.LevelInfo, event, attrs...)
}

// Warn logs a warning event for component.
func Warn(ctx context.Context, component, event string, attrs ...slog.Attr) {
	LogEvent(ctx, Component(component), slog.LevelWarn, event, attrs...)
}

// Error logs an error event for component.
func Error(ctx context.Context, component, event string, attrs ...slog.Attr) {
	LogEvent(ctx, Component(component), slog.LevelError, event, attrs...)
}

// Enabled reports whether the global logger emits records at level. Callers
// use it to skip building expensive attributes.
func Enabled(ctx context.Context, level slog.Level) bool {
	if L == nil {
		return false
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return L.Enabled(ctx, level)
}

// Status maps err to the "ok"/"fail" value of the status attribute.
func Status(err error) string {
	if err != nil {
		return "fail"
	}
	return "ok"
}

// SummarizeStrings joins at most limit values and reports whether any were left out.
func SummarizeStrings(values []string, limit int) (string, bool) {
	if limit < 0 {
		limit = 0
	}
	if len(values) <= limit {
		return strings.Join(values, ", "), false
	}
	return strings.Join(values[:limit], ", "), true
}
