package logger

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"time"
)

type format int

const (
	formatJSON format = iota
	formatText
)

const tsLayout = "2006-01-02T15:04:05.000Z07:00"

// newHandler builds the record pipeline: update metadata from the context is
// appended by metaHandler, then slog's text or JSON handler renders the line.
func newHandler(w io.Writer, f format, level slog.Leveler) slog.Handler {
	opts := &slog.HandlerOptions{Level: level, ReplaceAttr: replaceAttr}
	if f == formatText {
		return metaHandler{next: slog.NewTextHandler(w, opts)}
	}
	return metaHandler{next: slog.NewJSONHandler(w, opts)}
}

// metaHandler appends the Meta stored in the record's context.
type metaHandler struct {
	next slog.Handler
}

func (h metaHandler) Enabled(ctx context.Context, l slog.Level) bool {
	return h.next.Enabled(ctx, l)
}

func (h metaHandler) Handle(ctx context.Context, r slog.Record) error {
	if attrs := MetaFrom(ctx).attrs(); len(attrs) > 0 {
		r = r.Clone()
		r.AddAttrs(attrs...)
	}
	return h.next.Handle(ctx, r)
}

func (h metaHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return metaHandler{next: h.next.WithAttrs(attrs)}
}

func (h metaHandler) WithGroup(name string) slog.Handler {
	return metaHandler{next: h.next.WithGroup(name)}
}

// replaceAttr renames the message to "event", stamps time as UTC
// milliseconds under "ts" and logs every duration as whole milliseconds.
func replaceAttr(groups []string, a slog.Attr) slog.Attr {
	if len(groups) == 0 {
		switch a.Key {
		case slog.TimeKey:
			return slog.String("ts", a.Value.Time().UTC().Format(tsLayout))
		case slog.MessageKey:
			if a.Value.String() == "" {
				return slog.Attr{}
			}
			a.Key = "event"
			return a
		}
	}
	if a.Value.Kind() == slog.KindDuration {
		return slog.Int64(durationKey(a.Key), RoundMS(a.Value.Duration()).Milliseconds())
	}
	return a
}

func durationKey(key string) string {
	if strings.HasSuffix(key, "_ms") {
		return key
	}
	return key + "_ms"
}

// Took returns the time elapsed since start rounded to milliseconds.
func Took(start time.Time) time.Duration {
	return RoundMS(time.Since(start))
}

// RoundMS rounds d to the nearest millisecond; negative values become zero.
func RoundMS(d time.Duration) time.Duration {
	if d <= 0 {
		return 0
	}
	return d.Round(time.Millisecond)
}
