package logger

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

type ctxKey int

const (
	loggerKey ctxKey = iota
	metaKey
)

// Meta identifies the update a record was logged for. Zero fields are
// omitted from the output.
type Meta struct {
	RID      string
	UpdateID int
	UserID   int64
	ChatID   int64
	// Handler is the route that took the update.
	Handler string
	// Input is the sanitized message text, usually a pressed button label.
	Input string
	// State is the conversation state the update arrived in.
	State string
}

func (m Meta) attrs() []slog.Attr {
	var attrs []slog.Attr
	if m.RID != "" {
		attrs = append(attrs, slog.String("rid", CompactRID(m.RID)))
	}
	if m.UpdateID != 0 {
		attrs = append(attrs, slog.Int("update_id", m.UpdateID))
	}
	if m.UserID != 0 {
		attrs = append(attrs, slog.Int64("user_id", m.UserID))
	}
	if m.ChatID != 0 && m.ChatID != m.UserID {
		attrs = append(attrs, slog.Int64("chat_id", m.ChatID))
	}
	if m.Handler != "" {
		attrs = append(attrs, slog.String("handler", m.Handler))
	}
	if m.State != "" {
		attrs = append(attrs, slog.String("state", m.State))
	}
	if m.Input != "" {
		attrs = append(attrs, slog.String("input", m.Input))
	}
	return attrs
}

// WithMeta stores m in ctx, replacing any earlier Meta.
func WithMeta(ctx context.Context, m Meta) context.Context {
	return context.WithValue(ctx, metaKey, m)
}

// MetaFrom returns the Meta stored in ctx or the zero Meta.
func MetaFrom(ctx context.Context) Meta {
	if ctx == nil {
		return Meta{}
	}
	m, _ := ctx.Value(metaKey).(Meta)
	return m
}

// WithHandler records the route name for records logged through ctx.
func WithHandler(ctx context.Context, handler string) context.Context {
	m := MetaFrom(ctx)
	m.Handler = handler
	return WithMeta(ctx, m)
}

// WithState records the conversation state for records logged through ctx.
func WithState(ctx context.Context, state string) context.Context {
	m := MetaFrom(ctx)
	m.State = state
	return WithMeta(ctx, m)
}

// WithLogger stores log as the fallback logger for LogEvent.
func WithLogger(ctx context.Context, log *slog.Logger) context.Context {
	if log == nil {
		return ctx
	}
	return context.WithValue(ctx, loggerKey, log)
}

// FromContext returns the logger stored by WithLogger, or nil.
func FromContext(ctx context.Context) *slog.Logger {
	if ctx == nil {
		return nil
	}
	log, _ := ctx.Value(loggerKey).(*slog.Logger)
	return log
}

// BuildRID formats the request id of an update as updateID:chatID:userID.
func BuildRID(updateID int, chatID, userID int64) string {
	return strconv.Itoa(updateID) + ":" + strconv.FormatInt(chatID, 10) + ":" + strconv.FormatInt(userID, 10)
}

// CompactRID rewrites a BuildRID value as dot-separated base36 numbers.
// Other input is returned trimmed but otherwise unchanged.
func CompactRID(rid string) string {
	rid = strings.TrimSpace(rid)
	parts := strings.Split(rid, ":")
	if len(parts) != 3 {
		return rid
	}
	for i, p := range parts {
		n, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return rid
		}
		parts[i] = strconv.FormatInt(n, 36)
	}
	return strings.Join(parts, ".")
}

// Sanitize drops control and format runes except tab and newline.
func Sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\n' || r == '\t':
			return r
		case unicode.IsControl(r), unicode.Is(unicode.Cf, r):
			return -1
		}
		return r
	}, s)
}

// SanitizeLimit sanitizes s and cuts it to at most max runes.
func SanitizeLimit(s string, max int) string {
	if max <= 0 {
		return ""
	}
	s = Sanitize(s)
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}
