// Package logger is the bot's structured logging setup. It owns the global
// slog logger, the per-component loggers derived from it and the update
// metadata that travels in a context.Context into every record.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/m3rciful/museumguide/core/buildinfo"
	coreconfig "github.com/m3rciful/museumguide/core/config"
)

var (
	sinksMu sync.Mutex
	sinks   []io.Closer

	level slog.LevelVar

	// L is the base logger for call sites without a more specific component.
	L *slog.Logger

	// DB logs database connection events.
	DB *slog.Logger
	// TG logs Telegram transport events.
	TG *slog.Logger
	// MIG logs database migration events.
	MIG *slog.Logger
	// TWire logs Telegram wiring steps.
	TWire *slog.Logger
	// SEED logs content seeding into the database.
	SEED *slog.Logger
	// Content logs exhibit catalog loading.
	Content *slog.Logger
	// Conv logs conversation state machine decisions.
	Conv *slog.Logger
	// Session logs session store activity.
	Session *slog.Logger
)

// InitLogger installs the global logger described by cfg.Logging. A nil cfg
// selects JSON at info level on stdout. Files opened by an earlier call are
// closed once the new logger is in place.
func InitLogger(cfg *coreconfig.Config) error {
	var lc coreconfig.LoggingConfig
	if cfg != nil {
		lc = cfg.Logging
	}
	out, opened, err := openOutput(lc)
	if err != nil {
		return err
	}
	level.Set(parseLevel(lc.Level))
	install(newHandler(out, parseFormat(lc), &level))

	sinksMu.Lock()
	prev := sinks
	sinks = opened
	sinksMu.Unlock()
	if err := closeAll(prev); err != nil {
		LogEvent(context.Background(), L, slog.LevelWarn, "logger.close_previous", slog.String("err", err.Error()))
	}

	logStartup(cfg)
	return nil
}

// UseDiscard installs a logger that drops every record. Tests and CLI
// subcommands that never call InitLogger use it so component loggers are non-nil.
func UseDiscard() {
	install(slog.DiscardHandler)
}

// UseWriter installs a JSON logger at debug level writing to w. Tests use it
// to assert on emitted records.
func UseWriter(w io.Writer) {
	install(newHandler(w, formatJSON, slog.LevelDebug))
}

// Shutdown closes log files opened by InitLogger.
func Shutdown() error {
	sinksMu.Lock()
	opened := sinks
	sinks = nil
	sinksMu.Unlock()
	return closeAll(opened)
}

func install(h slog.Handler) {
	L = slog.New(h)
	slog.SetDefault(L)

	DB = L.With("component", "db")
	TG = L.With("component", "tg")
	MIG = L.With("component", "db.migrate")
	TWire = L.With("component", "tg.wire")
	SEED = L.With("component", "db.seed")
	Content = L.With("component", "content")
	Conv = L.With("component", "conversation")
	Session = L.With("component", "session")
}

// openOutput returns stdout, teed into logging.dir/logging.bot_file when both
// are set.
func openOutput(lc coreconfig.LoggingConfig) (io.Writer, []io.Closer, error) {
	dir, name := strings.TrimSpace(lc.Dir), strings.TrimSpace(lc.BotFile)
	if dir == "" || name == "" {
		return os.Stdout, nil, nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("logger: create log dir: %w", err)
	}
	f, err := os.OpenFile(filepath.Join(dir, name), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("logger: open log file: %w", err)
	}
	return io.MultiWriter(os.Stdout, f), []io.Closer{f}, nil
}

func closeAll(closers []io.Closer) error {
	var firstErr error
	for _, c := range closers {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func parseLevel(raw string) slog.Level {
	raw = strings.TrimSpace(raw)
	if strings.EqualFold(raw, "warning") {
		return slog.LevelWarn
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(raw)); err != nil {
		return slog.LevelInfo
	}
	return l
}

// parseFormat picks text output for "kv", "text" and "pretty", and for the
// debug and dev profiles when no format is configured.
func parseFormat(lc coreconfig.LoggingConfig) format {
	switch strings.ToLower(strings.TrimSpace(lc.Format)) {
	case "kv", "text", "pretty":
		return formatText
	case "json":
		return formatJSON
	}
	switch profile(lc) {
	case "debug", "dev":
		return formatText
	}
	return formatJSON
}

func profile(lc coreconfig.LoggingConfig) string {
	if p := strings.ToLower(strings.TrimSpace(lc.Profile)); p != "" {
		return p
	}
	return "prod"
}

func logStartup(cfg *coreconfig.Config) {
	attrs := []slog.Attr{
		slog.String("go_version", runtime.Version()),
		slog.String("build", buildinfo.String()),
		slog.String("log_level", level.Level().String()),
	}
	if cfg != nil {
		attrs = append(attrs,
			slog.String("profile", profile(cfg.Logging)),
			slog.String("mode", cfg.Telegram.RunMode),
			slog.String("sessions", cfg.Session.Backend),
		)
	}
	LogEvent(context.Background(), L.With("component", "app"), slog.LevelInfo, "startup", attrs...)
}
