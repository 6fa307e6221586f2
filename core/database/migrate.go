package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/m3rciful/museumguide/core/logger"
)

const readyTimeout = 30 * time.Second

// RunMigrations waits for the server and applies every pending up migration
// from cfg.MigrationsDir.
func RunMigrations(cfg Config) error {
	ctx := context.Background()
	if err := WaitForPostgres(ctx, cfg.DSN(), readyTimeout); err != nil {
		return migrateFailed(ctx, "wait", fmt.Errorf("database not ready: %w", err))
	}

	dir, err := resolveMigrationsDir(cfg.MigrationsDir)
	if err != nil {
		return migrateFailed(ctx, "resolve", err)
	}
	files := listMigrationFiles(dir)

	m, err := migrate.New("file://"+dir, cfg.URL())
	if err != nil {
		return migrateFailed(ctx, "init", fmt.Errorf("init migrations: %w", err))
	}
	m.Log = migrateLog{ctx: ctx}
	defer func() {
		srcErr, dbErr := m.Close()
		if err := errors.Join(srcErr, dbErr); err != nil {
			logger.LogEvent(ctx, logger.MIG, slog.LevelWarn, "migrate.close", slog.String("err", err.Error()))
		}
	}()

	from, _, _ := m.Version()
	start := time.Now()
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return migrateFailed(ctx, "up", fmt.Errorf("apply migrations: %w", err))
	}
	to, _, _ := m.Version()

	applied := appliedBetween(files, uint64(from), uint64(to))
	attrs := []slog.Attr{
		slog.String("dir", dir),
		slog.Uint64("from_ver", uint64(from)),
		slog.Uint64("to_ver", uint64(to)),
		slog.Int("applied", len(applied)),
		slog.Duration("duration", logger.Took(start)),
	}
	if preview, more := logger.SummarizeStrings(applied, 6); preview != "" {
		attrs = append(attrs, slog.String("files", preview), slog.Bool("files_truncated", more))
	}
	logger.LogEvent(ctx, logger.MIG, slog.LevelInfo, "migrate.done", attrs...)
	return nil
}

func migrateFailed(ctx context.Context, stage string, err error) error {
	logger.LogEvent(ctx, logger.MIG, slog.LevelError, "migrate.fail",
		slog.String("stage", stage),
		slog.String("err", err.Error()),
	)
	return err
}

// migrateLog routes golang-migrate's own progress lines to the debug log.
type migrateLog struct {
	ctx context.Context
}

func (l migrateLog) Printf(format string, v ...any) {
	logger.LogEvent(l.ctx, logger.MIG, slog.LevelDebug, "migrate.progress",
		slog.String("line", strings.TrimSpace(fmt.Sprintf(format, v...))),
	)
}

func (l migrateLog) Verbose() bool {
	return logger.Enabled(l.ctx, slog.LevelDebug)
}

func resolveMigrationsDir(dir string) (string, error) {
	if dir = strings.TrimSpace(dir); dir == "" {
		dir = "migrations"
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve migrations dir: %w", err)
	}
	if _, err := os.Stat(abs); err != nil {
		return "", fmt.Errorf("migrations dir: %w", err)
	}
	return abs, nil
}

// listMigrationFiles returns the sorted *.up.sql names in dir.
func listMigrationFiles(dir string) []string {
	matches, _ := filepath.Glob(filepath.Join(dir, "*.up.sql"))
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, filepath.Base(m))
	}
	sort.Strings(names)
	return names
}

// appliedBetween selects the files whose version lies in (from, to].
func appliedBetween(files []string, from, to uint64) []string {
	var out []string
	for _, f := range files {
		prefix, _, _ := strings.Cut(f, "_")
		v, err := strconv.ParseUint(prefix, 10, 64)
		if err == nil && v > from && v <= to {
			out = append(out, f)
		}
	}
	return out
}
