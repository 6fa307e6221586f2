package database

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m3rciful/museumguide/core/logger"
)

func TestConfigConnectionStrings(t *testing.T) {
	cfg := Config{Host: "db", Port: "5432", User: "guide", Password: "p@ss", Name: "museum", SSLMode: "disable"}

	assert.True(t, cfg.Enabled())
	assert.Equal(t, "user=guide password=p@ss host=db port=5432 dbname=museum sslmode=disable", cfg.DSN())
	assert.Equal(t, "postgres://guide:p%40ss@db:5432/museum?sslmode=disable", cfg.URL())
	assert.False(t, Config{}.Enabled())
}

func TestMigrationFileHelpers(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"000002_b.up.sql", "000001_a.up.sql", "000001_a.down.sql", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o600))
	}

	files := listMigrationFiles(dir)
	assert.Equal(t, []string{"000001_a.up.sql", "000002_b.up.sql"}, files)
	assert.Equal(t, []string{"000002_b.up.sql"}, appliedBetween(files, 1, 2))
	assert.Equal(t, files, appliedBetween(files, 0, 2))
	assert.Empty(t, appliedBetween(files, 2, 2))

	abs, err := resolveMigrationsDir(dir)
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(abs))

	_, err = resolveMigrationsDir(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}

func TestMigrateLogVerboseFollowsLevel(t *testing.T) {
	logger.UseDiscard()
	assert.False(t, migrateLog{ctx: context.Background()}.Verbose())

	buf := &bytes.Buffer{}
	logger.UseWriter(buf)
	t.Cleanup(logger.UseDiscard)
	l := migrateLog{ctx: context.Background()}
	assert.True(t, l.Verbose())
	l.Printf("1/u exhibits (%s)\n", "12ms")
	assert.Contains(t, buf.String(), `"line":"1/u exhibits (12ms)"`)
	assert.Contains(t, buf.String(), `"component":"db.migrate"`)
}

func TestWaitForPostgresHonoursTimeout(t *testing.T) {
	start := time.Now()
	err := WaitForPostgres(context.Background(), "host=127.0.0.1 port=1 user=x dbname=x sslmode=disable connect_timeout=1", 50*time.Millisecond)
	assert.Error(t, err)
	assert.Less(t, time.Since(start), 5*time.Second)
}
