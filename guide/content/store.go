package content

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/m3rciful/museumguide/core/bootstrap"
	"github.com/m3rciful/museumguide/core/logger"
)

const selectExhibits = `
SELECT name, type, audioguide, textguide, videoguide
FROM exhibits
ORDER BY position, name`

const upsertExhibit = `
INSERT INTO exhibits (position, name, type, audioguide, textguide, videoguide)
VALUES (:position, :name, :type, :audioguide, :textguide, :videoguide)
ON CONFLICT (name) DO UPDATE SET
	position = EXCLUDED.position,
	type = EXCLUDED.type,
	audioguide = EXCLUDED.audioguide,
	textguide = EXCLUDED.textguide,
	videoguide = EXCLUDED.videoguide`

type exhibitRow struct {
	Position int `db:"position"`
	Exhibit
}

// LoadDB reads the exhibits table in its stored order.
func LoadDB(ctx context.Context, db *sqlx.DB) (*Catalog, error) {
	if db == nil {
		return nil, fmt.Errorf("content: nil database")
	}
	start := time.Now()
	var items []Exhibit
	if err := db.SelectContext(ctx, &items, selectExhibits); err != nil {
		return nil, fmt.Errorf("content: select exhibits: %w", err)
	}
	cat, err := NewCatalog(items)
	if err != nil {
		return nil, err
	}
	logger.LogEvent(ctx, logger.Content, slog.LevelInfo, "content.loaded",
		slog.String("source", "postgres"),
		slog.Int("count", cat.Len()),
		slog.Duration("duration", logger.Took(start)),
	)
	return cat, nil
}

// Seeder imports a catalog into the exhibits table, replacing rows with the same name.
type Seeder struct {
	Catalog *Catalog
}

var _ bootstrap.Seeder = Seeder{}

// Seed expects storage to be a *sqlx.DB.
func (s Seeder) Seed(ctx context.Context, storage bootstrap.Storage) error {
	db, ok := storage.(*sqlx.DB)
	if !ok || db == nil {
		return fmt.Errorf("content: seeder needs *sqlx.DB, got %T", storage)
	}
	if s.Catalog == nil {
		return fmt.Errorf("content: seeder has no catalog")
	}

	start := time.Now()
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("content: begin seed: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for i, item := range s.Catalog.All() {
		row := exhibitRow{Position: i, Exhibit: item}
		if _, err := tx.NamedExecContext(ctx, upsertExhibit, row); err != nil {
			return fmt.Errorf("content: upsert %q: %w", item.Name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("content: commit seed: %w", err)
	}

	logger.LogEvent(ctx, logger.SEED, slog.LevelInfo, "seed.exhibits",
		slog.Int("count", s.Catalog.Len()),
		slog.Duration("duration", logger.Took(start)),
	)
	return nil
}
