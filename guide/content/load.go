package content

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/m3rciful/museumguide/core/logger"
)

// LoadFile reads a JSON or YAML exhibit list. Relative audio paths are
// resolved against the file's directory.
func LoadFile(ctx context.Context, path string) (*Catalog, error) {
	start := time.Now()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("content: read %s: %w", path, err)
	}

	items, err := decode(path, data)
	if err != nil {
		return nil, err
	}
	base := filepath.Dir(path)
	for i := range items {
		items[i].AudioGuide = resolveAudio(base, items[i].AudioGuide)
	}

	cat, err := NewCatalog(items)
	if err != nil {
		return nil, err
	}
	logger.LogEvent(ctx, logger.Content, slog.LevelInfo, "content.loaded",
		slog.String("source", "file"),
		slog.String("path", path),
		slog.Int("count", cat.Len()),
		slog.Duration("duration", logger.Took(start)),
	)
	return cat, nil
}

func decode(path string, data []byte) ([]Exhibit, error) {
	var items []Exhibit
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &items); err != nil {
			return nil, fmt.Errorf("%w: parse yaml: %v", ErrInvalid, err)
		}
	default:
		if err := json.Unmarshal(data, &items); err != nil {
			return nil, fmt.Errorf("%w: parse json: %v", ErrInvalid, err)
		}
	}
	return items, nil
}

func resolveAudio(base, p string) string {
	p = strings.TrimSpace(p)
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}
