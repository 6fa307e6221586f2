package app

import (
	"fmt"
	"strings"

	coreconfig "github.com/m3rciful/museumguide/core/config"
	coredatabase "github.com/m3rciful/museumguide/core/database"
)

const (
	// ContentFile loads exhibits from a JSON or YAML file.
	ContentFile = "file"
	// ContentPostgres loads exhibits from the exhibits table.
	ContentPostgres = "postgres"

	defaultContentPath = "content/exhibits.json"
)

// ContentConfig selects the exhibit source.
type ContentConfig struct {
	Source string `yaml:"source" envconfig:"CONTENT_SOURCE"`
	Path   string `yaml:"path" envconfig:"CONTENT_PATH"`
}

// Config is the museum guide configuration.
type Config struct {
	coreconfig.Config `yaml:",inline"`

	Database coredatabase.Config `yaml:"database"`
	Content  ContentConfig       `yaml:"content"`
}

// CoreConfig exposes the embedded core configuration to the runner.
func (c *Config) CoreConfig() *coreconfig.Config {
	if c == nil {
		return nil
	}
	return &c.Config
}

// Load reads the YAML file at path, applies env overrides and validates.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := coreconfig.Decode(path, &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Normalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Normalize validates the core settings and fills content defaults.
func (c *Config) Normalize() error {
	if err := coreconfig.Normalize(&c.Config); err != nil {
		return err
	}

	src := strings.ToLower(strings.TrimSpace(c.Content.Source))
	switch src {
	case "", ContentFile:
		src = ContentFile
		if strings.TrimSpace(c.Content.Path) == "" {
			c.Content.Path = defaultContentPath
		}
	case ContentPostgres:
		if !c.Database.Enabled() {
			return fmt.Errorf("database.host and database.name are required when content.source is 'postgres'")
		}
	default:
		return fmt.Errorf("invalid content.source %q; allowed: file, postgres", c.Content.Source)
	}
	c.Content.Source = src
	return nil
}
