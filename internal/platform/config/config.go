package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	apperrors "studytrace/internal/platform/errors"
)

const (
	FormatCSV    = "csv"
	FormatSQLite = "sqlite"

	GranularityTask     = "task"
	GranularityActivity = "activity"
)

// Config holds process-level settings. Environment variables provide the
// defaults and command-line flags override them.
type Config struct {
	DataPath     string `env:"STUDYTRACE_DATA"`
	Format       string `env:"STUDYTRACE_FORMAT"`
	TaxonomyPath string `env:"STUDYTRACE_TAXONOMY"`
	SettingsPath string `env:"STUDYTRACE_SETTINGS"`
	SnapshotPath string `env:"STUDYTRACE_SNAPSHOT"`
	LogLevel     string `env:"STUDYTRACE_LOG_LEVEL" envDefault:"info"`
	Workers      int    `env:"STUDYTRACE_WORKERS" envDefault:"4"`
	Timezone     string `env:"STUDYTRACE_TIMEZONE" envDefault:"UTC"`
	Granularity  string `env:"STUDYTRACE_GRANULARITY" envDefault:"task"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

func FromEnv() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Resolve fills derived fields and validates the result.
func (c Config) Resolve() (Config, error) {
	if strings.TrimSpace(c.DataPath) == "" {
		return Config{}, fmt.Errorf("%w: data path is required", apperrors.ErrInvalidConfig)
	}
	if c.Format == "" {
		c.Format = inferFormat(c.DataPath)
	}
	switch c.Format {
	case FormatCSV, FormatSQLite:
	default:
		return Config{}, fmt.Errorf("%w: %q", apperrors.ErrUnsupportedFormat, c.Format)
	}
	switch c.Granularity {
	case "":
		c.Granularity = GranularityTask
	case GranularityTask, GranularityActivity:
	default:
		return Config{}, fmt.Errorf("%w: unknown granularity %q", apperrors.ErrInvalidConfig, c.Granularity)
	}
	if c.Workers < 1 {
		return Config{}, fmt.Errorf("%w: workers must be positive", apperrors.ErrInvalidConfig)
	}
	if _, err := c.Location(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: timezone %q: %v", apperrors.ErrInvalidConfig, c.Timezone, err)
	}
	return loc, nil
}

func inferFormat(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return FormatSQLite
	default:
		return FormatCSV
	}
}
