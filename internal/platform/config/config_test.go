package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"studytrace/internal/platform/config"
	apperrors "studytrace/internal/platform/errors"
)

func TestFromEnvDefaultsAndOverrides(t *testing.T) {
	t.Setenv("STUDYTRACE_DATA", "logs.db")
	t.Setenv("STUDYTRACE_WORKERS", "8")
	t.Setenv("STUDYTRACE_TIMEZONE", "")

	cfg, err := config.FromEnv()
	if err != nil {
		t.Fatalf("from env: %v", err)
	}
	if cfg.DataPath != "logs.db" || cfg.Workers != 8 {
		t.Fatalf("unexpected env overrides: %+v", cfg)
	}
	if cfg.LogLevel != "info" || cfg.Granularity != config.GranularityTask {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestFromEnvRejectsBadNumbers(t *testing.T) {
	t.Setenv("STUDYTRACE_WORKERS", "many")
	if _, err := config.FromEnv(); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestResolve(t *testing.T) {
	t.Parallel()
	base := config.Config{Workers: 2, Timezone: "UTC"}

	tests := []struct {
		name    string
		mutate  func(*config.Config)
		format  string
		wantErr error
	}{
		{name: "csv by default", mutate: func(c *config.Config) { c.DataPath = "logs.csv" }, format: config.FormatCSV},
		{name: "sqlite by extension", mutate: func(c *config.Config) { c.DataPath = "logs.SQLite3" }, format: config.FormatSQLite},
		{name: "explicit format wins", mutate: func(c *config.Config) { c.DataPath = "logs.db"; c.Format = config.FormatCSV }, format: config.FormatCSV},
		{name: "missing data", mutate: func(*config.Config) {}, wantErr: apperrors.ErrInvalidConfig},
		{name: "unknown format", mutate: func(c *config.Config) { c.DataPath = "x"; c.Format = "xlsx" }, wantErr: apperrors.ErrUnsupportedFormat},
		{name: "unknown granularity", mutate: func(c *config.Config) { c.DataPath = "x"; c.Granularity = "week" }, wantErr: apperrors.ErrInvalidConfig},
		{name: "no workers", mutate: func(c *config.Config) { c.DataPath = "x"; c.Workers = 0 }, wantErr: apperrors.ErrInvalidConfig},
		{name: "bad timezone", mutate: func(c *config.Config) { c.DataPath = "x"; c.Timezone = "Mars/Base" }, wantErr: apperrors.ErrInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := base
			tt.mutate(&cfg)
			got, err := cfg.Resolve()
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("resolve: %v", err)
			}
			if got.Format != tt.format || got.Granularity != config.GranularityTask {
				t.Fatalf("unexpected resolved config: %+v", got)
			}
		})
	}
}

func TestLoadSettings(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	missing, err := config.LoadSettings(filepath.Join(dir, "none.yaml"))
	if err != nil {
		t.Fatalf("load missing: %v", err)
	}
	if missing.SessionType != "study" || !missing.Inactivity || missing.GeneralThresholdMinutes != 30 {
		t.Fatalf("missing file should give defaults: %+v", missing)
	}

	path := filepath.Join(dir, "settings.yaml")
	content := "session_type: course\ngeneral_threshold_minutes: 12.5\ncomponent_thresholds:\n  Quiz: 45\ncourses: [Maths]\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write settings: %v", err)
	}
	got, err := config.LoadSettings(path)
	if err != nil {
		t.Fatalf("load settings: %v", err)
	}
	if got.SessionType != "course" || got.GeneralThresholdMinutes != 12.5 || got.ComponentThresholds["Quiz"] != 45 {
		t.Fatalf("unexpected settings: %+v", got)
	}
	if !got.Inactivity || got.MaxThresholdMinutes != 60 || len(got.Courses) != 1 {
		t.Fatalf("unset keys should keep defaults: %+v", got)
	}

	if err := os.WriteFile(path, []byte("courses: {"), 0o644); err != nil {
		t.Fatalf("write settings: %v", err)
	}
	if _, err := config.LoadSettings(path); err == nil {
		t.Fatalf("expected unmarshal error")
	}
}
