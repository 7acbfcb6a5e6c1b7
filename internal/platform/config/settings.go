package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Settings is the analysis section of a settings file. Zero-valued files fall
// back to DefaultSettings.
type Settings struct {
	SessionType             string             `yaml:"session_type"`
	Authentication          bool               `yaml:"authentication"`
	Inactivity              bool               `yaml:"inactivity"`
	OutlierDetection        bool               `yaml:"outlier_detection"`
	GeneralThresholdMinutes float64            `yaml:"general_threshold_minutes"`
	ComponentThresholds     map[string]float64 `yaml:"component_thresholds"`
	ExcludeAttendance       bool               `yaml:"exclude_attendance"`
	Courses                 []string           `yaml:"courses"`
	MaxThresholdMinutes     int                `yaml:"max_threshold_minutes"`
	From                    string             `yaml:"from"`
	To                      string             `yaml:"to"`
}

func DefaultSettings() Settings {
	return Settings{
		SessionType:             "study",
		Inactivity:              true,
		GeneralThresholdMinutes: 30,
		MaxThresholdMinutes:     60,
	}
}

// LoadSettings reads a YAML settings file on top of DefaultSettings. An empty
// path or a missing file yields the defaults.
func LoadSettings(path string) (Settings, error) {
	settings := DefaultSettings()
	if path == "" {
		return settings, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return Settings{}, fmt.Errorf("read settings: %w", err)
	}
	if err := yaml.Unmarshal(raw, &settings); err != nil {
		return Settings{}, fmt.Errorf("unmarshal settings: %w", err)
	}
	return settings, nil
}
