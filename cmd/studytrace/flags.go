package main

import (
	"fmt"
	"maps"
	"time"

	"github.com/spf13/pflag"

	segmentationinadapter "studytrace/internal/modules/segmentation/adapter/in"
	segmentationdto "studytrace/internal/modules/segmentation/dto"
	"studytrace/internal/platform/config"
	apperrors "studytrace/internal/platform/errors"
)

const dateLayout = "2006-01-02"

// rootFlags are the persistent flags. Anything left unset on the command line
// falls back to the settings file, then the environment.
type rootFlags struct {
	dataPath     string
	format       string
	taxonomyPath string
	settingsPath string
	logLevel     string
	workers      int
	timezone     string
	granularity  string

	sessionType        string
	auth               bool
	stt                bool
	outlier            bool
	threshold          float64
	componentThreshold map[string]string
	excludeAttendance  bool
	courses            []string
	maxThreshold       int
	from               string
	to                 string
}

func (f *rootFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.dataPath, "data", "", "interaction log, CSV or SQLite (env STUDYTRACE_DATA)")
	fs.StringVar(&f.format, "format", "", "data format: csv|sqlite, inferred from the extension when empty")
	fs.StringVar(&f.taxonomyPath, "taxonomy", "", "taxonomy YAML file")
	fs.StringVar(&f.settingsPath, "settings", "", "analysis settings YAML file")
	fs.StringVar(&f.logLevel, "log-level", "", "log level: debug|info|warn|error")
	fs.IntVar(&f.workers, "workers", 0, "students segmented in parallel")
	fs.StringVar(&f.timezone, "timezone", "", "IANA zone for calendar days and clock hours")
	fs.StringVar(&f.granularity, "granularity", "", "report keys: task|activity")

	fs.StringVar(&f.sessionType, "type", "", "session type: study|course|learning")
	fs.BoolVar(&f.auth, "auth", false, "split on login and logout")
	fs.BoolVar(&f.stt, "stt", false, "split on inactivity above the threshold")
	fs.BoolVar(&f.outlier, "outlier-detection", false, "measure pauses against estimated durations")
	fs.Float64Var(&f.threshold, "threshold", 0, "general inactivity threshold in minutes")
	fs.StringToStringVar(&f.componentThreshold, "component-threshold", nil, "per-component thresholds, e.g. Quiz=45,Lesson=20")
	fs.BoolVar(&f.excludeAttendance, "exclude-attendance", false, "drop sessions made only of attendance events")
	fs.StringSliceVar(&f.courses, "course", nil, "course/area filter")
	fs.IntVar(&f.maxThreshold, "max-threshold", 0, "largest threshold considered by recommendations, in minutes")
	fs.StringVar(&f.from, "from", "", "first day to include, YYYY-MM-DD")
	fs.StringVar(&f.to, "to", "", "last day to include, YYYY-MM-DD")
}

// config overlays changed flags on the environment and resolves the result.
func (f *rootFlags) config(fs *pflag.FlagSet) (config.Config, error) {
	cfg, err := config.FromEnv()
	if err != nil {
		return config.Config{}, err
	}
	overlayString(fs, "data", &cfg.DataPath, f.dataPath)
	overlayString(fs, "format", &cfg.Format, f.format)
	overlayString(fs, "taxonomy", &cfg.TaxonomyPath, f.taxonomyPath)
	overlayString(fs, "settings", &cfg.SettingsPath, f.settingsPath)
	overlayString(fs, "log-level", &cfg.LogLevel, f.logLevel)
	overlayString(fs, "timezone", &cfg.Timezone, f.timezone)
	overlayString(fs, "granularity", &cfg.Granularity, f.granularity)
	if fs.Changed("workers") {
		cfg.Workers = f.workers
	}
	return cfg.Resolve()
}

// settings overlays changed analysis flags on the settings file.
func (f *rootFlags) settings(fs *pflag.FlagSet, path string) (config.Settings, error) {
	s, err := config.LoadSettings(path)
	if err != nil {
		return config.Settings{}, err
	}
	overlayString(fs, "type", &s.SessionType, f.sessionType)
	overlayString(fs, "from", &s.From, f.from)
	overlayString(fs, "to", &s.To, f.to)
	if fs.Changed("auth") {
		s.Authentication = f.auth
	}
	if fs.Changed("stt") {
		s.Inactivity = f.stt
	}
	if fs.Changed("outlier-detection") {
		s.OutlierDetection = f.outlier
	}
	if fs.Changed("threshold") {
		s.GeneralThresholdMinutes = f.threshold
	}
	if fs.Changed("exclude-attendance") {
		s.ExcludeAttendance = f.excludeAttendance
	}
	if fs.Changed("course") {
		s.Courses = f.courses
	}
	if fs.Changed("max-threshold") {
		s.MaxThresholdMinutes = f.maxThreshold
	}
	if fs.Changed("component-threshold") {
		overrides, err := segmentationinadapter.ParseThresholdAssignments(f.componentThreshold)
		if err != nil {
			return config.Settings{}, err
		}
		merged := maps.Clone(s.ComponentThresholds)
		if merged == nil {
			merged = map[string]float64{}
		}
		maps.Copy(merged, overrides)
		s.ComponentThresholds = merged
	}
	return s, nil
}

func overlayString(fs *pflag.FlagSet, name string, dst *string, v string) {
	if fs.Changed(name) {
		*dst = v
	}
}

func toOptions(s config.Settings) segmentationdto.Options {
	return segmentationdto.Options{
		SessionType:             s.SessionType,
		UseAuthentication:       s.Authentication,
		UseInactivity:           s.Inactivity,
		OutlierDetection:        s.OutlierDetection,
		GeneralThresholdMinutes: s.GeneralThresholdMinutes,
		ComponentThresholds:     s.ComponentThresholds,
		ExcludeAttendanceOnly:   s.ExcludeAttendance,
		Courses:                 s.Courses,
	}
}

func toWindow(s config.Settings) (segmentationdto.Window, error) {
	var w segmentationdto.Window
	var err error
	if w.From, err = parseDay("from", s.From); err != nil {
		return w, err
	}
	if w.To, err = parseDay("to", s.To); err != nil {
		return w, err
	}
	if !w.From.IsZero() && !w.To.IsZero() && w.To.Before(w.From) {
		return w, fmt.Errorf("%w: --to %s is before --from %s", apperrors.ErrInvalidInput, s.To, s.From)
	}
	return w, nil
}

func parseDay(name, raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	day, err := time.Parse(dateLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: --%s %q, want YYYY-MM-DD", apperrors.ErrInvalidInput, name, raw)
	}
	return day, nil
}
