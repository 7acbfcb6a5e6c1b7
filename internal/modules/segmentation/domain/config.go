package domain

import (
	"fmt"
	"math"
	"strings"

	apperrors "studytrace/internal/platform/errors"
)

type SessionType string

const (
	SessionTypeStudy    SessionType = "study"
	SessionTypeCourse   SessionType = "course"
	SessionTypeLearning SessionType = "learning"
)

func SessionTypes() []SessionType {
	return []SessionType{SessionTypeStudy, SessionTypeCourse, SessionTypeLearning}
}

func (t SessionType) Validate() error {
	switch t {
	case SessionTypeStudy, SessionTypeCourse, SessionTypeLearning:
		return nil
	default:
		return fmt.Errorf("%w: %q", apperrors.ErrUnknownSessionType, string(t))
	}
}

// Config selects the session type and identification strategy.
type Config struct {
	SessionType             SessionType
	UseAuthentication       bool
	UseInactivity           bool
	OutlierDetection        bool
	GeneralThresholdMinutes float64
	ComponentThresholds     map[string]float64
	ExcludeAttendanceOnly   bool
	CourseFilter            []string
}

func (c Config) Validate() error {
	if err := c.SessionType.Validate(); err != nil {
		return err
	}
	if !validMinutes(c.GeneralThresholdMinutes) {
		return fmt.Errorf("%w: general threshold %v", apperrors.ErrInvalidConfig, c.GeneralThresholdMinutes)
	}
	for component, minutes := range c.ComponentThresholds {
		if strings.TrimSpace(component) == "" {
			return fmt.Errorf("%w: empty component in threshold mapping", apperrors.ErrInvalidConfig)
		}
		if !validMinutes(minutes) {
			return fmt.Errorf("%w: threshold %v for %q", apperrors.ErrInvalidConfig, minutes, component)
		}
	}
	return nil
}

// ThresholdMinutes returns the per-component override when present, else the
// general threshold.
func (c Config) ThresholdMinutes(component string) float64 {
	if minutes, ok := c.ComponentThresholds[component]; ok {
		return minutes
	}
	return c.GeneralThresholdMinutes
}

// PauseSeconds is the part of an event's duration not accounted for as time
// on task.
func (c Config) PauseSeconds(e Event) float64 {
	if c.OutlierDetection {
		return e.Duration - e.EstimatedDuration
	}
	return e.Duration - c.ThresholdMinutes(e.Component)*60
}

// inactiveSeconds is the quantity compared against the threshold.
func (c Config) inactiveSeconds(e Event) float64 {
	if c.OutlierDetection {
		return e.Duration - e.EstimatedDuration
	}
	return e.Duration
}

func validMinutes(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}
