package domain

import (
	"fmt"
	"time"
)

// Report is the exported form of a duration summary.
type Report struct {
	GeneratedAt      time.Time
	SessionType      string
	Identification   string
	ThresholdMinutes float64
	Sessions         int
	Students         int
	Hours            []HourSummary
	Recommendation   string
}

func (r Report) Validate() error {
	if r.SessionType == "" {
		return fmt.Errorf("session type is required")
	}
	if r.GeneratedAt.IsZero() {
		return fmt.Errorf("generated at is required")
	}
	return nil
}

// HourLabel renders an hour as a clock label such as "09:00".
func HourLabel(hour int) string {
	return fmt.Sprintf("%02d:00", hour)
}
