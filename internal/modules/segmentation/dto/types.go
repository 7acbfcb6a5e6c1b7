package dto

import "time"

type Options struct {
	SessionType             string
	UseAuthentication       bool
	UseInactivity           bool
	OutlierDetection        bool
	GeneralThresholdMinutes float64
	ComponentThresholds     map[string]float64
	ExcludeAttendanceOnly   bool
	Courses                 []string
}

// Window bounds are inclusive calendar days; zero means unbounded.
type Window struct {
	From time.Time
	To   time.Time
}

type SegmentInput struct {
	Options Options
	Window  Window
}

type EventOutput struct {
	StudentID         string
	Timestamp         time.Time
	Duration          float64
	EstimatedDuration float64
	Component         string
	CourseArea        string
	EventName         string
}

type SessionOutput struct {
	StudentID string
	Start     time.Time
	End       time.Time
	Events    []EventOutput
}

type ReasonOutput struct {
	Kind         string
	Component    string
	PauseSeconds float64
}

// SegmentOutput pairs Sessions[i] with Reasons[i].
type SegmentOutput struct {
	Sessions []SessionOutput
	Reasons  []ReasonOutput
	Students int
	Events   int
}

type ComponentOptionsInput struct {
	SessionType string
	Courses     []string
	Window      Window
}

type SnapshotOutput struct {
	Events   int
	Students int
}
