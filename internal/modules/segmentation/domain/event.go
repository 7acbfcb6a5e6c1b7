package domain

import "time"

// Event is one row of a student's interaction log. Durations are seconds.
type Event struct {
	StudentID         string
	Timestamp         time.Time
	Duration          float64
	EstimatedDuration float64
	Component         string
	CourseArea        string
	EventName         string
}

// Session is a contiguous run of one student's events.
type Session struct {
	StudentID string
	Events    []Event
	Start     time.Time
	End       time.Time
}

func (s Session) First() Event { return s.Events[0] }

func (s Session) Last() Event { return s.Events[len(s.Events)-1] }

func (s Session) Len() int { return len(s.Events) }

// DurationMinutes is End minus Start in minutes.
func (s Session) DurationMinutes() float64 {
	return s.End.Sub(s.Start).Minutes()
}
