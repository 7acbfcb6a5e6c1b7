package domain

import (
	"math"
	"slices"
	"time"
)

// Segmenter splits one student's chronologically ordered events into
// sessions. It holds no mutable state and is safe for concurrent use.
type Segmenter struct {
	cfg   Config
	tax   Taxonomy
	rules boundaryRules
}

func NewSegmenter(cfg Config, tax Taxonomy) (*Segmenter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := tax.Validate(); err != nil {
		return nil, err
	}
	return &Segmenter{cfg: cfg, tax: tax, rules: rulesFor(cfg.SessionType, tax)}, nil
}

// Segment returns the filtered and trimmed sessions with one reason each.
func (s *Segmenter) Segment(events []Event) ([]Session, []BoundaryReason) {
	raw, rawReasons := s.Split(events)
	sessions := make([]Session, 0, len(raw))
	reasons := make([]BoundaryReason, 0, len(raw))
	for i, sess := range raw {
		refined, ok := s.refine(sess)
		if !ok {
			continue
		}
		sessions = append(sessions, refined)
		reasons = append(reasons, rawReasons[i])
	}
	return sessions, reasons
}

// Split returns raw sessions before filtering and trimming. Every input event
// lands in exactly one of them, in order.
func (s *Segmenter) Split(events []Event) ([]Session, []BoundaryReason) {
	var (
		sessions []Session
		reasons  []BoundaryReason
		current  []Event
	)
	emit := func(run []Event, reason BoundaryReason) {
		sessions = append(sessions, s.newSession(slices.Clip(run)))
		reasons = append(reasons, reason)
	}

	for i, ev := range events {
		current = append(current, ev)

		if s.cfg.UseAuthentication {
			switch {
			case s.isRetryableLogin(current):
				prev := current[len(current)-2]
				emit(current[:len(current)-1], BoundaryReason{
					Kind:         ReasonAuthentication,
					Component:    ev.Component,
					PauseSeconds: s.cfg.PauseSeconds(prev),
				})
				current = []Event{ev}
			case ev.Component == s.tax.LogoutComponent:
				emit(current, BoundaryReason{
					Kind:         ReasonAuthentication,
					Component:    ev.Component,
					PauseSeconds: s.cfg.PauseSeconds(ev),
				})
				current = nil
			}
		}

		if len(current) == 0 || i+1 >= len(events) {
			continue
		}
		la := lookahead{next: events[i+1]}
		if i+2 < len(events) {
			la.nextNext = events[i+2]
			la.hasNextNext = true
		}

		if kind, ok := s.rules.structuralCut(ev, la); ok {
			emit(current, BoundaryReason{Kind: kind, Component: ev.Component, PauseSeconds: s.cfg.PauseSeconds(ev)})
			current = nil
			continue
		}
		if s.cfg.UseInactivity && s.cfg.inactiveSeconds(ev) > s.cfg.ThresholdMinutes(ev.Component)*60 {
			emit(current, BoundaryReason{
				Kind:         s.rules.inactivityReason(ev, la),
				Component:    ev.Component,
				PauseSeconds: s.cfg.PauseSeconds(ev),
			})
			current = nil
		}
	}

	if len(current) > 0 {
		last := current[len(current)-1]
		emit(current, BoundaryReason{Kind: ReasonFinalLog, Component: last.Component, PauseSeconds: s.cfg.PauseSeconds(last)})
	}
	return sessions, reasons
}

// isRetryableLogin reports a Login that closes the accumulated session. A
// Login right after another Login is a retry and does not.
func (s *Segmenter) isRetryableLogin(current []Event) bool {
	n := len(current)
	if n < 2 || current[n-1].Component != s.tax.LoginComponent {
		return false
	}
	return current[n-2].Component != s.tax.LoginComponent
}

func (s *Segmenter) refine(sess Session) (Session, bool) {
	if len(s.cfg.CourseFilter) > 0 && !s.matchesCourse(sess.Events) {
		return Session{}, false
	}
	if !s.rules.keep(sess.Events) {
		return Session{}, false
	}
	if s.cfg.ExcludeAttendanceOnly && s.isAttendanceOnly(sess.Events) {
		return Session{}, false
	}
	trimmed := s.rules.trim(sess.Events)
	if len(trimmed) == 0 {
		return Session{}, false
	}
	return s.newSession(trimmed), true
}

func (s *Segmenter) matchesCourse(events []Event) bool {
	for _, e := range events {
		if slices.Contains(s.cfg.CourseFilter, e.CourseArea) {
			return true
		}
	}
	return false
}

func (s *Segmenter) isAttendanceOnly(events []Event) bool {
	return events[len(events)-1].Component == s.tax.AttendanceComponent && len(events) <= s.tax.AttendanceMaxEvents
}

func (s *Segmenter) newSession(events []Event) Session {
	first, last := events[0], events[len(events)-1]
	return Session{
		StudentID: first.StudentID,
		Events:    events,
		Start:     first.Timestamp,
		End:       last.Timestamp.Add(secondsToDuration(s.onTaskSeconds(last))),
	}
}

// onTaskSeconds is how long the student is assumed to have worked on the
// session's last event. A logout ends the session at its own timestamp.
func (s *Segmenter) onTaskSeconds(last Event) float64 {
	if last.Component == s.tax.LogoutComponent {
		return 0
	}
	if s.cfg.OutlierDetection {
		return math.Max(0, last.EstimatedDuration)
	}
	limit := s.cfg.ThresholdMinutes(last.Component) * 60
	return math.Max(0, math.Min(last.Duration, limit))
}

func secondsToDuration(seconds float64) time.Duration {
	return time.Duration(math.Round(seconds * float64(time.Second)))
}
