package domain

import "time"

// Window is a half-open observation interval [From, Until). A zero bound is
// unbounded on that side.
type Window struct {
	From  time.Time
	Until time.Time
}

// DayWindow covers whole calendar days from..to inclusive in loc.
func DayWindow(from, to time.Time, loc *time.Location) Window {
	var w Window
	if !from.IsZero() {
		w.From = time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, loc)
	}
	if !to.IsZero() {
		w.Until = time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, loc).AddDate(0, 0, 1)
	}
	return w
}

func (w Window) Contains(ts time.Time) bool {
	if !w.From.IsZero() && ts.Before(w.From) {
		return false
	}
	if !w.Until.IsZero() && !ts.Before(w.Until) {
		return false
	}
	return true
}

// StudentEvents is one student's slice of the event table.
type StudentEvents struct {
	StudentID string
	Events    []Event
}

// GroupByStudent splits events per student, keeping students in order of
// first appearance and events in input order.
func GroupByStudent(events []Event) []StudentEvents {
	index := map[string]int{}
	var groups []StudentEvents
	for _, e := range events {
		i, ok := index[e.StudentID]
		if !ok {
			i = len(groups)
			index[e.StudentID] = i
			groups = append(groups, StudentEvents{StudentID: e.StudentID})
		}
		groups[i].Events = append(groups[i].Events, e)
	}
	return groups
}
