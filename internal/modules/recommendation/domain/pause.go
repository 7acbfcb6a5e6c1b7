package domain

import (
	"fmt"

	apperrors "studytrace/internal/platform/errors"
)

// Pause is one boundary reason as seen by the recommender.
type Pause struct {
	Kind         string
	Component    string
	PauseSeconds float64
}

// Category is the canonical class a raw reason kind folds into.
type Category struct {
	Name      string
	RealPause bool
}

// categories maps, per session type, each considered reason kind to its
// canonical category. Kinds absent from a table are ignored.
var categories = map[string]map[string]Category{
	"study": {
		"Different course/area after inactivity": {Name: "Different course/area after inactivity", RealPause: true},
		"Same course after inactivity":           {Name: "Same course after inactivity"},
	},
	"course": {
		"Change of course":             {Name: "Change of course + Site area after inactivity", RealPause: true},
		"Site area after inactivity":   {Name: "Change of course + Site area after inactivity", RealPause: true},
		"Same course after inactivity": {Name: "Same course after inactivity"},
	},
	"learning": {
		"Quality learning stopped":          {Name: "Quality learning stopped", RealPause: true},
		"Course home after inactivity":      {Name: "Inactivity"},
		"Quality learning after inactivity": {Name: "Inactivity"},
	},
}

// CategoryOf returns the canonical category of a reason kind for the session
// type, and false when the kind is not considered for it.
func CategoryOf(sessionType, kind string) (Category, bool) {
	c, ok := categories[sessionType][kind]
	return c, ok
}

// Samples are pause durations in minutes split by canonical category class.
type Samples struct {
	RealPause    []float64
	Continuation []float64
}

// Classify splits the considered pauses into real-pause and continuation
// minutes. Zero pauses carry no signal and are skipped. An empty component
// keeps every component.
func Classify(pauses []Pause, sessionType, component string) (Samples, error) {
	if _, ok := categories[sessionType]; !ok {
		return Samples{}, fmt.Errorf("%w: %q", apperrors.ErrUnknownSessionType, sessionType)
	}
	var s Samples
	for _, p := range pauses {
		c, ok := CategoryOf(sessionType, p.Kind)
		if !ok || p.PauseSeconds == 0 {
			continue
		}
		if component != "" && p.Component != component {
			continue
		}
		minutes := p.PauseSeconds / 60
		if c.RealPause {
			s.RealPause = append(s.RealPause, minutes)
		} else {
			s.Continuation = append(s.Continuation, minutes)
		}
	}
	return s, nil
}
