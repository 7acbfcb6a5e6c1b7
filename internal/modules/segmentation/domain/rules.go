package domain

// lookahead carries the events after the current one. nextNext is only
// meaningful when hasNextNext is set.
type lookahead struct {
	next        Event
	nextNext    Event
	hasNextNext bool
}

// boundaryRules is the per-session-type part of segmentation.
type boundaryRules interface {
	// structuralCut reports a cut that does not depend on inactivity.
	structuralCut(cur Event, la lookahead) (ReasonKind, bool)
	inactivityReason(cur Event, la lookahead) ReasonKind
	// keep reports whether a raw session belongs to the session type at all.
	keep(events []Event) bool
	trim(events []Event) []Event
}

func rulesFor(t SessionType, tax Taxonomy) boundaryRules {
	switch t {
	case SessionTypeCourse:
		return courseRules{tax: tax}
	case SessionTypeLearning:
		return learningRules{courseRules{tax: tax}}
	default:
		return studyRules{tax: tax}
	}
}

type studyRules struct {
	tax Taxonomy
}

func (studyRules) structuralCut(Event, lookahead) (ReasonKind, bool) { return "", false }

func (r studyRules) inactivityReason(cur Event, la lookahead) ReasonKind {
	switch {
	case cur.CourseArea != la.next.CourseArea:
		return ReasonDifferentCourseAfterInactivity
	case !r.tax.IsSiteArea(cur.CourseArea):
		return ReasonSameCourseAfterInactivity
	default:
		return ReasonSameAreaAfterInactivity
	}
}

func (studyRules) keep([]Event) bool { return true }

func (studyRules) trim(events []Event) []Event { return events }

type courseRules struct {
	tax Taxonomy
}

// leavesCourse reports whether the student moves from a course to a different
// area, ignoring a single site-area detour that returns to the same course.
// With no event after the detour the detour is not proven and the move counts.
func (r courseRules) leavesCourse(cur Event, la lookahead) bool {
	if r.tax.IsSiteArea(cur.CourseArea) || cur.CourseArea == la.next.CourseArea {
		return false
	}
	return !r.detourReturns(cur, la)
}

func (r courseRules) detourReturns(cur Event, la lookahead) bool {
	return r.tax.IsSiteArea(la.next.CourseArea) && la.hasNextNext && la.nextNext.CourseArea == cur.CourseArea
}

func (r courseRules) structuralCut(cur Event, la lookahead) (ReasonKind, bool) {
	if r.leavesCourse(cur, la) {
		return ReasonChangeOfCourse, true
	}
	return "", false
}

func (r courseRules) inactivityReason(cur Event, la lookahead) ReasonKind {
	if cur.CourseArea == la.next.CourseArea || r.detourReturns(cur, la) {
		return ReasonSameCourseAfterInactivity
	}
	return ReasonSiteAreaAfterInactivity
}

func (r courseRules) keep(events []Event) bool {
	for _, e := range events {
		if !r.tax.IsSiteArea(e.CourseArea) {
			return true
		}
	}
	return false
}

func (r courseRules) trim(events []Event) []Event {
	return trimWhile(events, func(e Event) bool { return r.tax.IsSiteArea(e.CourseArea) })
}

type learningRules struct {
	courseRules
}

func (r learningRules) structuralCut(cur Event, la lookahead) (ReasonKind, bool) {
	if r.leavesCourse(cur, la) || r.stopsLearning(cur, la) {
		return ReasonQualityLearningStopped, true
	}
	return "", false
}

// stopsLearning reports a move from a learning component to anything else,
// except a course-home visit that leads straight into another learning
// component.
func (r learningRules) stopsLearning(cur Event, la lookahead) bool {
	if !r.tax.IsLearningComponent(cur.Component) || r.tax.IsLearningComponent(la.next.Component) {
		return false
	}
	passesHome := la.next.Component == r.tax.CourseHomeComponent &&
		la.hasNextNext && r.tax.IsLearningComponent(la.nextNext.Component)
	return !passesHome
}

func (r learningRules) inactivityReason(_ Event, la lookahead) ReasonKind {
	if r.tax.IsLearningComponent(la.next.Component) {
		return ReasonQualityLearningAfterInactivity
	}
	return ReasonCourseHomeAfterInactivity
}

func (r learningRules) keep(events []Event) bool {
	if !r.courseRules.keep(events) {
		return false
	}
	for _, e := range events {
		if r.tax.IsLearningComponent(e.Component) {
			return true
		}
	}
	return false
}

func (r learningRules) trim(events []Event) []Event {
	events = r.courseRules.trim(events)
	return trimWhile(events, func(e Event) bool { return !r.tax.IsLearningComponent(e.Component) })
}

// trimWhile drops leading and trailing events matching drop.
func trimWhile(events []Event, drop func(Event) bool) []Event {
	start, end := 0, len(events)
	for start < end && drop(events[start]) {
		start++
	}
	for end > start && drop(events[end-1]) {
		end--
	}
	return events[start:end]
}
