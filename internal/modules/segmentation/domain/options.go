package domain

import (
	"slices"
	"sort"
)

// ComponentOptions lists the components a per-component threshold can target
// for the session type, given the loaded events and the selected courses.
func ComponentOptions(events []Event, t SessionType, courses []string, tax Taxonomy) []string {
	if t == SessionTypeLearning {
		out := slices.Clone(tax.LearningComponents)
		sort.Strings(out)
		return out
	}
	seen := map[string]struct{}{}
	for _, e := range events {
		site := tax.IsSiteArea(e.CourseArea)
		inCourse := !site && (len(courses) == 0 || slices.Contains(courses, e.CourseArea))
		if inCourse || (site && t == SessionTypeStudy) {
			seen[e.Component] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for component := range seen {
		out = append(out, component)
	}
	sort.Strings(out)
	return out
}
