package out

import (
	"sort"

	"studytrace/internal/modules/segmentation/domain"
)

// sortChronological groups events by student in order of first appearance
// and orders each student's events by timestamp, keeping ties in input order.
func sortChronological(events []domain.Event) []domain.Event {
	groups := domain.GroupByStudent(events)
	out := make([]domain.Event, 0, len(events))
	for _, g := range groups {
		sort.SliceStable(g.Events, func(i, j int) bool {
			return g.Events[i].Timestamp.Before(g.Events[j].Timestamp)
		})
		out = append(out, g.Events...)
	}
	return out
}
