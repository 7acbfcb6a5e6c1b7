package domain

import (
	"math"
	"sort"
	"time"
)

// SessionRecord is the part of a session the duration report needs. Keys are
// the component (or component/event) labels of the session's events.
type SessionRecord struct {
	Start time.Time
	End   time.Time
	Keys  []string
}

// HourSummary describes the sessions that started within one clock hour.
// Durations are minutes; end hours are hours since the start day's midnight.
type HourSummary struct {
	Hour         int
	Count        int
	Min          float64
	LowerWhisker float64
	Q1           float64
	Median       float64
	Q3           float64
	UpperWhisker float64
	Max          float64
	EarliestEnd  float64
	LatestEnd    float64
	TopKey       string
	TopKeyCount  int
}

// Summarize groups sessions by start hour in loc. Hours without sessions are
// left out; the rest come back in hour order.
func Summarize(records []SessionRecord, loc *time.Location) []HourSummary {
	if loc == nil {
		loc = time.UTC
	}
	type bucket struct {
		durations []float64
		ends      []float64
		keys      map[string]int
	}
	var buckets [24]*bucket
	for _, r := range records {
		start := r.Start.In(loc)
		end := r.End.In(loc)
		b := buckets[start.Hour()]
		if b == nil {
			b = &bucket{keys: map[string]int{}}
			buckets[start.Hour()] = b
		}
		b.durations = append(b.durations, r.End.Sub(r.Start).Minutes())
		b.ends = append(b.ends, endHour(start, end))
		for _, k := range r.Keys {
			b.keys[k]++
		}
	}

	var out []HourSummary
	for hour, b := range buckets {
		if b == nil {
			continue
		}
		sort.Float64s(b.durations)
		sort.Float64s(b.ends)
		q1 := Percentile(b.durations, 25)
		q3 := Percentile(b.durations, 75)
		iqr := q3 - q1
		top, topCount := mostFrequent(b.keys)
		out = append(out, HourSummary{
			Hour:         hour,
			Count:        len(b.durations),
			Min:          round2(b.durations[0]),
			LowerWhisker: round2(lowestAtLeast(b.durations, q1-1.5*iqr)),
			Q1:           round2(q1),
			Median:       round2(Percentile(b.durations, 50)),
			Q3:           round2(q3),
			UpperWhisker: round2(highestAtMost(b.durations, q3+1.5*iqr)),
			Max:          round2(b.durations[len(b.durations)-1]),
			EarliestEnd:  round2(b.ends[0]),
			LatestEnd:    round2(b.ends[len(b.ends)-1]),
			TopKey:       top,
			TopKeyCount:  topCount,
		})
	}
	return out
}

// Percentile interpolates linearly between closest ranks of sorted values.
func Percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}
	rank := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}

// endHour is the end clock time in hours, past 24 when the session ends on a
// later day than it started.
func endHour(start, end time.Time) float64 {
	h := float64(end.Hour()) + float64(end.Minute())/60
	sy, sm, sd := start.Date()
	startDay := time.Date(sy, sm, sd, 0, 0, 0, 0, start.Location())
	ey, em, ed := end.Date()
	endDay := time.Date(ey, em, ed, 0, 0, 0, 0, end.Location())
	days := int(math.Round(endDay.Sub(startDay).Hours() / 24))
	return h + 24*float64(days)
}

func lowestAtLeast(sorted []float64, limit float64) float64 {
	for _, v := range sorted {
		if v >= limit {
			return v
		}
	}
	return sorted[0]
}

func highestAtMost(sorted []float64, limit float64) float64 {
	for i := len(sorted) - 1; i >= 0; i-- {
		if sorted[i] <= limit {
			return sorted[i]
		}
	}
	return sorted[len(sorted)-1]
}

// mostFrequent breaks ties by key order.
func mostFrequent(counts map[string]int) (string, int) {
	best, bestCount := "", 0
	for k, n := range counts {
		if n > bestCount || (n == bestCount && k < best) {
			best, bestCount = k, n
		}
	}
	return best, bestCount
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
