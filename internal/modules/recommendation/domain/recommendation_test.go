package domain_test

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"studytrace/internal/modules/recommendation/domain"
	apperrors "studytrace/internal/platform/errors"
)

func TestClassifyFoldsKindsPerSessionType(t *testing.T) {
	t.Parallel()
	pauses := []domain.Pause{
		{Kind: "Change of course", Component: "Lesson", PauseSeconds: 600},
		{Kind: "Site area after inactivity", Component: "Forum", PauseSeconds: 1200},
		{Kind: "Same course after inactivity", Component: "Lesson", PauseSeconds: 300},
		{Kind: "Same course after inactivity", Component: "Lesson", PauseSeconds: 0},
		{Kind: "Authentication", Component: "Logout", PauseSeconds: 900},
		{Kind: "Final log", Component: "Lesson", PauseSeconds: 60},
	}

	got, err := domain.Classify(pauses, "course", "")
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	want := domain.Samples{RealPause: []float64{10, 20}, Continuation: []float64{5}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("classify = %+v, want %+v", got, want)
	}

	got, err = domain.Classify(pauses, "course", "Lesson")
	if err != nil {
		t.Fatalf("classify component: %v", err)
	}
	want = domain.Samples{RealPause: []float64{10}, Continuation: []float64{5}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("component filter = %+v, want %+v", got, want)
	}

	learning, err := domain.Classify([]domain.Pause{
		{Kind: "Quality learning stopped", PauseSeconds: 120},
		{Kind: "Course home after inactivity", PauseSeconds: 60},
		{Kind: "Quality learning after inactivity", PauseSeconds: 180},
		{Kind: "Change of course", PauseSeconds: 240},
	}, "learning", "")
	if err != nil {
		t.Fatalf("classify learning: %v", err)
	}
	if !reflect.DeepEqual(learning, domain.Samples{RealPause: []float64{2}, Continuation: []float64{1, 3}}) {
		t.Fatalf("learning = %+v", learning)
	}

	if _, err := domain.Classify(nil, "weekly", ""); !errors.Is(err, apperrors.ErrUnknownSessionType) {
		t.Fatalf("expected unknown session type, got %v", err)
	}
}

func TestCategoryOf(t *testing.T) {
	t.Parallel()
	c, ok := domain.CategoryOf("study", "Different course/area after inactivity")
	if !ok || !c.RealPause {
		t.Fatalf("different area should be a real pause: %+v %v", c, ok)
	}
	if _, ok := domain.CategoryOf("study", "Same area after inactivity"); ok {
		t.Fatalf("same site area is not considered for study recommendations")
	}
	c, ok = domain.CategoryOf("learning", "Course home after inactivity")
	if !ok || c.RealPause || c.Name != "Inactivity" {
		t.Fatalf("unexpected learning category: %+v", c)
	}
}

func TestDensity(t *testing.T) {
	t.Parallel()
	got := domain.Density([]float64{0, 0.5, 1, 3, 4, -1, 4.5, math.NaN()}, 4)
	// 4 lands in the closed last bin; -1 and 4.5 are out of range.
	want := []float64{0.4, 0.2, 0, 0.4}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	var total float64
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-12 {
			t.Fatalf("bin %d = %v, want %v", i, got[i], want[i])
		}
		total += got[i]
	}
	if math.Abs(total-1) > 1e-12 {
		t.Fatalf("density should integrate to 1, got %v", total)
	}

	for _, v := range domain.Density(nil, 4) {
		if v != 0 {
			t.Fatalf("empty input should give zero heights")
		}
	}
}

func TestRecommendCrossover(t *testing.T) {
	t.Parallel()
	s := domain.Samples{
		Continuation: []float64{0.5, 0.5, 0.5, 1.5, 1.5, 2.5, 3.5, 1.2},
		RealPause:    []float64{1.2, 2.2, 2.7, 3.1, 3.3, 3.9, 5.5, 6.5, 0.9},
	}
	got := domain.Recommend(s, 10)
	minutes, ok := got.Minutes()
	if !ok {
		t.Fatalf("expected a recommendation")
	}
	if minutes != 2.48 {
		t.Fatalf("recommendation = %v, want 2.48", minutes)
	}
	if got.String() != "2.48" {
		t.Fatalf("string = %q", got.String())
	}
}

func TestRecommendInsufficientData(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name string
		s    domain.Samples
		max  int
	}{
		{name: "empty", s: domain.Samples{}, max: 60},
		{name: "one side empty", s: domain.Samples{Continuation: []float64{1, 2, 3}}, max: 60},
		{name: "no shared bins", s: domain.Samples{RealPause: []float64{5, 7}, Continuation: []float64{1, 2}}, max: 10},
		{name: "single shared bin", s: domain.Samples{RealPause: []float64{1.5, 8}, Continuation: []float64{1.2, 3}}, max: 10},
		{name: "flat difference", s: domain.Samples{RealPause: []float64{1.5, 2.5}, Continuation: []float64{1.5, 2.5}}, max: 10},
		{name: "out of range", s: domain.Samples{RealPause: []float64{70, 80}, Continuation: []float64{75, 90}}, max: 60},
		{name: "non-positive max", s: domain.Samples{RealPause: []float64{1}, Continuation: []float64{1}}, max: 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := domain.Recommend(tc.s, tc.max)
			if got.Sufficient() || got != domain.InsufficientData {
				t.Fatalf("expected insufficient data, got %v", got)
			}
		})
	}
}
