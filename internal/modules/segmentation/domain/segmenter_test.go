package domain_test

import (
	"errors"
	"math"
	"testing"
	"time"

	"studytrace/internal/modules/segmentation/domain"
	apperrors "studytrace/internal/platform/errors"
)

var t0 = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

// ev builds an event at t0+offset seconds. The duration doubles as the gap to
// the next event in these fixtures.
func ev(offset, duration, estimated float64, component, area string) domain.Event {
	return domain.Event{
		StudentID:         "s1",
		Timestamp:         t0.Add(time.Duration(offset) * time.Second),
		Duration:          duration,
		EstimatedDuration: estimated,
		Component:         component,
		CourseArea:        area,
	}
}

func mustSegmenter(t *testing.T, cfg domain.Config) *domain.Segmenter {
	t.Helper()
	s, err := domain.NewSegmenter(cfg, domain.DefaultTaxonomy())
	if err != nil {
		t.Fatalf("new segmenter: %v", err)
	}
	return s
}

func components(events []domain.Event) []string {
	out := make([]string, 0, len(events))
	for _, e := range events {
		out = append(out, e.Component)
	}
	return out
}

func TestLoginLogoutYieldsSingleSession(t *testing.T) {
	t.Parallel()
	seg := mustSegmenter(t, domain.Config{SessionType: domain.SessionTypeStudy, UseAuthentication: true})
	events := []domain.Event{
		ev(0, 5, 5, "Login", "Overall Site"),
		ev(5, 5, 5, "Assignment", "Maths"),
		ev(10, 0, 0, "Logout", "Overall Site"),
	}

	sessions, reasons := seg.Segment(events)
	if len(sessions) != 1 || len(reasons) != 1 {
		t.Fatalf("expected one session, got %d sessions %d reasons", len(sessions), len(reasons))
	}
	if sessions[0].Len() != 3 {
		t.Fatalf("session should span all events, got %v", components(sessions[0].Events))
	}
	if reasons[0].Kind != domain.ReasonAuthentication || reasons[0].Component != "Logout" {
		t.Fatalf("unexpected reason: %+v", reasons[0])
	}
	if !sessions[0].End.Equal(events[2].Timestamp) {
		t.Fatalf("logout session should end at logout timestamp, got %s", sessions[0].End)
	}
}

func TestLoginStartsNewSession(t *testing.T) {
	t.Parallel()
	seg := mustSegmenter(t, domain.Config{SessionType: domain.SessionTypeStudy, UseAuthentication: true})
	events := []domain.Event{
		ev(0, 60, 40, "Lesson", "Maths"),
		ev(60, 5, 5, "Login", "Overall Site"),
		ev(65, 5, 5, "Lesson", "Maths"),
	}

	sessions, reasons := seg.Segment(events)
	if len(sessions) != 2 {
		t.Fatalf("expected two sessions, got %d", len(sessions))
	}
	if got := components(sessions[0].Events); len(got) != 1 || got[0] != "Lesson" {
		t.Fatalf("login must not belong to the closed session: %v", got)
	}
	if sessions[1].First().Component != "Login" {
		t.Fatalf("login should seed the next session")
	}
	if reasons[0].Kind != domain.ReasonAuthentication || reasons[0].Component != "Login" {
		t.Fatalf("unexpected reason: %+v", reasons[0])
	}
	// pause of the event before the login, elapsed-time mode with threshold 0
	if reasons[0].PauseSeconds != 60 {
		t.Fatalf("pause should come from the preceding event, got %v", reasons[0].PauseSeconds)
	}
	if reasons[1].Kind != domain.ReasonFinalLog {
		t.Fatalf("last session should end with final log, got %+v", reasons[1])
	}
}

func TestRepeatedLoginsAreOneBoundary(t *testing.T) {
	t.Parallel()
	seg := mustSegmenter(t, domain.Config{SessionType: domain.SessionTypeStudy, UseAuthentication: true})
	events := []domain.Event{
		ev(0, 10, 10, "Lesson", "Maths"),
		ev(10, 1, 1, "Login", "Overall Site"),
		ev(11, 1, 1, "Login", "Overall Site"),
		ev(12, 1, 1, "Login", "Overall Site"),
		ev(13, 1, 1, "Lesson", "Maths"),
	}

	sessions, reasons := seg.Split(events)
	if len(sessions) != 2 {
		t.Fatalf("login retries should cut once, got %d sessions", len(sessions))
	}
	if sessions[1].Len() != 4 {
		t.Fatalf("retries should stay together: %v", components(sessions[1].Events))
	}
	auth := 0
	for _, r := range reasons {
		if r.Kind == domain.ReasonAuthentication {
			auth++
		}
	}
	if auth != 1 {
		t.Fatalf("expected one authentication boundary, got %d", auth)
	}
}

func TestLeadingLoginDoesNotCut(t *testing.T) {
	t.Parallel()
	seg := mustSegmenter(t, domain.Config{SessionType: domain.SessionTypeStudy, UseAuthentication: true})
	sessions, _ := seg.Split([]domain.Event{
		ev(0, 1, 1, "Login", "Overall Site"),
		ev(1, 1, 1, "Lesson", "Maths"),
	})
	if len(sessions) != 1 {
		t.Fatalf("first login must not produce an empty session, got %d", len(sessions))
	}
}

func TestStudyInactivityCut(t *testing.T) {
	t.Parallel()
	cfg := domain.Config{
		SessionType:             domain.SessionTypeStudy,
		UseInactivity:           true,
		OutlierDetection:        true,
		GeneralThresholdMinutes: 30,
	}
	seg := mustSegmenter(t, cfg)

	cases := []struct {
		name     string
		curArea  string
		nextArea string
		want     domain.ReasonKind
	}{
		{name: "different area", curArea: "Maths", nextArea: "Physics", want: domain.ReasonDifferentCourseAfterInactivity},
		{name: "same course", curArea: "Maths", nextArea: "Maths", want: domain.ReasonSameCourseAfterInactivity},
		{name: "same site area", curArea: "Overall Site", nextArea: "Overall Site", want: domain.ReasonSameAreaAfterInactivity},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			events := []domain.Event{
				ev(0, 3600, 300, "Lesson", tc.curArea),
				ev(3600, 60, 60, "Lesson", tc.nextArea),
			}
			sessions, reasons := seg.Segment(events)
			if len(sessions) != 2 {
				t.Fatalf("expected a cut after the idle event, got %d sessions", len(sessions))
			}
			if reasons[0].Kind != tc.want {
				t.Fatalf("reason = %q, want %q", reasons[0].Kind, tc.want)
			}
			if reasons[0].PauseSeconds != 3300 {
				t.Fatalf("pause = %v, want 3300", reasons[0].PauseSeconds)
			}
			wantEnd := t0.Add(300 * time.Second)
			if !sessions[0].End.Equal(wantEnd) {
				t.Fatalf("end = %s, want %s", sessions[0].End, wantEnd)
			}
		})
	}
}

func TestElapsedModePauseSubtractsThresholdSeconds(t *testing.T) {
	t.Parallel()
	seg := mustSegmenter(t, domain.Config{
		SessionType:             domain.SessionTypeStudy,
		UseInactivity:           true,
		GeneralThresholdMinutes: 30,
		ComponentThresholds:     map[string]float64{"Quiz": 10},
	})
	events := []domain.Event{
		ev(0, 900, 100, "Quiz", "Maths"),
		ev(900, 1000, 100, "Lesson", "Maths"),
		ev(1900, 2000, 100, "Lesson", "Maths"),
		ev(3900, 10, 10, "Lesson", "Maths"),
	}
	sessions, reasons := seg.Segment(events)
	// 900s > 10min override cuts; 1000s < 30min does not; 2000s > 30min cuts.
	if len(sessions) != 3 {
		t.Fatalf("expected 3 sessions, got %d", len(sessions))
	}
	if reasons[0].Component != "Quiz" || reasons[0].PauseSeconds != 300 {
		t.Fatalf("unexpected quiz reason: %+v", reasons[0])
	}
	if reasons[1].PauseSeconds != 200 {
		t.Fatalf("pause = %v, want 200", reasons[1].PauseSeconds)
	}
	wantEnd := events[2].Timestamp.Add(30 * time.Minute)
	if !sessions[1].End.Equal(wantEnd) {
		t.Fatalf("end = %s, want %s", sessions[1].End, wantEnd)
	}
}

func TestCourseChangeAndDetour(t *testing.T) {
	t.Parallel()
	seg := mustSegmenter(t, domain.Config{SessionType: domain.SessionTypeCourse})

	detour := []domain.Event{
		ev(0, 10, 10, "Lesson", "Maths"),
		ev(10, 10, 10, "Dashboard", "Overall Site"),
		ev(20, 10, 10, "Lesson", "Maths"),
	}
	if sessions, _ := seg.Split(detour); len(sessions) != 1 {
		t.Fatalf("site detour back to the same course must not cut, got %d", len(sessions))
	}

	change := []domain.Event{
		ev(0, 10, 10, "Lesson", "Maths"),
		ev(10, 10, 10, "Lesson", "Physics"),
	}
	sessions, reasons := seg.Split(change)
	if len(sessions) != 2 || reasons[0].Kind != domain.ReasonChangeOfCourse {
		t.Fatalf("course change should cut, got %d sessions reasons %+v", len(sessions), reasons)
	}
}

func TestCourseInactivityLabels(t *testing.T) {
	t.Parallel()
	seg := mustSegmenter(t, domain.Config{SessionType: domain.SessionTypeCourse, UseInactivity: true, GeneralThresholdMinutes: 1})

	_, reasons := seg.Split([]domain.Event{
		ev(0, 600, 600, "Lesson", "Maths"),
		ev(600, 10, 10, "Dashboard", "Overall Site"),
		ev(610, 10, 10, "Lesson", "Maths"),
	})
	if reasons[0].Kind != domain.ReasonSameCourseAfterInactivity {
		t.Fatalf("detour returning to course: got %q", reasons[0].Kind)
	}

	_, reasons = seg.Split([]domain.Event{
		ev(0, 600, 600, "Dashboard", "Overall Site"),
		ev(600, 10, 10, "Lesson", "Maths"),
	})
	if reasons[0].Kind != domain.ReasonSiteAreaAfterInactivity {
		t.Fatalf("leaving to site area: got %q", reasons[0].Kind)
	}
}

func TestLearningCourseHomeDetour(t *testing.T) {
	t.Parallel()
	seg := mustSegmenter(t, domain.Config{SessionType: domain.SessionTypeLearning})

	sessions, _ := seg.Segment([]domain.Event{
		ev(0, 10, 10, "Assignment", "Maths"),
		ev(10, 10, 10, "Course_home", "Maths"),
		ev(20, 10, 10, "Assignment", "Maths"),
	})
	if len(sessions) != 1 || sessions[0].Len() != 3 {
		t.Fatalf("course home detour must not cut, got %d sessions", len(sessions))
	}

	sessions, reasons := seg.Split([]domain.Event{
		ev(0, 10, 10, "Assignment", "Maths"),
		ev(10, 10, 10, "Forum", "Maths"),
	})
	if len(sessions) != 2 {
		t.Fatalf("leaving learning components should cut, got %d sessions", len(sessions))
	}
	if reasons[0].Kind != domain.ReasonQualityLearningStopped || reasons[0].Component != "Assignment" {
		t.Fatalf("unexpected reason: %+v", reasons[0])
	}
}

func TestLearningInactivityLabels(t *testing.T) {
	t.Parallel()
	seg := mustSegmenter(t, domain.Config{SessionType: domain.SessionTypeLearning, UseInactivity: true, GeneralThresholdMinutes: 1})
	_, reasons := seg.Split([]domain.Event{
		ev(0, 600, 600, "Assignment", "Maths"),
		ev(600, 10, 10, "Lesson", "Maths"),
	})
	if reasons[0].Kind != domain.ReasonQualityLearningAfterInactivity {
		t.Fatalf("got %q", reasons[0].Kind)
	}
	_, reasons = seg.Split([]domain.Event{
		ev(0, 600, 600, "Course_home", "Maths"),
		ev(600, 10, 10, "Course_home", "Maths"),
	})
	if reasons[0].Kind != domain.ReasonCourseHomeAfterInactivity {
		t.Fatalf("got %q", reasons[0].Kind)
	}
}

func TestAttendanceOnlySessions(t *testing.T) {
	t.Parallel()
	seg := mustSegmenter(t, domain.Config{SessionType: domain.SessionTypeStudy, ExcludeAttendanceOnly: true})

	short := []domain.Event{
		ev(0, 1, 1, "Dashboard", "Overall Site"),
		ev(1, 1, 1, "Course_home", "Maths"),
		ev(2, 1, 1, "Attendance", "Maths"),
	}
	if sessions, _ := seg.Segment(short); len(sessions) != 0 {
		t.Fatalf("3-event attendance session should be dropped")
	}

	long := []domain.Event{
		ev(0, 1, 1, "Dashboard", "Overall Site"),
		ev(1, 1, 1, "Course_home", "Maths"),
		ev(2, 1, 1, "Lesson", "Maths"),
		ev(3, 1, 1, "Lesson", "Maths"),
		ev(4, 1, 1, "Course_home", "Maths"),
		ev(5, 1, 1, "Attendance", "Maths"),
	}
	if sessions, _ := seg.Segment(long); len(sessions) != 1 {
		t.Fatalf("6-event attendance session should be kept")
	}
}

func TestFilterAndTrim(t *testing.T) {
	t.Parallel()

	course := mustSegmenter(t, domain.Config{SessionType: domain.SessionTypeCourse})
	sessions, reasons := course.Segment([]domain.Event{
		ev(0, 1, 1, "Dashboard", "Overall Site"),
		ev(1, 1, 1, "Lesson", "Maths"),
		ev(2, 1, 1, "Forum", "Maths"),
		ev(3, 1, 1, "Dashboard", "Overall Site"),
	})
	if len(sessions) != 1 || len(reasons) != 1 {
		t.Fatalf("expected one session, got %d", len(sessions))
	}
	if got := components(sessions[0].Events); len(got) != 2 || got[0] != "Lesson" || got[1] != "Forum" {
		t.Fatalf("site-area events should be trimmed: %v", got)
	}
	if !sessions[0].Start.Equal(t0.Add(time.Second)) {
		t.Fatalf("start should follow trimming, got %s", sessions[0].Start)
	}

	siteOnly := []domain.Event{ev(0, 1, 1, "Dashboard", "Overall Site")}
	if got, _ := course.Segment(siteOnly); len(got) != 0 {
		t.Fatalf("site-only session should be dropped for course type")
	}

	learning := mustSegmenter(t, domain.Config{SessionType: domain.SessionTypeLearning})
	sessions, _ = learning.Segment([]domain.Event{
		ev(0, 1, 1, "Course_home", "Maths"),
		ev(1, 1, 1, "Lesson", "Maths"),
		ev(2, 1, 1, "Lesson", "Maths"),
	})
	if len(sessions) != 1 || sessions[0].First().Component != "Lesson" || sessions[0].Len() != 2 {
		t.Fatalf("non-learning events should be trimmed, got %+v", sessions)
	}
	if got, _ := learning.Segment([]domain.Event{ev(0, 1, 1, "Forum", "Maths")}); len(got) != 0 {
		t.Fatalf("session without learning components should be dropped")
	}

	filtered := mustSegmenter(t, domain.Config{SessionType: domain.SessionTypeStudy, CourseFilter: []string{"Physics"}})
	if got, _ := filtered.Segment([]domain.Event{ev(0, 1, 1, "Lesson", "Maths")}); len(got) != 0 {
		t.Fatalf("course filter should drop sessions outside the selection")
	}
}

// Each look-ahead exception needs the event two steps ahead. When that event
// does not exist the exception does not apply and the cut goes ahead.
func TestLookaheadPastEndCuts(t *testing.T) {
	t.Parallel()

	course := mustSegmenter(t, domain.Config{SessionType: domain.SessionTypeCourse})
	_, reasons := course.Split([]domain.Event{
		ev(0, 1, 1, "Lesson", "Maths"),
		ev(1, 1, 1, "Dashboard", "Overall Site"),
	})
	if len(reasons) != 2 || reasons[0].Kind != domain.ReasonChangeOfCourse {
		t.Fatalf("area change rule: expected cut, got %+v", reasons)
	}

	learning := mustSegmenter(t, domain.Config{SessionType: domain.SessionTypeLearning})
	_, reasons = learning.Split([]domain.Event{
		ev(0, 1, 1, "Assignment", "Maths"),
		ev(1, 1, 1, "Course_home", "Maths"),
	})
	if len(reasons) != 2 || reasons[0].Kind != domain.ReasonQualityLearningStopped {
		t.Fatalf("learning stop rule: expected cut, got %+v", reasons)
	}

	tax := domain.DefaultTaxonomy()
	tax.SiteAreas = []string{"Overall Site", "Profile"}
	courseIdle, err := domain.NewSegmenter(domain.Config{SessionType: domain.SessionTypeCourse, UseInactivity: true, GeneralThresholdMinutes: 1}, tax)
	if err != nil {
		t.Fatalf("new segmenter: %v", err)
	}
	_, reasons = courseIdle.Split([]domain.Event{
		ev(0, 600, 600, "Dashboard", "Overall Site"),
		ev(600, 1, 1, "Profile", "Profile"),
	})
	if len(reasons) != 2 || reasons[0].Kind != domain.ReasonSiteAreaAfterInactivity {
		t.Fatalf("inactivity rule: detour must not be assumed, got %+v", reasons)
	}
	_, reasons = courseIdle.Split([]domain.Event{
		ev(0, 600, 600, "Dashboard", "Overall Site"),
		ev(600, 1, 1, "Profile", "Profile"),
		ev(601, 1, 1, "Dashboard", "Overall Site"),
	})
	if reasons[0].Kind != domain.ReasonSameCourseAfterInactivity {
		t.Fatalf("inactivity rule: detour back should count as same area, got %+v", reasons)
	}
}

func TestSplitCoversEveryEventInOrder(t *testing.T) {
	t.Parallel()
	events := []domain.Event{
		ev(0, 1, 1, "Login", "Overall Site"),
		ev(1, 4000, 100, "Lesson", "Maths"),
		ev(4001, 5, 5, "Course_home", "Maths"),
		ev(4006, 5, 5, "Assignment", "Maths"),
		ev(4011, 5, 5, "Forum", "Physics"),
		ev(4016, 5, 5, "Dashboard", "Overall Site"),
		ev(4021, 5, 5, "Login", "Overall Site"),
		ev(4026, 5, 5, "Login", "Overall Site"),
		ev(4031, 5, 5, "URL", "Physics"),
		ev(4036, 5, 5, "Logout", "Overall Site"),
		ev(4041, 5, 5, "Lesson", "Maths"),
	}
	for _, st := range domain.SessionTypes() {
		seg := mustSegmenter(t, domain.Config{
			SessionType:             st,
			UseAuthentication:       true,
			UseInactivity:           true,
			OutlierDetection:        true,
			GeneralThresholdMinutes: 10,
		})
		sessions, reasons := seg.Split(events)
		if len(sessions) != len(reasons) {
			t.Fatalf("%s: sessions and reasons must pair up", st)
		}
		var flat []domain.Event
		for i, s := range sessions {
			if s.Len() == 0 {
				t.Fatalf("%s: empty session %d", st, i)
			}
			if i > 0 && s.Start.Before(sessions[i-1].Start) {
				t.Fatalf("%s: sessions out of order", st)
			}
			flat = append(flat, s.Events...)
		}
		if len(flat) != len(events) {
			t.Fatalf("%s: covered %d of %d events", st, len(flat), len(events))
		}
		for i := range events {
			if !flat[i].Timestamp.Equal(events[i].Timestamp) || flat[i].Component != events[i].Component {
				t.Fatalf("%s: event %d out of place", st, i)
			}
		}
	}
}

func TestRaisingThresholdNeverAddsInactivityCuts(t *testing.T) {
	t.Parallel()
	durations := []float64{30, 700, 120, 1900, 5, 3600, 900, 60, 2400, 10}
	var events []domain.Event
	offset := 0.0
	for i, d := range durations {
		area := "Maths"
		if i%3 == 0 {
			area = "Physics"
		}
		events = append(events, ev(offset, d, d/4, "Lesson", area))
		offset += d
	}

	prev := math.MaxInt
	for _, minutes := range []float64{0, 1, 5, 10, 20, 45, 90} {
		seg := mustSegmenter(t, domain.Config{SessionType: domain.SessionTypeStudy, UseInactivity: true, GeneralThresholdMinutes: minutes})
		_, reasons := seg.Split(events)
		cuts := 0
		for _, r := range reasons {
			if r.Kind != domain.ReasonFinalLog {
				cuts++
			}
		}
		if cuts > prev {
			t.Fatalf("threshold %v produced %d cuts, more than %d", minutes, cuts, prev)
		}
		prev = cuts
	}
}

func TestEmptyInput(t *testing.T) {
	t.Parallel()
	seg := mustSegmenter(t, domain.Config{SessionType: domain.SessionTypeLearning, UseInactivity: true})
	sessions, reasons := seg.Segment(nil)
	if len(sessions) != 0 || len(reasons) != 0 {
		t.Fatalf("empty input should yield nothing")
	}
}

func TestConfigValidation(t *testing.T) {
	t.Parallel()
	tax := domain.DefaultTaxonomy()

	if _, err := domain.NewSegmenter(domain.Config{SessionType: "weekly"}, tax); !errors.Is(err, apperrors.ErrUnknownSessionType) {
		t.Fatalf("unknown session type: got %v", err)
	}
	bad := []domain.Config{
		{SessionType: domain.SessionTypeStudy, GeneralThresholdMinutes: -1},
		{SessionType: domain.SessionTypeStudy, GeneralThresholdMinutes: math.NaN()},
		{SessionType: domain.SessionTypeStudy, GeneralThresholdMinutes: math.Inf(1)},
		{SessionType: domain.SessionTypeStudy, ComponentThresholds: map[string]float64{"Quiz": -5}},
		{SessionType: domain.SessionTypeStudy, ComponentThresholds: map[string]float64{" ": 5}},
	}
	for i, cfg := range bad {
		if _, err := domain.NewSegmenter(cfg, tax); !errors.Is(err, apperrors.ErrInvalidConfig) {
			t.Fatalf("case %d: expected invalid config, got %v", i, err)
		}
	}
	noLearning := tax
	noLearning.LearningComponents = nil
	if _, err := domain.NewSegmenter(domain.Config{SessionType: domain.SessionTypeStudy}, noLearning); !errors.Is(err, apperrors.ErrInvalidConfig) {
		t.Fatalf("taxonomy without learning components should fail, got %v", err)
	}
}
