package domain

import (
	"fmt"
	"slices"

	apperrors "studytrace/internal/platform/errors"
)

// Taxonomy names the platform-specific components and areas the boundary
// rules depend on. It is loaded once and never mutated.
type Taxonomy struct {
	SiteAreas           []string
	LearningComponents  []string
	LoginComponent      string
	LogoutComponent     string
	CourseHomeComponent string
	AttendanceComponent string
	// AttendanceMaxEvents is the longest session still treated as a bare
	// attendance check-in.
	AttendanceMaxEvents int
}

func DefaultTaxonomy() Taxonomy {
	return Taxonomy{
		SiteAreas:           []string{"Overall Site"},
		LearningComponents:  []string{"Assignment", "File", "Lesson", "URL"},
		LoginComponent:      "Login",
		LogoutComponent:     "Logout",
		CourseHomeComponent: "Course_home",
		AttendanceComponent: "Attendance",
		AttendanceMaxEvents: 5,
	}
}

func (t Taxonomy) Validate() error {
	if len(t.LearningComponents) == 0 {
		return fmt.Errorf("%w: taxonomy needs learning components", apperrors.ErrInvalidConfig)
	}
	if t.LoginComponent == "" || t.LogoutComponent == "" {
		return fmt.Errorf("%w: taxonomy needs login and logout components", apperrors.ErrInvalidConfig)
	}
	if t.AttendanceMaxEvents < 0 {
		return fmt.Errorf("%w: attendance max events must be non-negative", apperrors.ErrInvalidConfig)
	}
	return nil
}

func (t Taxonomy) IsSiteArea(area string) bool {
	return slices.Contains(t.SiteAreas, area)
}

func (t Taxonomy) IsLearningComponent(component string) bool {
	return slices.Contains(t.LearningComponents, component)
}
