package domain

type ReasonKind string

const (
	ReasonAuthentication                 ReasonKind = "Authentication"
	ReasonChangeOfCourse                 ReasonKind = "Change of course"
	ReasonQualityLearningStopped         ReasonKind = "Quality learning stopped"
	ReasonDifferentCourseAfterInactivity ReasonKind = "Different course/area after inactivity"
	ReasonSameCourseAfterInactivity      ReasonKind = "Same course after inactivity"
	ReasonSameAreaAfterInactivity        ReasonKind = "Same area after inactivity"
	ReasonSiteAreaAfterInactivity        ReasonKind = "Site area after inactivity"
	ReasonQualityLearningAfterInactivity ReasonKind = "Quality learning after inactivity"
	ReasonCourseHomeAfterInactivity      ReasonKind = "Course home after inactivity"
	ReasonFinalLog                       ReasonKind = "Final log"
)

// BoundaryReason explains why a session ended. PauseSeconds is the pause of
// the event that triggered the cut.
type BoundaryReason struct {
	Kind         ReasonKind
	Component    string
	PauseSeconds float64
}
