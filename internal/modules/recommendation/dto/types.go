package dto

import (
	"strconv"

	segmentationdto "studytrace/internal/modules/segmentation/dto"
)

const (
	DefaultMaxMinutes = 60

	insufficientText = "There is not enough examples of this behaviour to make an STT recommendation"
)

type RecommendInput struct {
	SessionType string
	Courses     []string
	// Component restricts the pauses to one triggering component; empty
	// means overall.
	Component  string
	MaxMinutes int
	Window     segmentationdto.Window
}

type RecommendOutput struct {
	SessionType  string
	Component    string
	Sufficient   bool
	Minutes      float64
	RealPauses   int
	Continuation int
}

// Text renders the recommendation the way users read it.
func (o RecommendOutput) Text() string {
	if !o.Sufficient {
		return insufficientText
	}
	return "Recommended threshold: " + strconv.FormatFloat(o.Minutes, 'f', -1, 64) + " minutes"
}
