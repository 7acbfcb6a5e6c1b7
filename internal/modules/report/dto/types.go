package dto

import (
	recommendationdto "studytrace/internal/modules/recommendation/dto"
	segmentationdto "studytrace/internal/modules/segmentation/dto"
)

type ReportInput struct {
	Options     segmentationdto.Options
	Window      segmentationdto.Window
	Granularity string
	MaxMinutes  int
}

type HourOutput struct {
	Hour         int
	Label        string
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

type ReportOutput struct {
	SessionType    string
	Sessions       int
	Students       int
	Hours          []HourOutput
	Recommendation recommendationdto.RecommendOutput
}

type ExportInput struct {
	Report ReportInput
	Path   string
}

type ExportOutput struct {
	Path     string
	Sessions int
}
