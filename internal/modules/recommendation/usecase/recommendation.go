package usecase

import (
	"context"

	"studytrace/internal/modules/recommendation/domain"
	"studytrace/internal/modules/recommendation/dto"
	recommendationin "studytrace/internal/modules/recommendation/port/in"
	"studytrace/internal/modules/recommendation/service"
	segmentationdto "studytrace/internal/modules/segmentation/dto"
	segmentationin "studytrace/internal/modules/segmentation/port/in"
)

type Interactor struct {
	svc          *service.RecommendationService
	segmentation segmentationin.Usecase
}

func NewInteractor(svc *service.RecommendationService, segmentation segmentationin.Usecase) recommendationin.Usecase {
	return &Interactor{svc: svc, segmentation: segmentation}
}

func (i *Interactor) Recommend(ctx context.Context, input dto.RecommendInput) (dto.RecommendOutput, error) {
	pauses, err := i.pauses(ctx, input)
	if err != nil {
		return dto.RecommendOutput{}, err
	}
	return i.recommend(pauses, input, input.Component)
}

func (i *Interactor) RecommendPerComponent(ctx context.Context, input dto.RecommendInput) ([]dto.RecommendOutput, error) {
	components, err := i.segmentation.ComponentOptions(ctx, segmentationdto.ComponentOptionsInput{
		SessionType: input.SessionType,
		Courses:     input.Courses,
		Window:      input.Window,
	})
	if err != nil {
		return nil, err
	}
	pauses, err := i.pauses(ctx, input)
	if err != nil {
		return nil, err
	}
	out := make([]dto.RecommendOutput, 0, len(components))
	for _, component := range components {
		rec, err := i.recommend(pauses, input, component)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// pauses segments with the most sensitive timeout setting so every pause
// shows up as a boundary reason.
func (i *Interactor) pauses(ctx context.Context, input dto.RecommendInput) ([]domain.Pause, error) {
	seg, err := i.segmentation.Segment(ctx, segmentationdto.SegmentInput{
		Options: segmentationdto.Options{
			SessionType:      input.SessionType,
			UseInactivity:    true,
			OutlierDetection: true,
			Courses:          input.Courses,
		},
		Window: input.Window,
	})
	if err != nil {
		return nil, err
	}
	pauses := make([]domain.Pause, 0, len(seg.Reasons))
	for _, r := range seg.Reasons {
		pauses = append(pauses, domain.Pause{Kind: r.Kind, Component: r.Component, PauseSeconds: r.PauseSeconds})
	}
	return pauses, nil
}

func (i *Interactor) recommend(pauses []domain.Pause, input dto.RecommendInput, component string) (dto.RecommendOutput, error) {
	maxMinutes := input.MaxMinutes
	if maxMinutes == 0 {
		maxMinutes = dto.DefaultMaxMinutes
	}
	samples, threshold, err := i.svc.Recommend(pauses, input.SessionType, component, maxMinutes)
	if err != nil {
		return dto.RecommendOutput{}, err
	}
	minutes, ok := threshold.Minutes()
	return dto.RecommendOutput{
		SessionType:  input.SessionType,
		Component:    component,
		Sufficient:   ok,
		Minutes:      minutes,
		RealPauses:   len(samples.RealPause),
		Continuation: len(samples.Continuation),
	}, nil
}
