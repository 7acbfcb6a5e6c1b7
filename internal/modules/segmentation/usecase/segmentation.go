package usecase

import (
	"context"
	"fmt"
	"time"

	"studytrace/internal/modules/segmentation/domain"
	"studytrace/internal/modules/segmentation/dto"
	segmentationin "studytrace/internal/modules/segmentation/port/in"
	segmentationout "studytrace/internal/modules/segmentation/port/out"
	"studytrace/internal/modules/segmentation/service"
)

type Interactor struct {
	svc  *service.SegmentationService
	sink segmentationout.EventSink
	loc  *time.Location
}

// NewInteractor resolves calendar-day windows in loc. sink may be nil when
// snapshots are not configured.
func NewInteractor(svc *service.SegmentationService, sink segmentationout.EventSink, loc *time.Location) segmentationin.Usecase {
	if loc == nil {
		loc = time.UTC
	}
	return &Interactor{svc: svc, sink: sink, loc: loc}
}

func (i *Interactor) Segment(ctx context.Context, input dto.SegmentInput) (dto.SegmentOutput, error) {
	result, err := i.svc.Segment(ctx, toConfig(input.Options), i.window(input.Window))
	if err != nil {
		return dto.SegmentOutput{}, err
	}
	out := dto.SegmentOutput{
		Sessions: make([]dto.SessionOutput, 0, len(result.Sessions)),
		Reasons:  make([]dto.ReasonOutput, 0, len(result.Reasons)),
		Students: result.Students,
		Events:   result.Events,
	}
	for _, s := range result.Sessions {
		out.Sessions = append(out.Sessions, toSessionOutput(s))
	}
	for _, r := range result.Reasons {
		out.Reasons = append(out.Reasons, dto.ReasonOutput{Kind: string(r.Kind), Component: r.Component, PauseSeconds: r.PauseSeconds})
	}
	return out, nil
}

func (i *Interactor) ComponentOptions(ctx context.Context, input dto.ComponentOptionsInput) ([]string, error) {
	sessionType := domain.SessionType(input.SessionType)
	if err := sessionType.Validate(); err != nil {
		return nil, err
	}
	events, err := i.svc.Events(ctx, i.window(input.Window))
	if err != nil {
		return nil, err
	}
	return domain.ComponentOptions(events, sessionType, input.Courses, i.svc.Taxonomy()), nil
}

func (i *Interactor) Courses(ctx context.Context, window dto.Window) ([]string, error) {
	return i.svc.Courses(ctx, i.window(window))
}

func (i *Interactor) Snapshot(ctx context.Context, window dto.Window) (dto.SnapshotOutput, error) {
	if i.sink == nil {
		return dto.SnapshotOutput{}, fmt.Errorf("snapshot store is not configured")
	}
	events, err := i.svc.Events(ctx, i.window(window))
	if err != nil {
		return dto.SnapshotOutput{}, err
	}
	n, err := i.sink.ReplaceEvents(ctx, events)
	if err != nil {
		return dto.SnapshotOutput{}, err
	}
	return dto.SnapshotOutput{Events: n, Students: len(domain.GroupByStudent(events))}, nil
}

func (i *Interactor) window(w dto.Window) domain.Window {
	return domain.DayWindow(w.From, w.To, i.loc)
}

func toConfig(o dto.Options) domain.Config {
	return domain.Config{
		SessionType:             domain.SessionType(o.SessionType),
		UseAuthentication:       o.UseAuthentication,
		UseInactivity:           o.UseInactivity,
		OutlierDetection:        o.OutlierDetection,
		GeneralThresholdMinutes: o.GeneralThresholdMinutes,
		ComponentThresholds:     o.ComponentThresholds,
		ExcludeAttendanceOnly:   o.ExcludeAttendanceOnly,
		CourseFilter:            o.Courses,
	}
}

func toSessionOutput(s domain.Session) dto.SessionOutput {
	events := make([]dto.EventOutput, 0, len(s.Events))
	for _, e := range s.Events {
		events = append(events, dto.EventOutput{
			StudentID:         e.StudentID,
			Timestamp:         e.Timestamp,
			Duration:          e.Duration,
			EstimatedDuration: e.EstimatedDuration,
			Component:         e.Component,
			CourseArea:        e.CourseArea,
			EventName:         e.EventName,
		})
	}
	return dto.SessionOutput{StudentID: s.StudentID, Start: s.Start, End: s.End, Events: events}
}
