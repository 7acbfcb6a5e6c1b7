package in

import (
	"context"

	segmentationdto "studytrace/internal/modules/segmentation/dto"
	segmentationin "studytrace/internal/modules/segmentation/port/in"
)

type CLIHandler struct {
	usecase segmentationin.Usecase
}

func NewCLIHandler(usecase segmentationin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Segment(ctx context.Context, options segmentationdto.Options, window segmentationdto.Window) (segmentationdto.SegmentOutput, error) {
	return h.usecase.Segment(ctx, segmentationdto.SegmentInput{Options: options, Window: window})
}

func (h CLIHandler) ComponentOptions(ctx context.Context, sessionType string, courses []string, window segmentationdto.Window) ([]string, error) {
	return h.usecase.ComponentOptions(ctx, segmentationdto.ComponentOptionsInput{SessionType: sessionType, Courses: courses, Window: window})
}

func (h CLIHandler) Courses(ctx context.Context, window segmentationdto.Window) ([]string, error) {
	return h.usecase.Courses(ctx, window)
}

func (h CLIHandler) Snapshot(ctx context.Context, window segmentationdto.Window) (segmentationdto.SnapshotOutput, error) {
	return h.usecase.Snapshot(ctx, window)
}
