package in

import (
	"context"

	"studytrace/internal/modules/segmentation/dto"
)

type Usecase interface {
	Segment(ctx context.Context, input dto.SegmentInput) (dto.SegmentOutput, error)
	ComponentOptions(ctx context.Context, input dto.ComponentOptionsInput) ([]string, error)
	Courses(ctx context.Context, window dto.Window) ([]string, error)
	Snapshot(ctx context.Context, window dto.Window) (dto.SnapshotOutput, error)
}
