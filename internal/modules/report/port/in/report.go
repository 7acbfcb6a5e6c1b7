package in

import (
	"context"

	"studytrace/internal/modules/report/dto"
)

type Usecase interface {
	Build(ctx context.Context, input dto.ReportInput) (dto.ReportOutput, error)
	Export(ctx context.Context, input dto.ExportInput) (dto.ExportOutput, error)
}
