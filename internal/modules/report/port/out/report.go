package out

import (
	"context"

	"studytrace/internal/modules/report/domain"
)

type ReportStore interface {
	Save(ctx context.Context, path string, report domain.Report) (string, error)
}
