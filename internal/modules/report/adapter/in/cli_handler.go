package in

import (
	"context"

	reportdto "studytrace/internal/modules/report/dto"
	reportin "studytrace/internal/modules/report/port/in"
)

type CLIHandler struct {
	usecase reportin.Usecase
}

func NewCLIHandler(usecase reportin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Build(ctx context.Context, input reportdto.ReportInput) (reportdto.ReportOutput, error) {
	return h.usecase.Build(ctx, input)
}

func (h CLIHandler) Export(ctx context.Context, input reportdto.ReportInput, path string) (reportdto.ExportOutput, error) {
	return h.usecase.Export(ctx, reportdto.ExportInput{Report: input, Path: path})
}
