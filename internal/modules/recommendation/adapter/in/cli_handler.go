package in

import (
	"context"

	recommendationdto "studytrace/internal/modules/recommendation/dto"
	recommendationin "studytrace/internal/modules/recommendation/port/in"
)

type CLIHandler struct {
	usecase recommendationin.Usecase
}

func NewCLIHandler(usecase recommendationin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Recommend(ctx context.Context, input recommendationdto.RecommendInput) (recommendationdto.RecommendOutput, error) {
	return h.usecase.Recommend(ctx, input)
}

func (h CLIHandler) RecommendPerComponent(ctx context.Context, input recommendationdto.RecommendInput) ([]recommendationdto.RecommendOutput, error) {
	return h.usecase.RecommendPerComponent(ctx, input)
}
