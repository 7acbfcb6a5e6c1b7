package in

import (
	"context"

	"studytrace/internal/modules/recommendation/dto"
)

type Usecase interface {
	Recommend(ctx context.Context, input dto.RecommendInput) (dto.RecommendOutput, error)
	// RecommendPerComponent runs Recommend for every component option of the
	// session type, ignoring input.Component.
	RecommendPerComponent(ctx context.Context, input dto.RecommendInput) ([]dto.RecommendOutput, error)
}
