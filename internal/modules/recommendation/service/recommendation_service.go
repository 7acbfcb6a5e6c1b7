package service

import (
	"fmt"

	"github.com/rs/zerolog"

	"studytrace/internal/modules/recommendation/domain"
	apperrors "studytrace/internal/platform/errors"
)

type RecommendationService struct {
	log zerolog.Logger
}

func NewRecommendationService(log zerolog.Logger) *RecommendationService {
	return &RecommendationService{log: log.With().Str("module", "recommendation").Logger()}
}

func (s *RecommendationService) Recommend(pauses []domain.Pause, sessionType, component string, maxMinutes int) (domain.Samples, domain.Threshold, error) {
	if maxMinutes < 1 {
		return domain.Samples{}, domain.InsufficientData, fmt.Errorf("%w: max threshold must be at least one minute", apperrors.ErrInvalidConfig)
	}
	samples, err := domain.Classify(pauses, sessionType, component)
	if err != nil {
		return domain.Samples{}, domain.InsufficientData, err
	}
	threshold := domain.Recommend(samples, maxMinutes)
	s.log.Info().
		Str("session_type", sessionType).
		Str("component", component).
		Int("real_pauses", len(samples.RealPause)).
		Int("continuations", len(samples.Continuation)).
		Stringer("threshold", threshold).
		Msg("threshold recommended")
	return samples, threshold, nil
}
