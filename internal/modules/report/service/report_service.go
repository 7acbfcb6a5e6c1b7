package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"studytrace/internal/modules/report/domain"
	reportout "studytrace/internal/modules/report/port/out"
	"studytrace/internal/platform/clock"
)

type ReportService struct {
	clock clock.Clock
	store reportout.ReportStore
	loc   *time.Location
	log   zerolog.Logger
}

func NewReportService(clock clock.Clock, store reportout.ReportStore, loc *time.Location, log zerolog.Logger) *ReportService {
	if loc == nil {
		loc = time.UTC
	}
	return &ReportService{clock: clock, store: store, loc: loc, log: log.With().Str("module", "report").Logger()}
}

func (s *ReportService) Summarize(records []domain.SessionRecord) []domain.HourSummary {
	return domain.Summarize(records, s.loc)
}

// Export stamps the report with the current time and saves it.
func (s *ReportService) Export(ctx context.Context, path string, report domain.Report) (string, error) {
	if path == "" {
		return "", fmt.Errorf("export path is required")
	}
	report.GeneratedAt = s.clock.Now()
	if err := report.Validate(); err != nil {
		return "", err
	}
	saved, err := s.store.Save(ctx, path, report)
	if err != nil {
		return "", err
	}
	s.log.Info().Str("path", saved).Int("sessions", report.Sessions).Msg("report exported")
	return saved, nil
}
