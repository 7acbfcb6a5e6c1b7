package service

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"studytrace/internal/modules/segmentation/domain"
	segmentationout "studytrace/internal/modules/segmentation/port/out"
)

type SegmentationService struct {
	source  segmentationout.EventSource
	tax     domain.Taxonomy
	workers int
	log     zerolog.Logger

	mu     sync.Mutex
	loaded map[domain.Window][]domain.Event
}

func NewSegmentationService(source segmentationout.EventSource, tax domain.Taxonomy, workers int, log zerolog.Logger) *SegmentationService {
	if workers < 1 {
		workers = 1
	}
	return &SegmentationService{
		source:  source,
		tax:     tax,
		workers: workers,
		log:     log.With().Str("module", "segmentation").Logger(),
		loaded:  map[domain.Window][]domain.Event{},
	}
}

func (s *SegmentationService) Taxonomy() domain.Taxonomy { return s.tax }

// Events returns the window's events, loading them from the source once.
func (s *SegmentationService) Events(ctx context.Context, window domain.Window) ([]domain.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if events, ok := s.loaded[window]; ok {
		return events, nil
	}
	events, err := s.source.LoadEvents(ctx, window)
	if err != nil {
		return nil, fmt.Errorf("load events: %w", err)
	}
	s.loaded[window] = events
	s.log.Info().Int("events", len(events)).Time("from", window.From).Time("until", window.Until).Msg("events loaded")
	return events, nil
}

// Result holds the sessions of every student, students in order of first
// appearance and sessions chronological within a student.
type Result struct {
	Sessions []domain.Session
	Reasons  []domain.BoundaryReason
	Students int
	Events   int
}

func (s *SegmentationService) Segment(ctx context.Context, cfg domain.Config, window domain.Window) (Result, error) {
	segmenter, err := domain.NewSegmenter(cfg, s.tax)
	if err != nil {
		return Result{}, err
	}
	events, err := s.Events(ctx, window)
	if err != nil {
		return Result{}, err
	}

	groups := domain.GroupByStudent(events)
	type partial struct {
		sessions []domain.Session
		reasons  []domain.BoundaryReason
	}
	parts := make([]partial, len(groups))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, group := range groups {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			sessions, reasons := segmenter.Segment(group.Events)
			parts[i] = partial{sessions: sessions, reasons: reasons}
			s.log.Debug().Str("student", group.StudentID).Int("events", len(group.Events)).Int("sessions", len(sessions)).Msg("student segmented")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, fmt.Errorf("segment students: %w", err)
	}

	out := Result{Students: len(groups), Events: len(events)}
	for _, p := range parts {
		out.Sessions = append(out.Sessions, p.sessions...)
		out.Reasons = append(out.Reasons, p.reasons...)
	}
	s.log.Info().
		Str("session_type", string(cfg.SessionType)).
		Int("students", out.Students).
		Int("sessions", len(out.Sessions)).
		Msg("segmentation finished")
	return out, nil
}

// Courses lists the distinct non-site course areas in the window.
func (s *SegmentationService) Courses(ctx context.Context, window domain.Window) ([]string, error) {
	events, err := s.Events(ctx, window)
	if err != nil {
		return nil, err
	}
	seen := map[string]struct{}{}
	for _, e := range events {
		if e.CourseArea == "" || s.tax.IsSiteArea(e.CourseArea) {
			continue
		}
		seen[e.CourseArea] = struct{}{}
	}
	courses := make([]string, 0, len(seen))
	for c := range seen {
		courses = append(courses, c)
	}
	sort.Strings(courses)
	return courses, nil
}
