package usecase

import (
	"context"
	"strings"

	recommendationdto "studytrace/internal/modules/recommendation/dto"
	recommendationin "studytrace/internal/modules/recommendation/port/in"
	"studytrace/internal/modules/report/domain"
	"studytrace/internal/modules/report/dto"
	reportin "studytrace/internal/modules/report/port/in"
	"studytrace/internal/modules/report/service"
	segmentationdto "studytrace/internal/modules/segmentation/dto"
	segmentationin "studytrace/internal/modules/segmentation/port/in"
)

const granularityActivity = "activity"

type Interactor struct {
	svc            *service.ReportService
	segmentation   segmentationin.Usecase
	recommendation recommendationin.Usecase
}

// NewInteractor builds the report usecase. recommendation may be nil, in
// which case reports carry no recommendation.
func NewInteractor(svc *service.ReportService, segmentation segmentationin.Usecase, recommendation recommendationin.Usecase) reportin.Usecase {
	return &Interactor{svc: svc, segmentation: segmentation, recommendation: recommendation}
}

func (i *Interactor) Build(ctx context.Context, input dto.ReportInput) (dto.ReportOutput, error) {
	out, _, err := i.build(ctx, input)
	return out, err
}

func (i *Interactor) build(ctx context.Context, input dto.ReportInput) (dto.ReportOutput, []domain.HourSummary, error) {
	seg, err := i.segmentation.Segment(ctx, segmentationdto.SegmentInput{Options: input.Options, Window: input.Window})
	if err != nil {
		return dto.ReportOutput{}, nil, err
	}
	records := make([]domain.SessionRecord, 0, len(seg.Sessions))
	for _, s := range seg.Sessions {
		records = append(records, domain.SessionRecord{Start: s.Start, End: s.End, Keys: sessionKeys(s, input.Granularity)})
	}

	out := dto.ReportOutput{
		SessionType: input.Options.SessionType,
		Sessions:    len(seg.Sessions),
		Students:    seg.Students,
	}
	hours := i.svc.Summarize(records)
	for _, h := range hours {
		out.Hours = append(out.Hours, dto.HourOutput{
			Hour:         h.Hour,
			Label:        domain.HourLabel(h.Hour),
			Count:        h.Count,
			Min:          h.Min,
			LowerWhisker: h.LowerWhisker,
			Q1:           h.Q1,
			Median:       h.Median,
			Q3:           h.Q3,
			UpperWhisker: h.UpperWhisker,
			Max:          h.Max,
			EarliestEnd:  h.EarliestEnd,
			LatestEnd:    h.LatestEnd,
			TopKey:       h.TopKey,
			TopKeyCount:  h.TopKeyCount,
		})
	}

	if i.recommendation != nil {
		rec, err := i.recommendation.Recommend(ctx, recommendationdto.RecommendInput{
			SessionType: input.Options.SessionType,
			Courses:     input.Options.Courses,
			MaxMinutes:  input.MaxMinutes,
			Window:      input.Window,
		})
		if err != nil {
			return dto.ReportOutput{}, nil, err
		}
		out.Recommendation = rec
	}
	return out, hours, nil
}

func (i *Interactor) Export(ctx context.Context, input dto.ExportInput) (dto.ExportOutput, error) {
	built, hours, err := i.build(ctx, input.Report)
	if err != nil {
		return dto.ExportOutput{}, err
	}
	report := domain.Report{
		SessionType:      built.SessionType,
		Identification:   identification(input.Report.Options),
		ThresholdMinutes: input.Report.Options.GeneralThresholdMinutes,
		Sessions:         built.Sessions,
		Students:         built.Students,
		Hours:            hours,
	}
	if i.recommendation != nil {
		report.Recommendation = built.Recommendation.Text()
	}
	path, err := i.svc.Export(ctx, input.Path, report)
	if err != nil {
		return dto.ExportOutput{}, err
	}
	return dto.ExportOutput{Path: path, Sessions: built.Sessions}, nil
}

func sessionKeys(s segmentationdto.SessionOutput, granularity string) []string {
	keys := make([]string, 0, len(s.Events))
	for _, e := range s.Events {
		if granularity == granularityActivity && e.EventName != "" {
			keys = append(keys, e.Component+" / "+e.EventName)
			continue
		}
		keys = append(keys, e.Component)
	}
	return keys
}

func identification(o segmentationdto.Options) string {
	var parts []string
	if o.UseAuthentication {
		parts = append(parts, "authentication")
	}
	if o.UseInactivity {
		if o.OutlierDetection {
			parts = append(parts, "stt (outlier detection)")
		} else {
			parts = append(parts, "stt")
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, " + ")
}
