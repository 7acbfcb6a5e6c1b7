package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	recommendationinadapter "studytrace/internal/modules/recommendation/adapter/in"
	recommendationservice "studytrace/internal/modules/recommendation/service"
	recommendationusecase "studytrace/internal/modules/recommendation/usecase"
	reportinadapter "studytrace/internal/modules/report/adapter/in"
	reportoutadapter "studytrace/internal/modules/report/adapter/out"
	reportdto "studytrace/internal/modules/report/dto"
	reportservice "studytrace/internal/modules/report/service"
	reportusecase "studytrace/internal/modules/report/usecase"
	segmentationinadapter "studytrace/internal/modules/segmentation/adapter/in"
	segmentationoutadapter "studytrace/internal/modules/segmentation/adapter/out"
	segmentationout "studytrace/internal/modules/segmentation/port/out"
	segmentationservice "studytrace/internal/modules/segmentation/service"
	segmentationusecase "studytrace/internal/modules/segmentation/usecase"
	"studytrace/internal/platform/clock"
	"studytrace/internal/platform/config"
	uiapp "studytrace/internal/ui/app"
)

type App struct {
	SegmentationCLI   segmentationinadapter.CLIHandler
	RecommendationCLI recommendationinadapter.CLIHandler
	ReportCLI         reportinadapter.CLIHandler

	closers []io.Closer
}

// New wires the modules for a resolved config. The caller must Close the app.
func New(ctx context.Context, cfg config.Config, log zerolog.Logger) (*App, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	app := &App{}

	var source segmentationout.EventSource
	switch cfg.Format {
	case config.FormatSQLite:
		store, err := segmentationoutadapter.NewSQLiteEventStore(cfg.DataPath)
		if err != nil {
			return nil, fmt.Errorf("open event store: %w", err)
		}
		app.closers = append(app.closers, store)
		source = store
	default:
		source = segmentationoutadapter.NewCSVEventSource(cfg.DataPath)
	}

	var sink segmentationout.EventSink
	if cfg.SnapshotPath != "" {
		store, err := segmentationoutadapter.NewSQLiteEventStore(cfg.SnapshotPath)
		if err != nil {
			_ = app.Close()
			return nil, fmt.Errorf("open snapshot store: %w", err)
		}
		app.closers = append(app.closers, store)
		sink = store
	}

	tax, err := segmentationoutadapter.NewYAMLTaxonomySource(cfg.TaxonomyPath).LoadTaxonomy(ctx)
	if err != nil {
		_ = app.Close()
		return nil, fmt.Errorf("load taxonomy: %w", err)
	}

	segmentationUC := segmentationusecase.NewInteractor(
		segmentationservice.NewSegmentationService(source, tax, cfg.Workers, log),
		sink,
		loc,
	)
	recommendationUC := recommendationusecase.NewInteractor(
		recommendationservice.NewRecommendationService(log),
		segmentationUC,
	)
	reportUC := reportusecase.NewInteractor(
		reportservice.NewReportService(clock.SystemClock{Location: loc}, reportoutadapter.NewMarkdownReportStore(), loc, log),
		segmentationUC,
		recommendationUC,
	)

	log.Debug().
		Str("data", cfg.DataPath).
		Str("format", cfg.Format).
		Int("workers", cfg.Workers).
		Str("timezone", loc.String()).
		Msg("app wired")

	app.SegmentationCLI = segmentationinadapter.NewCLIHandler(segmentationUC)
	app.RecommendationCLI = recommendationinadapter.NewCLIHandler(recommendationUC)
	app.ReportCLI = reportinadapter.NewCLIHandler(reportUC)
	return app, nil
}

func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c.Close())
	}
	a.closers = nil
	return errors.Join(errs...)
}

// RunTUI starts the threshold explorer with input as its initial settings.
func RunTUI(app *App, input reportdto.ReportInput) error {
	model := uiapp.NewModel(app.ReportCLI, app.RecommendationCLI, app.SegmentationCLI, input)
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err := program.Run()
	return err
}
