package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"slices"
	"strings"
	_ "time/tzdata"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"studytrace/internal/bootstrap"
	recommendationdto "studytrace/internal/modules/recommendation/dto"
	reportdto "studytrace/internal/modules/report/dto"
	segmentationinadapter "studytrace/internal/modules/segmentation/adapter/in"
	segmentationdto "studytrace/internal/modules/segmentation/dto"
	"studytrace/internal/platform/config"
	"studytrace/internal/platform/logging"
	"studytrace/internal/platform/numfmt"
	"studytrace/internal/ui/components"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:           "studytrace",
		Short:         "Segment e-learning logs into sessions and tune inactivity thresholds",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	flags.register(root.PersistentFlags())

	root.AddCommand(newSegmentCmd(flags))
	root.AddCommand(newRecommendCmd(flags))
	root.AddCommand(newReportCmd(flags))
	root.AddCommand(newCoursesCmd(flags))
	root.AddCommand(newComponentsCmd(flags))
	root.AddCommand(newImportCmd(flags))
	root.AddCommand(newTUICmd(flags))
	return root
}

type runEnv struct {
	app      *bootstrap.App
	cfg      config.Config
	settings config.Settings
	options  segmentationdto.Options
	window   segmentationdto.Window
	log      zerolog.Logger
}

// run resolves configuration and settings for cmd, wires the app and hands it
// to fn. The app is closed when fn returns.
func run(cmd *cobra.Command, flags *rootFlags, mutate func(*config.Config), fn func(env runEnv) error) error {
	fs := cmd.Flags()
	cfg, err := flags.config(fs)
	if err != nil {
		return err
	}
	if mutate != nil {
		mutate(&cfg)
	}
	log, err := logging.New(cfg.LogLevel, os.Stderr)
	if err != nil {
		return err
	}
	settings, err := flags.settings(fs, cfg.SettingsPath)
	if err != nil {
		return err
	}
	window, err := toWindow(settings)
	if err != nil {
		return err
	}
	app, err := bootstrap.New(cmd.Context(), cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := app.Close(); cerr != nil {
			log.Warn().Err(cerr).Msg("close app")
		}
	}()
	return fn(runEnv{
		app:      app,
		cfg:      cfg,
		settings: settings,
		options:  toOptions(settings),
		window:   window,
		log:      log,
	})
}

func (e runEnv) reportInput() reportdto.ReportInput {
	return reportdto.ReportInput{
		Options:     e.options,
		Window:      e.window,
		Granularity: e.cfg.Granularity,
		MaxMinutes:  e.settings.MaxThresholdMinutes,
	}
}

func (e runEnv) recommendInput(component string) recommendationdto.RecommendInput {
	return recommendationdto.RecommendInput{
		SessionType: e.options.SessionType,
		Courses:     e.options.Courses,
		Component:   component,
		MaxMinutes:  e.settings.MaxThresholdMinutes,
		Window:      e.window,
	}
}

func newSegmentCmd(flags *rootFlags) *cobra.Command {
	var listSessions bool

	cmd := &cobra.Command{
		Use:   "segment",
		Short: "Split the log into sessions and summarize the boundaries",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, flags, nil, func(env runEnv) error {
				out, err := env.app.SegmentationCLI.Segment(cmd.Context(), env.options, env.window)
				if err != nil {
					return err
				}
				w := cmd.OutOrStdout()
				_, _ = fmt.Fprintf(w, "%s sessions, %s students, %s events\n",
					numfmt.Count(len(out.Sessions)), numfmt.Count(out.Students), numfmt.Count(out.Events))
				printReasons(w, out.Reasons)
				if listSessions {
					for i, s := range out.Sessions {
						r := out.Reasons[i]
						_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%d events\t%s\t%s\t%.0fs\n",
							s.StudentID, s.Start.Format("2006-01-02 15:04:05"), s.End.Format("15:04:05"), len(s.Events),
							r.Kind, r.Component, r.PauseSeconds)
					}
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&listSessions, "list", false, "print one line per session")
	return cmd
}

func printReasons(w io.Writer, reasons []segmentationdto.ReasonOutput) {
	counts := map[string]int{}
	for _, r := range reasons {
		counts[r.Kind]++
	}
	kinds := make([]string, 0, len(counts))
	for k := range counts {
		kinds = append(kinds, k)
	}
	slices.SortFunc(kinds, func(a, b string) int {
		if counts[a] != counts[b] {
			return counts[b] - counts[a]
		}
		return strings.Compare(a, b)
	})
	for _, k := range kinds {
		_, _ = fmt.Fprintf(w, "  %-42s %s\n", k, numfmt.Count(counts[k]))
	}
}

func newRecommendCmd(flags *rootFlags) *cobra.Command {
	var component string
	var perComponent bool

	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Recommend an inactivity threshold for the session type",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, flags, nil, func(env runEnv) error {
				w := cmd.OutOrStdout()
				if perComponent {
					recs, err := env.app.RecommendationCLI.RecommendPerComponent(cmd.Context(), env.recommendInput(""))
					if err != nil {
						return err
					}
					for _, rec := range recs {
						_, _ = fmt.Fprintf(w, "%s: %s\n", rec.Component, rec.Text())
					}
					return nil
				}
				rec, err := env.app.RecommendationCLI.Recommend(cmd.Context(), env.recommendInput(component))
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintln(w, rec.Text())
				env.log.Debug().Int("pauses", rec.RealPauses).Int("continuations", rec.Continuation).Msg("samples")
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&component, "component", "", "restrict to pauses triggered by this component")
	cmd.Flags().BoolVar(&perComponent, "per-component", false, "one recommendation per component option")
	return cmd
}

func newReportCmd(flags *rootFlags) *cobra.Command {
	var exportPath string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Summarize session durations by start hour",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, flags, nil, func(env runEnv) error {
				w := cmd.OutOrStdout()
				if exportPath != "" {
					out, err := env.app.ReportCLI.Export(cmd.Context(), env.reportInput(), exportPath)
					if err != nil {
						return err
					}
					_, _ = fmt.Fprintf(w, "exported %s sessions to %s\n", numfmt.Count(out.Sessions), out.Path)
					return nil
				}
				out, err := env.app.ReportCLI.Build(cmd.Context(), env.reportInput())
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(w, "%s sessions from %s students\n", numfmt.Count(out.Sessions), numfmt.Count(out.Students))
				if len(out.Hours) > 0 {
					_, _ = fmt.Fprintln(w, components.HoursTable(out.Hours))
				}
				_, _ = fmt.Fprintln(w, out.Recommendation.Text())
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&exportPath, "export", "", "write the report to this Markdown file, keeping text outside the generated block")
	return cmd
}

func newCoursesCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "courses",
		Short: "List the courses and areas in the log",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, flags, nil, func(env runEnv) error {
				courses, err := env.app.SegmentationCLI.Courses(cmd.Context(), env.window)
				if err != nil {
					return err
				}
				for _, c := range courses {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), c)
				}
				return nil
			})
		},
	}
}

func newComponentsCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "components",
		Short: "List the components that can carry their own threshold",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, flags, nil, func(env runEnv) error {
				names, err := env.app.SegmentationCLI.ComponentOptions(cmd.Context(), env.options.SessionType, env.options.Courses, env.window)
				if err != nil {
					return err
				}
				current := map[string]float64{}
				for _, n := range names {
					current[n] = env.options.GeneralThresholdMinutes
					if v, ok := env.options.ComponentThresholds[n]; ok {
						current[n] = v
					}
				}
				for _, line := range segmentationinadapter.FormatThresholdOptions(current) {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), line)
				}
				return nil
			})
		},
	}
}

func newImportCmd(flags *rootFlags) *cobra.Command {
	var target string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Copy the log into a SQLite snapshot",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if target == "" {
				return fmt.Errorf("--to is required")
			}
			snapshot := func(cfg *config.Config) { cfg.SnapshotPath = target }
			return run(cmd, flags, snapshot, func(env runEnv) error {
				out, err := env.app.SegmentationCLI.Snapshot(cmd.Context(), env.window)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "imported %s events for %s students into %s\n",
					numfmt.Count(out.Events), numfmt.Count(out.Students), target)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&target, "to", "", "SQLite file to write")
	return cmd
}

func newTUICmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Explore thresholds interactively",
		RunE: func(cmd *cobra.Command, _ []string) error {
			// log lines would tear the alternate screen
			quiet := func(cfg *config.Config) {
				if !cmd.Flags().Changed("log-level") {
					cfg.LogLevel = zerolog.LevelErrorValue
				}
			}
			return run(cmd, flags, quiet, func(env runEnv) error {
				return bootstrap.RunTUI(env.app, env.reportInput())
			})
		},
	}
}
