package out

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"studytrace/internal/modules/report/domain"
	reportout "studytrace/internal/modules/report/port/out"
	"studytrace/internal/platform/markdown"
	"studytrace/internal/platform/numfmt"
)

const blockName = "session-report"

// MarkdownReportStore writes reports as Markdown notes. An existing note keeps
// its own text and frontmatter keys; only the generated block and the report
// keys are rewritten.
type MarkdownReportStore struct{}

func NewMarkdownReportStore() reportout.ReportStore {
	return MarkdownReportStore{}
}

func (MarkdownReportStore) Save(_ context.Context, path string, report domain.Report) (string, error) {
	doc := markdown.Document{Meta: map[string]any{}}
	raw, err := os.ReadFile(path)
	switch {
	case err == nil:
		doc, err = markdown.Parse(string(raw))
		if err != nil {
			return "", fmt.Errorf("parse existing report %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
		doc.Body = "# Session report\n"
	default:
		return "", fmt.Errorf("read existing report: %w", err)
	}

	doc.Meta["generated_at"] = report.GeneratedAt.Format(time.RFC3339)
	doc.Meta["session_type"] = report.SessionType
	doc.Meta["identification"] = report.Identification
	doc.Meta["threshold_minutes"] = report.ThresholdMinutes
	doc.Meta["sessions"] = report.Sessions
	doc.Meta["students"] = report.Students
	doc.SetBlock(blockName, renderBody(report))

	content, err := doc.Render()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create report dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return path, nil
}

func renderBody(report domain.Report) string {
	var b strings.Builder
	b.WriteString("## Session durations by start hour\n\n")
	if len(report.Hours) == 0 {
		b.WriteString("No sessions in the selected window.\n")
	} else {
		rows := make([][]string, 0, len(report.Hours))
		for _, h := range report.Hours {
			rows = append(rows, []string{
				domain.HourLabel(h.Hour),
				numfmt.Count(h.Count),
				numfmt.Minutes(h.Min),
				numfmt.Minutes(h.Q1),
				numfmt.Minutes(h.Median),
				numfmt.Minutes(h.Q3),
				numfmt.Minutes(h.Max),
				fmt.Sprintf("%s (%s)", h.TopKey, numfmt.Count(h.TopKeyCount)),
			})
		}
		b.WriteString(markdown.Table(
			[]string{"Start", "Sessions", "Min", "Q1", "Median", "Q3", "Max", "Most frequent"},
			rows,
		))
	}
	if report.Recommendation != "" {
		b.WriteString("\n" + report.Recommendation + "\n")
	}
	b.WriteString("\nSessions: " + numfmt.Count(report.Sessions) + ", students: " + numfmt.Count(report.Students) +
		", threshold: " + strconv.FormatFloat(report.ThresholdMinutes, 'f', -1, 64) + " min\n")
	return b.String()
}
