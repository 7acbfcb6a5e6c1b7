package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	reportdto "studytrace/internal/modules/report/dto"
	"studytrace/internal/platform/numfmt"
	"studytrace/internal/ui/theme"
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(theme.Sapphire).Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

// HoursTable draws the per-hour duration summary. It is shared by the CLI and
// the explorer.
func HoursTable(hours []reportdto.HourOutput) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(theme.Surface1)).
		Headers("Start", "Sessions", "Min", "Q1", "Median", "Q3", "Max", "Ends", "Most frequent").
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	for _, hr := range hours {
		t.Row(
			hr.Label,
			numfmt.Count(hr.Count),
			numfmt.Minutes(hr.Min),
			numfmt.Minutes(hr.Q1),
			numfmt.Minutes(hr.Median),
			numfmt.Minutes(hr.Q3),
			numfmt.Minutes(hr.Max),
			fmt.Sprintf("%.2f-%.2f h", hr.EarliestEnd, hr.LatestEnd),
			fmt.Sprintf("%s (%s)", hr.TopKey, numfmt.Count(hr.TopKeyCount)),
		)
	}
	return t.Render()
}
