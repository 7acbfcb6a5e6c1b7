package hours

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	reportdto "studytrace/internal/modules/report/dto"
	"studytrace/internal/platform/numfmt"
	"studytrace/internal/ui/components"
	"studytrace/internal/ui/theme"
)

type Port interface {
	Build(ctx context.Context, input reportdto.ReportInput) (reportdto.ReportOutput, error)
}

// LoadedMsg carries a finished report. Seq identifies the load it answers so
// results of superseded loads can be dropped.
type LoadedMsg struct {
	Seq int
	Out reportdto.ReportOutput
	Err error
}

type Model struct {
	port    Port
	body    viewport.Model
	spinner spinner.Model
	out     reportdto.ReportOutput
	err     error
	seq     int
	loading bool
	width   int
	height  int
}

func New(port Port) Model {
	vp := viewport.New(0, 0)
	vp.Style = lipgloss.NewStyle().Foreground(theme.Text).Padding(0, 1)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)

	return Model{port: port, body: vp, spinner: sp}
}

// Load starts building a report for input, superseding any load in flight.
func (m *Model) Load(input reportdto.ReportInput) tea.Cmd {
	m.seq++
	m.loading = true
	seq, port := m.seq, m.port
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		if port == nil {
			return LoadedMsg{Seq: seq, Err: fmt.Errorf("report adapter not configured")}
		}
		out, err := port.Build(context.Background(), input)
		return LoadedMsg{Seq: seq, Out: out, Err: err}
	})
}

// Report returns the last successfully loaded report.
func (m Model) Report() reportdto.ReportOutput { return m.out }

func (m Model) Loading() bool { return m.loading }

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.body.Width = msg.Width
		m.body.Height = max(msg.Height-1, 1)
		m.body.SetContent(m.render())
		return m, nil

	case LoadedMsg:
		if msg.Seq != m.seq {
			return m, nil
		}
		m.loading = false
		m.err = msg.Err
		if msg.Err == nil {
			m.out = msg.Out
		}
		m.body.SetContent(m.render())
		m.body.GotoTop()
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.body, cmd = m.body.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	header := theme.Title.Render("Session durations by start hour")
	if m.loading {
		header += "  " + m.spinner.View() + theme.Muted.Render(" segmenting…")
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, m.body.View())
}

func (m Model) render() string {
	if m.err != nil {
		return theme.Bad.Render(m.err.Error())
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s sessions from %s students\n\n",
		theme.Hot.Render(numfmt.Count(m.out.Sessions)), numfmt.Count(m.out.Students))
	if len(m.out.Hours) == 0 {
		b.WriteString(theme.Muted.Render("No sessions for these settings."))
	} else {
		b.WriteString(components.HoursTable(m.out.Hours))
	}
	if rec := m.out.Recommendation; rec.SessionType != "" {
		style := theme.Good
		if !rec.Sufficient {
			style = theme.Muted
		}
		b.WriteString("\n\n" + style.Render(rec.Text()))
	}
	return b.String()
}
