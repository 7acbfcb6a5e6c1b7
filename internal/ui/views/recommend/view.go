package recommend

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	recommendationdto "studytrace/internal/modules/recommendation/dto"
	"studytrace/internal/ui/theme"
)

type Port interface {
	Recommend(ctx context.Context, input recommendationdto.RecommendInput) (recommendationdto.RecommendOutput, error)
	RecommendPerComponent(ctx context.Context, input recommendationdto.RecommendInput) ([]recommendationdto.RecommendOutput, error)
}

type LoadedMsg struct {
	Seq   int
	Items []recommendationdto.RecommendOutput
	Err   error
}

type item struct{ rec recommendationdto.RecommendOutput }

func (i item) Title() string {
	if i.rec.Component == "" {
		return "Overall"
	}
	return i.rec.Component
}

func (i item) Description() string {
	return fmt.Sprintf("%s  (%d pauses, %d continuations)", i.rec.Text(), i.rec.RealPauses, i.rec.Continuation)
}

func (i item) FilterValue() string { return i.Title() }

type Model struct {
	port    Port
	list    list.Model
	spinner spinner.Model
	err     error
	seq     int
	loading bool
	width   int
	height  int
}

func New(port Port) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Green).BorderForeground(theme.Green)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Sapphire).BorderForeground(theme.Green)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Threshold recommendations"
	l.Styles.Title = theme.Title
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)

	return Model{port: port, list: l, spinner: sp}
}

// Load computes the overall recommendation followed by one per component.
func (m *Model) Load(input recommendationdto.RecommendInput) tea.Cmd {
	m.seq++
	m.loading = true
	seq, port := m.seq, m.port
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		if port == nil {
			return LoadedMsg{Seq: seq, Err: fmt.Errorf("recommendation adapter not configured")}
		}
		ctx := context.Background()
		input.Component = ""
		overall, err := port.Recommend(ctx, input)
		if err != nil {
			return LoadedMsg{Seq: seq, Err: err}
		}
		per, err := port.RecommendPerComponent(ctx, input)
		if err != nil {
			return LoadedMsg{Seq: seq, Err: err}
		}
		return LoadedMsg{Seq: seq, Items: append([]recommendationdto.RecommendOutput{overall}, per...)}
	})
}

// Filtering reports whether the list's search filter is active, in which
// case the app must not treat keys as shortcuts.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width, max(msg.Height-1, 1))
		return m, nil

	case LoadedMsg:
		if msg.Seq != m.seq {
			return m, nil
		}
		m.loading = false
		m.err = msg.Err
		if msg.Err != nil {
			return m, nil
		}
		items := make([]list.Item, len(msg.Items))
		for i, rec := range msg.Items {
			items[i] = item{rec: rec}
		}
		return m, m.list.SetItems(items)

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	status := theme.Muted.Render("maximal-sensitivity segmentation, outlier detection on")
	switch {
	case m.loading:
		status = m.spinner.View() + theme.Muted.Render(" fitting densities…")
	case m.err != nil:
		status = theme.Bad.Render(m.err.Error())
	}
	return lipgloss.JoinVertical(lipgloss.Left, status, m.list.View())
}
