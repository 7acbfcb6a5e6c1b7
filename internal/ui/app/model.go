package app

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	recommendationdto "studytrace/internal/modules/recommendation/dto"
	reportdto "studytrace/internal/modules/report/dto"
	segmentationdto "studytrace/internal/modules/segmentation/dto"
	"studytrace/internal/ui/components"
	"studytrace/internal/ui/theme"
	hoursview "studytrace/internal/ui/views/hours"
	recommendview "studytrace/internal/ui/views/recommend"
)

// ─── ports ───────────────────────────────────────────────────────────────────

type reportPort interface {
	Build(ctx context.Context, input reportdto.ReportInput) (reportdto.ReportOutput, error)
	Export(ctx context.Context, input reportdto.ReportInput, path string) (reportdto.ExportOutput, error)
}

type recommendationPort interface {
	Recommend(ctx context.Context, input recommendationdto.RecommendInput) (recommendationdto.RecommendOutput, error)
	RecommendPerComponent(ctx context.Context, input recommendationdto.RecommendInput) ([]recommendationdto.RecommendOutput, error)
}

type coursePort interface {
	Courses(ctx context.Context, window segmentationdto.Window) ([]string, error)
}

// ─── tabs ────────────────────────────────────────────────────────────────────

type tabID int

const (
	tabHours tabID = iota
	tabRecommend
	tabCount
)

var tabLabels = [tabCount]string{"Hours", "Recommendations"}

var sessionTypes = []string{"study", "course", "learning"}

const thresholdStep = 5

// ─── async messages ──────────────────────────────────────────────────────────

type coursesLoadedMsg struct {
	courses []string
	err     error
}

// reloadMsg triggers a forced reload from Update.
type reloadMsg struct{}

type exportedMsg struct {
	out reportdto.ExportOutput
	err error
}

// ─── key bindings ────────────────────────────────────────────────────────────

type keyMap struct {
	Tab         key.Binding
	Type        key.Binding
	Auth        key.Binding
	STT         key.Binding
	Outlier     key.Binding
	Attendance  key.Binding
	Up          key.Binding
	Down        key.Binding
	Course      key.Binding
	Granularity key.Binding
	Prompt      key.Binding
	Reload      key.Binding
	Help        key.Binding
	Quit        key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Tab:         key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		Type:        key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "session type")),
		Auth:        key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "authentication")),
		STT:         key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "inactivity threshold")),
		Outlier:     key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "outlier detection")),
		Attendance:  key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "drop attendance-only")),
		Up:          key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+/-", "threshold")),
		Down:        key.NewBinding(key.WithKeys("-"), key.WithHelp("+/-", "threshold")),
		Course:      key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "next course")),
		Granularity: key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "task/activity")),
		Prompt:      key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "settings prompt")),
		Reload:      key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Help:        key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:        key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Prompt, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Type, k.Course, k.Granularity},
		{k.Auth, k.STT, k.Outlier, k.Attendance, k.Up},
		{k.Tab, k.Prompt, k.Reload, k.Help, k.Quit},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the threshold explorer. Every settings change re-runs the report;
// recommendations are refreshed only when an input they depend on changes.
type Model struct {
	report  reportPort
	courses coursePort

	input      reportdto.ReportInput
	allCourses []string
	recKey     string

	hoursView     hoursview.Model
	recommendView recommendview.Model

	activeTab tabID
	keys      keyMap
	help      help.Model
	showHelp  bool
	prompt    components.Prompt
	status    string
	width     int
	height    int
}

func NewModel(report reportPort, recommendation recommendationPort, courses coursePort, input reportdto.ReportInput) Model {
	if input.MaxMinutes == 0 {
		input.MaxMinutes = recommendationdto.DefaultMaxMinutes
	}
	var recV recommendview.Model
	if recommendation != nil {
		recV = recommendview.New(recommendation)
	} else {
		recV = recommendview.New(nil)
	}
	var hoursV hoursview.Model
	if report != nil {
		hoursV = hoursview.New(report)
	} else {
		hoursV = hoursview.New(nil)
	}
	return Model{
		report:        report,
		courses:       courses,
		input:         input,
		hoursView:     hoursV,
		recommendView: recV,
		activeTab:     tabHours,
		keys:          defaultKeys(),
		help:          help.New(),
		prompt:        components.NewPrompt(),
		status:        "ready",
	}
}

// Input returns the settings the explorer currently applies.
func (m Model) Input() reportdto.ReportInput { return m.input }

func (m Model) Status() string { return m.status }

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadCoursesCmd(), func() tea.Msg { return reloadMsg{} })
}

// ─── update ──────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.prompt.Visible() {
		var cmd tea.Cmd
		m.prompt, cmd = m.prompt.Update(msg)
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.prompt.SetWidth(min(m.width-4, 72))
		m.help.Width = m.width
		m.propagateSize()
		return m, nil

	case reloadMsg:
		cmd := m.reload(true)
		return m, cmd

	case coursesLoadedMsg:
		if msg.err != nil {
			m.status = "courses: " + msg.err.Error()
		} else {
			m.allCourses = msg.courses
		}
		return m, nil

	case exportedMsg:
		if msg.err != nil {
			m.status = "export failed: " + msg.err.Error()
		} else {
			m.status = fmt.Sprintf("exported %d sessions to %s", msg.out.Sessions, msg.out.Path)
		}
		return m, nil

	case components.PromptSubmitMsg:
		return m.runCommand(msg.Input)

	case components.PromptCancelMsg:
		m.status = "ready"
		return m, nil

	case hoursview.LoadedMsg:
		if msg.Err != nil {
			m.status = "report: " + msg.Err.Error()
		} else {
			m.status = "ready"
		}
		var cmd tea.Cmd
		m.hoursView, cmd = m.hoursView.Update(msg)
		return m, cmd

	case recommendview.LoadedMsg:
		var cmd tea.Cmd
		m.recommendView, cmd = m.recommendView.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.showHelp {
			if key.Matches(msg, m.keys.Help) || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}
		if m.activeTab == tabRecommend && m.recommendView.Filtering() {
			break
		}
		if handled, next, cmd := m.handleKey(msg); handled {
			return next, cmd
		}
	}

	var cmd tea.Cmd
	switch m.activeTab {
	case tabHours:
		m.hoursView, cmd = m.hoursView.Update(msg)
	case tabRecommend:
		m.recommendView, cmd = m.recommendView.Update(msg)
	}
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (bool, Model, tea.Cmd) {
	o := &m.input.Options
	switch {
	case key.Matches(msg, m.keys.Quit):
		return true, m, tea.Quit
	case key.Matches(msg, m.keys.Tab):
		m.activeTab = (m.activeTab + 1) % tabCount
		return true, m, nil
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return true, m, nil
	case key.Matches(msg, m.keys.Prompt):
		cmd := m.prompt.Open()
		return true, m, cmd
	case key.Matches(msg, m.keys.Reload):
		cmd := m.reload(true)
		return true, m, cmd
	case key.Matches(msg, m.keys.Type):
		i := slices.Index(sessionTypes, o.SessionType)
		o.SessionType = sessionTypes[(i+1)%len(sessionTypes)]
	case key.Matches(msg, m.keys.Auth):
		o.UseAuthentication = !o.UseAuthentication
	case key.Matches(msg, m.keys.STT):
		o.UseInactivity = !o.UseInactivity
	case key.Matches(msg, m.keys.Outlier):
		o.OutlierDetection = !o.OutlierDetection
	case key.Matches(msg, m.keys.Attendance):
		o.ExcludeAttendanceOnly = !o.ExcludeAttendanceOnly
	case key.Matches(msg, m.keys.Up):
		o.GeneralThresholdMinutes += thresholdStep
	case key.Matches(msg, m.keys.Down):
		o.GeneralThresholdMinutes = max(o.GeneralThresholdMinutes-thresholdStep, 0)
	case key.Matches(msg, m.keys.Course):
		o.Courses = m.nextCourse()
	case key.Matches(msg, m.keys.Granularity):
		if m.input.Granularity == "activity" {
			m.input.Granularity = "task"
		} else {
			m.input.Granularity = "activity"
		}
	default:
		return false, m, nil
	}
	cmd := m.reload(false)
	return true, m, cmd
}

// nextCourse steps the course filter through all courses and back to none.
func (m Model) nextCourse() []string {
	if len(m.allCourses) == 0 {
		return nil
	}
	if len(m.input.Options.Courses) != 1 {
		return []string{m.allCourses[0]}
	}
	i := slices.Index(m.allCourses, m.input.Options.Courses[0])
	if i < 0 || i+1 >= len(m.allCourses) {
		return nil
	}
	return []string{m.allCourses[i+1]}
}

// ─── settings commands ───────────────────────────────────────────────────────

func (m Model) runCommand(input string) (tea.Model, tea.Cmd) {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return m, nil
	}
	o := &m.input.Options

	switch parts[0] {
	case "threshold":
		v, err := parseMinutes(parts, 1)
		if err != nil {
			m.status = "usage: threshold <minutes>"
			return m, nil
		}
		o.GeneralThresholdMinutes = v

	case "component":
		if len(parts) < 3 {
			m.status = "usage: component <name> <minutes|clear>"
			return m, nil
		}
		name := strings.Join(parts[1:len(parts)-1], " ")
		overrides := maps.Clone(o.ComponentThresholds)
		if overrides == nil {
			overrides = map[string]float64{}
		}
		if parts[len(parts)-1] == "clear" {
			delete(overrides, name)
		} else {
			v, err := parseMinutes(parts, len(parts)-1)
			if err != nil {
				m.status = "usage: component <name> <minutes|clear>"
				return m, nil
			}
			overrides[name] = v
		}
		o.ComponentThresholds = overrides

	case "course":
		name := strings.TrimSpace(strings.TrimPrefix(input, parts[0]))
		switch name {
		case "":
			m.status = "usage: course <name|clear>"
			return m, nil
		case "clear":
			o.Courses = nil
		default:
			o.Courses = []string{name}
		}

	case "max":
		v, err := parseMinutes(parts, 1)
		if err != nil || v < 1 {
			m.status = "usage: max <minutes>, at least 1"
			return m, nil
		}
		m.input.MaxMinutes = int(v)

	case "granularity":
		if len(parts) != 2 || (parts[1] != "task" && parts[1] != "activity") {
			m.status = "usage: granularity <task|activity>"
			return m, nil
		}
		m.input.Granularity = parts[1]

	case "export":
		if len(parts) < 2 {
			m.status = "usage: export <path>"
			return m, nil
		}
		m.status = "exporting…"
		return m, m.exportCmd(strings.TrimSpace(strings.TrimPrefix(input, parts[0])))

	default:
		m.status = "unknown command: " + parts[0]
		return m, nil
	}
	cmd := m.reload(false)
	return m, cmd
}

func parseMinutes(parts []string, i int) (float64, error) {
	if i >= len(parts) {
		return 0, fmt.Errorf("missing value")
	}
	v, err := strconv.ParseFloat(parts[i], 64)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("invalid minutes %q", parts[i])
	}
	return v, nil
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	tabBar := m.renderTabBar()
	settings := m.renderSettings()
	statusBar := m.renderStatusBar()
	contentH := max(m.height-lipgloss.Height(tabBar)-lipgloss.Height(settings)-lipgloss.Height(statusBar), 1)

	var content string
	switch {
	case m.showHelp:
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).Render(m.help.View(m.keys))
	case m.prompt.Visible():
		content = lipgloss.Place(m.width, contentH, lipgloss.Center, lipgloss.Center, m.prompt.View())
	case m.activeTab == tabRecommend:
		content = m.recommendView.View()
	default:
		content = m.hoursView.View()
	}
	return lipgloss.JoinVertical(lipgloss.Left, tabBar, settings, content, statusBar)
}

func (m Model) renderTabBar() string {
	parts := make([]string, tabCount)
	for i := tabID(0); i < tabCount; i++ {
		if i == m.activeTab {
			parts[i] = theme.Hot.Render(" " + tabLabels[i] + " ")
		} else {
			parts[i] = theme.Muted.Render(" " + tabLabels[i] + " ")
		}
	}
	bar := "studytrace  " + strings.Join(parts, theme.Muted.Render(" │ "))
	return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar)
}

func (m Model) renderSettings() string {
	o := m.input.Options
	course := "all courses"
	if len(o.Courses) > 0 {
		course = strings.Join(o.Courses, ", ")
	}
	line1 := fmt.Sprintf("%s  %s  %s  %s",
		theme.Hot.Render(o.SessionType), course,
		theme.Muted.Render("granularity "+orDefault(m.input.Granularity, "task")),
		theme.Muted.Render(fmt.Sprintf("max %d min", m.input.MaxMinutes)))
	line2 := strings.Join([]string{
		theme.Switch("authentication", o.UseAuthentication),
		theme.Switch(fmt.Sprintf("inactivity %s min", strconv.FormatFloat(o.GeneralThresholdMinutes, 'f', -1, 64)), o.UseInactivity),
		theme.Switch("outlier detection", o.OutlierDetection),
		theme.Switch("drop attendance-only", o.ExcludeAttendanceOnly),
	}, "  ")
	if len(o.ComponentThresholds) > 0 {
		names := slices.Sorted(maps.Keys(o.ComponentThresholds))
		overrides := make([]string, len(names))
		for i, n := range names {
			overrides[i] = fmt.Sprintf("%s %s", n, strconv.FormatFloat(o.ComponentThresholds[n], 'f', -1, 64))
		}
		line2 += "\n" + theme.Muted.Render("overrides: "+strings.Join(overrides, ", "))
	}
	return theme.Pane.Width(max(m.width-2, 20)).Render(line1 + "\n" + line2)
}

func (m Model) renderStatusBar() string {
	left := m.status
	right := theme.Muted.Render("?:help  tab:switch  :::settings  q:quit")
	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(left + strings.Repeat(" ", gap) + right)
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// ─── helpers ─────────────────────────────────────────────────────────────────

func (m *Model) propagateSize() {
	sz := tea.WindowSizeMsg{Width: m.width, Height: max(m.height-8, 1)}
	m.hoursView, _ = m.hoursView.Update(sz)
	m.recommendView, _ = m.recommendView.Update(sz)
}

// reload rebuilds the report and, when forced or when one of their inputs
// changed, the recommendations.
func (m *Model) reload(force bool) tea.Cmd {
	m.status = "segmenting…"
	cmds := []tea.Cmd{m.hoursView.Load(m.input)}
	rec := m.recommendInput()
	if k := recommendKey(rec); force || k != m.recKey {
		m.recKey = k
		cmds = append(cmds, m.recommendView.Load(rec))
	}
	return tea.Batch(cmds...)
}

func (m Model) recommendInput() recommendationdto.RecommendInput {
	return recommendationdto.RecommendInput{
		SessionType: m.input.Options.SessionType,
		Courses:     m.input.Options.Courses,
		MaxMinutes:  m.input.MaxMinutes,
		Window:      m.input.Window,
	}
}

func recommendKey(in recommendationdto.RecommendInput) string {
	return fmt.Sprintf("%s|%s|%d", in.SessionType, strings.Join(in.Courses, ","), in.MaxMinutes)
}

// ─── async commands ──────────────────────────────────────────────────────────

func (m Model) loadCoursesCmd() tea.Cmd {
	if m.courses == nil {
		return nil
	}
	port, window := m.courses, m.input.Window
	return func() tea.Msg {
		courses, err := port.Courses(context.Background(), window)
		return coursesLoadedMsg{courses: courses, err: err}
	}
}

func (m Model) exportCmd(path string) tea.Cmd {
	port, input := m.report, m.input
	return func() tea.Msg {
		if port == nil {
			return exportedMsg{err: fmt.Errorf("report adapter not configured")}
		}
		out, err := port.Export(context.Background(), input, path)
		return exportedMsg{out: out, err: err}
	}
}
