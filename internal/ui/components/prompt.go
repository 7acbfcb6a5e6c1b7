package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"studytrace/internal/ui/theme"
)

// PromptSubmitMsg is emitted when the user confirms a settings command.
type PromptSubmitMsg struct{ Input string }

// PromptCancelMsg is emitted when the user presses esc.
type PromptCancelMsg struct{}

var (
	promptStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Peach).
			Background(theme.Mantle).
			Foreground(theme.Text).
			Padding(0, 1)

	hintStyle = lipgloss.NewStyle().Foreground(theme.Subtext0)
)

// promptHints must stay in sync with the switch in app/model.go runCommand.
var promptHints = []string{
	"threshold <minutes>",
	"component <name> <minutes>",
	"component <name> clear",
	"course <name>",
	"course clear",
	"max <minutes>",
	"granularity <task|activity>",
	"export <path>",
}

const maxHistory = 20

// Prompt is a one-line settings command input. Up and down walk through the
// commands submitted earlier in the session.
type Prompt struct {
	input   textinput.Model
	history []string
	cursor  int
	visible bool
	width   int
}

func NewPrompt() Prompt {
	ti := textinput.New()
	ti.Placeholder = "threshold 20"
	ti.CharLimit = 256
	return Prompt{input: ti}
}

func (p Prompt) Visible() bool { return p.visible }

// Open shows the prompt with an empty input and returns the focus command.
func (p *Prompt) Open() tea.Cmd {
	p.visible = true
	p.cursor = len(p.history)
	p.input.SetValue("")
	return p.input.Focus()
}

func (p *Prompt) SetWidth(w int) { p.width = w }

// History returns the submitted commands, oldest first.
func (p Prompt) History() []string { return p.history }

func (p Prompt) Update(msg tea.Msg) (Prompt, tea.Cmd) {
	if !p.visible {
		return p, nil
	}
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "esc":
			p.close()
			return p, func() tea.Msg { return PromptCancelMsg{} }
		case "enter":
			val := strings.TrimSpace(p.input.Value())
			p.close()
			if val != "" {
				p.remember(val)
			}
			return p, func() tea.Msg { return PromptSubmitMsg{Input: val} }
		case "up":
			if p.cursor > 0 {
				p.cursor--
				p.input.SetValue(p.history[p.cursor])
				p.input.CursorEnd()
			}
			return p, nil
		case "down":
			if p.cursor < len(p.history)-1 {
				p.cursor++
				p.input.SetValue(p.history[p.cursor])
			} else {
				p.cursor = len(p.history)
				p.input.SetValue("")
			}
			p.input.CursorEnd()
			return p, nil
		}
	}
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return p, cmd
}

func (p *Prompt) close() {
	p.visible = false
	p.input.Blur()
}

func (p *Prompt) remember(cmd string) {
	if n := len(p.history); n > 0 && p.history[n-1] == cmd {
		return
	}
	p.history = append(p.history, cmd)
	if len(p.history) > maxHistory {
		p.history = p.history[len(p.history)-maxHistory:]
	}
}

func (p Prompt) View() string {
	if !p.visible {
		return ""
	}
	word := strings.ToLower(strings.SplitN(p.input.Value(), " ", 2)[0])

	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Settings") + "\n")
	sb.WriteString("> " + p.input.View() + "\n\n")
	for _, h := range promptHints {
		if word == "" || strings.HasPrefix(h, word) {
			sb.WriteString(hintStyle.Render("  "+h) + "\n")
		}
	}

	w := p.width
	if w < 20 {
		w = 64
	}
	return promptStyle.Width(w - 2).Render(sb.String())
}
