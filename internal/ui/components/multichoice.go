package components

import (
	"fmt"
	"strconv"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/bulglo/internal/ui/theme"
)

// MultiChoice is a single-answer option list used for multiple choice and
// true/false exercises. It only tracks the cursor and the pick; feedback
// colors are set by the owner through Mark.
type MultiChoice struct {
	Options []string
	Cursor  int
	Chosen  int
	Correct int
	Wrong   bool
	Locked  bool
}

// NewMultiChoice creates a new multiple-choice component.
func NewMultiChoice(options []string) MultiChoice {
	return MultiChoice{
		Options: options,
		Chosen:  -1,
		Correct: -1,
	}
}

// Update handles navigation. picked is true when the learner chose an
// option with enter or its number key.
func (m MultiChoice) Update(msg tea.Msg) (mc MultiChoice, picked bool) {
	if m.Locked {
		return m, false
	}
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, false
	}

	switch key := kmsg.String(); key {
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j":
		if m.Cursor < len(m.Options)-1 {
			m.Cursor++
		}
	case "enter":
		m.Chosen = m.Cursor
		return m, true
	default:
		if n, err := strconv.Atoi(key); err == nil && n >= 1 && n <= len(m.Options) {
			m.Cursor = n - 1
			m.Chosen = m.Cursor
			return m, true
		}
	}
	return m, false
}

// Selected returns the chosen option text.
func (m MultiChoice) Selected() (string, bool) {
	if m.Chosen < 0 || m.Chosen >= len(m.Options) {
		return "", false
	}
	return m.Options[m.Chosen], true
}

// Mark highlights the correct option and, when wrong is set, the chosen
// one in the error color.
func (m *MultiChoice) Mark(correct int, wrong bool) {
	m.Correct = correct
	m.Wrong = wrong
}

// Clear removes the pick and any feedback.
func (m *MultiChoice) Clear() {
	m.Chosen = -1
	m.Correct = -1
	m.Wrong = false
}

// View renders the options.
func (m MultiChoice) View() string {
	var s string
	for i, opt := range m.Options {
		prefix := "  "
		if i == m.Cursor && !m.Locked {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%d)  %s", prefix, i+1, opt)

		switch {
		case i == m.Correct:
			s += lipgloss.NewStyle().Foreground(theme.Success).Bold(true).Render(line) + "\n"
		case i == m.Chosen && m.Wrong:
			s += lipgloss.NewStyle().Foreground(theme.Error).Bold(true).Render(line) + "\n"
		case i == m.Chosen:
			s += lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).Render(line) + "\n"
		case m.Locked:
			s += lipgloss.NewStyle().Foreground(theme.TextDim).Render(line) + "\n"
		case i == m.Cursor:
			s += lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(line) + "\n"
		default:
			s += lipgloss.NewStyle().Foreground(theme.Text).Render(line) + "\n"
		}
	}
	return s
}
