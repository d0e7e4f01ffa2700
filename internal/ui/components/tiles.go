package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/bulglo/internal/ui/theme"
)

// Tiles is a bank of tokens the learner picks one at a time to build an
// ordered answer. Each tile can be used once; backspace returns the last
// pick to the bank.
type Tiles struct {
	Bank   []string
	Cursor int
	Picked []int
	Locked bool
}

// NewTiles creates a tile bank.
func NewTiles(bank []string) Tiles {
	return Tiles{Bank: bank}
}

// Update handles navigation and picking. changed is true when the picked
// sequence changed.
func (t Tiles) Update(msg tea.Msg) (tiles Tiles, changed bool) {
	if t.Locked {
		return t, false
	}
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return t, false
	}

	switch kmsg.String() {
	case "left", "h":
		if t.Cursor > 0 {
			t.Cursor--
		}
	case "right", "l":
		if t.Cursor < len(t.Bank)-1 {
			t.Cursor++
		}
	case "space":
		if t.Cursor < len(t.Bank) && !t.used(t.Cursor) {
			t.Picked = append(t.Picked, t.Cursor)
			return t, true
		}
	case "backspace":
		if len(t.Picked) > 0 {
			t.Picked = t.Picked[:len(t.Picked)-1]
			return t, true
		}
	}
	return t, false
}

// Sequence returns the picked tokens in order.
func (t Tiles) Sequence() []string {
	out := make([]string, len(t.Picked))
	for i, idx := range t.Picked {
		out[i] = t.Bank[idx]
	}
	return out
}

// Clear returns every tile to the bank.
func (t *Tiles) Clear() {
	t.Picked = nil
}

func (t Tiles) used(idx int) bool {
	for _, p := range t.Picked {
		if p == idx {
			return true
		}
	}
	return false
}

// View renders the answer line above the bank.
func (t Tiles) View(sep string) string {
	answer := strings.Join(t.Sequence(), sep)
	if answer == "" {
		answer = theme.Hint.Render("(pick tiles with space)")
	} else {
		answer = lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).Render(answer)
	}

	cells := make([]string, len(t.Bank))
	for i, tok := range t.Bank {
		style := theme.ButtonInactive
		switch {
		case t.used(i):
			style = style.Foreground(theme.TextDim).Strikethrough(true)
		case i == t.Cursor && !t.Locked:
			style = style.BorderForeground(theme.Primary).Foreground(theme.Primary).Bold(true)
		}
		cells[i] = style.Render(tok)
	}
	return answer + "\n\n" + lipgloss.JoinHorizontal(lipgloss.Top, cells...)
}
