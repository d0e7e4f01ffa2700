package components

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/bulglo/internal/ui/theme"
)

// Pairs matches every left item to one right item. The learner moves with
// up/down, switches columns with tab and links with space.
type Pairs struct {
	Left    []string
	Right   []string
	Cursor  [2]int
	Column  int
	Links   map[int]int
	Pending int
	Locked  bool
}

// NewPairs creates a matching board.
func NewPairs(left, right []string) Pairs {
	return Pairs{Left: left, Right: right, Links: map[int]int{}, Pending: -1}
}

// Update handles navigation and linking. changed is true when a link was
// added or removed.
func (p Pairs) Update(msg tea.Msg) (pairs Pairs, changed bool) {
	if p.Locked {
		return p, false
	}
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, false
	}

	size := len(p.Left)
	if p.Column == 1 {
		size = len(p.Right)
	}
	switch kmsg.String() {
	case "up", "k":
		if p.Cursor[p.Column] > 0 {
			p.Cursor[p.Column]--
		}
	case "down", "j":
		if p.Cursor[p.Column] < size-1 {
			p.Cursor[p.Column]++
		}
	case "tab", "left", "right":
		p.Column = 1 - p.Column
	case "space":
		return p.link()
	case "backspace":
		if _, ok := p.Links[p.Cursor[0]]; ok && p.Column == 0 {
			p.Links = p.copyLinks()
			delete(p.Links, p.Cursor[0])
			return p, true
		}
	}
	return p, false
}

func (p Pairs) link() (Pairs, bool) {
	if p.Column == 0 {
		p.Pending = p.Cursor[0]
		p.Column = 1
		return p, false
	}
	if p.Pending < 0 {
		return p, false
	}
	r := p.Cursor[1]
	p.Links = p.copyLinks()
	for l, rr := range p.Links {
		if rr == r {
			delete(p.Links, l)
		}
	}
	p.Links[p.Pending] = r
	p.Pending = -1
	p.Column = 0
	return p, true
}

func (p Pairs) copyLinks() map[int]int {
	out := make(map[int]int, len(p.Links))
	for k, v := range p.Links {
		out[k] = v
	}
	return out
}

// Complete reports whether every left item is linked.
func (p Pairs) Complete() bool {
	return len(p.Left) > 0 && len(p.Links) == len(p.Left)
}

// Sequence returns "left:right" entries in left-column order.
func (p Pairs) Sequence() []string {
	out := make([]string, 0, len(p.Left))
	for i, l := range p.Left {
		if r, ok := p.Links[i]; ok {
			out = append(out, l+":"+p.Right[r])
		}
	}
	return out
}

// Clear removes every link.
func (p *Pairs) Clear() {
	p.Links = map[int]int{}
	p.Pending = -1
	p.Column = 0
}

// View renders both columns side by side.
func (p Pairs) View() string {
	left := ""
	for i, item := range p.Left {
		line := item
		if r, ok := p.Links[i]; ok {
			line = fmt.Sprintf("%s → %s", item, p.Right[r])
		}
		left += p.cell(0, i, line) + "\n"
	}
	right := ""
	for i, item := range p.Right {
		right += p.cell(1, i, item) + "\n"
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(24).Render(left),
		right,
	)
}

func (p Pairs) cell(col, idx int, text string) string {
	prefix := "  "
	style := lipgloss.NewStyle().Foreground(theme.Text)
	if col == 0 && idx == p.Pending {
		style = style.Foreground(theme.Accent).Bold(true)
	}
	if !p.Locked && p.Column == col && p.Cursor[col] == idx {
		prefix = "▸ "
		style = style.Foreground(theme.Primary).Bold(true)
	}
	return style.Render(prefix + text)
}
