package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/bulglo/internal/ui/theme"
)

// Meter shows how far the learner is through a counted goal, such as the
// exercises of a lesson or the XP needed for the next level. When Marks is
// set the bar is drawn as one segment per step, colored by its result.
type Meter struct {
	Done  int
	Total int
	Unit  string
	Marks []bool
	Width int
}

// LessonMeter builds a segmented meter from the per-exercise correctness of
// the results recorded so far.
func LessonMeter(marks []bool, total, width int) Meter {
	return Meter{
		Done:  len(marks),
		Total: total,
		Unit:  "exercises",
		Marks: marks,
		Width: width,
	}
}

// Label returns the count shown before the bar, e.g. "3/10 exercises".
func (m Meter) Label() string {
	s := fmt.Sprintf("%d/%d", m.clampedDone(), m.Total)
	if m.Unit != "" {
		s += " " + m.Unit
	}
	return s
}

func (m Meter) clampedDone() int {
	return max(0, min(m.Done, m.Total))
}

type segment int

const (
	segPending segment = iota
	segCorrect
	segIncorrect
	segFilled
)

// segments lays the bar out across width cells. A segmented bar gives each
// step an equal share of cells with any remainder going to the first steps;
// it falls back to a plain fill when there are more steps than cells.
func (m Meter) segments(width int) []segment {
	out := make([]segment, width)
	if m.Total <= 0 || width <= 0 {
		return out
	}
	done := m.clampedDone()

	if m.Marks == nil || m.Total > width {
		filled := width * done / m.Total
		for i := range filled {
			out[i] = segFilled
		}
		return out
	}

	per, extra := width/m.Total, width%m.Total
	pos := 0
	for step := range m.Total {
		n := per
		if step < extra {
			n++
		}
		seg := segPending
		if step < len(m.Marks) && step < done {
			seg = segIncorrect
			if m.Marks[step] {
				seg = segCorrect
			}
		}
		for range n {
			out[pos] = seg
			pos++
		}
	}
	return out
}

// View renders the label followed by the bar.
func (m Meter) View() string {
	label := lipgloss.NewStyle().Foreground(theme.Text).Render(m.Label()) + "  "
	barWidth := max(m.Width-lipgloss.Width(label), 4)

	styles := map[segment]lipgloss.Style{
		segPending:   lipgloss.NewStyle().Background(theme.Border),
		segCorrect:   lipgloss.NewStyle().Background(theme.Success),
		segIncorrect: lipgloss.NewStyle().Background(theme.Error),
		segFilled:    lipgloss.NewStyle().Background(theme.Secondary),
	}

	var b strings.Builder
	b.WriteString(label)
	segs := m.segments(barWidth)
	for i := 0; i < len(segs); {
		j := i
		for j < len(segs) && segs[j] == segs[i] {
			j++
		}
		b.WriteString(styles[segs[i]].Render(strings.Repeat(" ", j-i)))
		i = j
	}
	return b.String()
}
