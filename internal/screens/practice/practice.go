// Package practice lists the review items that are due and opens the
// lesson an item belongs to.
package practice

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/bulglo/internal/catalog"
	"github.com/abhisek/bulglo/internal/exercise"
	"github.com/abhisek/bulglo/internal/router"
	"github.com/abhisek/bulglo/internal/screen"
	"github.com/abhisek/bulglo/internal/screens/player"
	"github.com/abhisek/bulglo/internal/srs"
	"github.com/abhisek/bulglo/internal/ui/layout"
	"github.com/abhisek/bulglo/internal/ui/theme"
)

// entry is a due item resolved against the catalog.
type entry struct {
	due      srs.DueItem
	lesson   catalog.Lesson
	exercise *exercise.Exercise
}

// PracticeScreen shows the review queue.
type PracticeScreen struct {
	svc      *screen.Services
	entries  []entry
	orphans  int
	selected int
}

var _ screen.Screen = (*PracticeScreen)(nil)
var _ screen.KeyHintProvider = (*PracticeScreen)(nil)

// New creates a new PracticeScreen.
func New(svc *screen.Services) *PracticeScreen {
	s := &PracticeScreen{svc: svc}
	s.refresh()
	return s
}

func (s *PracticeScreen) refresh() {
	index := s.svc.Catalog.ReviewItems()
	s.entries = s.entries[:0]
	s.orphans = 0
	for _, d := range s.svc.Ledger.DueItems() {
		ref, ok := index[d.ID]
		if !ok {
			s.orphans++
			continue
		}
		s.entries = append(s.entries, entry{due: d, lesson: ref.Lesson, exercise: ref.Exercise})
	}
	if s.selected >= len(s.entries) {
		s.selected = max(len(s.entries)-1, 0)
	}
}

func (s *PracticeScreen) Init() tea.Cmd {
	return nil
}

func (s *PracticeScreen) Title() string {
	return "Practice"
}

func (s *PracticeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Practice lesson"},
		{Key: "r", Description: "Refresh"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *PracticeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}
	switch kmsg.String() {
	case "up", "k":
		if s.selected > 0 {
			s.selected--
		}
	case "down", "j":
		if s.selected < len(s.entries)-1 {
			s.selected++
		}
	case "r":
		s.refresh()
	case "enter":
		if len(s.entries) == 0 {
			return s, nil
		}
		p := player.New(s.svc, s.entries[s.selected].lesson)
		return s, func() tea.Msg { return router.PushScreenMsg{Screen: p} }
	}
	return s, nil
}

func (s *PracticeScreen) View(width, height int) string {
	st := s.svc.Ledger.State()
	now := s.svc.Now()
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(center.Foreground(theme.Text).Bold(true).Render(
		fmt.Sprintf("%d due for review  ·  %d lessons completed", len(s.entries), len(st.CompletedLessons))))
	b.WriteString("\n")

	counts := srs.CountByBucket(st.SRS)
	parts := make([]string, len(counts))
	for i, n := range counts {
		parts[i] = fmt.Sprintf("B%d: %d", i, n)
	}
	b.WriteString(center.Foreground(theme.TextDim).Render(strings.Join(parts, "   ")))
	b.WriteString("\n\n")

	if len(s.entries) == 0 {
		b.WriteString(center.Foreground(theme.TextDim).Italic(true).Render("Nothing to review right now. Nice!"))
		return b.String()
	}

	maxVisible := max(height-8, 3)
	start := 0
	if s.selected >= maxVisible {
		start = s.selected - maxVisible + 1
	}
	end := min(start+maxVisible, len(s.entries))

	for i := start; i < end; i++ {
		e := s.entries[i]
		status := "due"
		statusStyle := lipgloss.NewStyle().Foreground(theme.Secondary)
		if e.due.Item.Status(now) == srs.StatusOverdue {
			status = fmt.Sprintf("%.0fd overdue", e.due.Item.OverdueDays(now))
			statusStyle = lipgloss.NewStyle().Foreground(theme.Accent)
		}

		prompt := e.exercise.Prompt
		if r := []rune(prompt); len(r) > 36 {
			prompt = string(r[:35]) + "…"
		}
		prefix := "  "
		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			prefix = "▸ "
			style = style.Foreground(theme.Primary).Bold(true)
		}
		line := style.Render(fmt.Sprintf("%s%-20s %-37s B%d  ", prefix, e.lesson.Title, prompt, e.due.Item.Bucket)) +
			statusStyle.Render(status)
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, line))
		b.WriteString("\n")
	}
	if s.orphans > 0 {
		b.WriteString("\n")
		b.WriteString(center.Foreground(theme.TextDim).Render(
			fmt.Sprintf("%d due items belong to lessons no longer in the course", s.orphans)))
	}
	return b.String()
}
