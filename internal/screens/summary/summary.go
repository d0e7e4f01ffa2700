package summary

import (
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/bulglo/internal/badges"
	"github.com/abhisek/bulglo/internal/progress"
	"github.com/abhisek/bulglo/internal/router"
	"github.com/abhisek/bulglo/internal/screen"
	"github.com/abhisek/bulglo/internal/ui/layout"
	"github.com/abhisek/bulglo/internal/ui/theme"
)

// SummaryScreen displays the result of a finished lesson.
type SummaryScreen struct {
	title   string
	result  progress.LessonResult
	awarded []badges.Badge
	next    string
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

// New creates a new SummaryScreen. next is the title of the lesson that
// comes after, or empty.
func New(title string, result progress.LessonResult, awarded []badges.Badge, next string) *SummaryScreen {
	return &SummaryScreen{title: title, result: result, awarded: awarded, next: next}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Lesson Summary"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Continue"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok && kmsg.String() == "enter" {
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	}
	return s, nil
}

func (s *SummaryScreen) View(width, height int) string {
	res := s.result
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)

	var b strings.Builder

	b.WriteString(center.Foreground(theme.Primary).Bold(true).Render(headline(res.Score)))
	b.WriteString("\n")
	b.WriteString(center.Foreground(theme.TextDim).Render(s.title))
	b.WriteString("\n\n")

	spent := timeSpent(res)
	mins := int(spent.Minutes())
	secs := int(spent.Seconds()) % 60
	stats := fmt.Sprintf("Score: %d%%        Correct: %d/%d        Time: %d:%02d",
		res.Score, res.CorrectAnswers, res.TotalExercises, mins, secs)
	b.WriteString(center.Foreground(theme.Text).Render(stats))
	b.WriteString("\n\n")

	b.WriteString(center.Foreground(theme.Accent).Bold(true).Render(fmt.Sprintf("+%d XP", res.XPEarned)))
	b.WriteString("\n\n")

	if len(s.awarded) > 0 {
		divider := lipgloss.NewStyle().Foreground(theme.Border).Render(
			strings.Repeat("─", min(width-8, 40)))
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			lipgloss.NewStyle().Foreground(theme.TextDim).Render("New badges")))
		b.WriteString("\n")
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, divider))
		b.WriteString("\n")
		for _, badge := range s.awarded {
			line := fmt.Sprintf("%s  %s  %s", badge.Icon, badge.Name, badge.Description)
			b.WriteString(center.Foreground(theme.Success).Render(line))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if s.next != "" {
		b.WriteString(center.Foreground(theme.TextDim).Render("Up next: " + s.next))
		b.WriteString("\n")
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, b.String())
}

func timeSpent(res progress.LessonResult) time.Duration {
	var d time.Duration
	for _, r := range res.ExerciseResults {
		d += r.TimeSpent
	}
	return d
}

func headline(score int) string {
	switch {
	case score == 100:
		return "Perfect lesson!"
	case score >= 80:
		return "Great work!"
	case score >= 50:
		return "Lesson complete"
	default:
		return "Lesson complete. Keep practicing!"
	}
}
