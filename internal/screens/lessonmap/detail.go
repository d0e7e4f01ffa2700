package lessonmap

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/bulglo/internal/catalog"
	"github.com/abhisek/bulglo/internal/router"
	"github.com/abhisek/bulglo/internal/screen"
	"github.com/abhisek/bulglo/internal/screens/player"
	"github.com/abhisek/bulglo/internal/ui/layout"
	"github.com/abhisek/bulglo/internal/ui/theme"
)

// LessonDetailScreen shows a lesson's contents and starts it.
type LessonDetailScreen struct {
	svc    *screen.Services
	lesson catalog.Lesson
	state  State
}

var _ screen.Screen = (*LessonDetailScreen)(nil)
var _ screen.KeyHintProvider = (*LessonDetailScreen)(nil)

func newLessonDetail(svc *screen.Services, l catalog.Lesson, state State) *LessonDetailScreen {
	return &LessonDetailScreen{svc: svc, lesson: l, state: state}
}

func (d *LessonDetailScreen) Init() tea.Cmd { return nil }
func (d *LessonDetailScreen) Title() string { return d.lesson.Title }

func (d *LessonDetailScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok && kmsg.String() == "enter" && d.state != StateLocked {
		p := player.New(d.svc, d.lesson)
		return d, func() tea.Msg { return router.ReplaceScreenMsg{Screen: p} }
	}
	return d, nil
}

func (d *LessonDetailScreen) KeyHints() []layout.KeyHint {
	if d.state == StateLocked {
		return []layout.KeyHint{{Key: "Esc", Description: "Back"}}
	}
	label := "Start"
	if d.state == StateCompleted {
		label = "Play again"
	}
	return []layout.KeyHint{
		{Key: "Enter", Description: label},
		{Key: "Esc", Description: "Back"},
	}
}

func (d *LessonDetailScreen) View(width, height int) string {
	l := d.lesson
	contentWidth := min(width-8, 70)

	var b strings.Builder

	b.WriteString(lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true).
		Render(fmt.Sprintf("  %s  %s", d.state.Icon(), l.Title)))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("  %s", d.state.Label())))
	b.WriteString("\n\n")

	dimStyle := lipgloss.NewStyle().Foreground(theme.TextDim)
	valStyle := lipgloss.NewStyle().Foreground(theme.Text)

	if u, ok := d.svc.Catalog.Unit(l.UnitID); ok {
		b.WriteString(dimStyle.Render("  Unit:       ") + valStyle.Render(u.Title) + "\n")
	}
	b.WriteString(dimStyle.Render("  Exercises:  ") + valStyle.Render(fmt.Sprintf("%d", len(l.Exercises))) + "\n")
	if rec, ok := d.svc.Ledger.State().CompletedLessons[l.ID]; ok {
		b.WriteString(dimStyle.Render("  Last score: ") + valStyle.Render(fmt.Sprintf("%d%%", rec.Score)) + "\n")
	}

	if len(l.Prerequisites) > 0 {
		b.WriteString("\n")
		b.WriteString(dimStyle.Render("  Requires:"))
		b.WriteString("\n")
		completed := d.svc.Ledger.Completed()
		for _, id := range l.Prerequisites {
			title := id
			if pre, ok := d.svc.Catalog.Lesson(id); ok {
				title = pre.Title
			}
			mark := theme.Incorrect.Render("✗")
			if completed[id] {
				mark = theme.Correct.Render("✓")
			}
			b.WriteString(fmt.Sprintf("    %s %s\n", mark, valStyle.Render(title)))
		}
	}

	if vocab := d.svc.Catalog.LessonVocab(l.ID); len(vocab) > 0 {
		b.WriteString("\n")
		b.WriteString(dimStyle.Render("  Words in this lesson:"))
		b.WriteString("\n")
		for _, v := range vocab {
			line := fmt.Sprintf("    %s  %s", v.BG, v.EN)
			if v.Translit != "" {
				line += dimStyle.Render(fmt.Sprintf("  (%s)", v.Translit))
			}
			b.WriteString(lipgloss.NewStyle().Width(contentWidth).Foreground(theme.Text).Render(line))
			b.WriteString("\n")
		}
	}

	return b.String()
}
