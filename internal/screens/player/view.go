package player

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/bulglo/internal/attempt"
	"github.com/abhisek/bulglo/internal/exercise"
	"github.com/abhisek/bulglo/internal/ui/components"
	"github.com/abhisek/bulglo/internal/ui/theme"
)

func (p *Player) View(width, height int) string {
	if p.run == nil {
		msg := "This lesson cannot be played."
		if p.err != nil {
			msg += "\n\n" + p.err.Error()
		}
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			theme.Incorrect.Render(msg))
	}
	if p.run.Done() {
		return ""
	}

	ex := p.current()
	m := p.machine()
	contentWidth := min(width-4, 72)

	var b strings.Builder

	var marks []bool
	for _, res := range p.run.Results() {
		marks = append(marks, res.Correct)
	}
	bar := components.LessonMeter(marks, p.run.Total(), contentWidth)
	b.WriteString(bar.View())
	b.WriteString("\n")
	b.WriteString(p.renderLast())
	b.WriteString("\n\n")

	b.WriteString(theme.Hint.Render(ex.Kind.DisplayName()))
	b.WriteString("\n")
	prompt := lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Width(contentWidth)
	b.WriteString(prompt.Render(ex.Prompt))
	b.WriteString("\n\n")

	if ex.Supported() {
		b.WriteString(p.renderBody(ex, m))
	} else {
		b.WriteString(theme.Incorrect.Render("This exercise can't be shown."))
		b.WriteString("\n")
		b.WriteString(theme.Hint.Render("Press Ctrl+S to skip it."))
	}
	b.WriteString("\n\n")

	if fb := p.renderFeedback(ex, m); fb != "" {
		b.WriteString(fb)
		b.WriteString("\n")
	}
	if p.tip != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Secondary).Width(contentWidth).Render("Tip: " + p.tip))
		b.WriteString("\n")
	}
	if p.notice != "" {
		b.WriteString(theme.Hint.Render(p.notice))
		b.WriteString("\n")
	}

	card := theme.Card.Width(contentWidth + 4).Render(b.String())
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card)
}

func (p *Player) renderBody(ex *exercise.Exercise, m *attempt.Machine) string {
	switch pl := ex.Payload.(type) {
	case exercise.MultipleChoice:
		return p.choice.View()
	case exercise.TrueFalse:
		return lipgloss.NewStyle().Foreground(theme.Accent).Render(pl.Statement) + "\n\n" + p.choice.View()
	case exercise.SelectLetters:
		return p.tiles.View("")
	case exercise.OrderWords:
		return p.tiles.View(" ")
	case exercise.MatchPairs:
		return p.pairs.View()
	case exercise.TypeAnswer:
		return p.input.View()
	case exercise.Flashcard:
		front := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(pl.Front)
		if !m.Flipped() {
			return front + "\n\n" + theme.Hint.Render("Press space to flip the card.")
		}
		back := lipgloss.NewStyle().Foreground(theme.Text).Render(pl.Back)
		return front + "\n" + back + "\n\n" + theme.Hint.Render("1 Hard   2 Good   3 Easy")
	default:
		return ""
	}
}

func (p *Player) renderFeedback(ex *exercise.Exercise, m *attempt.Machine) string {
	switch m.Phase() {
	case attempt.PhaseCorrect:
		s := theme.Correct.Render("Correct!")
		if m.Verdict().CaseMismatch {
			s += "  " + theme.Hint.Render("Watch the spelling: "+expectedText(ex))
		}
		return s
	case attempt.PhaseRetrying:
		left := attempt.MaxAttempts - m.Attempts()
		return theme.Incorrect.Render(fmt.Sprintf("Not quite. %d %s left.", left, plural(left, "try", "tries")))
	case attempt.PhaseRevealed:
		return theme.Incorrect.Render("The answer is: ") + theme.Body.Render(expectedText(ex))
	case attempt.PhaseConfidenceRating:
		return theme.Incorrect.Render("The answer is: ") + theme.Body.Render(expectedText(ex)) +
			"\n" + theme.Body.Render("How well did you know it? 0 (not at all) to 4 (perfectly)")
	case attempt.PhaseSkipped:
		return theme.Hint.Render("Skipped. The answer is: ") + theme.Body.Render(expectedText(ex))
	}
	return ""
}

// renderLast shows how the previous exercise ended.
func (p *Player) renderLast() string {
	switch {
	case p.last == nil:
		return ""
	case p.last.Skipped:
		return theme.Hint.Render("Previous: skipped")
	case p.last.Correct:
		return theme.Correct.Render("Previous: ✓")
	default:
		return theme.Incorrect.Render("Previous: ✗")
	}
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
