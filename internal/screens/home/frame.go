package home

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/bulglo/internal/screens/welcome"
	"github.com/abhisek/bulglo/internal/ui/theme"
)

// buttonWidth is the fixed width for menu buttons.
const buttonWidth = 26

// contentWidth returns the uniform inner width used for all sections.
func contentWidth(frameWidth int) int {
	return max(min(frameWidth-6, 60), 20)
}

func renderTitle(cw int, compact bool) string {
	w := cw
	if compact {
		w = 0
	}
	return lipgloss.NewStyle().Width(cw).Align(lipgloss.Center).Render(welcome.RenderBanner(w))
}

type stats struct {
	level, xp, streak, due int
}

// renderStatsBar renders the dashboard stats in a bordered box matching content width.
func renderStatsBar(s stats, cw int, compact bool) string {
	level := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
	xp := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)
	streak := lipgloss.NewStyle().Foreground(theme.Error).Bold(true)

	var line string
	if compact {
		line = fmt.Sprintf("%s %s %s %s",
			level.Render(fmt.Sprintf("L%d", s.level)),
			xp.Render(fmt.Sprintf("%dXP", s.xp)),
			streak.Render(fmt.Sprintf("🔥%d", s.streak)),
			dueText(s.due, true),
		)
	} else {
		line = fmt.Sprintf("%s  %s  %s  %s",
			level.Render(fmt.Sprintf("LEVEL %d", s.level)),
			xp.Render(fmt.Sprintf("%d XP", s.xp)),
			streak.Render(fmt.Sprintf("🔥 %d", s.streak)),
			dueText(s.due, false),
		)
	}

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Secondary).
		Width(cw - 2).
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(line)
}

func dueText(due int, compact bool) string {
	if due == 0 {
		if compact {
			return lipgloss.NewStyle().Foreground(theme.TextDim).Render("↻0")
		}
		return lipgloss.NewStyle().Foreground(theme.TextDim).Render("↻ NONE DUE")
	}
	active := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true)
	if compact {
		return active.Render(fmt.Sprintf("↻%d", due))
	}
	return active.Render(fmt.Sprintf("↻ %d DUE", due))
}

// renderMenu renders each menu item as a fixed-width button.
func renderMenu(items []string, selected int, cw int, disabled map[int]bool) string {
	base := lipgloss.NewStyle().
		Width(buttonWidth).
		Align(lipgloss.Center).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(0, 1)
	selectedBtn := base.
		Bold(true).
		Foreground(theme.BgCard).
		Background(theme.Primary).
		BorderForeground(theme.Primary)

	var buttons []string
	for i, label := range items {
		switch {
		case disabled[i]:
			buttons = append(buttons, base.Foreground(theme.TextDim).Render(label))
		case i == selected:
			buttons = append(buttons, selectedBtn.Render("▸ "+label))
		default:
			buttons = append(buttons, base.Foreground(theme.Text).Render(label))
		}
	}
	return lipgloss.NewStyle().Width(cw).Align(lipgloss.Center).Render(strings.Join(buttons, "\n"))
}

// renderMenuCompact renders menu items as plain lines for small terminals
// where bordered buttons would overflow.
func renderMenuCompact(items []string, selected int, cw int, disabled map[int]bool) string {
	var lines []string
	for i, label := range items {
		switch {
		case disabled[i]:
			lines = append(lines, lipgloss.NewStyle().Foreground(theme.TextDim).Render("   "+label))
		case i == selected:
			lines = append(lines, lipgloss.NewStyle().
				Foreground(theme.BgCard).
				Background(theme.Primary).
				Bold(true).
				Render(" ▸ "+label+" "))
		default:
			lines = append(lines, lipgloss.NewStyle().Foreground(theme.Text).Render("   "+label))
		}
	}
	return lipgloss.NewStyle().Width(cw).Align(lipgloss.Center).Render(strings.Join(lines, "\n"))
}

// renderFrame wraps content in a double border, centered in the given area.
func renderFrame(content string, width, height int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Primary).
		Width(width - 2).
		Height(height - 2).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}
