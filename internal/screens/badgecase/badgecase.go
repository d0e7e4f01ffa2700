package badgecase

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/bulglo/internal/badges"
	"github.com/abhisek/bulglo/internal/screen"
	"github.com/abhisek/bulglo/internal/ui/layout"
	"github.com/abhisek/bulglo/internal/ui/theme"
)

type countsLoadedMsg struct {
	Counts map[string]int
}

// BadgeCaseScreen shows every badge, which ones are unlocked and how often
// each was earned.
type BadgeCaseScreen struct {
	svc      *screen.Services
	counts   map[string]int
	selected int
	loaded   bool
}

var _ screen.Screen = (*BadgeCaseScreen)(nil)
var _ screen.KeyHintProvider = (*BadgeCaseScreen)(nil)

// New creates a new BadgeCaseScreen.
func New(svc *screen.Services) *BadgeCaseScreen {
	return &BadgeCaseScreen{svc: svc}
}

func (s *BadgeCaseScreen) Init() tea.Cmd {
	if s.svc.Badges == nil {
		s.loaded = true
		return nil
	}
	return func() tea.Msg {
		return countsLoadedMsg{Counts: s.svc.Badges.Counts(context.Background())}
	}
}

func (s *BadgeCaseScreen) Title() string {
	return "Badges"
}

func (s *BadgeCaseScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *BadgeCaseScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case countsLoadedMsg:
		s.counts = msg.Counts
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(badges.All())-1 {
				s.selected++
			}
		}
	}
	return s, nil
}

func (s *BadgeCaseScreen) View(width, height int) string {
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading badges...")
	}

	all := badges.All()
	unlocked := 0
	for _, b := range all {
		if s.svc.Ledger.HasBadge(string(b.ID)) {
			unlocked++
		}
	}

	var b strings.Builder

	b.WriteString(lipgloss.NewStyle().
		Width(width).Align(lipgloss.Center).Foreground(theme.Text).
		Render(fmt.Sprintf("\nUnlocked: %d of %d\n", unlocked, len(all))))
	b.WriteString("\n")

	divider := lipgloss.NewStyle().Foreground(theme.Border).Render(
		strings.Repeat("─", min(width-8, 60)))
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, divider))
	b.WriteString("\n\n")

	for i, badge := range all {
		has := s.svc.Ledger.HasBadge(string(badge.ID))

		icon := badge.Icon
		if !has {
			icon = "🔒"
		}
		earned := ""
		if n := s.counts[string(badge.ID)]; n > 0 {
			earned = fmt.Sprintf("earned %d×", n)
		}

		prefix := "  "
		if i == s.selected {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%s  %-16s %-42s %s", prefix, icon, badge.Name, badge.Description, earned)

		style := theme.Locked
		switch {
		case i == s.selected:
			style = lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
		case has:
			style = lipgloss.NewStyle().Foreground(theme.Success)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")
	}

	return b.String()
}
