// Package profile shows the learner's level, streak and answer history, and
// lets them change settings.
package profile

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/bulglo/internal/progress"
	"github.com/abhisek/bulglo/internal/screen"
	"github.com/abhisek/bulglo/internal/store"
	"github.com/abhisek/bulglo/internal/ui/components"
	"github.com/abhisek/bulglo/internal/ui/layout"
	"github.com/abhisek/bulglo/internal/ui/theme"
)

// ThemeChangedMsg is emitted after the learner picks a new theme.
type ThemeChangedMsg struct {
	Theme progress.Theme
}

type statsLoadedMsg struct {
	stats store.AnswerStats
	err   error
}

var themeCycle = []progress.Theme{progress.ThemeSystem, progress.ThemeLight, progress.ThemeDark}

// ProfileScreen shows learner stats and settings.
type ProfileScreen struct {
	svc    *screen.Services
	stats  store.AnswerStats
	loaded bool
	err    error
}

var _ screen.Screen = (*ProfileScreen)(nil)
var _ screen.KeyHintProvider = (*ProfileScreen)(nil)

// New creates a new ProfileScreen.
func New(svc *screen.Services) *ProfileScreen {
	return &ProfileScreen{svc: svc}
}

func (s *ProfileScreen) Init() tea.Cmd {
	if s.svc.Events == nil {
		s.loaded = true
		return nil
	}
	events := s.svc.Events
	return func() tea.Msg {
		stats, err := events.AnswerStats(context.Background())
		return statsLoadedMsg{stats: stats, err: err}
	}
}

func (s *ProfileScreen) Title() string { return "Profile" }

func (s *ProfileScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "t", Description: "Theme"},
		{Key: "s", Description: "Sound"},
		{Key: "h", Description: "Haptics"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *ProfileScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case statsLoadedMsg:
		s.loaded = true
		s.stats = msg.stats
		s.err = msg.err
		if msg.err != nil {
			s.svc.Log().Warn("load answer stats", "error", msg.err)
		}
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "t":
			next := nextTheme(s.svc.Ledger.State().Settings.Theme)
			if err := s.svc.Ledger.SetTheme(next); err != nil {
				s.svc.Log().Warn("set theme", "error", err)
				return s, nil
			}
			return s, func() tea.Msg { return ThemeChangedMsg{Theme: next} }
		case "s":
			s.svc.Ledger.ToggleSound()
		case "h":
			s.svc.Ledger.ToggleHaptics()
		}
	}
	return s, nil
}

func nextTheme(cur progress.Theme) progress.Theme {
	for i, t := range themeCycle {
		if t == cur {
			return themeCycle[(i+1)%len(themeCycle)]
		}
	}
	return themeCycle[0]
}

func (s *ProfileScreen) View(width, height int) string {
	st := s.svc.Ledger.State()
	contentWidth := min(width-4, 56)

	label := lipgloss.NewStyle().Foreground(theme.TextDim).Width(18)
	value := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)

	var b strings.Builder
	b.WriteString(theme.Title.Render(fmt.Sprintf("Level %d", st.Level)))
	b.WriteString("\n\n")

	into := st.XP % progress.XPPerLevel
	bar := components.Meter{
		Done:  into,
		Total: progress.XPPerLevel,
		Unit:  fmt.Sprintf("XP to level %d", st.Level+1),
		Width: contentWidth,
	}
	b.WriteString(bar.View())
	b.WriteString("\n\n")

	row := func(k, v string) {
		b.WriteString(label.Render(k) + value.Render(v) + "\n")
	}
	row("Total XP", fmt.Sprintf("%d", st.XP))
	row("Streak", fmt.Sprintf("%d %s", st.StreakDays, dayWord(st.StreakDays)))
	row("Lessons completed", fmt.Sprintf("%d", len(st.CompletedLessons)))
	row("Badges", fmt.Sprintf("%d", len(st.Badges)))
	b.WriteString("\n")

	switch {
	case !s.loaded:
		b.WriteString(theme.Hint.Render("Loading answer history..."))
		b.WriteString("\n")
	case s.err != nil:
		b.WriteString(theme.Incorrect.Render("Answer history unavailable."))
		b.WriteString("\n")
	default:
		row("Answers", fmt.Sprintf("%d", s.stats.Answered))
		row("Accuracy", accuracy(s.stats))
		row("Skipped", fmt.Sprintf("%d", s.stats.Skipped))
	}
	b.WriteString("\n")

	b.WriteString(theme.Subtitle.Render("Settings"))
	b.WriteString("\n")
	row("Theme", string(st.Settings.Theme))
	row("Sound", onOff(st.Settings.SoundEnabled))
	row("Haptics", onOff(st.Settings.Haptics))

	card := theme.Card.Width(contentWidth + 4).Render(b.String())
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card)
}

func accuracy(s store.AnswerStats) string {
	if s.Answered == 0 {
		return "-"
	}
	return fmt.Sprintf("%d%%", s.Correct*100/s.Answered)
}

func dayWord(n int) string {
	if n == 1 {
		return "day"
	}
	return "days"
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
