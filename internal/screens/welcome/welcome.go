// Package welcome is the splash shown at startup.
package welcome

import (
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/bulglo/internal/router"
	"github.com/abhisek/bulglo/internal/screen"
	"github.com/abhisek/bulglo/internal/ui/theme"
)

const (
	tickInterval = 100 * time.Millisecond
	phase1End    = 400 * time.Millisecond
	phase2End    = 1000 * time.Millisecond
	totalDur     = 2000 * time.Millisecond
)

const stripeWidth = 24

type tickMsg time.Time

// WelcomeScreen draws the flag stripes, then the banner and a greeting,
// before handing over to the home screen.
type WelcomeScreen struct {
	homeFactory  func() screen.Screen
	streak       int
	elapsed      time.Duration
	transitioned bool
}

var _ screen.Screen = (*WelcomeScreen)(nil)

// New creates a WelcomeScreen that will transition to the screen produced by
// homeFactory. streak is the learner's current streak in days.
func New(homeFactory func() screen.Screen, streak int) *WelcomeScreen {
	return &WelcomeScreen{
		homeFactory: homeFactory,
		streak:      streak,
	}
}

func (w *WelcomeScreen) Title() string {
	return ""
}

func (w *WelcomeScreen) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (w *WelcomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg.(type) {
	case tickMsg:
		if w.elapsed >= totalDur {
			return w, nil
		}
		w.elapsed += tickInterval
		return w, tick()

	case tea.KeyPressMsg:
		// Any key skips straight to the menu once the banner is up.
		if w.elapsed >= phase2End {
			return w, w.transition()
		}
	}
	return w, nil
}

func (w *WelcomeScreen) transition() tea.Cmd {
	if w.transitioned {
		return nil
	}
	w.transitioned = true
	home := w.homeFactory()
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: home}
	}
}

// Greeting returns the line shown under the banner for a streak.
func Greeting(streak int) string {
	switch {
	case streak <= 0:
		return "Добре дошли! Let's learn some Bulgarian."
	case streak == 1:
		return "Здравей! Day 1 of your streak."
	default:
		return fmt.Sprintf("Здравей! %d days in a row. Keep it going!", streak)
	}
}

func (w *WelcomeScreen) View(width, height int) string {
	// Stripes grow in from the left during the first phase.
	filled := stripeWidth
	if w.elapsed < phase1End {
		filled = int(float64(stripeWidth) * float64(w.elapsed) / float64(phase1End))
	}
	stripe := func(c lipgloss.Style) string {
		return c.Render(strings.Repeat("█", filled)) + strings.Repeat(" ", stripeWidth-filled)
	}
	flag := strings.Join([]string{
		stripe(lipgloss.NewStyle().Foreground(theme.Text)),
		stripe(lipgloss.NewStyle().Foreground(theme.Primary)),
		stripe(lipgloss.NewStyle().Foreground(theme.Error)),
	}, "\n")

	sections := []string{flag}

	if w.elapsed >= phase2End {
		sections = append(sections,
			"",
			RenderBanner(width),
			"",
			lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(Greeting(w.streak)),
			"",
			lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).Render("press any key to continue"),
		)
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center, sections...))
}
