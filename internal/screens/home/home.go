// Package home is the main menu.
package home

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/bulglo/internal/router"
	"github.com/abhisek/bulglo/internal/screen"
	"github.com/abhisek/bulglo/internal/screens/badgecase"
	"github.com/abhisek/bulglo/internal/screens/history"
	"github.com/abhisek/bulglo/internal/screens/lessonmap"
	"github.com/abhisek/bulglo/internal/screens/letters"
	"github.com/abhisek/bulglo/internal/screens/player"
	"github.com/abhisek/bulglo/internal/screens/practice"
	"github.com/abhisek/bulglo/internal/screens/profile"
	"github.com/abhisek/bulglo/internal/ui/components"
	"github.com/abhisek/bulglo/internal/ui/theme"
)

const (
	itemContinue = iota
	itemLessons
	itemPractice
	itemLetters
	itemBadges
	itemHistory
	itemProfile
	itemQuit
)

// HomeScreen is the main home screen of the application.
type HomeScreen struct {
	svc  *screen.Services
	menu components.Menu
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(svc *screen.Services) *HomeScreen {
	h := &HomeScreen{svc: svc}
	push := func(build func() screen.Screen) func() tea.Cmd {
		return func() tea.Cmd {
			return func() tea.Msg { return router.PushScreenMsg{Screen: build()} }
		}
	}

	items := make([]components.MenuItem, itemQuit+1)
	items[itemContinue] = components.MenuItem{Action: func() tea.Cmd {
		l, ok := svc.Catalog.NextLesson(svc.Ledger.Completed())
		if !ok {
			return nil
		}
		return func() tea.Msg { return router.PushScreenMsg{Screen: player.New(svc, l)} }
	}}
	items[itemLessons] = components.MenuItem{Action: push(func() screen.Screen { return lessonmap.New(svc) })}
	items[itemPractice] = components.MenuItem{Action: push(func() screen.Screen { return practice.New(svc) })}
	items[itemLetters] = components.MenuItem{Action: push(func() screen.Screen { return letters.New(svc.Catalog) })}
	items[itemBadges] = components.MenuItem{Action: push(func() screen.Screen { return badgecase.New(svc) })}
	items[itemHistory] = components.MenuItem{Action: push(func() screen.Screen { return history.New(svc) })}
	items[itemProfile] = components.MenuItem{Action: push(func() screen.Screen { return profile.New(svc) })}
	items[itemQuit] = components.MenuItem{Action: func() tea.Cmd { return tea.Quit }}

	h.menu = components.NewMenu(items)
	h.refresh()
	return h
}

// refresh rebuilds labels from the ledger. Screens popped back to home are
// not re-initialised, so this runs on every update and render.
func (h *HomeScreen) refresh() {
	completed := h.svc.Ledger.Completed()
	next, hasNext := h.svc.Catalog.NextLesson(completed)
	due := len(h.svc.Ledger.DueItems())

	cont := "CONTINUE"
	if len(completed) == 0 {
		cont = "START"
	}
	if hasNext {
		cont += ": " + strings.ToUpper(next.Title)
	} else {
		cont = "ALL LESSONS DONE"
	}

	practiceLabel := "PRACTICE"
	if due > 0 {
		practiceLabel = fmt.Sprintf("PRACTICE (%d DUE)", due)
	}

	labels := map[int]string{
		itemContinue: cont,
		itemLessons:  "LESSONS",
		itemPractice: practiceLabel,
		itemLetters:  "LETTERS & WORDS",
		itemBadges:   "BADGES",
		itemHistory:  "HISTORY",
		itemProfile:  "PROFILE",
		itemQuit:     "QUIT",
	}
	for i := range h.menu.Items {
		h.menu.Items[i].Label = labels[i]
	}
	h.menu.Items[itemContinue].Disabled = !hasNext
	if h.menu.Items[h.menu.Selected].Disabled {
		h.menu.Selected = itemLessons
	}
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	h.refresh()
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	h.refresh()

	// height is the content area; add back the header and footer.
	compact := height+8 < 34 || width < 100
	cw := contentWidth(width)

	st := h.svc.Ledger.State()
	sections := []string{
		renderTitle(cw, compact),
		lipgloss.NewStyle().Width(cw).Align(lipgloss.Center).
			Foreground(theme.TextDim).Render(h.svc.Catalog.Course().Title),
		renderStatsBar(stats{
			level:  st.Level,
			xp:     st.XP,
			streak: st.StreakDays,
			due:    len(h.svc.Ledger.DueItems()),
		}, cw, compact),
	}

	labels := make([]string, len(h.menu.Items))
	disabled := make(map[int]bool)
	for i, it := range h.menu.Items {
		labels[i] = it.Label
		disabled[i] = it.Disabled
	}
	if compact {
		sections = append(sections, renderMenuCompact(labels, h.menu.Selected, cw, disabled))
	} else {
		sections = append(sections, renderMenu(labels, h.menu.Selected, cw, disabled))
	}

	return renderFrame(strings.Join(sections, "\n\n"), width, height)
}

func (h *HomeScreen) Title() string {
	return "Home"
}
