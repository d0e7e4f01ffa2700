// Package app is the root Bubble Tea model that frames the active screen.
package app

import (
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/bulglo/internal/router"
	"github.com/abhisek/bulglo/internal/screen"
	"github.com/abhisek/bulglo/internal/screens/home"
	"github.com/abhisek/bulglo/internal/screens/profile"
	"github.com/abhisek/bulglo/internal/screens/welcome"
	"github.com/abhisek/bulglo/internal/ui/layout"
	"github.com/abhisek/bulglo/internal/ui/theme"
)

const degradedWarning = "Progress is not being saved. Check the log file."

// AppModel is the root Bubble Tea model.
type AppModel struct {
	svc    *screen.Services
	router *router.Router
	isDark bool
	width  int
	height int
}

// newAppModel creates a new AppModel starting at the welcome splash.
func newAppModel(svc *screen.Services) AppModel {
	streak := svc.Ledger.State().StreakDays
	splash := welcome.New(func() screen.Screen { return home.New(svc) }, streak)
	m := AppModel{
		svc:    svc,
		router: router.New(splash),
		isDark: true,
	}
	m.applyTheme()
	return m
}

func (m AppModel) applyTheme() {
	theme.Apply(string(m.svc.Ledger.State().Settings.Theme), m.isDark)
}

func (m AppModel) Init() tea.Cmd {
	return tea.Batch(m.router.Active().Init(), tea.RequestBackgroundColor)
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.BackgroundColorMsg:
		m.isDark = msg.IsDark()
		m.applyTheme()
		return m, nil

	case profile.ThemeChangedMsg:
		m.applyTheme()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.leave()
			return m, tea.Quit
		case "esc":
			if m.router.Depth() > 1 {
				m.leave()
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

// leave lets the active screen release state before it goes away.
func (m AppModel) leave() {
	if l, ok := m.router.Active().(screen.Leaver); ok {
		l.Leave()
	}
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true
	if m.width == 0 || m.height == 0 {
		return v
	}
	v.SetContent(m.render())
	return v
}

// render draws the framed active screen at the current size.
func (m AppModel) render() string {
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	title := active.Title()

	// Untitled screens such as the splash take the whole terminal.
	if title == "" {
		return m.router.View(m.width, m.height)
	}

	st := m.svc.Ledger.State()
	header := layout.RenderHeader(title, layout.HeaderStats{
		Level:  st.Level,
		XP:     st.XP,
		Streak: st.StreakDays,
	}, m.width)
	if m.svc.Saver != nil && m.svc.Saver.Degraded() {
		header += "\n" + layout.RenderWarning(degradedWarning, m.width)
	}

	footer := layout.RenderFooter(m.footerHints(active), m.width)

	contentHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	content := m.router.View(m.width, contentHeight)

	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

func (m AppModel) footerHints(active screen.Screen) []layout.KeyHint {
	if p, ok := active.(screen.KeyHintProvider); ok {
		return p.KeyHints()
	}
	if m.router.Depth() > 1 {
		return []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

// Run starts the Bubble Tea program and blocks until it exits.
func Run(svc *screen.Services) error {
	p := tea.NewProgram(newAppModel(svc))
	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
