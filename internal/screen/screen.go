package screen

import (
	"log/slog"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/bulglo/internal/badges"
	"github.com/abhisek/bulglo/internal/catalog"
	"github.com/abhisek/bulglo/internal/progress"
	"github.com/abhisek/bulglo/internal/store"
	"github.com/abhisek/bulglo/internal/ui/layout"
)

// Screen defines the interface for all application screens.
type Screen interface {
	// Init returns an initial command when the screen is first created.
	Init() tea.Cmd

	// Update handles messages and returns updated screen + command.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the screen content (excluding header/footer).
	View(width, height int) string

	// Title returns the screen name for the header.
	Title() string
}

// KeyHintProvider is an optional interface that screens can implement
// to provide custom footer key hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// Leaver is implemented by screens that must release state before they are
// popped, such as a lesson in progress.
type Leaver interface {
	Leave()
}

// HealthReporter reports whether progress is currently being persisted.
type HealthReporter interface {
	Degraded() bool
}

// Services are the shared dependencies handed to every screen.
type Services struct {
	Catalog *catalog.Catalog
	Ledger  *progress.Ledger
	Badges  *badges.Service
	Events  store.EventRepo
	Saver   HealthReporter
	Clock   func() time.Time
	Logger  *slog.Logger
}

// Now returns the current time from Clock, or time.Now.
func (s *Services) Now() time.Time {
	if s.Clock != nil {
		return s.Clock()
	}
	return time.Now()
}

// Log returns Logger, or the default logger.
func (s *Services) Log() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}
