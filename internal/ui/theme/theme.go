package theme

import (
	"image/color"

	"charm.land/lipgloss/v2"
)

// Palette is a named set of colors.
type Palette struct {
	Primary   color.Color
	Secondary color.Color
	Accent    color.Color
	Success   color.Color
	Error     color.Color
	Text      color.Color
	TextDim   color.Color
	BgCard    color.Color
	Border    color.Color
}

// Dark is used for dark terminals and as the default.
var Dark = Palette{
	Primary:   lipgloss.Color("#22C55E"), // Green, from the flag
	Secondary: lipgloss.Color("#38BDF8"), // Sky
	Accent:    lipgloss.Color("#F97316"), // Orange
	Success:   lipgloss.Color("#4ADE80"), // Light green
	Error:     lipgloss.Color("#F43F5E"), // Rose, from the flag
	Text:      lipgloss.Color("#F8FAFC"), // White
	TextDim:   lipgloss.Color("#94A3B8"), // Slate
	BgCard:    lipgloss.Color("#1E293B"), // Dark slate
	Border:    lipgloss.Color("#334155"), // Slate
}

// Light is used for light terminals.
var Light = Palette{
	Primary:   lipgloss.Color("#15803D"),
	Secondary: lipgloss.Color("#0369A1"),
	Accent:    lipgloss.Color("#C2410C"),
	Success:   lipgloss.Color("#16A34A"),
	Error:     lipgloss.Color("#BE123C"),
	Text:      lipgloss.Color("#0F172A"),
	TextDim:   lipgloss.Color("#64748B"),
	BgCard:    lipgloss.Color("#F1F5F9"),
	Border:    lipgloss.Color("#CBD5E1"),
}

// Active colors.
var (
	Primary   color.Color
	Secondary color.Color
	Accent    color.Color
	Success   color.Color
	Error     color.Color
	Text      color.Color
	TextDim   color.Color
	BgCard    color.Color
	Border    color.Color
)

// Typography
var (
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Body     lipgloss.Style
	Hint     lipgloss.Style
)

// Layout
var (
	Header lipgloss.Style
	Footer lipgloss.Style
	Card   lipgloss.Style
)

// States
var (
	Selected   lipgloss.Style
	Unselected lipgloss.Style
	Correct    lipgloss.Style
	Incorrect  lipgloss.Style
	Locked     lipgloss.Style
)

// Components
var (
	ProgressFilled lipgloss.Style
	ProgressEmpty  lipgloss.Style
	ButtonActive   lipgloss.Style
	ButtonInactive lipgloss.Style
)

var current = "dark"

func init() {
	Use(Dark)
}

// Apply selects the palette for a theme setting. "system" follows the
// terminal background reported by isDark.
func Apply(setting string, isDark bool) {
	switch setting {
	case "light":
		current = "light"
		Use(Light)
	case "dark":
		current = "dark"
		Use(Dark)
	default:
		if isDark {
			current = "dark"
			Use(Dark)
		} else {
			current = "light"
			Use(Light)
		}
	}
}

// Current returns "dark" or "light".
func Current() string { return current }

// Use installs p and rebuilds every style.
func Use(p Palette) {
	Primary = p.Primary
	Secondary = p.Secondary
	Accent = p.Accent
	Success = p.Success
	Error = p.Error
	Text = p.Text
	TextDim = p.TextDim
	BgCard = p.BgCard
	Border = p.Border

	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		Align(lipgloss.Center)

	Subtitle = lipgloss.NewStyle().
		Foreground(TextDim).
		Align(lipgloss.Center)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)

	Header = lipgloss.NewStyle().
		Background(BgCard).
		Padding(0, 2)

	Footer = lipgloss.NewStyle().
		Background(BgCard).
		Padding(0, 2)

	Card = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(1, 2)

	Selected = lipgloss.NewStyle().
		Foreground(Primary).
		Bold(true)

	Unselected = lipgloss.NewStyle().
		Foreground(Text)

	Correct = lipgloss.NewStyle().
		Foreground(Success).
		Bold(true)

	Incorrect = lipgloss.NewStyle().
		Foreground(Error).
		Bold(true)

	Locked = lipgloss.NewStyle().
		Foreground(TextDim)

	ProgressFilled = lipgloss.NewStyle().
		Background(Secondary)

	ProgressEmpty = lipgloss.NewStyle().
		Background(Border)

	ButtonActive = lipgloss.NewStyle().
		Background(Primary).
		Foreground(Text).
		Bold(true).
		Padding(0, 2)

	ButtonInactive = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(0, 2)
}
