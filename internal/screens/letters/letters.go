// Package letters shows the alphabet cards and the course vocabulary.
package letters

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/bulglo/internal/catalog"
	"github.com/abhisek/bulglo/internal/screen"
	"github.com/abhisek/bulglo/internal/ui/layout"
	"github.com/abhisek/bulglo/internal/ui/theme"
)

const perRow = 6

type tab int

const (
	tabLetters tab = iota
	tabWords
)

// LettersScreen is a grid of letter cards with a detail pane, plus a word
// list on a second tab.
type LettersScreen struct {
	letters  []catalog.Letter
	words    []catalog.VocabItem
	tab      tab
	selected int
	scroll   int
}

var _ screen.Screen = (*LettersScreen)(nil)
var _ screen.KeyHintProvider = (*LettersScreen)(nil)

// New creates a new LettersScreen.
func New(cat *catalog.Catalog) *LettersScreen {
	return &LettersScreen{letters: cat.Letters(), words: cat.Words()}
}

func (s *LettersScreen) Init() tea.Cmd { return nil }

func (s *LettersScreen) Title() string {
	if s.tab == tabWords {
		return "Words"
	}
	return "Alphabet"
}

func (s *LettersScreen) KeyHints() []layout.KeyHint {
	if s.tab == tabWords {
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Scroll"},
			{Key: "Tab", Description: "Alphabet"},
			{Key: "Esc", Description: "Back"},
		}
	}
	return []layout.KeyHint{
		{Key: "←↑↓→", Description: "Navigate"},
		{Key: "Tab", Description: "Words"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *LettersScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}
	key := kmsg.String()
	if key == "tab" {
		s.tab = 1 - s.tab
		return s, nil
	}

	if s.tab == tabWords {
		switch key {
		case "up", "k":
			if s.scroll > 0 {
				s.scroll--
			}
		case "down", "j":
			if s.scroll < len(s.words)-1 {
				s.scroll++
			}
		}
		return s, nil
	}

	move := map[string]int{
		"left": -1, "h": -1,
		"right": 1, "l": 1,
		"up": -perRow, "k": -perRow,
		"down": perRow, "j": perRow,
	}
	if d, ok := move[key]; ok {
		next := s.selected + d
		if next >= 0 && next < len(s.letters) {
			s.selected = next
		}
	}
	return s, nil
}

func (s *LettersScreen) View(width, height int) string {
	if s.tab == tabWords {
		return s.viewWords(width, height)
	}
	if len(s.letters) == 0 {
		return lipgloss.NewStyle().Width(width).Align(lipgloss.Center).
			Foreground(theme.TextDim).Italic(true).Render("\n\n  No letter cards in this course.")
	}

	var rows []string
	for start := 0; start < len(s.letters); start += perRow {
		end := min(start+perRow, len(s.letters))
		cells := make([]string, 0, perRow)
		for i := start; i < end; i++ {
			l := s.letters[i]
			style := theme.ButtonInactive.Width(8).Align(lipgloss.Center)
			if i == s.selected {
				style = style.BorderForeground(theme.Primary).Foreground(theme.Primary).Bold(true)
			}
			cells = append(cells, style.Render(l.Upper+" "+l.Lower))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	grid := lipgloss.JoinVertical(lipgloss.Left, rows...)

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center, grid, "", s.detail(s.letters[s.selected])))
}

func (s *LettersScreen) detail(l catalog.Letter) string {
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)
	val := lipgloss.NewStyle().Foreground(theme.Text)

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(l.Upper + " " + l.Lower))
	b.WriteString("\n")
	b.WriteString(dim.Render("Name:  ") + val.Render(l.Name) + "\n")
	b.WriteString(dim.Render("Sound: ") + val.Render(l.Romanization))
	if l.IPA != "" {
		b.WriteString(dim.Render(fmt.Sprintf("  /%s/", l.IPA)))
	}
	for _, tip := range l.Tips {
		b.WriteString("\n" + lipgloss.NewStyle().Foreground(theme.Secondary).Render("Tip: "+tip))
	}
	return theme.Card.Render(b.String())
}

func (s *LettersScreen) viewWords(width, height int) string {
	if len(s.words) == 0 {
		return lipgloss.NewStyle().Width(width).Align(lipgloss.Center).
			Foreground(theme.TextDim).Italic(true).Render("\n\n  No words in this course.")
	}

	maxVisible := max(height-2, 3)
	end := min(s.scroll+maxVisible, len(s.words))

	var b strings.Builder
	b.WriteString("\n")
	for _, w := range s.words[s.scroll:end] {
		line := lipgloss.NewStyle().Foreground(theme.Primary).Render(fmt.Sprintf("%-14s", w.BG)) +
			lipgloss.NewStyle().Foreground(theme.Text).Render(fmt.Sprintf("%-16s", w.EN)) +
			lipgloss.NewStyle().Foreground(theme.TextDim).Render(w.Translit)
		if len(w.Tags) > 0 {
			line += theme.Hint.Render("  " + strings.Join(w.Tags, ", "))
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, line))
		b.WriteString("\n")
	}
	return b.String()
}
