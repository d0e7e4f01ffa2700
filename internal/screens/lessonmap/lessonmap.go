package lessonmap

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/bulglo/internal/catalog"
	"github.com/abhisek/bulglo/internal/progress"
	"github.com/abhisek/bulglo/internal/router"
	"github.com/abhisek/bulglo/internal/screen"
	"github.com/abhisek/bulglo/internal/ui/layout"
	"github.com/abhisek/bulglo/internal/ui/theme"
)

type rowKind int

const (
	rowUnitHeader rowKind = iota
	rowLesson
)

type row struct {
	kind   rowKind
	unit   catalog.Unit
	lesson catalog.Lesson
}

// State is the display state of a lesson.
type State int

const (
	StateLocked State = iota
	StateAvailable
	StateCompleted
)

// Icon returns the row icon for the state.
func (s State) Icon() string {
	switch s {
	case StateCompleted:
		return "✓"
	case StateAvailable:
		return "○"
	default:
		return "·"
	}
}

// Label returns the row label for the state.
func (s State) Label() string {
	switch s {
	case StateCompleted:
		return "Completed"
	case StateAvailable:
		return "Ready"
	default:
		return "Locked"
	}
}

// LessonMapScreen lists the course's units and lessons in order.
type LessonMapScreen struct {
	svc          *screen.Services
	rows         []row
	cursor       int
	scrollOffset int
}

var _ screen.Screen = (*LessonMapScreen)(nil)
var _ screen.KeyHintProvider = (*LessonMapScreen)(nil)

// New creates a new LessonMapScreen.
func New(svc *screen.Services) *LessonMapScreen {
	var rows []row
	for _, u := range svc.Catalog.Units() {
		rows = append(rows, row{kind: rowUnitHeader, unit: u})
		for _, id := range u.Lessons {
			if l, ok := svc.Catalog.Lesson(id); ok {
				rows = append(rows, row{kind: rowLesson, unit: u, lesson: l})
			}
		}
	}

	s := &LessonMapScreen{svc: svc, rows: rows}

	// Start on the next lesson to play, or the first lesson.
	next, hasNext := svc.Catalog.NextLesson(svc.Ledger.Completed())
	for i, r := range s.rows {
		if r.kind != rowLesson {
			continue
		}
		if !hasNext || r.lesson.ID == next.ID {
			s.cursor = i
			break
		}
	}
	if s.cursor == 0 {
		s.moveCursor(1)
	}
	return s
}

func (s *LessonMapScreen) Init() tea.Cmd {
	return nil
}

func (s *LessonMapScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			s.moveCursor(-1)
		case "down", "j":
			s.moveCursor(1)
		case "tab":
			s.nextUnit()
		case "enter":
			return s, s.selectLesson()
		}
	}
	return s, nil
}

func (s *LessonMapScreen) View(width, height int) string {
	if len(s.rows) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  This course has no lessons yet.")
	}

	s.adjustScroll(height)

	st := s.svc.Ledger.State()
	completed := s.svc.Ledger.Completed()

	var lines []string
	visible := 0
	for i, r := range s.rows {
		if i < s.scrollOffset {
			continue
		}
		if visible >= height {
			break
		}
		switch r.kind {
		case rowUnitHeader:
			lines = append(lines, s.renderUnitHeader(r.unit, completed, width))
		case rowLesson:
			lines = append(lines, s.renderLessonRow(r, st, completed, i == s.cursor, width))
		}
		visible++
	}
	return strings.Join(lines, "\n")
}

func (s *LessonMapScreen) Title() string {
	return "Lessons"
}

// KeyHints returns the key binding hints for the footer.
func (s *LessonMapScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Tab", Description: "Unit"},
		{Key: "Enter", Description: "Open"},
		{Key: "Esc", Description: "Back"},
	}
}

// moveCursor moves the cursor by delta, skipping unit headers.
func (s *LessonMapScreen) moveCursor(delta int) {
	next := s.cursor + delta
	for next >= 0 && next < len(s.rows) {
		if s.rows[next].kind == rowLesson {
			s.cursor = next
			return
		}
		next += delta
	}
}

// nextUnit jumps to the first lesson of the next unit, wrapping around.
func (s *LessonMapScreen) nextUnit() {
	current := s.rows[s.cursor].unit.ID
	for i := 1; i <= len(s.rows); i++ {
		j := (s.cursor + i) % len(s.rows)
		if s.rows[j].kind == rowLesson && s.rows[j].unit.ID != current {
			s.cursor = j
			return
		}
	}
}

// adjustScroll ensures the cursor is visible within the viewport.
func (s *LessonMapScreen) adjustScroll(height int) {
	if height <= 0 {
		return
	}
	headerRow := s.cursor
	for headerRow > 0 && s.rows[headerRow-1].kind == rowUnitHeader {
		headerRow--
	}

	if headerRow < s.scrollOffset {
		s.scrollOffset = headerRow
	}
	if s.cursor >= s.scrollOffset+height {
		s.scrollOffset = s.cursor - height + 1
	}
}

// selectLesson opens the detail screen of the lesson under the cursor.
func (s *LessonMapScreen) selectLesson() tea.Cmd {
	r := s.rows[s.cursor]
	if r.kind != rowLesson {
		return nil
	}
	detail := newLessonDetail(s.svc, r.lesson, s.lessonState(r.lesson.ID, s.svc.Ledger.Completed()))
	return func() tea.Msg {
		return router.PushScreenMsg{Screen: detail}
	}
}

func (s *LessonMapScreen) lessonState(id string, completed map[string]bool) State {
	if completed[id] {
		return StateCompleted
	}
	if s.svc.Catalog.IsUnlocked(id, completed) {
		return StateAvailable
	}
	return StateLocked
}

func (s *LessonMapScreen) renderUnitHeader(u catalog.Unit, completed map[string]bool, width int) string {
	done, total := s.svc.Catalog.UnitProgress(u.ID, completed)
	name := fmt.Sprintf("%s  %d/%d", strings.ToUpper(u.Title), done, total)
	return lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Width(width).
		Padding(1, 0, 0, 2).
		Render(name)
}

func (s *LessonMapScreen) renderLessonRow(r row, st progress.State, completed map[string]bool, selected bool, width int) string {
	state := s.lessonState(r.lesson.ID, completed)

	detail := fmt.Sprintf("%d exercises", len(r.lesson.Exercises))
	if rec, ok := st.CompletedLessons[r.lesson.ID]; ok {
		detail = fmt.Sprintf("best run %d%%", rec.Score)
	}

	padding := 4
	iconWidth := 3
	detailWidth := 14
	labelWidth := 10
	spacing := 4
	nameWidth := width - padding - iconWidth - detailWidth - labelWidth - spacing
	if nameWidth < 10 {
		nameWidth = 10
	}
	name := r.lesson.Title
	if len([]rune(name)) > nameWidth {
		name = string([]rune(name)[:nameWidth-1]) + "…"
	}

	var nameStyle, detailStyle, labelStyle lipgloss.Style
	if selected {
		nameStyle = lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
		detailStyle = lipgloss.NewStyle().Foreground(theme.Primary)
		labelStyle = lipgloss.NewStyle().Foreground(theme.Primary)
	} else {
		switch state {
		case StateCompleted:
			nameStyle = lipgloss.NewStyle().Foreground(theme.Success)
			detailStyle = lipgloss.NewStyle().Foreground(theme.TextDim)
			labelStyle = lipgloss.NewStyle().Foreground(theme.Success)
		case StateAvailable:
			nameStyle = lipgloss.NewStyle().Foreground(theme.Text)
			detailStyle = lipgloss.NewStyle().Foreground(theme.TextDim)
			labelStyle = lipgloss.NewStyle().Foreground(theme.Secondary)
		default:
			nameStyle = theme.Locked
			detailStyle = theme.Locked
			labelStyle = theme.Locked
		}
	}

	cursor := "  "
	if selected {
		cursor = "▸ "
	}

	return fmt.Sprintf("  %s%s %s  %s  %s",
		cursor,
		state.Icon(),
		nameStyle.Render(fmt.Sprintf("%-*s", nameWidth, name)),
		detailStyle.Render(fmt.Sprintf("%-*s", detailWidth, detail)),
		labelStyle.Render(fmt.Sprintf("%9s", state.Label())),
	)
}
