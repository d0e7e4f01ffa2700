package summary

import (
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/bulglo/internal/attempt"
	"github.com/abhisek/bulglo/internal/badges"
	"github.com/abhisek/bulglo/internal/progress"
	"github.com/abhisek/bulglo/internal/router"
)

func testResult() progress.LessonResult {
	return progress.LessonResult{
		LessonID:       "greetings-1",
		Score:          100,
		TotalExercises: 2,
		CorrectAnswers: 2,
		XPEarned:       20,
		CompletedAt:    time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		ExerciseResults: []attempt.ExerciseResult{
			{ExerciseID: "ex1", Correct: true, TimeSpent: 50 * time.Second},
			{ExerciseID: "ex2", Correct: true, TimeSpent: 25 * time.Second},
		},
	}
}

func TestSummaryScreen_Title(t *testing.T) {
	s := New("Hello and Goodbye", testResult(), nil, "")
	if s.Title() != "Lesson Summary" {
		t.Errorf("Title = %q, want %q", s.Title(), "Lesson Summary")
	}
}

func TestSummaryScreen_Display(t *testing.T) {
	perfect, _ := badges.Lookup(string(badges.PerfectLesson))
	s := New("Hello and Goodbye", testResult(), []badges.Badge{perfect}, "Polite Words")
	view := s.View(100, 30)

	for _, want := range []string{"Perfect lesson!", "Score: 100%", "Correct: 2/2", "Time: 1:15", "+20 XP", "Perfect Lesson", "Up next: Polite Words"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestSummaryScreen_NoBadgesSection(t *testing.T) {
	res := testResult()
	res.Score = 50
	view := New("x", res, nil, "").View(100, 30)
	if strings.Contains(view, "New badges") {
		t.Error("badge section should be hidden when nothing was awarded")
	}
	if !strings.Contains(view, "Lesson complete") {
		t.Error("expected plain completion headline")
	}
}

func TestSummaryScreen_EnterPops(t *testing.T) {
	s := New("x", testResult(), nil, "")
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected command on enter")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("expected PopScreenMsg")
	}
}

func TestHeadline(t *testing.T) {
	tests := []struct {
		score int
		want  string
	}{
		{100, "Perfect lesson!"},
		{80, "Great work!"},
		{67, "Lesson complete"},
		{20, "Lesson complete. Keep practicing!"},
	}
	for _, tt := range tests {
		if got := headline(tt.score); got != tt.want {
			t.Errorf("headline(%d) = %q, want %q", tt.score, got, tt.want)
		}
	}
}
