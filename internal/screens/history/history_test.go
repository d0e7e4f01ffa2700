package history

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/bulglo/internal/catalog"
	"github.com/abhisek/bulglo/internal/screen"
	"github.com/abhisek/bulglo/internal/store"
)

type lessonRepo struct {
	store.EventRepo
	runs []store.LessonEventRecord
	err  error
	opts store.QueryOpts
}

func (r *lessonRepo) QueryLessonEvents(_ context.Context, opts store.QueryOpts) ([]store.LessonEventRecord, error) {
	r.opts = opts
	return r.runs, r.err
}

func services(t *testing.T, repo store.EventRepo) *screen.Services {
	t.Helper()
	cat, err := catalog.Starter()
	if err != nil {
		t.Fatal(err)
	}
	return &screen.Services{Catalog: cat, Events: repo}
}

func load(s *HistoryScreen) {
	if cmd := s.Init(); cmd != nil {
		s.Update(cmd())
	}
}

func TestHistory_ListsRuns(t *testing.T) {
	repo := &lessonRepo{runs: []store.LessonEventRecord{
		{
			LessonEventData: store.LessonEventData{
				RunID: "0f8fad5b-d9cb-469f-a165-70867728950e", LessonID: "greetings-1",
				Score: 67, Total: 3, Correct: 2, XPEarned: 10, DurationSecs: 95,
			},
			Timestamp: time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC),
		},
	}}
	s := New(services(t, repo))
	load(s)

	if repo.opts.Limit != pageSize {
		t.Errorf("limit = %d, want %d", repo.opts.Limit, pageSize)
	}
	view := s.View(120, 30)
	for _, want := range []string{"Hello and Goodbye", "1:35", "67%", "+10 XP"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}

	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if !strings.Contains(s.View(120, 30), "2 of 3 correct") || !strings.Contains(s.View(120, 30), "0f8fad5b") {
		t.Error("expected expanded run details")
	}
}

func TestHistory_Empty(t *testing.T) {
	s := New(services(t, &lessonRepo{}))
	load(s)
	if !strings.Contains(s.View(100, 30), "No lessons yet") {
		t.Error("expected empty message")
	}
}

func TestHistory_Error(t *testing.T) {
	s := New(services(t, &lessonRepo{err: errors.New("disk gone")}))
	load(s)
	if !strings.Contains(s.View(100, 30), "disk gone") {
		t.Error("expected error message")
	}
}
