package profile

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/bulglo/internal/progress"
	"github.com/abhisek/bulglo/internal/screen"
	"github.com/abhisek/bulglo/internal/store"
)

type statsRepo struct {
	store.EventRepo
	stats store.AnswerStats
	err   error
}

func (r *statsRepo) AnswerStats(context.Context) (store.AnswerStats, error) {
	return r.stats, r.err
}

func TestProfile_ShowsStats(t *testing.T) {
	ledger := progress.NewLedger(nil)
	if err := ledger.AddXP(250); err != nil {
		t.Fatal(err)
	}
	repo := &statsRepo{stats: store.AnswerStats{Answered: 8, Correct: 6, Skipped: 1}}
	s := New(&screen.Services{Ledger: ledger, Events: repo})

	s.Update(s.Init()())

	view := s.View(120, 40)
	for _, want := range []string{"Level 3", "50/100 XP to level 4", "75%", "system"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestProfile_StatsError(t *testing.T) {
	repo := &statsRepo{err: errors.New("disk gone")}
	s := New(&screen.Services{Ledger: progress.NewLedger(nil), Events: repo})
	s.Update(s.Init()())

	if !strings.Contains(s.View(120, 40), "Answer history unavailable") {
		t.Error("expected error notice")
	}
}

func TestProfile_CycleTheme(t *testing.T) {
	ledger := progress.NewLedger(nil)
	s := New(&screen.Services{Ledger: ledger})

	_, cmd := s.Update(tea.KeyPressMsg{Code: 't', Text: "t"})
	if cmd == nil {
		t.Fatal("expected theme change command")
	}
	msg, ok := cmd().(ThemeChangedMsg)
	if !ok || msg.Theme != progress.ThemeLight {
		t.Fatalf("msg = %#v, want light", msg)
	}
	if got := ledger.State().Settings.Theme; got != progress.ThemeLight {
		t.Errorf("theme = %q", got)
	}

	s.Update(tea.KeyPressMsg{Code: 't', Text: "t"})
	s.Update(tea.KeyPressMsg{Code: 't', Text: "t"})
	if got := ledger.State().Settings.Theme; got != progress.ThemeSystem {
		t.Errorf("theme should wrap to system, got %q", got)
	}
}

func TestProfile_ToggleSettings(t *testing.T) {
	ledger := progress.NewLedger(nil)
	s := New(&screen.Services{Ledger: ledger})

	s.Update(tea.KeyPressMsg{Code: 's', Text: "s"})
	s.Update(tea.KeyPressMsg{Code: 'h', Text: "h"})

	set := ledger.State().Settings
	if set.SoundEnabled || set.Haptics {
		t.Errorf("settings = %+v, want both off", set)
	}
	if !strings.Contains(s.View(120, 40), "off") {
		t.Error("expected settings to render off")
	}
}
