// Package progress owns the learner's persisted progress aggregate.
package progress

import (
	"time"

	"github.com/abhisek/bulglo/internal/attempt"
	"github.com/abhisek/bulglo/internal/srs"
)

// SchemaVersion is the version stamped on every state this build writes.
const SchemaVersion = "1.0.0"

// XPPerLevel is the XP needed to advance one level.
const XPPerLevel = 100

// Theme is the learner's colour scheme preference.
type Theme string

const (
	ThemeSystem Theme = "system"
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
)

// Valid reports whether t is a known theme.
func (t Theme) Valid() bool {
	switch t {
	case ThemeSystem, ThemeLight, ThemeDark:
		return true
	}
	return false
}

// Settings are the learner preferences.
type Settings struct {
	Theme        Theme `json:"theme"`
	SoundEnabled bool  `json:"soundEnabled"`
	Haptics      bool  `json:"haptics"`
}

// DefaultSettings returns the settings of a new learner.
func DefaultSettings() Settings {
	return Settings{Theme: ThemeSystem, SoundEnabled: true, Haptics: true}
}

// LessonRecord is the latest completion of a lesson.
type LessonRecord struct {
	Timestamp time.Time `json:"timestamp"`
	Score     int       `json:"score"`
}

// State is the learner's whole progress. It is what gets persisted,
// exported and imported.
type State struct {
	Version          string                  `json:"version"`
	XP               int                     `json:"xp"`
	Level            int                     `json:"level"`
	StreakDays       int                     `json:"streakDays"`
	LastActive       time.Time               `json:"lastActiveISO"`
	CompletedLessons map[string]LessonRecord `json:"completedLessons"`
	SRS              map[string]srs.Item     `json:"srs"`
	Badges           []string                `json:"badges"`
	Settings         Settings                `json:"settings"`
}

// DefaultState returns the state of a learner on first run.
func DefaultState(now time.Time) State {
	return State{
		Version:          SchemaVersion,
		XP:               0,
		Level:            1,
		StreakDays:       0,
		LastActive:       now.UTC(),
		CompletedLessons: make(map[string]LessonRecord),
		SRS:              make(map[string]srs.Item),
		Badges:           []string{},
		Settings:         DefaultSettings(),
	}
}

// Level derives the level from XP.
func Level(xp int) int {
	if xp < 0 {
		xp = 0
	}
	return xp/XPPerLevel + 1
}

// Clone returns a deep copy of s.
func (s State) Clone() State {
	c := s
	c.CompletedLessons = make(map[string]LessonRecord, len(s.CompletedLessons))
	for k, v := range s.CompletedLessons {
		c.CompletedLessons[k] = v
	}
	c.SRS = make(map[string]srs.Item, len(s.SRS))
	for k, v := range s.SRS {
		c.SRS[k] = v
	}
	c.Badges = append([]string{}, s.Badges...)
	return c
}

// normalize restores invariants on a state built from untrusted input.
func (s *State) normalize() {
	if s.XP < 0 {
		s.XP = 0
	}
	s.Level = Level(s.XP)
	if s.StreakDays < 0 {
		s.StreakDays = 0
	}
	if s.CompletedLessons == nil {
		s.CompletedLessons = make(map[string]LessonRecord)
	}
	if s.SRS == nil {
		s.SRS = make(map[string]srs.Item)
	}
	seen := make(map[string]bool, len(s.Badges))
	badges := make([]string, 0, len(s.Badges))
	for _, b := range s.Badges {
		if !seen[b] {
			seen[b] = true
			badges = append(badges, b)
		}
	}
	s.Badges = badges
	if !s.Settings.Theme.Valid() {
		s.Settings.Theme = ThemeSystem
	}
	s.LastActive = s.LastActive.UTC()
}

// LessonResult summarises a completed lesson.
type LessonResult struct {
	LessonID        string                   `json:"lessonId"`
	Score           int                      `json:"score"`
	TotalExercises  int                      `json:"totalExercises"`
	CorrectAnswers  int                      `json:"correctAnswers"`
	XPEarned        int                      `json:"xpEarned"`
	CompletedAt     time.Time                `json:"completedAt"`
	ExerciseResults []attempt.ExerciseResult `json:"exerciseResults"`
}
