package progress

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/bulglo/internal/attempt"
	"github.com/abhisek/bulglo/internal/srs"
	"github.com/abhisek/bulglo/internal/store"
)

// mockEventRepo records review events.
type mockEventRepo struct {
	mu      sync.Mutex
	reviews []store.ReviewEventData
}

func (m *mockEventRepo) AppendLessonEvent(context.Context, store.LessonEventData) error { return nil }
func (m *mockEventRepo) AppendAnswerEvent(context.Context, store.AnswerEventData) error { return nil }
func (m *mockEventRepo) AppendBadgeEvent(context.Context, store.BadgeEventData) error   { return nil }
func (m *mockEventRepo) AppendReviewEvent(_ context.Context, d store.ReviewEventData) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reviews = append(m.reviews, d)
	return nil
}
func (m *mockEventRepo) QueryLessonEvents(context.Context, store.QueryOpts) ([]store.LessonEventRecord, error) {
	return nil, nil
}
func (m *mockEventRepo) AnswerStats(context.Context) (store.AnswerStats, error) {
	return store.AnswerStats{}, nil
}
func (m *mockEventRepo) BadgeCounts(context.Context) (map[string]int, error) { return nil, nil }

// recordingSink keeps every snapshot it receives.
type recordingSink struct {
	snaps []store.SnapshotData
}

func (s *recordingSink) Enqueue(d store.SnapshotData) { s.snaps = append(s.snaps, d) }

type testClock struct{ now time.Time }

func (c *testClock) Now() time.Time { return c.now }

func newTestLedger(t *testing.T, now time.Time, opts ...Option) (*Ledger, *testClock) {
	t.Helper()
	clk := &testClock{now: now}
	opts = append([]Option{WithClock(clk.Now), WithLocation(time.UTC)}, opts...)
	return NewLedger(nil, opts...), clk
}

var day0 = time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC)

func TestLevel(t *testing.T) {
	tests := []struct {
		xp, want int
	}{
		{0, 1},
		{99, 1},
		{100, 2},
		{250, 3},
		{1000, 11},
	}
	for _, tt := range tests {
		if got := Level(tt.xp); got != tt.want {
			t.Errorf("Level(%d) = %d, want %d", tt.xp, got, tt.want)
		}
	}
}

func TestDefaultState(t *testing.T) {
	l, _ := newTestLedger(t, day0)
	s := l.State()
	if s.Version != SchemaVersion || s.XP != 0 || s.Level != 1 || s.StreakDays != 0 {
		t.Errorf("default state = %+v", s)
	}
	if s.Settings != (Settings{Theme: ThemeSystem, SoundEnabled: true, Haptics: true}) {
		t.Errorf("default settings = %+v", s.Settings)
	}
	if !s.LastActive.Equal(day0) {
		t.Errorf("LastActive = %v, want %v", s.LastActive, day0)
	}
}

func TestAddXP(t *testing.T) {
	l, _ := newTestLedger(t, day0)

	prev := l.State().Level
	for _, amt := range []int{0, 40, 60, 150, 5} {
		if err := l.AddXP(amt); err != nil {
			t.Fatalf("AddXP(%d): %v", amt, err)
		}
		lvl := l.State().Level
		if lvl < prev {
			t.Errorf("level decreased from %d to %d", prev, lvl)
		}
		prev = lvl
	}
	if s := l.State(); s.XP != 255 || s.Level != 3 {
		t.Errorf("xp=%d level=%d, want 255/3", s.XP, s.Level)
	}

	if err := l.AddXP(-1); !errors.Is(err, ErrNegativeXP) {
		t.Errorf("AddXP(-1) error = %v, want ErrNegativeXP", err)
	}
	if l.State().XP != 255 {
		t.Error("negative AddXP must not change xp")
	}
}

func TestCompleteLesson_UpsertsAndAddsXPOnce(t *testing.T) {
	l, clk := newTestLedger(t, day0)

	res := LessonResult{
		LessonID:    "greetings-1",
		Score:       80,
		XPEarned:    15,
		CompletedAt: day0,
	}
	require.NoError(t, l.CompleteLesson(res))

	s := l.State()
	assert.Equal(t, 15, s.XP)
	assert.Equal(t, LessonRecord{Timestamp: day0, Score: 80}, s.CompletedLessons["greetings-1"])

	clk.now = day0.Add(2 * time.Hour)
	res.Score = 100
	res.XPEarned = 20
	res.CompletedAt = clk.now
	require.NoError(t, l.CompleteLesson(res))

	s = l.State()
	assert.Len(t, s.CompletedLessons, 1)
	assert.Equal(t, 100, s.CompletedLessons["greetings-1"].Score)
	assert.Equal(t, 35, s.XP)
	assert.True(t, s.LastActive.Equal(clk.now))
	assert.True(t, l.Completed()["greetings-1"])
}

func TestCompleteLesson_NegativeXP(t *testing.T) {
	l, _ := newTestLedger(t, day0)
	err := l.CompleteLesson(LessonResult{LessonID: "x", XPEarned: -5})
	assert.ErrorIs(t, err, ErrNegativeXP)
	assert.Empty(t, l.State().CompletedLessons)
}

func TestUpdateStreak(t *testing.T) {
	tests := []struct {
		name       string
		lastActive time.Time
		streak     int
		want       int
	}{
		{"same day", day0.Add(-2 * time.Hour), 4, 4},
		{"yesterday", day0.AddDate(0, 0, -1), 4, 5},
		{"yesterday late evening", time.Date(2026, 2, 9, 23, 59, 0, 0, time.UTC), 1, 2},
		{"three days ago", day0.AddDate(0, 0, -3), 4, 1},
		{"first run", time.Time{}, 0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, _ := newTestLedger(t, day0)
			l.state.LastActive = tt.lastActive
			l.state.StreakDays = tt.streak

			if got := l.UpdateStreak(); got != tt.want {
				t.Errorf("UpdateStreak() = %d, want %d", got, tt.want)
			}
			if !l.State().LastActive.Equal(day0) {
				t.Error("UpdateStreak should stamp lastActive with now")
			}
		})
	}
}

func TestUpdateStreak_UsesLocalCalendarDay(t *testing.T) {
	sofia := time.FixedZone("EET", 2*60*60)
	// 23:30 UTC on Feb 9 is already Feb 10 in Sofia.
	now := time.Date(2026, 2, 9, 23, 30, 0, 0, time.UTC)
	clk := &testClock{now: now}
	l := NewLedger(nil, WithClock(clk.Now), WithLocation(sofia))
	l.state.LastActive = time.Date(2026, 2, 9, 10, 0, 0, 0, time.UTC)
	l.state.StreakDays = 3

	if got := l.UpdateStreak(); got != 4 {
		t.Errorf("UpdateStreak() = %d, want 4", got)
	}
}

func TestUnlockBadge_Idempotent(t *testing.T) {
	l, _ := newTestLedger(t, day0)

	if !l.UnlockBadge("first_lesson") {
		t.Error("first unlock should report new")
	}
	if l.UnlockBadge("first_lesson") {
		t.Error("second unlock should not report new")
	}
	l.UnlockBadge("perfect_lesson")
	assert.Equal(t, []string{"first_lesson", "perfect_lesson"}, l.State().Badges)
	assert.True(t, l.HasBadge("perfect_lesson"))
}

func TestSettings(t *testing.T) {
	l, _ := newTestLedger(t, day0)

	require.NoError(t, l.SetTheme(ThemeDark))
	assert.Equal(t, ThemeDark, l.State().Settings.Theme)
	assert.ErrorIs(t, l.SetTheme("neon"), ErrInvalidTheme)

	assert.False(t, l.ToggleSound())
	assert.True(t, l.ToggleSound())
	assert.False(t, l.ToggleHaptics())

	want := Settings{Theme: ThemeLight, SoundEnabled: false, Haptics: true}
	require.NoError(t, l.UpdateSettings(want))
	assert.Equal(t, want, l.State().Settings)
	assert.ErrorIs(t, l.UpdateSettings(Settings{Theme: "sepia"}), ErrInvalidTheme)
}

func TestReviewOutcome(t *testing.T) {
	events := &mockEventRepo{}
	l, _ := newTestLedger(t, day0, WithEvents(events))
	ctx := context.Background()

	// Missing item starts at bucket 0 due now.
	it := l.ReviewOutcome(ctx, "l1-a", true)
	assert.Equal(t, srs.Item{Bucket: 1, Due: day0.AddDate(0, 0, 1)}, it)

	l.state.SRS["l1-b"] = srs.Item{Bucket: 2, Due: day0}
	it = l.ReviewOutcome(ctx, "l1-b", false)
	assert.Equal(t, 1, it.Bucket)
	assert.True(t, it.Due.Equal(day0.AddDate(0, 0, 1)))

	got, ok := l.Item("l1-b")
	assert.True(t, ok)
	assert.Equal(t, it, got)

	require.Len(t, events.reviews, 2)
	assert.Equal(t, store.ReviewEventData{ItemID: "l1-b", Recalled: false, FromBucket: 2, ToBucket: 1, Due: it.Due}, events.reviews[1])
}

func TestReviewOutcome_ConfidenceOneDemotes(t *testing.T) {
	l, _ := newTestLedger(t, day0)
	l.state.SRS["l1-tf"] = srs.Item{Bucket: 3, Due: day0}

	conf := 1
	res := attempt.ExerciseResult{ExerciseID: "tf", Correct: false, Attempts: 3, Confidence: &conf}
	it := l.ReviewOutcome(context.Background(), "l1-tf", srs.RecalledFromConfidence(*res.Confidence))
	assert.Equal(t, 2, it.Bucket)
}

func TestDueItems(t *testing.T) {
	l, _ := newTestLedger(t, day0)
	l.state.SRS["a"] = srs.Item{Bucket: 1, Due: day0.AddDate(0, 0, -1)}
	l.state.SRS["b"] = srs.Item{Bucket: 1, Due: day0.AddDate(0, 0, 1)}

	due := l.DueItems()
	require.Len(t, due, 1)
	assert.Equal(t, "a", due[0].ID)
}

func TestReset(t *testing.T) {
	l, _ := newTestLedger(t, day0)
	require.NoError(t, l.AddXP(300))
	l.UnlockBadge("first_lesson")
	l.ReviewOutcome(context.Background(), "a", true)

	l.Reset()
	s := l.State()
	assert.Equal(t, 0, s.XP)
	assert.Empty(t, s.Badges)
	assert.Empty(t, s.SRS)
}

func TestSinkReceivesEveryMutation(t *testing.T) {
	sink := &recordingSink{}
	l, _ := newTestLedger(t, day0, WithSink(sink))

	require.NoError(t, l.AddXP(120))
	l.UnlockBadge("perfect_lesson")
	l.UnlockBadge("perfect_lesson") // no change, no snapshot
	l.ToggleSound()

	require.Len(t, sink.snaps, 3)
	last := sink.snaps[2]
	assert.Equal(t, 120, last.XP)
	assert.Equal(t, 2, last.Level)
	assert.Equal(t, []string{"perfect_lesson"}, last.Badges)
	assert.False(t, last.Settings.SoundEnabled)
}

func TestNewLedger_FromSnapshot(t *testing.T) {
	data := store.SnapshotData{
		Version:    "1.0.0",
		XP:         230,
		Level:      1, // stale; recomputed
		StreakDays: 3,
		LastActive: "2026-02-09T20:00:00Z",
		CompletedLessons: map[string]store.LessonRecordData{
			"greetings-1": {Timestamp: "2026-02-09T20:00:00Z", Score: 90},
		},
		SRS: map[string]store.SRSItemData{
			"greetings-1-ex1": {Bucket: 2, DueISO: "2026-02-11T20:00:00Z"},
			"greetings-1-ex2": {Bucket: 9, DueISO: "garbage"},
		},
		Badges:   []string{"first_lesson", "first_lesson"},
		Settings: store.SettingsData{Theme: "dark", SoundEnabled: true},
	}

	l := NewLedger(&data, WithClock(func() time.Time { return day0 }))
	s := l.State()
	assert.Equal(t, 3, s.Level)
	assert.Equal(t, []string{"first_lesson"}, s.Badges)
	assert.Equal(t, ThemeDark, s.Settings.Theme)
	assert.Equal(t, 2, s.SRS["greetings-1-ex1"].Bucket)

	broken := s.SRS["greetings-1-ex2"]
	assert.Equal(t, srs.MaxBucket, broken.Bucket)
	assert.True(t, broken.IsDue(day0))
}

func TestSnapshotData_RoundTrip(t *testing.T) {
	l, _ := newTestLedger(t, day0)
	require.NoError(t, l.CompleteLesson(LessonResult{LessonID: "greetings-1", Score: 100, XPEarned: 20, CompletedAt: day0}))
	l.ReviewOutcome(context.Background(), "greetings-1-ex1", true)
	l.UnlockBadge("perfect_lesson")

	want := l.State()
	got := FromSnapshotData(l.Snapshot())
	assert.Equal(t, want, got)
}
