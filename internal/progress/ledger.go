package progress

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/abhisek/bulglo/internal/srs"
	"github.com/abhisek/bulglo/internal/store"
)

var (
	// ErrNegativeXP is returned when asked to add a negative amount of XP.
	ErrNegativeXP = errors.New("xp amount must not be negative")

	// ErrInvalidTheme is returned for an unknown theme name.
	ErrInvalidTheme = errors.New("theme must be system, light or dark")
)

// Sink receives a whole-state snapshot after every mutation. Enqueue must
// not block.
type Sink interface {
	Enqueue(data store.SnapshotData)
}

// Ledger is the only mutator of the progress state. It is safe for
// concurrent use; the autosave writer reads snapshots from another goroutine.
type Ledger struct {
	mu     sync.Mutex
	state  State
	clock  func() time.Time
	loc    *time.Location
	sink   Sink
	events store.EventRepo
	logger *slog.Logger
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithClock sets the time source.
func WithClock(clock func() time.Time) Option {
	return func(l *Ledger) { l.clock = clock }
}

// WithLocation sets the time zone used for calendar-day comparisons.
func WithLocation(loc *time.Location) Option {
	return func(l *Ledger) { l.loc = loc }
}

// WithSink sets where snapshots are sent after each mutation.
func WithSink(sink Sink) Option {
	return func(l *Ledger) { l.sink = sink }
}

// WithEvents enables review event logging.
func WithEvents(events store.EventRepo) Option {
	return func(l *Ledger) { l.events = events }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Ledger) { l.logger = logger }
}

// NewLedger creates a ledger, loading state from snap when present.
func NewLedger(snap *store.SnapshotData, opts ...Option) *Ledger {
	l := &Ledger{
		clock:  time.Now,
		loc:    time.Local,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}

	if snap != nil {
		l.state = FromSnapshotData(*snap)
	} else {
		l.state = DefaultState(l.clock())
	}
	return l
}

// State returns a copy of the current state.
func (l *Ledger) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	s := l.state.Clone()
	s.Level = Level(s.XP)
	return s
}

// Snapshot returns the current state in its persisted form.
func (l *Ledger) Snapshot() store.SnapshotData {
	l.mu.Lock()
	defer l.mu.Unlock()
	return ToSnapshotData(l.state)
}

// AddXP adds amount to the learner's XP.
func (l *Ledger) AddXP(amount int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.addXP(amount); err != nil {
		return err
	}
	l.changed()
	return nil
}

func (l *Ledger) addXP(amount int) error {
	if amount < 0 {
		return fmt.Errorf("add %d xp: %w", amount, ErrNegativeXP)
	}
	l.state.XP += amount
	l.state.Level = Level(l.state.XP)
	return nil
}

// CompleteLesson records the lesson result, replacing any earlier record for
// the same lesson, and adds the XP it earned.
func (l *Ledger) CompleteLesson(res LessonResult) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.addXP(res.XPEarned); err != nil {
		return fmt.Errorf("complete lesson %s: %w", res.LessonID, err)
	}
	ts := res.CompletedAt
	if ts.IsZero() {
		ts = l.clock()
	}
	l.state.CompletedLessons[res.LessonID] = LessonRecord{Timestamp: ts.UTC(), Score: res.Score}
	l.state.LastActive = l.clock().UTC()
	l.changed()
	return nil
}

// UpdateStreak compares the last active day with today: same day keeps the
// streak, the previous day extends it, anything else restarts it at 1.
// Returns the new streak.
func (l *Ledger) UpdateStreak() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock()
	today := civilDay(now, l.loc)
	last := civilDay(l.state.LastActive, l.loc)
	yesterday := civilDay(now.In(l.loc).AddDate(0, 0, -1), l.loc)

	switch last {
	case today:
	case yesterday:
		l.state.StreakDays++
	default:
		l.state.StreakDays = 1
	}
	l.state.LastActive = now.UTC()
	l.changed()
	return l.state.StreakDays
}

func civilDay(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(time.DateOnly)
}

// UnlockBadge adds id to the badge set. It reports whether the badge was
// newly unlocked.
func (l *Ledger) UnlockBadge(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if slices.Contains(l.state.Badges, id) {
		return false
	}
	l.state.Badges = append(l.state.Badges, id)
	l.changed()
	return true
}

// HasBadge reports whether id is unlocked.
func (l *Ledger) HasBadge(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Contains(l.state.Badges, id)
}

// UpdateSettings replaces the settings.
func (l *Ledger) UpdateSettings(s Settings) error {
	if !s.Theme.Valid() {
		return fmt.Errorf("update settings: %w", ErrInvalidTheme)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.state.Settings = s
	l.changed()
	return nil
}

// SetTheme changes the theme.
func (l *Ledger) SetTheme(t Theme) error {
	if !t.Valid() {
		return fmt.Errorf("set theme %q: %w", t, ErrInvalidTheme)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.state.Settings.Theme = t
	l.changed()
	return nil
}

// ToggleSound flips the sound setting and returns the new value.
func (l *Ledger) ToggleSound() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.state.Settings.SoundEnabled = !l.state.Settings.SoundEnabled
	l.changed()
	return l.state.Settings.SoundEnabled
}

// ToggleHaptics flips the haptics setting and returns the new value.
func (l *Ledger) ToggleHaptics() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.state.Settings.Haptics = !l.state.Settings.Haptics
	l.changed()
	return l.state.Settings.Haptics
}

// ReviewOutcome applies a recall outcome to the item, creating it at
// bucket 0 due now when missing, and returns the updated item.
func (l *Ledger) ReviewOutcome(ctx context.Context, itemID string, recalled bool) srs.Item {
	l.mu.Lock()
	now := l.clock()
	item, ok := l.state.SRS[itemID]
	if !ok {
		item = srs.NewItem(now)
	}
	next := srs.Review(item, recalled, now)
	next.Due = next.Due.UTC()
	l.state.SRS[itemID] = next
	l.changed()
	l.mu.Unlock()

	if l.events != nil {
		err := l.events.AppendReviewEvent(ctx, store.ReviewEventData{
			ItemID:     itemID,
			Recalled:   recalled,
			FromBucket: item.Bucket,
			ToBucket:   next.Bucket,
			Due:        next.Due,
		})
		if err != nil {
			l.logger.Warn("record review event", "item", itemID, "error", err)
		}
	}
	return next
}

// Item returns the review state of itemID.
func (l *Ledger) Item(itemID string) (srs.Item, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	it, ok := l.state.SRS[itemID]
	return it, ok
}

// DueItems returns review items due now, most overdue first.
func (l *Ledger) DueItems() []srs.DueItem {
	l.mu.Lock()
	defer l.mu.Unlock()
	return srs.DueItems(l.state.SRS, l.clock())
}

// Completed returns the set of completed lesson ids.
func (l *Ledger) Completed() map[string]bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	done := make(map[string]bool, len(l.state.CompletedLessons))
	for id := range l.state.CompletedLessons {
		done[id] = true
	}
	return done
}

// Reset replaces the state with a fresh default state.
func (l *Ledger) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.state = DefaultState(l.clock())
	l.changed()
}

// changed hands the current state to the sink. Callers hold mu.
func (l *Ledger) changed() {
	if l.sink == nil {
		return
	}
	l.sink.Enqueue(ToSnapshotData(l.state))
}
