package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
}

// SnapshotData captures the full learner state at a point in time.
// Times are RFC3339 strings so the JSON form matches the export format.
type SnapshotData struct {
	Version          string                      `json:"version"`
	XP               int                         `json:"xp"`
	Level            int                         `json:"level"`
	StreakDays       int                         `json:"streakDays"`
	LastActive       string                      `json:"lastActiveISO,omitempty"`
	CompletedLessons map[string]LessonRecordData `json:"completedLessons"`
	SRS              map[string]SRSItemData      `json:"srs"`
	Badges           []string                    `json:"badges"`
	Settings         SettingsData                `json:"settings"`
}

// LessonRecordData is the persisted record of a completed lesson.
type LessonRecordData struct {
	Timestamp string `json:"timestamp"`
	Score     int    `json:"score"`
}

// SRSItemData is the persisted review state of one item.
type SRSItemData struct {
	Bucket int    `json:"bucket"`
	DueISO string `json:"dueISO"`
}

// SettingsData is the persisted learner settings.
type SettingsData struct {
	Theme        string `json:"theme"`
	SoundEnabled bool   `json:"soundEnabled"`
	Haptics      bool   `json:"haptics"`
}

// Snapshot represents a point-in-time capture of learner state.
type Snapshot struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	Data      SnapshotData
}

// SnapshotRepo manages learner state snapshots.
type SnapshotRepo interface {
	// Save stores a new snapshot in a single transaction.
	Save(ctx context.Context, snap *Snapshot) error

	// Latest returns the most recent snapshot, or nil if none exist.
	Latest(ctx context.Context) (*Snapshot, error)

	// Prune deletes all but the N most recent snapshots.
	Prune(ctx context.Context, keep int) error
}

// LessonEventData records a finished lesson run.
type LessonEventData struct {
	RunID        string
	LessonID     string
	Score        int
	Total        int
	Correct      int
	XPEarned     int
	DurationSecs int
}

// LessonEventRecord is a lesson event read back from the log.
type LessonEventRecord struct {
	LessonEventData
	Sequence  int64
	Timestamp time.Time
}

// AnswerEventData records the outcome of one exercise.
type AnswerEventData struct {
	RunID        string
	LessonID     string
	ExerciseID   string
	Kind         string
	Correct      bool
	CaseMismatch bool
	Skipped      bool
	Attempts     int
	TimeMs       int64
	Confidence   *int
}

// AnswerStats aggregates answer events.
type AnswerStats struct {
	Answered int
	Correct  int
	Skipped  int
}

// ReviewEventData records one SRS review.
type ReviewEventData struct {
	ItemID     string
	Recalled   bool
	FromBucket int
	ToBucket   int
	Due        time.Time
}

// BadgeEventData records a badge unlock.
type BadgeEventData struct {
	BadgeID  string
	RunID    string
	LessonID string
}

// EventRepo provides append and query access to domain events.
type EventRepo interface {
	AppendLessonEvent(ctx context.Context, data LessonEventData) error
	AppendAnswerEvent(ctx context.Context, data AnswerEventData) error
	AppendReviewEvent(ctx context.Context, data ReviewEventData) error
	AppendBadgeEvent(ctx context.Context, data BadgeEventData) error

	// QueryLessonEvents returns lesson events, newest first.
	QueryLessonEvents(ctx context.Context, opts QueryOpts) ([]LessonEventRecord, error)

	// AnswerStats returns totals across all answer events.
	AnswerStats(ctx context.Context) (AnswerStats, error)

	// BadgeCounts returns the number of unlock events per badge id.
	BadgeCounts(ctx context.Context) (map[string]int, error)
}
