package store

import (
	"context"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
)

// Every event table carries the same leading columns: a global sequence
// shared across tables and a UTC timestamp in unix milliseconds.
var tables = []string{
	`CREATE TABLE IF NOT EXISTS snapshots (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		sequence INTEGER NOT NULL,
		timestamp INTEGER NOT NULL,
		data TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS snapshots_sequence ON snapshots (sequence)`,

	`CREATE TABLE IF NOT EXISTS lesson_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		sequence INTEGER NOT NULL UNIQUE,
		timestamp INTEGER NOT NULL,
		run_id TEXT NOT NULL,
		lesson_id TEXT NOT NULL,
		score INTEGER NOT NULL,
		total INTEGER NOT NULL,
		correct INTEGER NOT NULL,
		xp_earned INTEGER NOT NULL,
		duration_secs INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS lesson_events_lesson ON lesson_events (lesson_id)`,

	`CREATE TABLE IF NOT EXISTS answer_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		sequence INTEGER NOT NULL UNIQUE,
		timestamp INTEGER NOT NULL,
		run_id TEXT NOT NULL,
		lesson_id TEXT NOT NULL,
		exercise_id TEXT NOT NULL,
		kind TEXT NOT NULL,
		correct INTEGER NOT NULL,
		case_mismatch INTEGER NOT NULL,
		skipped INTEGER NOT NULL,
		attempts INTEGER NOT NULL,
		time_ms INTEGER NOT NULL,
		confidence INTEGER
	)`,
	`CREATE INDEX IF NOT EXISTS answer_events_run ON answer_events (run_id)`,

	`CREATE TABLE IF NOT EXISTS review_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		sequence INTEGER NOT NULL UNIQUE,
		timestamp INTEGER NOT NULL,
		item_id TEXT NOT NULL,
		recalled INTEGER NOT NULL,
		from_bucket INTEGER NOT NULL,
		to_bucket INTEGER NOT NULL,
		due INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS review_events_item ON review_events (item_id)`,

	`CREATE TABLE IF NOT EXISTS badge_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		sequence INTEGER NOT NULL UNIQUE,
		timestamp INTEGER NOT NULL,
		badge_id TEXT NOT NULL,
		run_id TEXT NOT NULL,
		lesson_id TEXT NOT NULL
	)`,
}

// migrate creates missing tables and indexes.
func migrate(ctx context.Context, drv *entsql.Driver) error {
	for _, stmt := range tables {
		if err := drv.Exec(ctx, stmt, []any{}, nil); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}
	return nil
}
