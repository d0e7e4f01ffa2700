package store

import (
	"context"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

func (r *eventRepo) AppendLessonEvent(ctx context.Context, data LessonEventData) error {
	err := r.insert(ctx, "lesson_events",
		[]string{"run_id", "lesson_id", "score", "total", "correct", "xp_earned", "duration_secs"},
		[]any{data.RunID, data.LessonID, data.Score, data.Total, data.Correct, data.XPEarned, data.DurationSecs},
	)
	if err != nil {
		return fmt.Errorf("save lesson event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryLessonEvents(ctx context.Context, opts QueryOpts) ([]LessonEventRecord, error) {
	s := entsql.Dialect(dialect.SQLite).
		Select("sequence", "timestamp", "run_id", "lesson_id", "score", "total", "correct", "xp_earned", "duration_secs").
		From(entsql.Table("lesson_events")).
		OrderBy(entsql.Desc("sequence"))
	q, args := applyOpts(s, opts).Query()

	var rows entsql.Rows
	if err := r.drv.Query(ctx, q, args, &rows); err != nil {
		return nil, fmt.Errorf("query lesson events: %w", err)
	}
	defer rows.Close()

	var records []LessonEventRecord
	for rows.Next() {
		var (
			rec LessonEventRecord
			ts  int64
		)
		if err := rows.Scan(&rec.Sequence, &ts, &rec.RunID, &rec.LessonID, &rec.Score,
			&rec.Total, &rec.Correct, &rec.XPEarned, &rec.DurationSecs); err != nil {
			return nil, fmt.Errorf("scan lesson event: %w", err)
		}
		rec.Timestamp = time.UnixMilli(ts).UTC()
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query lesson events: %w", err)
	}
	return records, nil
}
