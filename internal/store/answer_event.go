package store

import (
	"context"
	"fmt"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

func (r *eventRepo) AppendAnswerEvent(ctx context.Context, data AnswerEventData) error {
	var confidence any
	if data.Confidence != nil {
		confidence = *data.Confidence
	}
	err := r.insert(ctx, "answer_events",
		[]string{"run_id", "lesson_id", "exercise_id", "kind", "correct", "case_mismatch",
			"skipped", "attempts", "time_ms", "confidence"},
		[]any{data.RunID, data.LessonID, data.ExerciseID, data.Kind, boolInt(data.Correct),
			boolInt(data.CaseMismatch), boolInt(data.Skipped), data.Attempts, data.TimeMs, confidence},
	)
	if err != nil {
		return fmt.Errorf("save answer event: %w", err)
	}
	return nil
}

func (r *eventRepo) AnswerStats(ctx context.Context) (AnswerStats, error) {
	q, args := entsql.Dialect(dialect.SQLite).
		Select(entsql.Count("*"), "COALESCE(SUM(correct), 0)", "COALESCE(SUM(skipped), 0)").
		From(entsql.Table("answer_events")).
		Query()

	var rows entsql.Rows
	if err := r.drv.Query(ctx, q, args, &rows); err != nil {
		return AnswerStats{}, fmt.Errorf("query answer stats: %w", err)
	}
	defer rows.Close()

	var stats AnswerStats
	if rows.Next() {
		if err := rows.Scan(&stats.Answered, &stats.Correct, &stats.Skipped); err != nil {
			return AnswerStats{}, fmt.Errorf("scan answer stats: %w", err)
		}
	}
	return stats, rows.Err()
}
