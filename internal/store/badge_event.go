package store

import (
	"context"
	"fmt"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

func (r *eventRepo) AppendBadgeEvent(ctx context.Context, data BadgeEventData) error {
	err := r.insert(ctx, "badge_events",
		[]string{"badge_id", "run_id", "lesson_id"},
		[]any{data.BadgeID, data.RunID, data.LessonID},
	)
	if err != nil {
		return fmt.Errorf("save badge event: %w", err)
	}
	return nil
}

func (r *eventRepo) BadgeCounts(ctx context.Context) (map[string]int, error) {
	q, args := entsql.Dialect(dialect.SQLite).
		Select("badge_id", entsql.Count("*")).
		From(entsql.Table("badge_events")).
		GroupBy("badge_id").
		Query()

	var rows entsql.Rows
	if err := r.drv.Query(ctx, q, args, &rows); err != nil {
		return nil, fmt.Errorf("query badge counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var (
			id string
			n  int
		)
		if err := rows.Scan(&id, &n); err != nil {
			return nil, fmt.Errorf("scan badge count: %w", err)
		}
		counts[id] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query badge counts: %w", err)
	}
	return counts, nil
}
