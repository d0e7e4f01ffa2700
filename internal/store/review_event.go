package store

import (
	"context"
	"fmt"
)

func (r *eventRepo) AppendReviewEvent(ctx context.Context, data ReviewEventData) error {
	err := r.insert(ctx, "review_events",
		[]string{"item_id", "recalled", "from_bucket", "to_bucket", "due"},
		[]any{data.ItemID, boolInt(data.Recalled), data.FromBucket, data.ToBucket, data.Due.UTC().UnixMilli()},
	)
	if err != nil {
		return fmt.Errorf("save review event: %w", err)
	}
	return nil
}
