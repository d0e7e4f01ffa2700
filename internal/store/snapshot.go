package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

const snapshotsTable = "snapshots"

// snapshotRepo implements SnapshotRepo on the SQL driver.
type snapshotRepo struct {
	drv *entsql.Driver
	seq *sequenceCounter
}

// Save stores snap. A zero Sequence is filled from the store's global
// counter so later snapshots always order after earlier ones.
func (r *snapshotRepo) Save(ctx context.Context, snap *Snapshot) error {
	if snap.Sequence == 0 {
		seq, err := r.seq.Next(ctx)
		if err != nil {
			return fmt.Errorf("assign snapshot sequence: %w", err)
		}
		snap.Sequence = seq
	}

	data, err := json.Marshal(snap.Data)
	if err != nil {
		return fmt.Errorf("marshal snapshot data: %w", err)
	}

	q, args := entsql.Dialect(dialect.SQLite).
		Insert(snapshotsTable).
		Columns("sequence", "timestamp", "data").
		Values(snap.Sequence, snap.Timestamp.UnixMilli(), string(data)).
		Query()

	tx, err := r.drv.Tx(ctx)
	if err != nil {
		return fmt.Errorf("begin snapshot tx: %w", err)
	}
	var res sql.Result
	if err := tx.Exec(ctx, q, args, &res); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("save snapshot: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit snapshot: %w", err)
	}
	if id, err := res.LastInsertId(); err == nil {
		snap.ID = int(id)
	}
	return nil
}

func (r *snapshotRepo) Latest(ctx context.Context) (*Snapshot, error) {
	q, args := entsql.Dialect(dialect.SQLite).
		Select("id", "sequence", "timestamp", "data").
		From(entsql.Table(snapshotsTable)).
		OrderBy(entsql.Desc("sequence"), entsql.Desc("id")).
		Limit(1).
		Query()

	var rows entsql.Rows
	if err := r.drv.Query(ctx, q, args, &rows); err != nil {
		return nil, fmt.Errorf("query latest snapshot: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("query latest snapshot: %w", err)
		}
		return nil, nil
	}

	var (
		snap Snapshot
		ts   int64
		raw  string
	)
	if err := rows.Scan(&snap.ID, &snap.Sequence, &ts, &raw); err != nil {
		return nil, fmt.Errorf("scan snapshot: %w", err)
	}
	if err := json.Unmarshal([]byte(raw), &snap.Data); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot data: %w", err)
	}
	snap.Timestamp = time.UnixMilli(ts).UTC()
	return &snap, nil
}

func (r *snapshotRepo) Prune(ctx context.Context, keep int) error {
	// Find the (keep+1)th most recent snapshot; it and everything older go.
	q, args := entsql.Dialect(dialect.SQLite).
		Select("id", "sequence").
		From(entsql.Table(snapshotsTable)).
		OrderBy(entsql.Desc("sequence"), entsql.Desc("id")).
		Offset(keep).
		Limit(1).
		Query()

	var rows entsql.Rows
	if err := r.drv.Query(ctx, q, args, &rows); err != nil {
		return fmt.Errorf("query snapshots for prune: %w", err)
	}
	var id, seq int64
	found := rows.Next()
	if found {
		if err := rows.Scan(&id, &seq); err != nil {
			rows.Close()
			return fmt.Errorf("scan prune threshold: %w", err)
		}
	}
	rows.Close()
	if !found {
		return nil // fewer than keep snapshots exist
	}

	q, args = entsql.Dialect(dialect.SQLite).
		Delete(snapshotsTable).
		Where(entsql.Or(
			entsql.LT("sequence", seq),
			entsql.And(entsql.EQ("sequence", seq), entsql.LTE("id", id)),
		)).
		Query()
	if err := r.drv.Exec(ctx, q, args, nil); err != nil {
		return fmt.Errorf("prune snapshots: %w", err)
	}
	return nil
}
