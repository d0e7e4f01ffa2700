// Package autosave persists progress snapshots in the background.
package autosave

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/felixgeelhaar/fortify/retry"

	"github.com/abhisek/bulglo/internal/store"
)

// Defaults for Config fields left zero.
const (
	DefaultKeep         = 20
	DefaultMaxAttempts  = 3
	DefaultInitialDelay = 200 * time.Millisecond
	DefaultWriteTimeout = 5 * time.Second

	// pruneEvery is the number of successful writes between prunes.
	pruneEvery = 10
)

// Config tunes the writer.
type Config struct {
	// Keep is how many snapshots survive a prune.
	Keep int

	MaxAttempts  int
	InitialDelay time.Duration
	WriteTimeout time.Duration

	Clock  func() time.Time
	Logger *slog.Logger
}

// Writer is a write-behind snapshot sink. It holds at most one pending
// snapshot; a newer snapshot replaces an older one that has not been
// written yet. Failed writes are retried with exponential backoff, and a
// write that still fails marks the writer degraded until the next success.
type Writer struct {
	repo    store.SnapshotRepo
	retrier retry.Retry[struct{}]
	cfg     Config

	mu      sync.Mutex
	idle    *sync.Cond
	pending *store.SnapshotData
	writing bool
	closed  bool

	wake     chan struct{}
	stop     chan struct{}
	done     chan struct{}
	degraded atomic.Bool
	written  int
}

// New starts a writer that saves into repo.
func New(repo store.SnapshotRepo, cfg Config) *Writer {
	if cfg.Keep <= 0 {
		cfg.Keep = DefaultKeep
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultMaxAttempts
	}
	if cfg.InitialDelay <= 0 {
		cfg.InitialDelay = DefaultInitialDelay
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	w := &Writer{
		repo: repo,
		cfg:  cfg,
		retrier: retry.New[struct{}](retry.Config{
			MaxAttempts:   cfg.MaxAttempts,
			InitialDelay:  cfg.InitialDelay,
			MaxDelay:      cfg.InitialDelay * 8,
			Multiplier:    2.0,
			BackoffPolicy: retry.BackoffExponential,
			IsRetryable: func(err error) bool {
				return !errors.Is(err, context.Canceled)
			},
		}),
		wake: make(chan struct{}, 1),
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
	w.idle = sync.NewCond(&w.mu)
	go w.loop()
	return w
}

// Enqueue schedules a snapshot for writing. It never blocks on storage.
func (w *Writer) Enqueue(data store.SnapshotData) {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		w.cfg.Logger.Warn("snapshot dropped after close")
		return
	}
	w.pending = &data
	w.mu.Unlock()

	select {
	case w.wake <- struct{}{}:
	default:
	}
}

// Flush blocks until no snapshot is pending or being written.
func (w *Writer) Flush() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for w.pending != nil || w.writing {
		w.idle.Wait()
	}
}

// Close flushes the pending snapshot and stops the background goroutine.
func (w *Writer) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	w.mu.Unlock()

	close(w.stop)
	<-w.done
	return nil
}

// Degraded reports whether the most recent write failed after all retries.
func (w *Writer) Degraded() bool {
	return w.degraded.Load()
}

func (w *Writer) loop() {
	defer close(w.done)
	for {
		select {
		case <-w.wake:
			w.writePending()
		case <-w.stop:
			w.writePending()
			return
		}
	}
}

func (w *Writer) writePending() {
	w.mu.Lock()
	snap := w.pending
	w.pending = nil
	w.writing = snap != nil
	w.mu.Unlock()

	if snap != nil {
		w.write(snap)
	}

	w.mu.Lock()
	w.writing = false
	w.idle.Broadcast()
	w.mu.Unlock()
}

func (w *Writer) write(data *store.SnapshotData) {
	ctx, cancel := context.WithTimeout(context.Background(), w.cfg.WriteTimeout*time.Duration(w.cfg.MaxAttempts))
	defer cancel()

	snap := &store.Snapshot{Timestamp: w.cfg.Clock(), Data: *data}
	_, err := w.retrier.Do(ctx, func(ctx context.Context) (struct{}, error) {
		attemptCtx, cancel := context.WithTimeout(ctx, w.cfg.WriteTimeout)
		defer cancel()
		return struct{}{}, w.repo.Save(attemptCtx, snap)
	})
	if err != nil {
		if !w.degraded.Swap(true) {
			w.cfg.Logger.Warn("progress is not being saved; continuing in memory", "error", err)
		}
		return
	}
	if w.degraded.Swap(false) {
		w.cfg.Logger.Info("progress saving recovered")
	}

	w.written++
	if w.written%pruneEvery == 0 {
		if err := w.repo.Prune(ctx, w.cfg.Keep); err != nil {
			w.cfg.Logger.Warn("prune snapshots", "error", err)
		}
	}
}
