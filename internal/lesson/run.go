package lesson

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/bulglo/internal/attempt"
	"github.com/abhisek/bulglo/internal/badges"
	"github.com/abhisek/bulglo/internal/exercise"
	"github.com/abhisek/bulglo/internal/progress"
	"github.com/abhisek/bulglo/internal/srs"
	"github.com/abhisek/bulglo/internal/store"
)

var (
	// ErrNoExercises is returned when a lesson has nothing to play.
	ErrNoExercises = errors.New("lesson has no exercises")

	// ErrFinished is returned when an outcome arrives after the last exercise.
	ErrFinished = errors.New("lesson already finished")
)

// Observer receives lesson lifecycle callbacks. Calls happen synchronously on
// the goroutine that drives the run.
type Observer interface {
	ExerciseComplete(res attempt.ExerciseResult)
	Skip(res attempt.ExerciseResult)
	LessonComplete(res progress.LessonResult)
}

// Config holds the collaborators of a run. Ledger is required; the rest are
// optional.
type Config struct {
	Ledger   *progress.Ledger
	Badges   *badges.Service
	Events   store.EventRepo
	Observer Observer
	Clock    func() time.Time
	Logger   *slog.Logger
}

// Run plays one lesson from its first exercise to its summary.
type Run struct {
	ID       string
	LessonID string

	cfg       Config
	exercises []*exercise.Exercise
	machine   *attempt.Machine
	index     int
	results   []attempt.ExerciseResult
	started   time.Time
	summary   *progress.LessonResult
	awarded   []badges.Badge
	ended     bool
}

// Start creates a run and loads the first exercise into its attempt machine.
func Start(lessonID string, exercises []*exercise.Exercise, cfg Config) (*Run, error) {
	if len(exercises) == 0 {
		return nil, fmt.Errorf("start lesson %s: %w", lessonID, ErrNoExercises)
	}
	if cfg.Ledger == nil {
		return nil, fmt.Errorf("start lesson %s: ledger is required", lessonID)
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Badges != nil {
		cfg.Badges.ResetRun()
	}

	r := &Run{
		ID:        uuid.New().String(),
		LessonID:  lessonID,
		cfg:       cfg,
		exercises: exercises,
		machine:   attempt.New(cfg.Clock),
		started:   cfg.Clock(),
	}
	r.machine.Load(exercises[0])
	cfg.Logger.Info("lesson started", "lesson", lessonID, "run", r.ID, "exercises", len(exercises))
	return r, nil
}

// Machine returns the attempt machine for the current exercise.
func (r *Run) Machine() *attempt.Machine { return r.machine }

// Index returns the zero-based position of the current exercise.
func (r *Run) Index() int { return r.index }

// Total returns the number of exercises in the lesson.
func (r *Run) Total() int { return len(r.exercises) }

// Current returns the exercise being played, or nil once finished.
func (r *Run) Current() *exercise.Exercise {
	if r.Done() {
		return nil
	}
	return r.exercises[r.index]
}

// Done reports whether the run has stopped accepting outcomes, either
// because the lesson completed or because the last exercise was skipped.
func (r *Run) Done() bool { return r.summary != nil || r.ended }

// Completed reports whether the run recorded a lesson result.
func (r *Run) Completed() bool { return r.summary != nil }

// Results returns the exercise results recorded so far.
func (r *Run) Results() []attempt.ExerciseResult {
	return append([]attempt.ExerciseResult(nil), r.results...)
}

// Summary returns the lesson result once the run is done.
func (r *Run) Summary() (progress.LessonResult, bool) {
	if r.summary == nil {
		return progress.LessonResult{}, false
	}
	return *r.summary, true
}

// Awarded returns the badges newly unlocked by this run.
func (r *Run) Awarded() []badges.Badge { return r.awarded }

// Record consumes an outcome emitted by the attempt machine. The result is
// logged as an answer event, routed to the review scheduler and reported to
// the observer; then the next exercise is loaded, or the lesson is finished
// when this was the last one. Skipping the last exercise ends the run
// without completing the lesson: no ledger entry, XP or badges.
func (r *Run) Record(ctx context.Context, out attempt.Outcome) error {
	if r.Done() {
		return ErrFinished
	}
	ex := r.exercises[r.index]
	res := out.Result
	r.results = append(r.results, res)

	r.recordAnswer(ctx, ex, res)
	if out.Kind != attempt.OutcomeSkip {
		r.review(ctx, ex, res)
	}

	if r.cfg.Observer != nil {
		if out.Kind == attempt.OutcomeSkip {
			r.cfg.Observer.Skip(res)
		} else {
			r.cfg.Observer.ExerciseComplete(res)
		}
	}

	r.index++
	if r.index < len(r.exercises) {
		r.machine.Load(r.exercises[r.index])
		return nil
	}
	if out.Kind == attempt.OutcomeSkip {
		r.ended = true
		r.cfg.Logger.Info("lesson left on skip", "lesson", r.LessonID, "run", r.ID, "answered", len(r.results))
		return nil
	}
	return r.finish(ctx)
}

// Abandon stops the run without recording a lesson result.
func (r *Run) Abandon() {
	r.machine.Cancel()
	r.cfg.Logger.Info("lesson abandoned", "lesson", r.LessonID, "run", r.ID, "answered", len(r.results))
}

// review routes a result to the scheduler. Flashcards always count as
// recalled; rated results use the confidence; a plain correct answer leaves
// the item alone.
func (r *Run) review(ctx context.Context, ex *exercise.Exercise, res attempt.ExerciseResult) {
	itemID := srs.ItemID(r.LessonID, ex.ID)
	switch {
	case ex.Kind == exercise.KindFlashcard && res.Correct:
		r.cfg.Ledger.ReviewOutcome(ctx, itemID, true)
	case res.Confidence != nil:
		r.cfg.Ledger.ReviewOutcome(ctx, itemID, srs.RecalledFromConfidence(*res.Confidence))
	}
}

func (r *Run) recordAnswer(ctx context.Context, ex *exercise.Exercise, res attempt.ExerciseResult) {
	if r.cfg.Events == nil {
		return
	}
	err := r.cfg.Events.AppendAnswerEvent(ctx, store.AnswerEventData{
		RunID:        r.ID,
		LessonID:     r.LessonID,
		ExerciseID:   ex.ID,
		Kind:         string(ex.Kind),
		Correct:      res.Correct,
		CaseMismatch: res.CaseMismatch,
		Skipped:      res.Skipped,
		Attempts:     res.Attempts,
		TimeMs:       res.TimeSpent.Milliseconds(),
		Confidence:   res.Confidence,
	})
	if err != nil {
		r.cfg.Logger.Warn("record answer event", "exercise", ex.ID, "error", err)
	}
}

func (r *Run) finish(ctx context.Context) error {
	total := len(r.results)
	correct := 0
	for _, res := range r.results {
		if res.Correct {
			correct++
		}
	}
	score := Score(correct, total)
	now := r.cfg.Clock()

	summary := progress.LessonResult{
		LessonID:        r.LessonID,
		Score:           score,
		TotalExercises:  total,
		CorrectAnswers:  correct,
		XPEarned:        badges.LessonXP(score),
		CompletedAt:     now,
		ExerciseResults: r.Results(),
	}
	if err := r.cfg.Ledger.CompleteLesson(summary); err != nil {
		return fmt.Errorf("finish lesson %s: %w", r.LessonID, err)
	}
	r.summary = &summary

	if r.cfg.Badges != nil {
		r.awarded = r.cfg.Badges.AwardLesson(ctx, r.ID, r.LessonID, score, correct, total)
	}

	if r.cfg.Events != nil {
		err := r.cfg.Events.AppendLessonEvent(ctx, store.LessonEventData{
			RunID:        r.ID,
			LessonID:     r.LessonID,
			Score:        score,
			Total:        total,
			Correct:      correct,
			XPEarned:     summary.XPEarned,
			DurationSecs: int(now.Sub(r.started).Seconds()),
		})
		if err != nil {
			r.cfg.Logger.Warn("record lesson event", "lesson", r.LessonID, "error", err)
		}
	}

	r.cfg.Logger.Info("lesson completed",
		"lesson", r.LessonID,
		"run", r.ID,
		"score", score,
		"xp", summary.XPEarned,
		"badges", len(r.awarded),
	)
	if r.cfg.Observer != nil {
		r.cfg.Observer.LessonComplete(summary)
	}
	return nil
}

// Score returns the rounded percentage of correct answers. Skipped
// exercises count against the score.
func Score(correct, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(correct) / float64(total) * 100))
}
