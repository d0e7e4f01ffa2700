package attempt

import (
	"errors"
	"testing"
	"time"

	"github.com/abhisek/bulglo/internal/exercise"
)

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func mustExercise(t *testing.T, id string, kind exercise.Kind, payload exercise.Payload, expected exercise.Expected) *exercise.Exercise {
	t.Helper()
	ex, err := exercise.New(id, kind, "prompt", payload, expected)
	if err != nil {
		t.Fatalf("exercise.New: %v", err)
	}
	return ex
}

func typeExercise(t *testing.T) *exercise.Exercise {
	return mustExercise(t, "cat", exercise.KindType, exercise.TypeAnswer{}, exercise.Single("котка"))
}

func trueFalseExercise(t *testing.T) *exercise.Exercise {
	return mustExercise(t, "tf", exercise.KindTrueFalse, exercise.TrueFalse{Statement: "Да means no"}, exercise.Single("false"))
}

// fire advances the clock by the delay and fires its token.
func fire(t *testing.T, m *Machine, c *fakeClock, d *Delay) Step {
	t.Helper()
	if d == nil {
		t.Fatal("expected a delay, got nil")
	}
	c.Advance(d.After)
	step, err := m.Fire(d.Token)
	if err != nil {
		t.Fatalf("Fire: %v", err)
	}
	return step
}

func TestTypeAnswer_CorrectWithCaseMismatch(t *testing.T) {
	c := newClock()
	m := New(c.Now)
	m.Load(typeExercise(t))

	if d, err := m.Select(exercise.Text("Котка ")); err != nil || d != nil {
		t.Fatalf("Select = %v, %v; want no delay for confirm kind", d, err)
	}
	c.Advance(4 * time.Second)

	step, err := m.Confirm()
	if err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if m.Phase() != PhaseCorrect {
		t.Fatalf("phase = %v, want correct", m.Phase())
	}
	if !m.Verdict().CaseMismatch {
		t.Error("expected case mismatch verdict")
	}
	if step.Delay.After != SettleDelay {
		t.Errorf("delay = %v, want %v", step.Delay.After, SettleDelay)
	}
	if step.Outcome != nil {
		t.Fatal("outcome emitted before settle delay")
	}

	settle := step.Delay
	step = fire(t, m, c, settle)
	if step.Outcome == nil {
		t.Fatal("expected completion outcome")
	}
	res := step.Outcome.Result
	if step.Outcome.Kind != OutcomeComplete || !res.Correct || res.Attempts != 1 {
		t.Errorf("outcome = %+v, want complete correct attempts=1", step.Outcome)
	}
	if res.Confidence != nil {
		t.Error("confidence should be absent on a correct answer")
	}
	if res.TimeSpent != 4*time.Second+SettleDelay {
		t.Errorf("TimeSpent = %v", res.TimeSpent)
	}
	if m.Phase() != PhaseFinished {
		t.Errorf("phase = %v, want finished", m.Phase())
	}

	// Finished exactly once.
	if again, _ := m.Fire(settle.Token); again.Outcome != nil {
		t.Error("outcome emitted twice")
	}
}

func TestConfirm_EmptyAnswer(t *testing.T) {
	m := New(newClock().Now)
	m.Load(typeExercise(t))

	if _, err := m.Confirm(); !errors.Is(err, ErrEmptyAnswer) {
		t.Errorf("Confirm() error = %v, want ErrEmptyAnswer", err)
	}
	m.Select(exercise.Text("   "))
	if _, err := m.Confirm(); !errors.Is(err, ErrEmptyAnswer) {
		t.Errorf("Confirm(blank) error = %v, want ErrEmptyAnswer", err)
	}
	if m.Attempts() != 0 {
		t.Errorf("attempts = %d, want 0", m.Attempts())
	}
}

func TestTrueFalse_ThreeFailuresThenConfidence(t *testing.T) {
	c := newClock()
	m := New(c.Now)
	m.Load(trueFalseExercise(t))

	for i := 1; i <= MaxAttempts; i++ {
		d, err := m.Select(exercise.Text("true"))
		if err != nil {
			t.Fatalf("attempt %d Select: %v", i, err)
		}
		if d.After != AutoSubmitDelay {
			t.Fatalf("auto-submit delay = %v", d.After)
		}
		step := fire(t, m, c, d)
		if m.Attempts() != i {
			t.Fatalf("attempts = %d, want %d", m.Attempts(), i)
		}
		if i < MaxAttempts {
			if m.Phase() != PhaseRetrying {
				t.Fatalf("attempt %d: phase = %v, want retrying", i, m.Phase())
			}
			if _, err := m.Select(exercise.Text("false")); !errors.Is(err, ErrLocked) {
				t.Fatalf("Select during retry error = %v, want ErrLocked", err)
			}
			fire(t, m, c, step.Delay)
			if m.Phase() != PhaseAnswering {
				t.Fatalf("phase after clear = %v", m.Phase())
			}
			if !m.Selection().Empty() {
				t.Error("selection should be cleared after retry delay")
			}
			continue
		}
		if m.Phase() != PhaseRevealed || !m.AnswerRevealed() {
			t.Fatalf("phase = %v, want revealed", m.Phase())
		}
		if step.Delay.After != RevealDelay {
			t.Errorf("reveal delay = %v", step.Delay.After)
		}
		fire(t, m, c, step.Delay)
	}

	if m.Phase() != PhaseConfidenceRating {
		t.Fatalf("phase = %v, want confidence rating", m.Phase())
	}
	if _, err := m.Rate(5); !errors.Is(err, ErrInvalidConfidence) {
		t.Errorf("Rate(5) error = %v", err)
	}

	step, err := m.Rate(1)
	if err != nil {
		t.Fatalf("Rate: %v", err)
	}
	res := step.Outcome.Result
	if res.Correct || res.Attempts != 3 || res.Confidence == nil || *res.Confidence != 1 {
		t.Errorf("result = %+v, want incorrect attempts=3 confidence=1", res)
	}
	if _, err := m.Rate(2); !errors.Is(err, ErrLocked) {
		t.Error("second rating should be rejected")
	}
}

func TestAutoSubmit_NewSelectionSupersedes(t *testing.T) {
	c := newClock()
	m := New(c.Now)
	m.Load(trueFalseExercise(t))

	first, _ := m.Select(exercise.Text("true"))
	second, _ := m.Select(exercise.Text("false"))

	if step, _ := m.Fire(first.Token); step.Delay != nil || step.Outcome != nil || m.Attempts() != 0 {
		t.Fatal("superseded auto-submit should be a no-op")
	}
	step := fire(t, m, c, second)
	if m.Phase() != PhaseCorrect || m.Attempts() != 1 {
		t.Fatalf("phase = %v attempts = %d", m.Phase(), m.Attempts())
	}
	if out := fire(t, m, c, step.Delay).Outcome; out == nil || !out.Result.Correct {
		t.Fatalf("outcome = %+v", out)
	}
}

func TestLoad_InvalidatesPendingTimers(t *testing.T) {
	c := newClock()
	m := New(c.Now)
	m.Load(trueFalseExercise(t))

	d, _ := m.Select(exercise.Text("false"))
	step := fire(t, m, c, d)

	// Learner moves on before the settle delay.
	m.Load(typeExercise(t))

	stale, err := m.Fire(step.Delay.Token)
	if err != nil {
		t.Fatal(err)
	}
	if stale.Outcome != nil || stale.Delay != nil {
		t.Error("stale timer after Load must be a no-op")
	}
	if m.Phase() != PhaseAnswering || m.Attempts() != 0 {
		t.Errorf("new instance leaked state: phase=%v attempts=%d", m.Phase(), m.Attempts())
	}
}

func TestCancel_DropsPendingCompletion(t *testing.T) {
	c := newClock()
	m := New(c.Now)
	m.Load(trueFalseExercise(t))

	d, _ := m.Select(exercise.Text("false"))
	step := fire(t, m, c, d)
	m.Cancel()

	if out, _ := m.Fire(step.Delay.Token); out.Outcome != nil {
		t.Error("cancelled exercise must not complete")
	}
	if _, err := m.Select(exercise.Text("true")); !errors.Is(err, ErrLocked) {
		t.Errorf("Select after cancel error = %v", err)
	}
}

func TestFlashcard_GradeAfterFlip(t *testing.T) {
	c := newClock()
	m := New(c.Now)
	m.Load(mustExercise(t, "fc", exercise.KindFlashcard,
		exercise.Flashcard{Front: "хляб", Back: "bread"}, exercise.Single("bread")))

	if _, err := m.Select(exercise.Text("good")); !errors.Is(err, ErrNotRevealed) {
		t.Fatalf("grade before flip error = %v, want ErrNotRevealed", err)
	}
	if err := m.Flip(); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Select(exercise.Text("great")); !errors.Is(err, ErrInvalidGrade) {
		t.Fatalf("invalid grade error = %v", err)
	}

	d, err := m.Select(exercise.Text("hard"))
	if err != nil {
		t.Fatal(err)
	}
	step := fire(t, m, c, d)
	if m.Phase() != PhaseCorrect {
		t.Fatalf("phase = %v, flashcards never fail", m.Phase())
	}
	out := fire(t, m, c, step.Delay).Outcome
	if out == nil || !out.Result.Correct || out.Result.Grade != exercise.GradeHard {
		t.Fatalf("outcome = %+v", out)
	}
}

func TestFlip_OnlyForFlashcards(t *testing.T) {
	m := New(newClock().Now)
	m.Load(typeExercise(t))
	if err := m.Flip(); !errors.Is(err, ErrLocked) {
		t.Errorf("Flip on type exercise error = %v", err)
	}
}

func TestSkip(t *testing.T) {
	c := newClock()
	m := New(c.Now)
	m.Load(typeExercise(t))

	m.Select(exercise.Text("куче"))
	step, _ := m.Confirm()
	fire(t, m, c, step.Delay)

	d, err := m.Skip()
	if err != nil {
		t.Fatal(err)
	}
	if m.Phase() != PhaseSkipped || !m.AnswerRevealed() {
		t.Fatalf("phase = %v, want skipped with answer revealed", m.Phase())
	}
	if d.After != SkipDelay {
		t.Errorf("skip delay = %v", d.After)
	}
	if _, err := m.Select(exercise.Text("котка")); !errors.Is(err, ErrLocked) {
		t.Error("input must be locked after skip")
	}

	out := fire(t, m, c, d).Outcome
	if out == nil || out.Kind != OutcomeSkip {
		t.Fatalf("outcome = %+v, want skip", out)
	}
	if out.Result.Correct || !out.Result.Skipped || out.Result.Attempts != 1 {
		t.Errorf("skip result = %+v", out.Result)
	}
}

func TestSkip_SupersedesPendingSubmit(t *testing.T) {
	c := newClock()
	m := New(c.Now)
	m.Load(trueFalseExercise(t))

	submit, _ := m.Select(exercise.Text("false"))
	skip, _ := m.Skip()

	if step, _ := m.Fire(submit.Token); step.Delay != nil || m.Attempts() != 0 {
		t.Fatal("pending submit should be cancelled by skip")
	}
	if out := fire(t, m, c, skip).Outcome; out == nil || out.Kind != OutcomeSkip {
		t.Fatalf("outcome = %+v", out)
	}
}

func TestSkip_NotAllowedAfterCorrect(t *testing.T) {
	c := newClock()
	m := New(c.Now)
	m.Load(typeExercise(t))
	m.Select(exercise.Text("котка"))
	m.Confirm()

	if _, err := m.Skip(); !errors.Is(err, ErrLocked) {
		t.Errorf("Skip after correct error = %v", err)
	}
}

func TestUnsupportedExercise(t *testing.T) {
	c := newClock()
	m := New(c.Now)
	m.Load(exercise.Unsupported("bad", "drawing", "draw", errors.New("unknown kind")))

	if _, err := m.Select(exercise.Text("x")); !errors.Is(err, exercise.ErrUnsupported) {
		t.Errorf("Select error = %v, want ErrUnsupported", err)
	}
	d, err := m.Skip()
	if err != nil {
		t.Fatalf("unsupported exercises can still be skipped: %v", err)
	}
	if out := fire(t, m, c, d).Outcome; out == nil || out.Kind != OutcomeSkip {
		t.Fatal("expected skip outcome")
	}
}

func TestShowTip(t *testing.T) {
	ex := typeExercise(t)
	ex.Tips = []string{"It says meow."}
	m := New(newClock().Now)
	m.Load(ex)

	tip, ok := m.ShowTip()
	if !ok || tip != "It says meow." || !m.TipShown() {
		t.Errorf("ShowTip = %q, %v", tip, ok)
	}

	m.Load(typeExercise(t))
	if m.TipShown() {
		t.Error("tip state leaked into the next exercise")
	}
	if _, ok := m.ShowTip(); ok {
		t.Error("exercise without tips should report none")
	}
}
