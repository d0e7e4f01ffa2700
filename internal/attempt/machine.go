package attempt

import (
	"errors"
	"fmt"
	"time"

	"github.com/abhisek/bulglo/internal/exercise"
)

// MaxAttempts is the number of failed submissions before the answer is
// revealed and a confidence rating is requested.
const MaxAttempts = 3

// Delays applied between phases. The caller schedules them; the machine
// never sleeps.
const (
	AutoSubmitDelay = 500 * time.Millisecond
	SettleDelay     = 1500 * time.Millisecond
	RetryDelay      = 1500 * time.Millisecond
	RevealDelay     = 2000 * time.Millisecond
	SkipDelay       = 2000 * time.Millisecond
)

// MaxConfidence is the highest confidence rating a learner can give.
const MaxConfidence = 4

var (
	// ErrLocked is returned when an action is not allowed in the current phase.
	ErrLocked = errors.New("exercise is not accepting input")

	// ErrEmptyAnswer is returned when confirming without an answer.
	ErrEmptyAnswer = errors.New("answer is empty")

	// ErrNotRevealed is returned when grading a flashcard before flipping it.
	ErrNotRevealed = errors.New("flashcard has not been flipped")

	// ErrInvalidConfidence is returned for ratings outside 0..MaxConfidence.
	ErrInvalidConfidence = errors.New("confidence must be between 0 and 4")

	// ErrInvalidGrade is returned for flashcard grades other than hard/good/easy.
	ErrInvalidGrade = errors.New("grade must be hard, good or easy")
)

// Phase is the interaction phase of the current exercise.
type Phase int

const (
	PhaseAnswering        Phase = iota // Waiting for a selection or confirmation
	PhaseCorrect                       // Answer accepted, settling before completion
	PhaseRetrying                      // Wrong answer shown, cleared after RetryDelay
	PhaseRevealed                      // Attempts exhausted, answer shown
	PhaseConfidenceRating              // Waiting for a 0-4 confidence rating
	PhaseSkipped                       // Skipped, answer shown before advancing
	PhaseFinished                      // Outcome emitted or exercise abandoned
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseAnswering:
		return "answering"
	case PhaseCorrect:
		return "correct"
	case PhaseRetrying:
		return "retrying"
	case PhaseRevealed:
		return "revealed"
	case PhaseConfidenceRating:
		return "confidence"
	case PhaseSkipped:
		return "skipped"
	case PhaseFinished:
		return "finished"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Token identifies one scheduled transition. A token is only honoured while
// it is the machine's pending token for the same exercise instance.
type Token struct {
	Instance uint64
	Seq      uint64
}

// Delay asks the caller to call Fire(Token) once After has elapsed.
type Delay struct {
	Token Token
	After time.Duration
}

// OutcomeKind distinguishes completions from skips.
type OutcomeKind int

const (
	OutcomeComplete OutcomeKind = iota
	OutcomeSkip
)

// Outcome is emitted exactly once per exercise instance.
type Outcome struct {
	Kind   OutcomeKind
	Result ExerciseResult
}

// Step is the result of an action: a transition to schedule, an outcome to
// report, or neither.
type Step struct {
	Delay   *Delay
	Outcome *Outcome
}

type action int

const (
	actionNone action = iota
	actionSubmit
	actionSettle
	actionClear
	actionReveal
	actionSkip
)

// Machine drives a single exercise at a time through its phases.
// It is not safe for concurrent use.
type Machine struct {
	clock func() time.Time

	ex        *exercise.Exercise
	instance  uint64
	seq       uint64
	pending   Token
	action    action
	phase     Phase
	selection exercise.Answer
	verdict   exercise.Verdict
	attempts  int
	flipped   bool
	tipShown  bool
	started   time.Time
}

// New creates a machine. A nil clock uses time.Now.
func New(clock func() time.Time) *Machine {
	if clock == nil {
		clock = time.Now
	}
	return &Machine{clock: clock, phase: PhaseFinished}
}

// Load starts a fresh instance for ex. Any pending transition from the
// previous exercise is invalidated.
func (m *Machine) Load(ex *exercise.Exercise) {
	m.instance++
	m.seq = 0
	m.clearPending()
	m.ex = ex
	m.phase = PhaseAnswering
	m.selection = exercise.Answer{}
	m.verdict = exercise.Verdict{}
	m.attempts = 0
	m.flipped = false
	m.tipShown = false
	m.started = m.clock()
}

// Cancel abandons the current exercise without emitting an outcome.
func (m *Machine) Cancel() {
	m.clearPending()
	m.phase = PhaseFinished
}

// Select records the learner's current answer. Auto-submit kinds return a
// Delay after which the answer is submitted; a newer selection supersedes
// it. Flashcards accept a grade only after Flip.
func (m *Machine) Select(ans exercise.Answer) (*Delay, error) {
	if err := m.acceptingInput(); err != nil {
		return nil, err
	}
	if m.ex.Kind == exercise.KindFlashcard {
		if !m.flipped {
			return nil, ErrNotRevealed
		}
		if _, ok := exercise.ParseGrade(ans.String()); ans.IsList() || !ok {
			return nil, ErrInvalidGrade
		}
	}
	m.selection = ans
	if !m.ex.Kind.AutoSubmit() || ans.Empty() {
		return nil, nil
	}
	d := m.schedule(actionSubmit, AutoSubmitDelay)
	return &d, nil
}

// Confirm submits the current selection immediately.
func (m *Machine) Confirm() (Step, error) {
	if err := m.acceptingInput(); err != nil {
		return Step{}, err
	}
	if m.selection.Empty() {
		return Step{}, ErrEmptyAnswer
	}
	m.clearPending()
	return m.submit()
}

// Flip turns a flashcard to its back face, enabling grading.
func (m *Machine) Flip() error {
	if err := m.acceptingInput(); err != nil {
		return err
	}
	if m.ex.Kind != exercise.KindFlashcard {
		return ErrLocked
	}
	m.flipped = true
	return nil
}

// ShowTip reveals the first tip of the current exercise.
func (m *Machine) ShowTip() (string, bool) {
	if m.ex == nil {
		return "", false
	}
	tip, ok := m.ex.Tip()
	if ok {
		m.tipShown = true
	}
	return tip, ok
}

// Rate records a confidence rating after the answer was revealed and emits
// the completion.
func (m *Machine) Rate(confidence int) (Step, error) {
	if m.ex == nil || m.phase != PhaseConfidenceRating {
		return Step{}, ErrLocked
	}
	if confidence < 0 || confidence > MaxConfidence {
		return Step{}, ErrInvalidConfidence
	}
	c := confidence
	res := m.result(false)
	res.Confidence = &c
	m.phase = PhaseFinished
	return Step{Outcome: &Outcome{Kind: OutcomeComplete, Result: res}}, nil
}

// Skip abandons the exercise as incorrect. The answer is revealed and the
// skip outcome follows after SkipDelay.
func (m *Machine) Skip() (*Delay, error) {
	if m.ex == nil || (m.phase != PhaseAnswering && m.phase != PhaseRetrying) {
		return nil, ErrLocked
	}
	m.phase = PhaseSkipped
	d := m.schedule(actionSkip, SkipDelay)
	return &d, nil
}

// Fire runs the transition scheduled under tok. Stale tokens are ignored
// and return an empty Step.
func (m *Machine) Fire(tok Token) (Step, error) {
	if m.action == actionNone || tok != m.pending {
		return Step{}, nil
	}
	act := m.action
	m.clearPending()

	switch act {
	case actionSubmit:
		return m.submit()
	case actionSettle:
		m.phase = PhaseFinished
		return Step{Outcome: &Outcome{Kind: OutcomeComplete, Result: m.result(true)}}, nil
	case actionClear:
		m.phase = PhaseAnswering
		m.selection = exercise.Answer{}
		return Step{}, nil
	case actionReveal:
		m.phase = PhaseConfidenceRating
		return Step{}, nil
	case actionSkip:
		m.phase = PhaseFinished
		res := m.result(false)
		res.Skipped = true
		return Step{Outcome: &Outcome{Kind: OutcomeSkip, Result: res}}, nil
	}
	return Step{}, nil
}

func (m *Machine) submit() (Step, error) {
	v, err := exercise.Evaluate(m.ex, m.selection)
	if err != nil {
		return Step{}, fmt.Errorf("evaluate %s: %w", m.ex.ID, err)
	}
	m.attempts++
	m.verdict = v

	var d Delay
	switch {
	case v.Correct:
		m.phase = PhaseCorrect
		d = m.schedule(actionSettle, SettleDelay)
	case m.attempts < MaxAttempts:
		m.phase = PhaseRetrying
		d = m.schedule(actionClear, RetryDelay)
	default:
		m.phase = PhaseRevealed
		d = m.schedule(actionReveal, RevealDelay)
	}
	return Step{Delay: &d}, nil
}

func (m *Machine) acceptingInput() error {
	if m.ex == nil || m.phase != PhaseAnswering {
		return ErrLocked
	}
	if !m.ex.Supported() {
		return fmt.Errorf("%s: %w", m.ex.ID, exercise.ErrUnsupported)
	}
	return nil
}

func (m *Machine) schedule(a action, after time.Duration) Delay {
	m.seq++
	m.pending = Token{Instance: m.instance, Seq: m.seq}
	m.action = a
	return Delay{Token: m.pending, After: after}
}

func (m *Machine) clearPending() {
	m.pending = Token{}
	m.action = actionNone
}

func (m *Machine) result(correct bool) ExerciseResult {
	res := ExerciseResult{
		ExerciseID:   m.ex.ID,
		Correct:      correct,
		CaseMismatch: correct && m.verdict.CaseMismatch,
		TimeSpent:    m.clock().Sub(m.started),
		Attempts:     m.attempts,
		TipShown:     m.tipShown,
	}
	if m.ex.Kind == exercise.KindFlashcard && correct {
		res.Grade, _ = exercise.ParseGrade(m.selection.String())
	}
	return res
}

// Exercise returns the loaded exercise, or nil.
func (m *Machine) Exercise() *exercise.Exercise { return m.ex }

// Phase returns the current phase.
func (m *Machine) Phase() Phase { return m.phase }

// Attempts returns the number of submissions so far.
func (m *Machine) Attempts() int { return m.attempts }

// Selection returns the current, not yet cleared, answer.
func (m *Machine) Selection() exercise.Answer { return m.selection }

// Verdict returns the verdict of the latest submission.
func (m *Machine) Verdict() exercise.Verdict { return m.verdict }

// Flipped reports whether a flashcard shows its back face.
func (m *Machine) Flipped() bool { return m.flipped }

// TipShown reports whether the tip was revealed.
func (m *Machine) TipShown() bool { return m.tipShown }

// AnswerRevealed reports whether the expected answer should be displayed.
func (m *Machine) AnswerRevealed() bool {
	switch m.phase {
	case PhaseRevealed, PhaseConfidenceRating, PhaseSkipped:
		return true
	}
	return false
}

// Pending reports whether a transition is scheduled.
func (m *Machine) Pending() bool { return m.action != actionNone }
