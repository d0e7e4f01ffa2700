package lesson

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/bulglo/internal/attempt"
	"github.com/abhisek/bulglo/internal/badges"
	"github.com/abhisek/bulglo/internal/exercise"
	"github.com/abhisek/bulglo/internal/progress"
	"github.com/abhisek/bulglo/internal/srs"
	"github.com/abhisek/bulglo/internal/store"
)

type mockEventRepo struct {
	lessons []store.LessonEventData
	answers []store.AnswerEventData
	reviews []store.ReviewEventData
	badges  []store.BadgeEventData
}

func (m *mockEventRepo) AppendLessonEvent(_ context.Context, d store.LessonEventData) error {
	m.lessons = append(m.lessons, d)
	return nil
}
func (m *mockEventRepo) AppendAnswerEvent(_ context.Context, d store.AnswerEventData) error {
	m.answers = append(m.answers, d)
	return nil
}
func (m *mockEventRepo) AppendReviewEvent(_ context.Context, d store.ReviewEventData) error {
	m.reviews = append(m.reviews, d)
	return nil
}
func (m *mockEventRepo) AppendBadgeEvent(_ context.Context, d store.BadgeEventData) error {
	m.badges = append(m.badges, d)
	return nil
}
func (m *mockEventRepo) QueryLessonEvents(context.Context, store.QueryOpts) ([]store.LessonEventRecord, error) {
	return nil, nil
}
func (m *mockEventRepo) AnswerStats(context.Context) (store.AnswerStats, error) {
	return store.AnswerStats{}, nil
}
func (m *mockEventRepo) BadgeCounts(context.Context) (map[string]int, error) { return nil, nil }

type recordingObserver struct {
	calls    []string
	complete []attempt.ExerciseResult
	skipped  []attempt.ExerciseResult
	lesson   *progress.LessonResult
}

func (o *recordingObserver) ExerciseComplete(res attempt.ExerciseResult) {
	o.calls = append(o.calls, "complete:"+res.ExerciseID)
	o.complete = append(o.complete, res)
}
func (o *recordingObserver) Skip(res attempt.ExerciseResult) {
	o.calls = append(o.calls, "skip:"+res.ExerciseID)
	o.skipped = append(o.skipped, res)
}
func (o *recordingObserver) LessonComplete(res progress.LessonResult) {
	o.calls = append(o.calls, "lesson:"+res.LessonID)
	o.lesson = &res
}

type testClock struct{ now time.Time }

func (c *testClock) Now() time.Time { return c.now }

var start = time.Date(2026, 4, 2, 18, 30, 0, 0, time.UTC)

type fixture struct {
	clock    *testClock
	ledger   *progress.Ledger
	events   *mockEventRepo
	observer *recordingObserver
	cfg      Config
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		clock:    &testClock{now: start},
		events:   &mockEventRepo{},
		observer: &recordingObserver{},
	}
	f.ledger = progress.NewLedger(nil,
		progress.WithClock(f.clock.Now),
		progress.WithLocation(time.UTC),
		progress.WithEvents(f.events),
	)
	f.cfg = Config{
		Ledger:   f.ledger,
		Badges:   badges.NewService(f.ledger, f.events, nil),
		Events:   f.events,
		Observer: f.observer,
		Clock:    f.clock.Now,
	}
	return f
}

func mustExercise(t *testing.T, id string, kind exercise.Kind, payload exercise.Payload, expected exercise.Expected) *exercise.Exercise {
	t.Helper()
	ex, err := exercise.New(id, kind, "prompt", payload, expected)
	require.NoError(t, err)
	return ex
}

func trueFalse(t *testing.T, id string) *exercise.Exercise {
	return mustExercise(t, id, exercise.KindTrueFalse, exercise.TrueFalse{Statement: "Здравей means hello"}, exercise.Single("true"))
}

func typed(t *testing.T, id string) *exercise.Exercise {
	return mustExercise(t, id, exercise.KindType, exercise.TypeAnswer{}, exercise.Single("хляб"))
}

func flashcard(t *testing.T, id string) *exercise.Exercise {
	return mustExercise(t, id, exercise.KindFlashcard, exercise.Flashcard{Front: "вода", Back: "water"}, exercise.Single("water"))
}

// settle fires delays until the machine emits an outcome, then hands the
// outcome to the run.
func settle(t *testing.T, f *fixture, r *Run, d *attempt.Delay) {
	t.Helper()
	for d != nil {
		f.clock.now = f.clock.now.Add(d.After)
		step, err := r.Machine().Fire(d.Token)
		require.NoError(t, err)
		if step.Outcome != nil {
			require.NoError(t, r.Record(context.Background(), *step.Outcome))
			return
		}
		d = step.Delay
	}
	t.Fatal("machine stopped without an outcome")
}

func answerCorrectTrueFalse(t *testing.T, f *fixture, r *Run) {
	t.Helper()
	d, err := r.Machine().Select(exercise.Text("true"))
	require.NoError(t, err)
	settle(t, f, r, d)
}

func failTypedThenRate(t *testing.T, f *fixture, r *Run, confidence int) {
	t.Helper()
	m := r.Machine()
	for i := 0; i < attempt.MaxAttempts; i++ {
		_, err := m.Select(exercise.Text("вода"))
		require.NoError(t, err)
		step, err := m.Confirm()
		require.NoError(t, err)
		f.clock.now = f.clock.now.Add(step.Delay.After)
		_, err = m.Fire(step.Delay.Token)
		require.NoError(t, err)
	}
	require.Equal(t, attempt.PhaseConfidenceRating, m.Phase())
	step, err := m.Rate(confidence)
	require.NoError(t, err)
	require.NotNil(t, step.Outcome)
	require.NoError(t, r.Record(context.Background(), *step.Outcome))
}

func gradeFlashcard(t *testing.T, f *fixture, r *Run, grade string) {
	t.Helper()
	require.NoError(t, r.Machine().Flip())
	d, err := r.Machine().Select(exercise.Text(grade))
	require.NoError(t, err)
	settle(t, f, r, d)
}

func TestStart_RequiresExercises(t *testing.T) {
	f := newFixture(t)
	_, err := Start("empty", nil, f.cfg)
	assert.ErrorIs(t, err, ErrNoExercises)
}

func TestRun_MixedLesson(t *testing.T) {
	f := newFixture(t)
	r, err := Start("greetings-1", []*exercise.Exercise{
		trueFalse(t, "ex1"), typed(t, "ex2"), flashcard(t, "ex3"),
	}, f.cfg)
	require.NoError(t, err)
	assert.NotEmpty(t, r.ID)
	assert.Equal(t, 3, r.Total())

	answerCorrectTrueFalse(t, f, r)
	assert.Equal(t, 1, r.Index())
	assert.Equal(t, "ex2", r.Current().ID)

	failTypedThenRate(t, f, r, 1)
	gradeFlashcard(t, f, r, "easy")

	require.True(t, r.Done())
	assert.Nil(t, r.Current())
	assert.Equal(t, []string{"complete:ex1", "complete:ex2", "complete:ex3", "lesson:greetings-1"}, f.observer.calls)

	sum, ok := r.Summary()
	require.True(t, ok)
	assert.Equal(t, 67, sum.Score)
	assert.Equal(t, 3, sum.TotalExercises)
	assert.Equal(t, 2, sum.CorrectAnswers)
	assert.Equal(t, 10, sum.XPEarned)
	require.Len(t, sum.ExerciseResults, 3)
	assert.Equal(t, exercise.GradeEasy, sum.ExerciseResults[2].Grade)

	state := f.ledger.State()
	assert.Equal(t, 10, state.XP, "XP is added exactly once per lesson")
	assert.Equal(t, 67, state.CompletedLessons["greetings-1"].Score)

	// A correct answer without a rating leaves the scheduler alone.
	_, ok = state.SRS[srs.ItemID("greetings-1", "ex1")]
	assert.False(t, ok)
	assert.Equal(t, 0, state.SRS[srs.ItemID("greetings-1", "ex2")].Bucket)
	assert.Equal(t, 1, state.SRS[srs.ItemID("greetings-1", "ex3")].Bucket)

	assert.Len(t, f.events.answers, 3)
	assert.Len(t, f.events.reviews, 2)
	require.Len(t, f.events.lessons, 1)
	assert.Equal(t, r.ID, f.events.lessons[0].RunID)
	assert.Equal(t, 67, f.events.lessons[0].Score)
	assert.Empty(t, r.Awarded())
}

func TestRun_PerfectSingleExerciseLesson(t *testing.T) {
	f := newFixture(t)
	r, err := Start("alphabet-1", []*exercise.Exercise{trueFalse(t, "ex1")}, f.cfg)
	require.NoError(t, err)

	answerCorrectTrueFalse(t, f, r)

	sum, _ := r.Summary()
	assert.Equal(t, 100, sum.Score)
	assert.Equal(t, 20, sum.XPEarned)
	assert.Equal(t, 20, f.ledger.State().XP)

	var ids []badges.ID
	for _, b := range r.Awarded() {
		ids = append(ids, b.ID)
	}
	assert.Equal(t, []badges.ID{badges.PerfectLesson, badges.FirstLesson}, ids)
	assert.True(t, f.ledger.HasBadge(string(badges.FirstLesson)))
	assert.Len(t, f.events.badges, 2)
}

func TestRun_SkipLastExerciseEndsWithoutCompletion(t *testing.T) {
	f := newFixture(t)
	r, err := Start("food-1", []*exercise.Exercise{trueFalse(t, "ex1"), typed(t, "ex2")}, f.cfg)
	require.NoError(t, err)

	answerCorrectTrueFalse(t, f, r)
	d, err := r.Machine().Skip()
	require.NoError(t, err)
	settle(t, f, r, d)

	require.True(t, r.Done())
	assert.False(t, r.Completed())
	assert.Nil(t, r.Current())
	assert.Equal(t, []string{"complete:ex1", "skip:ex2"}, f.observer.calls)
	require.Len(t, f.observer.skipped, 1)
	assert.True(t, f.observer.skipped[0].Skipped)

	_, ok := r.Summary()
	assert.False(t, ok)
	assert.Empty(t, f.ledger.State().CompletedLessons)
	assert.Zero(t, f.ledger.State().XP)
	assert.Empty(t, r.Awarded())
	assert.Empty(t, f.events.lessons)
	assert.Empty(t, f.ledger.State().SRS, "skips leave the scheduler alone")
	require.Len(t, f.events.answers, 2)
	assert.True(t, f.events.answers[1].Skipped)

	err = r.Record(context.Background(), attempt.Outcome{Kind: attempt.OutcomeComplete})
	assert.ErrorIs(t, err, ErrFinished)
}

func TestRun_SkipOnlyExerciseGrantsNothing(t *testing.T) {
	f := newFixture(t)
	r, err := Start("food-1", []*exercise.Exercise{trueFalse(t, "ex1")}, f.cfg)
	require.NoError(t, err)

	d, err := r.Machine().Skip()
	require.NoError(t, err)
	settle(t, f, r, d)

	require.True(t, r.Done())
	assert.False(t, r.Completed())
	assert.Zero(t, f.ledger.State().XP)
	assert.False(t, f.ledger.HasBadge(string(badges.FirstLesson)))
	assert.Empty(t, f.events.badges)
}

func TestRun_SkipBeforeLastStillCompletes(t *testing.T) {
	f := newFixture(t)
	r, err := Start("food-1", []*exercise.Exercise{typed(t, "ex1"), trueFalse(t, "ex2")}, f.cfg)
	require.NoError(t, err)

	d, err := r.Machine().Skip()
	require.NoError(t, err)
	settle(t, f, r, d)
	answerCorrectTrueFalse(t, f, r)

	require.True(t, r.Completed())
	sum, _ := r.Summary()
	assert.Equal(t, 50, sum.Score, "skipped exercises count against the score")
	assert.Equal(t, 2, sum.TotalExercises)
	assert.Equal(t, []string{"skip:ex1", "complete:ex2", "lesson:food-1"}, f.observer.calls)
}

func TestRun_FlashcardNeverDemotes(t *testing.T) {
	f := newFixture(t)
	itemID := srs.ItemID("verbs-1", "card")
	for range 3 {
		f.ledger.ReviewOutcome(context.Background(), itemID, true)
	}
	require.Equal(t, 3, f.ledger.State().SRS[itemID].Bucket)

	r, err := Start("verbs-1", []*exercise.Exercise{flashcard(t, "card")}, f.cfg)
	require.NoError(t, err)
	gradeFlashcard(t, f, r, "hard")

	assert.Equal(t, 4, f.ledger.State().SRS[itemID].Bucket)
}

func TestRun_ConfidenceRoutesRecall(t *testing.T) {
	f := newFixture(t)
	itemID := srs.ItemID("numbers-1", "ex1")
	f.ledger.ReviewOutcome(context.Background(), itemID, true)

	r, err := Start("numbers-1", []*exercise.Exercise{typed(t, "ex1")}, f.cfg)
	require.NoError(t, err)
	failTypedThenRate(t, f, r, 2)

	assert.Equal(t, 2, f.ledger.State().SRS[itemID].Bucket, "confidence 2 counts as recalled")
}

func TestRecord_AfterFinish(t *testing.T) {
	f := newFixture(t)
	r, err := Start("x", []*exercise.Exercise{trueFalse(t, "ex1")}, f.cfg)
	require.NoError(t, err)
	answerCorrectTrueFalse(t, f, r)

	err = r.Record(context.Background(), attempt.Outcome{Kind: attempt.OutcomeComplete})
	assert.ErrorIs(t, err, ErrFinished)
}

func TestAbandon_DropsPendingCompletion(t *testing.T) {
	f := newFixture(t)
	r, err := Start("x", []*exercise.Exercise{trueFalse(t, "ex1")}, f.cfg)
	require.NoError(t, err)

	d, err := r.Machine().Select(exercise.Text("true"))
	require.NoError(t, err)
	r.Abandon()

	step, err := r.Machine().Fire(d.Token)
	require.NoError(t, err)
	assert.Nil(t, step.Outcome)
	assert.False(t, r.Done())
	assert.Empty(t, f.ledger.State().CompletedLessons)
}

func TestScore(t *testing.T) {
	tests := []struct {
		correct, total, want int
	}{
		{0, 0, 0},
		{2, 3, 67},
		{1, 3, 33},
		{5, 5, 100},
		{1, 8, 13},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Score(tt.correct, tt.total), "Score(%d, %d)", tt.correct, tt.total)
	}
}
