// Package player is the screen that plays one lesson: it renders the
// current exercise, turns keys into attempt-machine actions and schedules
// the machine's delays as Bubble Tea ticks.
package player

import (
	"context"
	"errors"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/bulglo/internal/attempt"
	"github.com/abhisek/bulglo/internal/catalog"
	"github.com/abhisek/bulglo/internal/exercise"
	"github.com/abhisek/bulglo/internal/lesson"
	"github.com/abhisek/bulglo/internal/progress"
	"github.com/abhisek/bulglo/internal/router"
	"github.com/abhisek/bulglo/internal/screen"
	"github.com/abhisek/bulglo/internal/screens/summary"
	"github.com/abhisek/bulglo/internal/ui/components"
	"github.com/abhisek/bulglo/internal/ui/layout"
)

// delayMsg fires a transition the attempt machine scheduled.
type delayMsg struct {
	token attempt.Token
}

// Player plays a lesson.
type Player struct {
	svc    *screen.Services
	lesson catalog.Lesson
	run    *lesson.Run

	choice components.MultiChoice
	tiles  components.Tiles
	pairs  components.Pairs
	input  components.TextInput

	tip    string
	notice string
	last   *attempt.ExerciseResult
	err    error

	// tick turns a scheduled delay into a command. Tests replace it to fire
	// delays on demand.
	tick func(attempt.Delay) tea.Cmd
}

var _ screen.Screen = (*Player)(nil)
var _ screen.KeyHintProvider = (*Player)(nil)
var _ screen.Leaver = (*Player)(nil)
var _ lesson.Observer = (*Player)(nil)

// New starts a run of l. If the lesson cannot be started the screen shows
// the error and only allows going back.
func New(svc *screen.Services, l catalog.Lesson) *Player {
	p := &Player{svc: svc, lesson: l, tick: defaultTick}
	run, err := lesson.Start(l.ID, l.Exercises, lesson.Config{
		Ledger:   svc.Ledger,
		Badges:   svc.Badges,
		Events:   svc.Events,
		Observer: p,
		Clock:    svc.Clock,
		Logger:   svc.Log(),
	})
	if err != nil {
		p.err = err
		return p
	}
	p.run = run
	p.loadWidgets()
	return p
}

func defaultTick(d attempt.Delay) tea.Cmd {
	return tea.Tick(d.After, func(time.Time) tea.Msg {
		return delayMsg{token: d.Token}
	})
}

func (p *Player) Init() tea.Cmd {
	if p.run != nil && p.current().Kind == exercise.KindType {
		return p.input.Init()
	}
	return nil
}

func (p *Player) Title() string {
	return p.lesson.Title
}

// Leave abandons an unfinished run.
func (p *Player) Leave() {
	if p.run != nil && !p.run.Done() {
		p.run.Abandon()
	}
}

// ExerciseComplete implements lesson.Observer.
func (p *Player) ExerciseComplete(res attempt.ExerciseResult) {
	p.last = &res
}

// Skip implements lesson.Observer.
func (p *Player) Skip(res attempt.ExerciseResult) {
	p.last = &res
}

// LessonComplete implements lesson.Observer.
func (p *Player) LessonComplete(res progress.LessonResult) {
	p.svc.Log().Debug("lesson summary ready", "lesson", res.LessonID, "score", res.Score)
}

func (p *Player) machine() *attempt.Machine { return p.run.Machine() }

func (p *Player) current() *exercise.Exercise { return p.run.Current() }

func (p *Player) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if p.run == nil || p.run.Done() {
		return p, nil
	}

	switch msg := msg.(type) {
	case delayMsg:
		step, err := p.machine().Fire(msg.token)
		if err != nil {
			p.fail(err)
			return p, nil
		}
		return p.apply(step)

	case tea.KeyMsg:
		return p.handleKey(msg)
	}

	if p.current().Kind == exercise.KindType {
		var cmd tea.Cmd
		p.input, cmd = p.input.Update(msg)
		return p, cmd
	}
	return p, nil
}

func (p *Player) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	m := p.machine()
	key := msg.String()

	switch key {
	case "ctrl+t":
		if tip, ok := m.ShowTip(); ok {
			p.tip = tip
		} else {
			p.notice = "No tip for this one."
		}
		return p, nil
	case "ctrl+s":
		d, err := m.Skip()
		if err != nil {
			p.fail(err)
			return p, nil
		}
		p.lock()
		return p, p.tick(*d)
	}

	if m.Phase() == attempt.PhaseConfidenceRating {
		if len(key) == 1 && key[0] >= '0' && key[0] <= '4' {
			step, err := m.Rate(int(key[0] - '0'))
			if err != nil {
				p.fail(err)
				return p, nil
			}
			return p.apply(step)
		}
		return p, nil
	}
	if m.Phase() != attempt.PhaseAnswering {
		return p, nil
	}
	p.notice = ""

	ex := p.current()
	if !ex.Supported() {
		return p, nil
	}

	switch ex.Kind {
	case exercise.KindMultipleChoice, exercise.KindTrueFalse:
		var picked bool
		p.choice, picked = p.choice.Update(msg)
		if !picked {
			return p, nil
		}
		opt, _ := p.choice.Selected()
		return p.selectAnswer(exercise.Text(opt))

	case exercise.KindFlashcard:
		if !m.Flipped() {
			if key == "space" || key == "enter" {
				if err := m.Flip(); err != nil {
					p.fail(err)
				}
			}
			return p, nil
		}
		if g, ok := gradeKeys[key]; ok {
			return p.selectAnswer(exercise.Text(string(g)))
		}
		return p, nil

	case exercise.KindSelectLetters, exercise.KindOrderWords:
		if key == "enter" {
			return p.confirm()
		}
		var changed bool
		p.tiles, changed = p.tiles.Update(msg)
		if changed {
			return p.selectAnswer(exercise.Sequence(p.tiles.Sequence()...))
		}
		return p, nil

	case exercise.KindMatchPairs:
		if key == "enter" {
			if !p.pairs.Complete() {
				p.notice = "Match every item first."
				return p, nil
			}
			return p.confirm()
		}
		var changed bool
		p.pairs, changed = p.pairs.Update(msg)
		if changed {
			return p.selectAnswer(exercise.Sequence(p.pairs.Sequence()...))
		}
		return p, nil

	case exercise.KindType:
		if key == "enter" {
			if _, err := m.Select(exercise.Text(p.input.Value())); err != nil {
				p.fail(err)
				return p, nil
			}
			return p.confirm()
		}
		var cmd tea.Cmd
		p.input, cmd = p.input.Update(msg)
		return p, cmd
	}
	return p, nil
}

var gradeKeys = map[string]exercise.Grade{
	"1": exercise.GradeHard, "h": exercise.GradeHard,
	"2": exercise.GradeGood, "g": exercise.GradeGood,
	"3": exercise.GradeEasy, "e": exercise.GradeEasy,
}

// selectAnswer records the learner's current answer. Auto-submitting kinds
// get their submit scheduled.
func (p *Player) selectAnswer(ans exercise.Answer) (screen.Screen, tea.Cmd) {
	d, err := p.machine().Select(ans)
	if err != nil {
		p.fail(err)
		return p, nil
	}
	if d == nil {
		return p, nil
	}
	return p, p.tick(*d)
}

func (p *Player) confirm() (screen.Screen, tea.Cmd) {
	step, err := p.machine().Confirm()
	if errors.Is(err, attempt.ErrEmptyAnswer) {
		p.notice = "Enter an answer first."
		return p, nil
	}
	if err != nil {
		p.fail(err)
		return p, nil
	}
	return p.apply(step)
}

// apply handles the result of a machine action: it schedules the next
// delay, records an outcome, and refreshes the widgets for the new phase.
func (p *Player) apply(step attempt.Step) (screen.Screen, tea.Cmd) {
	if step.Outcome != nil {
		index := p.run.Index()
		if err := p.run.Record(context.Background(), *step.Outcome); err != nil {
			p.fail(err)
			return p, nil
		}
		if p.run.Done() {
			return p, p.finish()
		}
		if p.run.Index() != index {
			p.loadWidgets()
			return p, p.Init()
		}
	}

	p.sync()
	if step.Delay != nil {
		return p, p.tick(*step.Delay)
	}
	return p, nil
}

func (p *Player) finish() tea.Cmd {
	res, ok := p.run.Summary()
	if !ok {
		return func() tea.Msg { return router.PopScreenMsg{} }
	}
	next := ""
	if l, ok := p.svc.Catalog.NextLesson(p.svc.Ledger.Completed()); ok {
		next = l.Title
	}
	s := summary.New(p.lesson.Title, res, p.run.Awarded(), next)
	return func() tea.Msg { return router.ReplaceScreenMsg{Screen: s} }
}

func (p *Player) fail(err error) {
	p.notice = err.Error()
	exID := ""
	if ex := p.current(); ex != nil {
		exID = ex.ID
	}
	p.svc.Log().Warn("exercise action rejected",
		"lesson", p.lesson.ID,
		"exercise", exID,
		"phase", p.machine().Phase().String(),
		"error", err,
	)
}

// loadWidgets builds fresh input widgets for the current exercise.
func (p *Player) loadWidgets() {
	p.tip = ""
	p.notice = ""
	ex := p.current()

	switch pl := ex.Payload.(type) {
	case exercise.MultipleChoice:
		p.choice = components.NewMultiChoice(pl.Options)
	case exercise.TrueFalse:
		p.choice = components.NewMultiChoice([]string{"true", "false"})
	case exercise.SelectLetters:
		p.tiles = components.NewTiles(pl.Letters)
	case exercise.OrderWords:
		p.tiles = components.NewTiles(pl.Words)
	case exercise.MatchPairs:
		p.pairs = components.NewPairs(pl.LeftItems, pl.RightItems)
	case exercise.TypeAnswer:
		placeholder := pl.Placeholder
		if placeholder == "" {
			placeholder = "Type your answer"
		}
		p.input = components.NewTextInput(placeholder, 64)
	}
}

// lock freezes the widgets while the machine is not answering.
func (p *Player) lock() {
	p.choice.Locked = true
	p.tiles.Locked = true
	p.pairs.Locked = true
}

// sync mirrors the machine phase onto the widgets.
func (p *Player) sync() {
	m := p.machine()
	switch m.Phase() {
	case attempt.PhaseAnswering:
		if m.Attempts() > 0 && m.Selection().Empty() {
			p.choice.Clear()
			p.tiles.Clear()
			p.pairs.Clear()
			p.input.Reset()
		}
		p.choice.Locked = false
		p.tiles.Locked = false
		p.pairs.Locked = false
	case attempt.PhaseCorrect:
		p.lock()
		p.choice.Mark(p.choice.Chosen, false)
		p.input.Submit(true)
	case attempt.PhaseRetrying:
		p.lock()
		p.choice.Mark(-1, true)
		p.input.Submit(false)
	default:
		p.lock()
		if m.AnswerRevealed() {
			p.choice.Mark(optionIndex(p.choice.Options, p.current().Expected), p.choice.Chosen >= 0)
		}
		if m.Phase() == attempt.PhaseRevealed {
			p.input.Submit(false)
		}
	}
}

func optionIndex(options []string, expected exercise.Expected) int {
	for _, want := range expected.Values() {
		for i, opt := range options {
			if strings.EqualFold(strings.TrimSpace(opt), strings.TrimSpace(want)) {
				return i
			}
		}
	}
	return -1
}

// expectedText renders the accepted answer for display.
func expectedText(ex *exercise.Exercise) string {
	switch ex.Kind {
	case exercise.KindSelectLetters:
		return ex.Expected.Join("")
	case exercise.KindOrderWords:
		return ex.Expected.Join(" ")
	case exercise.KindType:
		return ex.Expected.Join(" / ")
	default:
		return ex.Expected.Join(", ")
	}
}

func (p *Player) KeyHints() []layout.KeyHint {
	if p.run == nil || p.run.Done() {
		return []layout.KeyHint{{Key: "Esc", Description: "Back"}}
	}
	m := p.machine()
	if m.Phase() == attempt.PhaseConfidenceRating {
		return []layout.KeyHint{
			{Key: "0-4", Description: "How well did you know it?"},
			{Key: "Esc", Description: "Quit lesson"},
		}
	}

	var hints []layout.KeyHint
	switch p.current().Kind {
	case exercise.KindMultipleChoice, exercise.KindTrueFalse:
		hints = append(hints,
			layout.KeyHint{Key: "↑↓", Description: "Move"},
			layout.KeyHint{Key: "Enter/1-9", Description: "Choose"},
		)
	case exercise.KindFlashcard:
		if m.Flipped() {
			hints = append(hints, layout.KeyHint{Key: "1/2/3", Description: "Hard/Good/Easy"})
		} else {
			hints = append(hints, layout.KeyHint{Key: "Space", Description: "Flip"})
		}
	case exercise.KindSelectLetters, exercise.KindOrderWords:
		hints = append(hints,
			layout.KeyHint{Key: "←→", Description: "Move"},
			layout.KeyHint{Key: "Space", Description: "Pick"},
			layout.KeyHint{Key: "Bksp", Description: "Undo"},
			layout.KeyHint{Key: "Enter", Description: "Check"},
		)
	case exercise.KindMatchPairs:
		hints = append(hints,
			layout.KeyHint{Key: "Tab", Description: "Column"},
			layout.KeyHint{Key: "Space", Description: "Link"},
			layout.KeyHint{Key: "Enter", Description: "Check"},
		)
	case exercise.KindType:
		hints = append(hints, layout.KeyHint{Key: "Enter", Description: "Check"})
	}
	return append(hints,
		layout.KeyHint{Key: "^T", Description: "Tip"},
		layout.KeyHint{Key: "^S", Description: "Skip"},
		layout.KeyHint{Key: "Esc", Description: "Quit"},
	)
}
