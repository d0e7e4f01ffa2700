// Package catalog loads course content and answers which lessons a learner
// may play.
package catalog

import (
	"fmt"
	"sort"
	"strings"

	"github.com/abhisek/bulglo/internal/exercise"
	"github.com/abhisek/bulglo/internal/srs"
)

// Catalog is an immutable, loaded course.
type Catalog struct {
	course   Course
	units    map[string]Unit
	ordered  []Unit
	lessons  map[string]Lesson
	vocab    map[string]VocabItem
	letters  []Letter
	warnings []Warning
}

func newCatalog() *Catalog {
	return &Catalog{
		units:   make(map[string]Unit),
		lessons: make(map[string]Lesson),
		vocab:   make(map[string]VocabItem),
	}
}

// validate checks references between units and lessons. Returns a combined
// error describing every problem found.
func (c *Catalog) validate() error {
	var errs []string
	for _, id := range c.course.Units {
		if _, ok := c.units[id]; !ok {
			errs = append(errs, fmt.Sprintf("course references unknown unit %q", id))
		}
	}
	for _, u := range c.units {
		for _, id := range u.Lessons {
			if _, ok := c.lessons[id]; !ok {
				errs = append(errs, fmt.Sprintf("unit %q references unknown lesson %q", u.ID, id))
			}
		}
	}
	for _, l := range c.lessons {
		if _, ok := c.units[l.UnitID]; !ok {
			errs = append(errs, fmt.Sprintf("lesson %q belongs to unknown unit %q", l.ID, l.UnitID))
		}
		for _, p := range l.Prerequisites {
			if _, ok := c.lessons[p]; !ok {
				errs = append(errs, fmt.Sprintf("lesson %q references nonexistent prerequisite %q", l.ID, p))
			}
		}
	}
	if cycle := prerequisiteCycle(c.lessons); len(cycle) > 0 {
		errs = append(errs, fmt.Sprintf("prerequisite cycle involving lessons: %s", strings.Join(cycle, ", ")))
	}
	if len(errs) > 0 {
		sort.Strings(errs)
		return fmt.Errorf("%w: %s", ErrInvalidContent, strings.Join(errs, "; "))
	}
	return nil
}

func (c *Catalog) sortUnits() {
	c.ordered = make([]Unit, 0, len(c.units))
	for _, u := range c.units {
		c.ordered = append(c.ordered, u)
	}
	sort.Slice(c.ordered, func(i, j int) bool {
		if c.ordered[i].Order != c.ordered[j].Order {
			return c.ordered[i].Order < c.ordered[j].Order
		}
		return c.ordered[i].ID < c.ordered[j].ID
	})
}

// Course returns the course description.
func (c *Catalog) Course() Course { return c.course }

// Units returns units in presentation order.
func (c *Catalog) Units() []Unit { return append([]Unit(nil), c.ordered...) }

// Unit returns the unit with the given id.
func (c *Catalog) Unit(id string) (Unit, bool) {
	u, ok := c.units[id]
	return u, ok
}

// Lesson returns the lesson with the given id.
func (c *Catalog) Lesson(id string) (Lesson, bool) {
	l, ok := c.lessons[id]
	return l, ok
}

// Lessons returns every lesson in unit order, then in each unit's listed order.
func (c *Catalog) Lessons() []Lesson {
	var out []Lesson
	for _, u := range c.ordered {
		for _, id := range u.Lessons {
			out = append(out, c.lessons[id])
		}
	}
	return out
}

// Vocab returns the vocabulary item with the given id.
func (c *Catalog) Vocab(id string) (VocabItem, bool) {
	v, ok := c.vocab[id]
	return v, ok
}

// Words returns every vocabulary item ordered by id.
func (c *Catalog) Words() []VocabItem {
	out := make([]VocabItem, 0, len(c.vocab))
	for _, v := range c.vocab {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// LessonVocab returns the known vocabulary items a lesson lists.
func (c *Catalog) LessonVocab(lessonID string) []VocabItem {
	l, ok := c.lessons[lessonID]
	if !ok {
		return nil
	}
	var out []VocabItem
	for _, id := range l.Vocab {
		if v, ok := c.vocab[id]; ok {
			out = append(out, v)
		}
	}
	return out
}

// Letters returns alphabet cards in file order.
func (c *Catalog) Letters() []Letter { return append([]Letter(nil), c.letters...) }

// Letter returns the alphabet card with the given id.
func (c *Catalog) Letter(id string) (Letter, bool) {
	for _, l := range c.letters {
		if l.ID == id {
			return l, true
		}
	}
	return Letter{}, false
}

// Warnings returns problems found in exercise content during load.
func (c *Catalog) Warnings() []Warning { return append([]Warning(nil), c.warnings...) }

// UnlockedLessons walks units in order and, within each unit, its lessons in
// order. A lesson is unlocked when every prerequisite is completed; the first
// locked lesson ends the walk for its unit.
func (c *Catalog) UnlockedLessons(completed map[string]bool) []string {
	var out []string
	for _, u := range c.ordered {
		for _, id := range u.Lessons {
			l, ok := c.lessons[id]
			if !ok {
				continue
			}
			if !prerequisitesMet(l, completed) {
				break
			}
			out = append(out, id)
		}
	}
	return out
}

// IsUnlocked reports whether lessonID is currently playable.
func (c *Catalog) IsUnlocked(lessonID string, completed map[string]bool) bool {
	for _, id := range c.UnlockedLessons(completed) {
		if id == lessonID {
			return true
		}
	}
	return false
}

// NextLesson returns the first unlocked lesson that has not been completed.
func (c *Catalog) NextLesson(completed map[string]bool) (Lesson, bool) {
	for _, id := range c.UnlockedLessons(completed) {
		if !completed[id] {
			return c.lessons[id], true
		}
	}
	return Lesson{}, false
}

// UnitProgress returns the number of completed lessons in a unit and its
// lesson count.
func (c *Catalog) UnitProgress(unitID string, completed map[string]bool) (done, total int) {
	u, ok := c.units[unitID]
	if !ok {
		return 0, 0
	}
	for _, id := range u.Lessons {
		if completed[id] {
			done++
		}
	}
	return done, len(u.Lessons)
}

func prerequisitesMet(l Lesson, completed map[string]bool) bool {
	for _, p := range l.Prerequisites {
		if !completed[p] {
			return false
		}
	}
	return true
}

// ItemRef locates a review item in the catalog.
type ItemRef struct {
	Lesson   Lesson
	Exercise *exercise.Exercise
}

// ReviewItems maps every review item id to its lesson and exercise.
func (c *Catalog) ReviewItems() map[string]ItemRef {
	out := make(map[string]ItemRef)
	for _, l := range c.lessons {
		for _, ex := range l.Exercises {
			out[srs.ItemID(l.ID, ex.ID)] = ItemRef{Lesson: l, Exercise: ex}
		}
	}
	return out
}
