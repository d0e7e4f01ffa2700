package catalog

import (
	"fmt"

	"github.com/abhisek/bulglo/internal/exercise"
)

// Course is the top-level course description.
type Course struct {
	ID      string   `yaml:"id"`
	Title   string   `yaml:"title"`
	Version string   `yaml:"version"`
	Units   []string `yaml:"units"`
}

// Unit groups lessons. Units are presented in ascending Order.
type Unit struct {
	ID      string   `yaml:"id"`
	Title   string   `yaml:"title"`
	Order   int      `yaml:"order"`
	Lessons []string `yaml:"lessons"`
}

// Lesson is an ordered list of exercises.
type Lesson struct {
	ID            string
	Title         string
	UnitID        string
	Prerequisites []string
	Exercises     []*exercise.Exercise
	Vocab         []string
}

// VocabItem is a Bulgarian word with its English meaning.
type VocabItem struct {
	ID       string   `yaml:"id"`
	BG       string   `yaml:"bg"`
	EN       string   `yaml:"en"`
	Translit string   `yaml:"translit"`
	Tags     []string `yaml:"tags"`
}

// Letter is an alphabet card.
type Letter struct {
	ID           string   `yaml:"id"`
	Upper        string   `yaml:"upper"`
	Lower        string   `yaml:"lower"`
	Name         string   `yaml:"name"`
	Romanization string   `yaml:"romanization"`
	IPA          string   `yaml:"ipa"`
	Tips         []string `yaml:"tips"`
}

// Warning describes content that loaded but cannot be fully used.
type Warning struct {
	LessonID   string
	ExerciseID string
	Err        error
}

func (w Warning) String() string {
	if w.ExerciseID == "" {
		return fmt.Sprintf("lesson %s: %v", w.LessonID, w.Err)
	}
	return fmt.Sprintf("lesson %s exercise %s: %v", w.LessonID, w.ExerciseID, w.Err)
}
