package attempt

import (
	"time"

	"github.com/abhisek/bulglo/internal/exercise"
)

// ExerciseResult is reported once per completed or skipped exercise.
type ExerciseResult struct {
	ExerciseID   string         `json:"exerciseId"`
	Correct      bool           `json:"correct"`
	CaseMismatch bool           `json:"caseMismatch,omitempty"`
	TimeSpent    time.Duration  `json:"timeSpent"`
	Attempts     int            `json:"attempts"`
	Confidence   *int           `json:"srsConfidence,omitempty"`
	Grade        exercise.Grade `json:"grade,omitempty"`
	Skipped      bool           `json:"skipped,omitempty"`
	TipShown     bool           `json:"tipShown,omitempty"`
}
