package srs

import "time"

// Item is the review state of one learned exercise.
type Item struct {
	Bucket int       `json:"bucket"`
	Due    time.Time `json:"dueISO"`
}

// ItemID returns the stable key of an exercise within a lesson.
func ItemID(lessonID, exerciseID string) string {
	return lessonID + "-" + exerciseID
}

// NewItem returns the state of an item that has never been reviewed.
func NewItem(now time.Time) Item {
	return Item{Bucket: 0, Due: now}
}

// Review moves the item one bucket up when recalled and one bucket down
// otherwise, and schedules it OffsetDays(bucket) calendar days from now.
func Review(item Item, recalled bool, now time.Time) Item {
	b := item.Bucket
	if recalled {
		b++
	} else {
		b--
	}
	b = clamp(b)
	return Item{Bucket: b, Due: now.AddDate(0, 0, BucketOffsetDays[b])}
}

// RecalledFromConfidence maps a 0-4 confidence rating to a recall signal.
func RecalledFromConfidence(confidence int) bool {
	return confidence >= 2
}

// IsDue returns true if the item is due at now.
func (it Item) IsDue(now time.Time) bool {
	return !now.Before(it.Due)
}

// OverdueDays returns how many days past due the item is. Returns 0 if not yet due.
func (it Item) OverdueDays(now time.Time) float64 {
	if now.Before(it.Due) {
		return 0
	}
	return now.Sub(it.Due).Hours() / 24.0
}

// DaysUntilDue returns the number of whole days until the item is due.
// Returns 0 if already due.
func (it Item) DaysUntilDue(now time.Time) int {
	if it.IsDue(now) {
		return 0
	}
	return int(it.Due.Sub(now).Hours()/24.0) + 1
}

// Status describes an item's review status for display.
type Status string

const (
	StatusNotDue   Status = "not_due"
	StatusDue      Status = "due"
	StatusOverdue  Status = "overdue"
	StatusMastered Status = "mastered"
)

// Status returns the review status for UI display. Items in the top bucket
// that are not yet due report as mastered.
func (it Item) Status(now time.Time) Status {
	if !it.IsDue(now) {
		if it.Bucket == MaxBucket {
			return StatusMastered
		}
		return StatusNotDue
	}
	if it.OverdueDays(now) >= 1 {
		return StatusOverdue
	}
	return StatusDue
}
