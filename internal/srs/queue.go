package srs

import (
	"sort"
	"time"
)

// DueItem pairs an item with its id for queue display.
type DueItem struct {
	ID   string
	Item Item
}

// DueItems returns items due at now, most overdue first. Ties are broken by
// id so the order is stable.
func DueItems(items map[string]Item, now time.Time) []DueItem {
	var due []DueItem
	for id, it := range items {
		if it.IsDue(now) {
			due = append(due, DueItem{ID: id, Item: it})
		}
	}
	sort.Slice(due, func(i, j int) bool {
		if !due[i].Item.Due.Equal(due[j].Item.Due) {
			return due[i].Item.Due.Before(due[j].Item.Due)
		}
		return due[i].ID < due[j].ID
	})
	return due
}

// CountByBucket returns how many items sit in each bucket.
func CountByBucket(items map[string]Item) [MaxBucket + 1]int {
	var counts [MaxBucket + 1]int
	for _, it := range items {
		counts[clamp(it.Bucket)]++
	}
	return counts
}
