package srs

import (
	"math/rand"
	"testing"
	"time"
)

var now = time.Date(2026, 2, 10, 18, 30, 0, 0, time.UTC)

func TestBucketOffsetDays_Values(t *testing.T) {
	expected := []int{0, 1, 2, 4, 7}
	for i, v := range expected {
		if BucketOffsetDays[i] != v {
			t.Errorf("BucketOffsetDays[%d] = %d, want %d", i, BucketOffsetDays[i], v)
		}
	}
}

func TestNewItem(t *testing.T) {
	it := NewItem(now)
	if it.Bucket != 0 || !it.Due.Equal(now) {
		t.Errorf("NewItem = %+v, want bucket 0 due now", it)
	}
	if !it.IsDue(now) {
		t.Error("a new item is due immediately")
	}
}

func TestReview_Transitions(t *testing.T) {
	tests := []struct {
		bucket   int
		recalled bool
		want     int
		days     int
	}{
		{0, true, 1, 1},
		{1, true, 2, 2},
		{2, true, 3, 4},
		{3, true, 4, 7},
		{4, true, 4, 7},
		{4, false, 3, 4},
		{2, false, 1, 1},
		{1, false, 0, 0},
		{0, false, 0, 0},
	}
	for _, tt := range tests {
		got := Review(Item{Bucket: tt.bucket, Due: now}, tt.recalled, now)
		if got.Bucket != tt.want {
			t.Errorf("Review(bucket=%d, recalled=%v).Bucket = %d, want %d", tt.bucket, tt.recalled, got.Bucket, tt.want)
		}
		if want := now.AddDate(0, 0, tt.days); !got.Due.Equal(want) {
			t.Errorf("Review(bucket=%d, recalled=%v).Due = %v, want %v", tt.bucket, tt.recalled, got.Due, want)
		}
	}
}

func TestReview_StaysInRange(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	it := NewItem(now)
	for i := 0; i < 500; i++ {
		it = Review(it, r.Intn(3) > 0, now)
		if it.Bucket < 0 || it.Bucket > MaxBucket {
			t.Fatalf("step %d: bucket %d out of range", i, it.Bucket)
		}
	}
}

func TestReview_CalendarDaysAcrossDST(t *testing.T) {
	sofia, err := time.LoadLocation("Europe/Sofia")
	if err != nil {
		t.Skip("tzdata unavailable")
	}
	// Clocks move forward on 2026-03-29 in Sofia.
	at := time.Date(2026, 3, 27, 9, 0, 0, 0, sofia)
	got := Review(Item{Bucket: 3}, true, at)
	if got.Due.Hour() != 9 || got.Due.Day() != 3 {
		t.Errorf("Due = %v, want 2026-04-03 09:00 local", got.Due)
	}
}

func TestRecalledFromConfidence(t *testing.T) {
	for c := 0; c <= 4; c++ {
		if got, want := RecalledFromConfidence(c), c >= 2; got != want {
			t.Errorf("RecalledFromConfidence(%d) = %v, want %v", c, got, want)
		}
	}
}

func TestItemID(t *testing.T) {
	if got := ItemID("greetings-1", "ex3"); got != "greetings-1-ex3" {
		t.Errorf("ItemID = %q", got)
	}
}

func TestStatus(t *testing.T) {
	tests := []struct {
		name string
		item Item
		want Status
	}{
		{"not due", Item{Bucket: 1, Due: now.Add(time.Hour)}, StatusNotDue},
		{"mastered", Item{Bucket: 4, Due: now.AddDate(0, 0, 3)}, StatusMastered},
		{"due", Item{Bucket: 2, Due: now.Add(-time.Hour)}, StatusDue},
		{"overdue", Item{Bucket: 2, Due: now.AddDate(0, 0, -2)}, StatusOverdue},
	}
	for _, tt := range tests {
		if got := tt.item.Status(now); got != tt.want {
			t.Errorf("%s: Status = %s, want %s", tt.name, got, tt.want)
		}
	}
}

func TestDaysUntilDue(t *testing.T) {
	if d := (Item{Due: now.Add(-time.Minute)}).DaysUntilDue(now); d != 0 {
		t.Errorf("due item: DaysUntilDue = %d, want 0", d)
	}
	if d := (Item{Due: now.Add(36 * time.Hour)}).DaysUntilDue(now); d != 2 {
		t.Errorf("DaysUntilDue = %d, want 2", d)
	}
}

func TestDueItems_SortedMostOverdueFirst(t *testing.T) {
	items := map[string]Item{
		"l1-a": {Bucket: 1, Due: now.AddDate(0, 0, -1)},
		"l1-b": {Bucket: 2, Due: now.AddDate(0, 0, -5)},
		"l2-a": {Bucket: 0, Due: now.AddDate(0, 0, 2)},
		"l2-b": {Bucket: 1, Due: now.AddDate(0, 0, -1)},
	}
	due := DueItems(items, now)
	want := []string{"l1-b", "l1-a", "l2-b"}
	if len(due) != len(want) {
		t.Fatalf("DueItems returned %d items, want %d", len(due), len(want))
	}
	for i, id := range want {
		if due[i].ID != id {
			t.Errorf("DueItems[%d] = %s, want %s", i, due[i].ID, id)
		}
	}
}

func TestCountByBucket(t *testing.T) {
	counts := CountByBucket(map[string]Item{
		"a": {Bucket: 0}, "b": {Bucket: 4}, "c": {Bucket: 4},
	})
	if counts[0] != 1 || counts[4] != 2 {
		t.Errorf("CountByBucket = %v", counts)
	}
}
