package progress

import (
	"time"

	"github.com/abhisek/bulglo/internal/srs"
	"github.com/abhisek/bulglo/internal/store"
)

// ToSnapshotData converts the state to its persisted form.
func ToSnapshotData(s State) store.SnapshotData {
	data := store.SnapshotData{
		Version:          s.Version,
		XP:               s.XP,
		Level:            Level(s.XP),
		StreakDays:       s.StreakDays,
		CompletedLessons: make(map[string]store.LessonRecordData, len(s.CompletedLessons)),
		SRS:              make(map[string]store.SRSItemData, len(s.SRS)),
		Badges:           append([]string{}, s.Badges...),
		Settings: store.SettingsData{
			Theme:        string(s.Settings.Theme),
			SoundEnabled: s.Settings.SoundEnabled,
			Haptics:      s.Settings.Haptics,
		},
	}
	if !s.LastActive.IsZero() {
		data.LastActive = s.LastActive.UTC().Format(time.RFC3339Nano)
	}
	for id, rec := range s.CompletedLessons {
		data.CompletedLessons[id] = store.LessonRecordData{
			Timestamp: rec.Timestamp.UTC().Format(time.RFC3339Nano),
			Score:     rec.Score,
		}
	}
	for id, it := range s.SRS {
		data.SRS[id] = store.SRSItemData{
			Bucket: it.Bucket,
			DueISO: it.Due.UTC().Format(time.RFC3339Nano),
		}
	}
	return data
}

// FromSnapshotData restores a state from its persisted form. Unparseable
// timestamps are dropped: a lesson record keeps its score and an SRS item
// becomes due immediately.
func FromSnapshotData(data store.SnapshotData) State {
	s := State{
		Version:          SchemaVersion,
		XP:               data.XP,
		StreakDays:       data.StreakDays,
		CompletedLessons: make(map[string]LessonRecord, len(data.CompletedLessons)),
		SRS:              make(map[string]srs.Item, len(data.SRS)),
		Badges:           append([]string{}, data.Badges...),
		Settings: Settings{
			Theme:        Theme(data.Settings.Theme),
			SoundEnabled: data.Settings.SoundEnabled,
			Haptics:      data.Settings.Haptics,
		},
	}
	s.LastActive, _ = time.Parse(time.RFC3339Nano, data.LastActive)
	for id, rec := range data.CompletedLessons {
		ts, _ := time.Parse(time.RFC3339Nano, rec.Timestamp)
		s.CompletedLessons[id] = LessonRecord{Timestamp: ts.UTC(), Score: rec.Score}
	}
	for id, it := range data.SRS {
		due, _ := time.Parse(time.RFC3339Nano, it.DueISO)
		s.SRS[id] = srs.Item{Bucket: it.Bucket, Due: due.UTC()}
	}
	s.normalize()
	for id, it := range s.SRS {
		if it.Bucket < 0 || it.Bucket > srs.MaxBucket {
			it.Bucket = min(max(it.Bucket, 0), srs.MaxBucket)
			s.SRS[id] = it
		}
	}
	return s
}
