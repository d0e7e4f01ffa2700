package progress

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"golang.org/x/mod/semver"

	"github.com/abhisek/bulglo/internal/schema"
)

// ErrImportFormat is returned when imported data is not a progress export.
var ErrImportFormat = errors.New("invalid progress data format")

// importSchema accepts any object carrying a version string and a
// non-negative integer xp. Optional fields are type-checked when present.
var importSchema = &schema.Schema{
	Name: "progress-import",
	Definition: map[string]any{
		"type":     "object",
		"required": []any{"version", "xp"},
		"properties": map[string]any{
			"version":       map[string]any{"type": "string", "minLength": 1},
			"xp":            map[string]any{"type": "integer", "minimum": 0},
			"streakDays":    map[string]any{"type": "integer", "minimum": 0},
			"lastActiveISO": map[string]any{"type": "string"},
			"completedLessons": map[string]any{
				"type": "object",
				"additionalProperties": map[string]any{
					"type":     "object",
					"required": []any{"score"},
					"properties": map[string]any{
						"timestamp": map[string]any{"type": "string"},
						"score":     map[string]any{"type": "integer", "minimum": 0, "maximum": 100},
					},
				},
			},
			"srs": map[string]any{
				"type": "object",
				"additionalProperties": map[string]any{
					"type":     "object",
					"required": []any{"bucket", "dueISO"},
					"properties": map[string]any{
						"bucket": map[string]any{"type": "integer", "minimum": 0, "maximum": 4},
						"dueISO": map[string]any{"type": "string"},
					},
				},
			},
			"badges": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
			"settings": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"theme":        map[string]any{"enum": []any{"system", "light", "dark"}},
					"soundEnabled": map[string]any{"type": "boolean"},
					"haptics":      map[string]any{"type": "boolean"},
				},
			},
		},
	},
}

// exportDocument is the export file: the state plus when it was taken.
type exportDocument struct {
	State
	ExportedAt time.Time `json:"exportedAt"`
}

// Export serialises the whole state as indented JSON with an exportedAt
// timestamp.
func (l *Ledger) Export() ([]byte, error) {
	l.mu.Lock()
	doc := exportDocument{State: l.state.Clone(), ExportedAt: l.clock().UTC()}
	l.mu.Unlock()

	doc.Level = Level(doc.XP)
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal progress: %w", err)
	}
	return b, nil
}

// Import replaces the state with data produced by Export. The data must
// contain version and xp. The imported version is replaced with
// SchemaVersion and the level is recomputed from xp. On error the current
// state is left untouched.
func (l *Ledger) Import(data []byte) error {
	if err := schema.Validate(importSchema, data); err != nil {
		return fmt.Errorf("%w: %v", ErrImportFormat, err)
	}

	var doc exportDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("%w: %v", ErrImportFormat, err)
	}

	st := doc.State
	if v := "v" + st.Version; semver.IsValid(v) && semver.Compare(v, "v"+SchemaVersion) > 0 {
		l.logger.Warn("importing progress from a newer schema", "version", st.Version, "current", SchemaVersion)
	}
	st.Version = SchemaVersion
	st.normalize()
	for id, it := range st.SRS {
		it.Due = it.Due.UTC()
		st.SRS[id] = it
	}
	for id, rec := range st.CompletedLessons {
		rec.Timestamp = rec.Timestamp.UTC()
		st.CompletedLessons[id] = rec
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.state = st
	l.changed()
	return nil
}
