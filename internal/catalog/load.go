package catalog

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/abhisek/bulglo/internal/exercise"
	"github.com/abhisek/bulglo/internal/schema"
)

// ErrInvalidContent is returned when a content file is missing or does not
// have the expected structure.
var ErrInvalidContent = errors.New("invalid course content")

//go:embed content
var starter embed.FS

// extensions are tried in order for every content file.
var extensions = []string{".yaml", ".yml", ".json"}

type lessonDoc struct {
	ID            string      `yaml:"id"`
	Title         string      `yaml:"title"`
	UnitID        string      `yaml:"unitId"`
	Prerequisites []string    `yaml:"prerequisites"`
	Exercises     []yaml.Node `yaml:"exercises"`
	Vocab         []string    `yaml:"vocab"`
}

// Starter returns the course bundled with the binary.
func Starter() (*Catalog, error) {
	sub, err := fs.Sub(starter, "content")
	if err != nil {
		return nil, fmt.Errorf("open starter content: %w", err)
	}
	return Load(sub)
}

// LoadDir loads a course from a directory on disk.
func LoadDir(dir string) (*Catalog, error) {
	return Load(os.DirFS(dir))
}

// Load reads course, units and lessons files (required) and vocab and
// letters files (optional) from fsys. Each file may be YAML or JSON.
func Load(fsys fs.FS) (*Catalog, error) {
	c := newCatalog()

	if err := decodeFile(fsys, "course", courseSchema, true, &c.course); err != nil {
		return nil, err
	}

	var units []Unit
	if err := decodeFile(fsys, "units", unitsSchema, true, &units); err != nil {
		return nil, err
	}
	for _, u := range units {
		if _, dup := c.units[u.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate unit id %q", ErrInvalidContent, u.ID)
		}
		c.units[u.ID] = u
	}

	var docs []lessonDoc
	if err := decodeFile(fsys, "lessons", lessonsSchema, true, &docs); err != nil {
		return nil, err
	}
	for _, d := range docs {
		if _, dup := c.lessons[d.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate lesson id %q", ErrInvalidContent, d.ID)
		}
		c.lessons[d.ID] = c.buildLesson(d)
	}

	var vocab []VocabItem
	if err := decodeFile(fsys, "vocab", vocabSchema, false, &vocab); err != nil {
		return nil, err
	}
	for _, v := range vocab {
		c.vocab[v.ID] = v
	}

	var letters []Letter
	if err := decodeFile(fsys, "letters", lettersSchema, false, &letters); err != nil {
		return nil, err
	}
	c.letters = letters

	if err := c.validate(); err != nil {
		return nil, err
	}
	c.sortUnits()
	return c, nil
}

// buildLesson decodes each exercise on its own. Exercises that fail to
// decode become unsupported placeholders and are reported as warnings.
func (c *Catalog) buildLesson(d lessonDoc) Lesson {
	l := Lesson{
		ID:            d.ID,
		Title:         d.Title,
		UnitID:        d.UnitID,
		Prerequisites: d.Prerequisites,
		Vocab:         d.Vocab,
		Exercises:     make([]*exercise.Exercise, 0, len(d.Exercises)),
	}
	seen := make(map[string]bool, len(d.Exercises))
	for i := range d.Exercises {
		ex, err := exercise.DecodeNode(&d.Exercises[i])
		if err != nil {
			c.warnings = append(c.warnings, Warning{LessonID: d.ID, ExerciseID: ex.ID, Err: err})
		}
		if ex.ID != "" && seen[ex.ID] {
			c.warnings = append(c.warnings, Warning{LessonID: d.ID, ExerciseID: ex.ID, Err: errors.New("duplicate exercise id")})
		}
		seen[ex.ID] = true
		l.Exercises = append(l.Exercises, ex)
	}
	return l
}

// decodeFile finds name with one of the supported extensions, validates it
// against s and decodes it into out.
func decodeFile(fsys fs.FS, name string, s *schema.Schema, required bool, out any) error {
	var (
		data []byte
		path string
	)
	for _, ext := range extensions {
		b, err := fs.ReadFile(fsys, name+ext)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return fmt.Errorf("read %s: %w", name+ext, err)
		}
		data, path = b, name+ext
		break
	}
	if path == "" {
		if required {
			return fmt.Errorf("%w: %s file not found", ErrInvalidContent, name)
		}
		return nil
	}

	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("%w: parse %s: %v", ErrInvalidContent, path, err)
	}
	if err := schema.ValidateValue(s, doc); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidContent, path, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: decode %s: %v", ErrInvalidContent, path, err)
	}
	return nil
}
