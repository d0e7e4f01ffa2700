package catalog

import "github.com/abhisek/bulglo/internal/schema"

func idList() map[string]any {
	return map[string]any{
		"type":  "array",
		"items": map[string]any{"type": "string", "minLength": 1},
	}
}

var courseSchema = &schema.Schema{
	Name: "catalog-course",
	Definition: map[string]any{
		"type":     "object",
		"required": []any{"id", "title"},
		"properties": map[string]any{
			"id":      map[string]any{"type": "string", "minLength": 1},
			"title":   map[string]any{"type": "string"},
			"version": map[string]any{"type": "string"},
			"units":   idList(),
		},
	},
}

var unitsSchema = &schema.Schema{
	Name: "catalog-units",
	Definition: map[string]any{
		"type": "array",
		"items": map[string]any{
			"type":     "object",
			"required": []any{"id", "order", "lessons"},
			"properties": map[string]any{
				"id":      map[string]any{"type": "string", "minLength": 1},
				"title":   map[string]any{"type": "string"},
				"order":   map[string]any{"type": "integer"},
				"lessons": idList(),
			},
		},
	},
}

// lessonsSchema checks lesson structure only. Exercise bodies are decoded
// individually so one malformed exercise does not reject the file.
var lessonsSchema = &schema.Schema{
	Name: "catalog-lessons",
	Definition: map[string]any{
		"type": "array",
		"items": map[string]any{
			"type":     "object",
			"required": []any{"id", "unitId", "exercises"},
			"properties": map[string]any{
				"id":            map[string]any{"type": "string", "minLength": 1},
				"title":         map[string]any{"type": "string"},
				"unitId":        map[string]any{"type": "string", "minLength": 1},
				"prerequisites": idList(),
				"vocab":         idList(),
				"exercises": map[string]any{
					"type":  "array",
					"items": map[string]any{"type": "object"},
				},
			},
		},
	},
}

var vocabSchema = &schema.Schema{
	Name: "catalog-vocab",
	Definition: map[string]any{
		"type": "array",
		"items": map[string]any{
			"type":     "object",
			"required": []any{"id", "bg", "en"},
			"properties": map[string]any{
				"id":       map[string]any{"type": "string", "minLength": 1},
				"bg":       map[string]any{"type": "string"},
				"en":       map[string]any{"type": "string"},
				"translit": map[string]any{"type": "string"},
				"tags":     idList(),
			},
		},
	},
}

var lettersSchema = &schema.Schema{
	Name: "catalog-letters",
	Definition: map[string]any{
		"type": "array",
		"items": map[string]any{
			"type":     "object",
			"required": []any{"id", "upper", "lower"},
			"properties": map[string]any{
				"id":           map[string]any{"type": "string", "minLength": 1},
				"upper":        map[string]any{"type": "string"},
				"lower":        map[string]any{"type": "string"},
				"name":         map[string]any{"type": "string"},
				"romanization": map[string]any{"type": "string"},
				"ipa":          map[string]any{"type": "string"},
				"tips":         map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			},
		},
	},
}
