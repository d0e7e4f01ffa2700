package schema

import (
	"errors"
	"testing"
)

func testSchema() *Schema {
	return &Schema{
		Name: "test-object",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"name": map[string]any{"type": "string"},
				"age":  map[string]any{"type": "integer", "minimum": 0},
			},
			"required": []any{"name", "age"},
		},
	}
}

func TestValidate_Valid(t *testing.T) {
	if err := Validate(testSchema(), []byte(`{"name":"Ана","age":10}`)); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
}

func TestValidate_MissingRequired(t *testing.T) {
	err := Validate(testSchema(), []byte(`{"name":"Ана"}`))
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got: %v", err)
	}
}

func TestValidate_WrongType(t *testing.T) {
	err := Validate(testSchema(), []byte(`{"name":"Ана","age":"ten"}`))
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got: %v", err)
	}
}

func TestValidate_NotJSON(t *testing.T) {
	err := Validate(testSchema(), []byte(`{name:`))
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got: %v", err)
	}
}

func TestValidateValue_YAMLShapes(t *testing.T) {
	doc := map[string]any{"name": "Иван", "age": 7}
	if err := ValidateValue(testSchema(), doc); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
}

func TestValidate_NilSchema(t *testing.T) {
	if err := ValidateValue(nil, 42); err != nil {
		t.Fatalf("nil schema should accept anything, got: %v", err)
	}
}
