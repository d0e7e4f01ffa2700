package exercise

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	// ErrUnsupported marks an exercise the engine cannot present or judge.
	ErrUnsupported = errors.New("unsupported exercise")

	// ErrMissingAnswer is returned when an exercise declares no expected answer.
	ErrMissingAnswer = errors.New("missing expected answer")
)

// Payload is the kind-specific content of an exercise. The set of
// implementations is closed; each kind has exactly one payload type.
type Payload interface {
	Kind() Kind
	payload()
}

// MultipleChoice offers a fixed list of options.
type MultipleChoice struct {
	Options []string `yaml:"options"`
}

// SelectLetters asks the learner to build a word from a letter pool.
type SelectLetters struct {
	Letters    []string `yaml:"letters"`
	TargetWord string   `yaml:"targetWord"`
}

// MatchPairs asks the learner to pair items from two columns. Answers are
// encoded as "left:right" strings.
type MatchPairs struct {
	LeftItems  []string `yaml:"leftItems"`
	RightItems []string `yaml:"rightItems"`
}

// TypeAnswer asks for a free-text answer.
type TypeAnswer struct {
	Placeholder string `yaml:"placeholder"`
}

// OrderWords asks the learner to arrange a word pool into a sentence.
type OrderWords struct {
	Words []string `yaml:"words"`
}

// TrueFalse asks whether a statement holds.
type TrueFalse struct {
	Statement string `yaml:"statement"`
}

// Flashcard shows a front face that flips to a back face.
type Flashcard struct {
	Front string `yaml:"front"`
	Back  string `yaml:"back"`
}

func (MultipleChoice) Kind() Kind { return KindMultipleChoice }
func (SelectLetters) Kind() Kind  { return KindSelectLetters }
func (MatchPairs) Kind() Kind     { return KindMatchPairs }
func (TypeAnswer) Kind() Kind     { return KindType }
func (OrderWords) Kind() Kind     { return KindOrderWords }
func (TrueFalse) Kind() Kind      { return KindTrueFalse }
func (Flashcard) Kind() Kind      { return KindFlashcard }

func (MultipleChoice) payload() {}
func (SelectLetters) payload()  {}
func (MatchPairs) payload()     {}
func (TypeAnswer) payload()     {}
func (OrderWords) payload()     {}
func (TrueFalse) payload()      {}
func (Flashcard) payload()      {}

// Expected is the answer an exercise accepts: either a single string or an
// ordered list of strings.
type Expected struct {
	values []string
	list   bool
}

// Single returns an expected answer holding one string.
func Single(s string) Expected {
	return Expected{values: []string{s}}
}

// List returns an expected answer holding an ordered list.
func List(values ...string) Expected {
	return Expected{values: append([]string(nil), values...), list: true}
}

// IsList reports whether the expected answer is a list.
func (e Expected) IsList() bool { return e.list }

// IsZero reports whether no expected answer was declared.
func (e Expected) IsZero() bool { return len(e.values) == 0 }

// Values returns a copy of the expected values.
func (e Expected) Values() []string {
	return append([]string(nil), e.values...)
}

// Join renders the expected answer for display.
func (e Expected) Join(sep string) string {
	return strings.Join(e.values, sep)
}

// Answer is a learner submission: a single string or an ordered list.
type Answer struct {
	text  string
	items []string
	list  bool
}

// Text returns a single-string answer.
func Text(s string) Answer {
	return Answer{text: s}
}

// Sequence returns a list answer.
func Sequence(items ...string) Answer {
	return Answer{items: append([]string(nil), items...), list: true}
}

// IsList reports whether the answer is a list.
func (a Answer) IsList() bool { return a.list }

// Empty reports whether nothing has been submitted.
func (a Answer) Empty() bool {
	if a.list {
		return len(a.items) == 0
	}
	return strings.TrimSpace(a.text) == ""
}

// String returns the text of a single answer, or the joined list.
func (a Answer) String() string {
	if a.list {
		return strings.Join(a.items, " ")
	}
	return a.text
}

// Items returns a copy of the list items.
func (a Answer) Items() []string {
	return append([]string(nil), a.items...)
}

// Exercise is an immutable catalog exercise.
type Exercise struct {
	ID         string
	Kind       Kind
	Prompt     string
	PromptLang Lang
	Payload    Payload
	Expected   Expected
	Tips       []string

	// Problem is set when the exercise could not be built from its content.
	// Such exercises render as unsupported and cannot be answered.
	Problem error
}

// New builds an exercise, checking that the payload matches the kind and an
// expected answer is present.
func New(id string, kind Kind, prompt string, payload Payload, expected Expected) (*Exercise, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: exercise %q has unknown kind %q", ErrUnsupported, id, kind)
	}
	if payload == nil || payload.Kind() != kind {
		return nil, fmt.Errorf("%w: exercise %q payload does not match kind %q", ErrUnsupported, id, kind)
	}
	if expected.IsZero() {
		return nil, fmt.Errorf("exercise %q: %w", id, ErrMissingAnswer)
	}
	return &Exercise{
		ID:       id,
		Kind:     kind,
		Prompt:   prompt,
		Payload:  payload,
		Expected: expected,
	}, nil
}

// Unsupported returns a placeholder for content that failed to decode.
func Unsupported(id string, kind Kind, prompt string, problem error) *Exercise {
	return &Exercise{ID: id, Kind: kind, Prompt: prompt, Problem: problem}
}

// Tip returns the first tip, if any.
func (e *Exercise) Tip() (string, bool) {
	if len(e.Tips) == 0 {
		return "", false
	}
	return e.Tips[0], true
}

// Supported reports whether the exercise can be presented.
func (e *Exercise) Supported() bool {
	return e.Problem == nil && e.Kind.Valid() && e.Payload != nil
}

// document is the content-file shape of an exercise.
type document struct {
	ID         string    `yaml:"id"`
	Kind       Kind      `yaml:"kind"`
	Prompt     string    `yaml:"prompt"`
	PromptLang Lang      `yaml:"promptLang"`
	Data       yaml.Node `yaml:"data"`
	Correct    yaml.Node `yaml:"correct"`
	Tips       []string  `yaml:"tips"`
}

// UnmarshalYAML decodes an exercise from a content file. JSON content is
// accepted as well since it is valid YAML.
func (e *Exercise) UnmarshalYAML(node *yaml.Node) error {
	var doc document
	if err := node.Decode(&doc); err != nil {
		return fmt.Errorf("decode exercise: %w", err)
	}
	if doc.ID == "" {
		return errors.New("decode exercise: missing id")
	}

	payload, err := decodePayload(doc.Kind, &doc.Data)
	if err != nil {
		return fmt.Errorf("exercise %q: %w", doc.ID, err)
	}
	expected, err := decodeExpected(&doc.Correct)
	if err != nil {
		return fmt.Errorf("exercise %q: %w", doc.ID, err)
	}

	ex, err := New(doc.ID, doc.Kind, doc.Prompt, payload, expected)
	if err != nil {
		return err
	}
	ex.PromptLang = doc.PromptLang
	ex.Tips = doc.Tips
	*e = *ex
	return nil
}

// DecodeNode decodes a single exercise node. Content that cannot be decoded
// yields an Unsupported placeholder together with the decode error, so one
// bad exercise never hides the rest of a lesson.
func DecodeNode(node *yaml.Node) (*Exercise, error) {
	var ex Exercise
	if err := node.Decode(&ex); err != nil {
		var head struct {
			ID     string `yaml:"id"`
			Kind   Kind   `yaml:"kind"`
			Prompt string `yaml:"prompt"`
		}
		_ = node.Decode(&head)
		return Unsupported(head.ID, head.Kind, head.Prompt, err), err
	}
	return &ex, nil
}

func decodePayload(kind Kind, data *yaml.Node) (Payload, error) {
	var p Payload
	switch kind {
	case KindMultipleChoice:
		p = &MultipleChoice{}
	case KindSelectLetters:
		p = &SelectLetters{}
	case KindMatchPairs:
		p = &MatchPairs{}
	case KindType:
		p = &TypeAnswer{}
	case KindOrderWords:
		p = &OrderWords{}
	case KindTrueFalse:
		p = &TrueFalse{}
	case KindFlashcard:
		p = &Flashcard{}
	default:
		return nil, fmt.Errorf("%w: unknown kind %q", ErrUnsupported, kind)
	}

	if data.Kind != 0 {
		if err := data.Decode(p); err != nil {
			return nil, fmt.Errorf("decode %s data: %w", kind, err)
		}
	}

	// Payloads are stored by value.
	switch v := p.(type) {
	case *MultipleChoice:
		if len(v.Options) == 0 {
			return nil, fmt.Errorf("%w: multiple choice without options", ErrUnsupported)
		}
		return *v, nil
	case *SelectLetters:
		return *v, nil
	case *MatchPairs:
		return *v, nil
	case *TypeAnswer:
		return *v, nil
	case *OrderWords:
		return *v, nil
	case *TrueFalse:
		return *v, nil
	case *Flashcard:
		return *v, nil
	}
	return nil, fmt.Errorf("%w: unknown kind %q", ErrUnsupported, kind)
}

func decodeExpected(node *yaml.Node) (Expected, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		if node.Tag == "!!null" {
			return Expected{}, ErrMissingAnswer
		}
		return Single(node.Value), nil
	case yaml.SequenceNode:
		var values []string
		if err := node.Decode(&values); err != nil {
			return Expected{}, fmt.Errorf("decode expected answer: %w", err)
		}
		if len(values) == 0 {
			return Expected{}, ErrMissingAnswer
		}
		return List(values...), nil
	case 0:
		return Expected{}, ErrMissingAnswer
	default:
		return Expected{}, fmt.Errorf("expected answer must be a string or list, got %v", node.Tag)
	}
}
