package exercise

import (
	"fmt"
	"strings"
)

// Verdict is the result of judging one submission.
type Verdict struct {
	Correct bool

	// CaseMismatch is set when the content is right but capitalization or
	// exact form differs. It is a soft-correct signal; Correct stays true.
	CaseMismatch bool
}

// Evaluate judges answer against the exercise's expected answer.
//
// Rules:
//   - flashcard: any of hard/good/easy is correct
//   - list expected, list answer: same length, element-wise case-insensitive,
//     order matters
//   - list expected, single answer: matches any element case-insensitively
//   - single expected: trimmed, case-insensitive equality
//
// Content that cannot be judged returns ErrUnsupported.
func Evaluate(ex *Exercise, answer Answer) (Verdict, error) {
	if ex.Problem != nil {
		return Verdict{}, fmt.Errorf("%w: %s: %v", ErrUnsupported, ex.ID, ex.Problem)
	}
	if ex.Expected.IsZero() && ex.Kind != KindFlashcard {
		return Verdict{}, fmt.Errorf("%w: %s: %v", ErrUnsupported, ex.ID, ErrMissingAnswer)
	}

	switch ex.Kind {
	case KindFlashcard:
		if answer.IsList() {
			return Verdict{}, nil
		}
		_, ok := ParseGrade(answer.text)
		return Verdict{Correct: ok}, nil
	case KindMultipleChoice, KindSelectLetters, KindMatchPairs, KindType,
		KindOrderWords, KindTrueFalse:
		return compare(ex.Expected, answer), nil
	default:
		return Verdict{}, fmt.Errorf("%w: %s: kind %q", ErrUnsupported, ex.ID, ex.Kind)
	}
}

func compare(expected Expected, answer Answer) Verdict {
	if expected.IsList() {
		if answer.IsList() {
			return compareSequence(expected.values, answer.items)
		}
		return matchAny(expected.values, answer.text)
	}
	if answer.IsList() {
		return Verdict{}
	}
	return compareText(expected.values[0], answer.text)
}

// compareSequence checks element-wise equality, ignoring case.
func compareSequence(expected, got []string) Verdict {
	if len(expected) != len(got) {
		return Verdict{}
	}
	exact := true
	for i := range expected {
		if !strings.EqualFold(expected[i], got[i]) {
			return Verdict{}
		}
		if expected[i] != got[i] {
			exact = false
		}
	}
	return Verdict{Correct: true, CaseMismatch: !exact}
}

// matchAny accepts a single answer equal to any expected element.
func matchAny(expected []string, got string) Verdict {
	got = strings.TrimSpace(got)
	matched := false
	for _, e := range expected {
		e = strings.TrimSpace(e)
		if e == got {
			return Verdict{Correct: true}
		}
		if strings.EqualFold(e, got) {
			matched = true
		}
	}
	return Verdict{Correct: matched, CaseMismatch: matched}
}

// compareText compares trimmed, lowercased strings.
func compareText(expected, got string) Verdict {
	e := strings.TrimSpace(expected)
	g := strings.TrimSpace(got)
	if strings.ToLower(e) != strings.ToLower(g) {
		return Verdict{}
	}
	return Verdict{Correct: true, CaseMismatch: e != g}
}
