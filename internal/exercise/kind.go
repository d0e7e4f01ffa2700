package exercise

// Kind identifies how an exercise is presented and answered.
type Kind string

const (
	KindMultipleChoice Kind = "multiple_choice"
	KindSelectLetters  Kind = "select_letters"
	KindMatchPairs     Kind = "match_pairs"
	KindType           Kind = "type"
	KindOrderWords     Kind = "order_words"
	KindTrueFalse      Kind = "true_false"
	KindFlashcard      Kind = "flashcard"
)

// AllKinds returns every supported kind in catalog order.
func AllKinds() []Kind {
	return []Kind{
		KindMultipleChoice,
		KindSelectLetters,
		KindMatchPairs,
		KindType,
		KindOrderWords,
		KindTrueFalse,
		KindFlashcard,
	}
}

// Valid reports whether k is one of the supported kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindMultipleChoice, KindSelectLetters, KindMatchPairs, KindType,
		KindOrderWords, KindTrueFalse, KindFlashcard:
		return true
	}
	return false
}

// AutoSubmit reports whether selecting an answer submits it without an
// explicit confirmation.
func (k Kind) AutoSubmit() bool {
	switch k {
	case KindMultipleChoice, KindTrueFalse, KindFlashcard:
		return true
	}
	return false
}

// DisplayName returns a human-readable label for the kind.
func (k Kind) DisplayName() string {
	switch k {
	case KindMultipleChoice:
		return "Multiple choice"
	case KindSelectLetters:
		return "Build the word"
	case KindMatchPairs:
		return "Match pairs"
	case KindType:
		return "Type the answer"
	case KindOrderWords:
		return "Order the words"
	case KindTrueFalse:
		return "True or false"
	case KindFlashcard:
		return "Flashcard"
	default:
		return string(k)
	}
}

// Lang is the language a prompt is written in.
type Lang string

const (
	LangEnglish   Lang = "en"
	LangBulgarian Lang = "bg"
)

// Grade is the self-assessment a learner gives a flashcard after flipping it.
type Grade string

const (
	GradeHard Grade = "hard"
	GradeGood Grade = "good"
	GradeEasy Grade = "easy"
)

// AllGrades returns the flashcard grades in button order.
func AllGrades() []Grade {
	return []Grade{GradeHard, GradeGood, GradeEasy}
}

// ParseGrade returns the grade named by s.
func ParseGrade(s string) (Grade, bool) {
	switch g := Grade(s); g {
	case GradeHard, GradeGood, GradeEasy:
		return g, true
	}
	return "", false
}
