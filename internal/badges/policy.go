package badges

// XP awarded for completing a lesson.
const (
	BaseLessonXP   = 10
	GoodScoreBonus = 5 // score >= GoodScore
	PerfectBonus   = 5 // score == 100, on top of GoodScoreBonus
	GoodScore      = 80
)

// LessonXP returns the XP earned for a lesson finished with score.
func LessonXP(score int) int {
	xp := BaseLessonXP
	if score >= GoodScore {
		xp += GoodScoreBonus
	}
	if score == 100 {
		xp += PerfectBonus
	}
	return xp
}

// Earned returns the badges a lesson result qualifies for. A perfect score
// earns PerfectLesson; a single-exercise lesson answered correctly earns
// FirstLesson.
func Earned(score, correct, total int) []ID {
	var ids []ID
	if score == 100 {
		ids = append(ids, PerfectLesson)
	}
	if correct == 1 && total == 1 {
		ids = append(ids, FirstLesson)
	}
	return ids
}
