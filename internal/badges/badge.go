package badges

// ID identifies a badge.
type ID string

const (
	PerfectLesson ID = "perfect_lesson"
	FirstLesson   ID = "first_lesson"
)

// Badge describes an unlockable badge.
type Badge struct {
	ID          ID
	Name        string
	Description string
	Icon        string
}

var catalog = []Badge{
	{ID: FirstLesson, Name: "First Steps", Description: "Complete your first lesson", Icon: "🌱"},
	{ID: PerfectLesson, Name: "Perfect Lesson", Description: "Finish a lesson without a single mistake", Icon: "🏆"},
}

// All returns every badge in display order.
func All() []Badge {
	return append([]Badge(nil), catalog...)
}

// Lookup returns the badge with the given id.
func Lookup(id string) (Badge, bool) {
	for _, b := range catalog {
		if string(b.ID) == id {
			return b, true
		}
	}
	return Badge{}, false
}

// DisplayName returns the badge name, or the raw id for unknown badges.
func DisplayName(id string) string {
	if b, ok := Lookup(id); ok {
		return b.Name
	}
	return id
}

// Icon returns the display icon for a badge id.
func Icon(id string) string {
	if b, ok := Lookup(id); ok {
		return b.Icon
	}
	return "✦"
}
