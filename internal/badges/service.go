package badges

import (
	"context"
	"log/slog"

	"github.com/abhisek/bulglo/internal/store"
)

// Unlocker adds a badge to the learner's progress and reports whether it
// was new.
type Unlocker interface {
	UnlockBadge(id string) bool
}

// Service applies the badge policy and records unlock events.
type Service struct {
	unlocker  Unlocker
	eventRepo store.EventRepo
	logger    *slog.Logger

	// RunBadges accumulates badges newly unlocked during the current lesson run.
	RunBadges []Badge
}

// NewService creates a badge service. eventRepo may be nil.
func NewService(unlocker Unlocker, eventRepo store.EventRepo, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{unlocker: unlocker, eventRepo: eventRepo, logger: logger}
}

// AwardLesson unlocks the badges a finished lesson qualifies for and returns
// those that were newly unlocked.
func (s *Service) AwardLesson(ctx context.Context, runID, lessonID string, score, correct, total int) []Badge {
	var awarded []Badge
	for _, id := range Earned(score, correct, total) {
		if !s.unlocker.UnlockBadge(string(id)) {
			continue
		}
		b, _ := Lookup(string(id))
		awarded = append(awarded, b)
		s.persist(ctx, id, runID, lessonID)
	}
	s.RunBadges = append(s.RunBadges, awarded...)
	return awarded
}

// ResetRun clears the run accumulator. Called at lesson start.
func (s *Service) ResetRun() {
	s.RunBadges = nil
}

// Counts returns how many times each badge was unlocked, including unlocks
// that were later wiped by a progress reset.
func (s *Service) Counts(ctx context.Context) map[string]int {
	if s.eventRepo == nil {
		return map[string]int{}
	}
	counts, err := s.eventRepo.BadgeCounts(ctx)
	if err != nil {
		s.logger.Warn("query badge counts", "error", err)
		return map[string]int{}
	}
	return counts
}

func (s *Service) persist(ctx context.Context, id ID, runID, lessonID string) {
	if s.eventRepo == nil {
		return
	}
	err := s.eventRepo.AppendBadgeEvent(ctx, store.BadgeEventData{
		BadgeID:  string(id),
		RunID:    runID,
		LessonID: lessonID,
	})
	if err != nil {
		s.logger.Warn("record badge event", "badge", id, "error", err)
	}
}
