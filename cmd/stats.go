package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/bulglo/internal/badges"
	"github.com/abhisek/bulglo/internal/progress"
	"github.com/abhisek/bulglo/internal/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show learning statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.close()

		ctx := cmd.Context()
		out := cmd.OutOrStdout()
		st := e.ledger.State()

		fmt.Fprintf(out, "Level %d  (%d XP, %d to next level)\n",
			st.Level, st.XP, progress.XPPerLevel-st.XP%progress.XPPerLevel)
		fmt.Fprintf(out, "Streak: %d days\n", st.StreakDays)
		fmt.Fprintf(out, "Lessons completed: %d of %d\n", len(st.CompletedLessons), len(e.catalog.Lessons()))
		fmt.Fprintf(out, "Due for review: %d\n", len(e.ledger.DueItems()))

		answers, err := e.store.EventRepo().AnswerStats(ctx)
		if err != nil {
			return fmt.Errorf("load answer stats: %w", err)
		}
		if answers.Answered > 0 {
			fmt.Fprintf(out, "Answers: %d  (%d%% correct, %d skipped)\n",
				answers.Answered, answers.Correct*100/answers.Answered, answers.Skipped)
		}

		if len(st.Badges) > 0 {
			fmt.Fprintln(out, "\nBadges:")
			for _, id := range st.Badges {
				fmt.Fprintf(out, "  %s %s\n", badges.Icon(id), badges.DisplayName(id))
			}
		}

		recent, err := e.store.EventRepo().QueryLessonEvents(ctx, store.QueryOpts{Limit: 5})
		if err != nil {
			return fmt.Errorf("load lesson history: %w", err)
		}
		if len(recent) > 0 {
			fmt.Fprintln(out, "\nRecent lessons:")
			for _, r := range recent {
				title := r.LessonID
				if l, ok := e.catalog.Lesson(r.LessonID); ok {
					title = l.Title
				}
				fmt.Fprintf(out, "  %s  %-28s %3d%%  +%d XP\n",
					r.Timestamp.Local().Format("Jan 02"), title, r.Score, r.XPEarned)
			}
		}
		return nil
	},
}
