package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/bulglo/internal/catalog"
)

var lessonsCmd = &cobra.Command{
	Use:   "lessons",
	Short: "List units and lessons with their status",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.close()

		out := cmd.OutOrStdout()
		if letters, _ := cmd.Flags().GetBool("letters"); letters {
			printLetters(out, e.catalog.Letters())
			return nil
		}
		printLessons(out, e.catalog, e.ledger.Completed())
		return nil
	},
}

func init() {
	lessonsCmd.Flags().Bool("letters", false, "Print the alphabet instead of lessons")
}

func printLessons(w io.Writer, cat *catalog.Catalog, completed map[string]bool) {
	unlocked := make(map[string]bool)
	for _, id := range cat.UnlockedLessons(completed) {
		unlocked[id] = true
	}

	fmt.Fprintln(w, cat.Course().Title)
	for _, u := range cat.Units() {
		done, total := cat.UnitProgress(u.ID, completed)
		fmt.Fprintf(w, "\n%s  (%d/%d)\n", u.Title, done, total)
		for _, id := range u.Lessons {
			l, ok := cat.Lesson(id)
			if !ok {
				continue
			}
			mark := "·"
			switch {
			case completed[id]:
				mark = "✓"
			case unlocked[id]:
				mark = "○"
			}
			fmt.Fprintf(w, "  %s %-28s %2d exercises  [%s]\n", mark, l.Title, len(l.Exercises), l.ID)
		}
	}
}

func printLetters(w io.Writer, letters []catalog.Letter) {
	for _, l := range letters {
		line := fmt.Sprintf("%s %s  %-4s %-4s /%s/", l.Upper, l.Lower, l.Name, l.Romanization, l.IPA)
		if len(l.Tips) > 0 {
			line += "  " + strings.Join(l.Tips, " ")
		}
		fmt.Fprintln(w, line)
	}
}
