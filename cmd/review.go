package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/bulglo/internal/catalog"
	"github.com/abhisek/bulglo/internal/srs"
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "List items due for review, most overdue first",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.close()

		printDue(cmd.OutOrStdout(), e.catalog, e.ledger.DueItems(), time.Now())
		return nil
	},
}

func printDue(w io.Writer, cat *catalog.Catalog, due []srs.DueItem, now time.Time) {
	if len(due) == 0 {
		fmt.Fprintln(w, "Nothing due. Come back later!")
		return
	}

	refs := cat.ReviewItems()
	fmt.Fprintf(w, "%d due for review\n\n", len(due))
	for _, d := range due {
		status := "due"
		if d.Item.Status(now) == srs.StatusOverdue {
			status = fmt.Sprintf("%.0fd overdue", d.Item.OverdueDays(now))
		}
		ref, ok := refs[d.ID]
		if !ok {
			fmt.Fprintf(w, "  %-24s B%d  %s  (no longer in the course)\n", d.ID, d.Item.Bucket, status)
			continue
		}
		fmt.Fprintf(w, "  %-24s B%d  %-12s %s\n", ref.Lesson.Title, d.Item.Bucket, status, ref.Exercise.Prompt)
	}
	fmt.Fprintln(w, "\nRun `bulglo play` and pick Practice to review them.")
}
