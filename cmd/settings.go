package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/abhisek/bulglo/internal/progress"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change settings",
	Example: `  bulglo settings
  bulglo settings --theme dark --sound=false`,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.close()

		s := e.ledger.State().Settings
		flags := cmd.Flags()
		changed := false
		if flags.Changed("theme") {
			v, _ := flags.GetString("theme")
			s.Theme = progress.Theme(v)
			changed = true
		}
		if flags.Changed("sound") {
			s.SoundEnabled, _ = flags.GetBool("sound")
			changed = true
		}
		if flags.Changed("haptics") {
			s.Haptics, _ = flags.GetBool("haptics")
			changed = true
		}

		if changed {
			if err := e.ledger.UpdateSettings(s); err != nil {
				return err
			}
			e.saver.Flush()
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "theme    %s\n", s.Theme)
		fmt.Fprintf(out, "sound    %s\n", strconv.FormatBool(s.SoundEnabled))
		fmt.Fprintf(out, "haptics  %s\n", strconv.FormatBool(s.Haptics))
		return nil
	},
}

func init() {
	settingsCmd.Flags().String("theme", "", "Colour theme: system, light or dark")
	settingsCmd.Flags().Bool("sound", true, "Enable sound effects")
	settingsCmd.Flags().Bool("haptics", true, "Enable haptic feedback")
}
