package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write progress as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.close()

		data, err := e.ledger.Export()
		if err != nil {
			return err
		}

		path, _ := cmd.Flags().GetString("output")
		if path == "" || path == "-" {
			_, err = cmd.OutOrStdout().Write(append(data, '\n'))
			return err
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write export: %w", err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Progress exported to %s\n", path)
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Replace progress with a previously exported file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read import file: %w", err)
		}

		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.close()

		if err := e.ledger.Import(data); err != nil {
			return err
		}
		e.saver.Flush()
		if e.saver.Degraded() {
			return fmt.Errorf("imported progress could not be saved")
		}
		st := e.ledger.State()
		fmt.Fprintf(cmd.OutOrStdout(), "Imported: level %d, %d XP, %d lessons completed\n",
			st.Level, st.XP, len(st.CompletedLessons))
		return nil
	},
}

func init() {
	exportCmd.Flags().StringP("output", "o", "", "File to write (default: stdout)")
}
