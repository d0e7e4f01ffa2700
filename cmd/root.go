package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "bulglo",
	Short: "Learn Bulgarian in your terminal",
	Long:  "Bulglo is a terminal course for learning Bulgarian: the Cyrillic alphabet, everyday words and short phrases, with spaced review.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "Path to a config file (default: config.yaml in the data directory)")
	flags.String("db", "", "Path to SQLite database file (overrides BULGLO_DB env var)")
	flags.String("content", "", "Directory with course content (default: bundled starter course)")
	flags.String("log-level", "", "Log level: debug, info, warn or error")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(lessonsCmd)
	rootCmd.AddCommand(reviewCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(versionCmd)
}
