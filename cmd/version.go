package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/mod/semver"

	"github.com/abhisek/bulglo/internal/progress"
)

// version is set via -ldflags at build time.
var version = "(devel)"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the current version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), "bulglo", displayVersion(version))
		fmt.Fprintln(cmd.OutOrStdout(), "progress schema", progress.SchemaVersion)
	},
}

// displayVersion canonicalises release versions and leaves dev builds as is.
func displayVersion(v string) string {
	if !semver.IsValid(v) {
		return v
	}
	return semver.Canonical(v)
}
