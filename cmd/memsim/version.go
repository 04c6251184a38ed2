package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Print(versionText())
	},
}

func init() {
	rootCmd.Version = version
	rootCmd.SetVersionTemplate(versionText())
	rootCmd.AddCommand(versionCmd)
}

// versionText is shared by the version command and the --version flag.
func versionText() string {
	return fmt.Sprintf("memsim %s\n  commit: %s\n  built: %s\n", version, commit, date)
}
