package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// versionCmd represents the version command.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Long:  `Display version information about the weave CLI.`,
	Example: `  # Show version
  weave version

  # Show version in JSON format
  weave version --output json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if output != textFormat {
			return writeValue(cmd.OutOrStdout(), map[string]string{
				"version":   version,
				"commit":    commit,
				"buildDate": buildDate,
				"goVersion": goVersion,
			})
		}

		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "weave version %s\n", version)
		if version != "dev" {
			fmt.Fprintf(w, "  commit:     %s\n", commit)
			fmt.Fprintf(w, "  built:      %s\n", buildDate)
			fmt.Fprintf(w, "  go version: %s\n", goVersion)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
