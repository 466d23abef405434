package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// Global flags.
	verbose    bool
	output     string
	scriptsDir string
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "weave",
	Short: "Evaluate dataflow graphs",
	Long: `Weave evaluates dataflow graphs of nodes whose inputs and outputs are
linked cells. Graphs are defined in YAML, JSON or HCL and may nest other
graphs as composite nodes.`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildDate),
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		switch output {
		case textFormat, jsonFormat, yamlFormat:
			return nil
		default:
			return fmt.Errorf("unknown output format %q", output)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVar(&output, "output", textFormat, "Output format (text, json, yaml)")
	rootCmd.PersistentFlags().StringVar(&scriptsDir, "scripts-dir", "", "Directory of Lua node scripts (default ~/.weave/scripts)")

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}
