package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/agentstation/weave/builtin/script"
)

// scriptsCmd lists Lua scripts available as node types.
var scriptsCmd = &cobra.Command{
	Use:   "scripts",
	Short: "List Lua node scripts",
	Long: `List the Lua scripts in the scripts directory. Each script becomes a node
type named by its @name header.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		dir, err := expandPath(scriptsDir)
		if err != nil {
			return err
		}
		manager := script.NewManager(dir, newLogger(cmd.ErrOrStderr(), verbose))
		if err := manager.Discover(ctx); err != nil {
			return fmt.Errorf("discover scripts: %w", err)
		}

		scripts := manager.ListScripts()
		w := cmd.OutOrStdout()
		if output != textFormat {
			return writeValue(w, scripts)
		}
		if len(scripts) == 0 {
			fmt.Fprintf(w, "No scripts found in %s\n", manager.Dir())
			return nil
		}

		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		for _, s := range scripts {
			desc := s.Description
			if desc == "" {
				desc = "(no description)"
			}
			fmt.Fprintf(tw, "  %s\t%s\t%s -> %s\n", s.Name, desc,
				strings.Join(s.Inputs, ","), strings.Join(s.Outputs, ","))
		}
		return tw.Flush()
	},
}

// scriptsValidateCmd checks that a script compiles and defines evaluate.
var scriptsValidateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Validate a Lua node script",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := expandPath(args[0])
		if err != nil {
			return err
		}
		if filepath.Ext(path) != scriptExtension {
			return fmt.Errorf("%s is not a %s file", args[0], scriptExtension)
		}
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("script not found: %w", err)
		}

		s, err := script.LoadScript(path)
		if err != nil {
			return err
		}
		if err := script.Validate(s.Content); err != nil {
			return fmt.Errorf("%s: %w", args[0], err)
		}

		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "Script %s is valid\n", s.Name)
		if len(s.Inputs) > 0 {
			fmt.Fprintf(w, "  Inputs:  %s\n", strings.Join(s.Inputs, ", "))
		}
		if len(s.Outputs) > 0 {
			fmt.Fprintf(w, "  Outputs: %s\n", strings.Join(s.Outputs, ", "))
		}
		return nil
	},
}

func init() {
	scriptsCmd.AddCommand(scriptsValidateCmd)
	rootCmd.AddCommand(scriptsCmd)
}
