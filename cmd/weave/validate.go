package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/agentstation/weave/graphdef"
	"github.com/agentstation/weave/loader"
)

// validateResult is the outcome of validating one file.
type validateResult struct {
	File  string `json:"file" yaml:"file"`
	Valid bool   `json:"valid" yaml:"valid"`
	Error string `json:"error,omitempty" yaml:"error,omitempty"`
}

// validateCmd checks definitions against the schema and builds them.
var validateCmd = &cobra.Command{
	Use:   "validate <file>...",
	Short: "Validate graph definitions",
	Long: `Validate graph definitions without evaluating them. YAML and JSON files
are checked against the definition schema; every file is then parsed, checked
for structural errors and built with the node registry.`,
	Example: `  weave validate graphs/*.yaml
  weave validate pipeline.hcl --output json`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		logger := newLogger(cmd.ErrOrStderr(), verbose)

		registry, err := newRegistry(ctx, logger)
		if err != nil {
			return err
		}
		l := loader.New(registry)

		results := make([]validateResult, len(args))
		var g errgroup.Group
		for i, file := range args {
			g.Go(func() error {
				results[i] = validateResult{File: file, Valid: true}
				if err := validateFile(l, file); err != nil {
					results[i].Valid = false
					results[i].Error = err.Error()
				}
				return nil
			})
		}
		_ = g.Wait()

		failed := 0
		for _, r := range results {
			if !r.Valid {
				failed++
			}
		}

		if output == textFormat {
			for _, r := range results {
				if r.Valid {
					fmt.Fprintf(cmd.OutOrStdout(), "ok    %s\n", r.File)
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "FAIL  %s: %s\n", r.File, r.Error)
				}
			}
		} else if err := writeValue(cmd.OutOrStdout(), results); err != nil {
			return err
		}

		if failed > 0 {
			return fmt.Errorf("%d of %d definitions are invalid", failed, len(results))
		}
		return nil
	},
}

func validateFile(l *loader.Loader, file string) error {
	path, err := expandPath(file)
	if err != nil {
		return err
	}

	if ext := strings.ToLower(filepath.Ext(path)); ext != ".hcl" {
		data, err := os.ReadFile(path) // #nosec G304 - User-provided definition file
		if err != nil {
			return err
		}
		if err := graphdef.ValidateDocument(data); err != nil {
			return err
		}
	}

	def, err := graphdef.ParseFile(path)
	if err != nil {
		return err
	}
	_, err = l.Load(def)
	return err
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
