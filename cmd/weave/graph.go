package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentstation/weave"
	"github.com/agentstation/weave/loader"
)

// graphCmd prints a snapshot of a graph's wiring.
var graphCmd = &cobra.Command{
	Use:   "graph <file>",
	Short: "Print a graph's children and links",
	Long: `Build a graph and print its wiring: children in evaluation order, and
every link between children and the graph's own inputs and outputs ("$self").`,
	Example: `  weave graph two_adder.yaml
  weave graph nested.hcl --output json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		logger := newLogger(cmd.ErrOrStderr(), verbose)

		path, err := expandPath(args[0])
		if err != nil {
			return err
		}
		registry, err := newRegistry(ctx, logger)
		if err != nil {
			return err
		}
		graph, err := loader.New(registry, weave.WithLogger(logger)).LoadFile(path)
		if err != nil {
			return fmt.Errorf("load graph: %w", err)
		}

		snapshot := graph.Snapshot()
		if output != textFormat {
			return writeValue(cmd.OutOrStdout(), snapshot)
		}

		order, err := graph.Order()
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "%s (inputs: %v, outputs: %v)\n", snapshot.Name, snapshot.Inputs, snapshot.Outputs)
		fmt.Fprintln(w, "\nOrder:")
		for i, n := range order {
			fmt.Fprintf(w, "  %d. %s\n", i+1, n.Name())
		}
		fmt.Fprintln(w, "\nLinks:")
		for _, l := range snapshot.Links {
			fmt.Fprintf(w, "  %s.%s -> %s.%s\n", l.From, l.FromPort, l.To, l.ToPort)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
}
