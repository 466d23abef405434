package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/agentstation/weave"
	"github.com/agentstation/weave/internal/retry"
	"github.com/agentstation/weave/loader"
	"github.com/agentstation/weave/middleware"
)

var (
	runSets    []string
	runDryRun  bool
	runTimeout time.Duration
	runRetries int
)

// runCmd loads a graph, sets its inputs and evaluates it.
var runCmd = &cobra.Command{
	Use:   "run <file>",
	Short: "Evaluate a graph definition",
	Long: `Load a graph from a YAML, JSON or HCL file, set its inputs and evaluate it.
The graph's outputs are printed once evaluation succeeds.`,
	Example: `  # Evaluate with inputs
  weave run two_adder.yaml --set a=1 --set b=10 --set c=100

  # Print outputs as JSON
  weave run two_adder.hcl --set a=1 --set b=2 --set c=3 --output json

  # Check that the graph builds without evaluating it
  weave run graph.yaml --dry-run`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		logger := newLogger(cmd.ErrOrStderr(), verbose)

		path, err := expandPath(args[0])
		if err != nil {
			return fmt.Errorf("expand path: %w", err)
		}
		inputs, err := parseSets(runSets)
		if err != nil {
			return err
		}

		registry, err := newRegistry(ctx, logger)
		if err != nil {
			return err
		}
		stats := middleware.NewStats()
		l := loader.New(registry, weave.WithLogger(logger)).
			Use(runMiddlewares(logger, stats, runTimeout, runRetries)...)

		graph, err := l.LoadFile(path)
		if err != nil {
			return fmt.Errorf("load graph: %w", err)
		}
		logger.Debug(ctx, "loaded graph", "graph", graph.Name(), "children", len(graph.Children()))

		if runDryRun {
			if _, err := graph.Order(); err != nil {
				return err
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "Graph %s is valid (dry run)\n", graph.Name())
			return err
		}

		if err := graph.Inputs().SetMany(inputs); err != nil {
			return fmt.Errorf("set inputs: %w", err)
		}

		start := time.Now()
		if err := graph.Call(ctx); err != nil {
			return fmt.Errorf("evaluate: %w", err)
		}
		logger.Debug(ctx, "evaluated graph", "graph", graph.Name(), "duration", time.Since(start))
		for _, ns := range stats.All() {
			logger.Debug(ctx, "node timing", "node", ns.Name, "calls", ns.Calls, "average", ns.Average())
		}

		return writeValue(cmd.OutOrStdout(), map[string]any(graph.Outputs().Map()))
	},
}

// runMiddlewares wraps each node with logging, a per-attempt timeout, retries
// and timing. Apply makes the last middleware outermost, so the timeout sits
// inside the retry loop.
func runMiddlewares(logger weave.Logger, stats *middleware.Stats, timeout time.Duration, retries int) []middleware.Middleware {
	mws := []middleware.Middleware{middleware.Logging(logger)}
	if timeout > 0 {
		mws = append(mws, middleware.Timeout(timeout))
	}
	if retries > 0 {
		mws = append(mws, middleware.Retry(retry.Exponential(retries)))
	}
	return append(mws, middleware.Timing(stats))
}

func init() {
	runCmd.Flags().StringArrayVar(&runSets, "set", nil, "Set an input value (name=value, value parsed as YAML)")
	runCmd.Flags().DurationVar(&runTimeout, "timeout", 0, "Bound each node evaluation attempt (0 = no limit)")
	runCmd.Flags().IntVar(&runRetries, "retries", 0, "Retry failing nodes up to this many times")
	runCmd.Flags().BoolVar(&runDryRun, "dry-run", false, "Build and order the graph without evaluating it")
	rootCmd.AddCommand(runCmd)
}
