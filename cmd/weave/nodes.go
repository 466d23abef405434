package main

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"

	"github.com/agentstation/weave/builtin"
)

// nodesCmd lists the node types a graph definition can use.
var nodesCmd = &cobra.Command{
	Use:   "nodes",
	Short: "List available node types",
	Long:  `List builtin node types and node types provided by Lua scripts.`,
	Example: `  weave nodes
  weave nodes --output yaml
  weave nodes info divide`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		nodes, err := nodeMetadata(cmd)
		if err != nil {
			return err
		}
		if output != textFormat {
			return writeValue(cmd.OutOrStdout(), nodes)
		}
		writeNodeTable(cmd.OutOrStdout(), nodes)
		return nil
	},
}

// nodesInfoCmd shows one node type in detail.
var nodesInfoCmd = &cobra.Command{
	Use:   "info <type>",
	Short: "Show detailed information about a node type",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		nodes, err := nodeMetadata(cmd)
		if err != nil {
			return err
		}
		i := slices.IndexFunc(nodes, func(m builtin.NodeMetadata) bool { return m.Type == args[0] })
		if i < 0 {
			return fmt.Errorf("node type %q not found", args[0])
		}
		if output != textFormat {
			return writeValue(cmd.OutOrStdout(), nodes[i])
		}
		writeNodeInfo(cmd.OutOrStdout(), nodes[i])
		return nil
	},
}

// nodeMetadata returns metadata for every registered type, sorted by
// category then type.
func nodeMetadata(cmd *cobra.Command) ([]builtin.NodeMetadata, error) {
	registry, err := newRegistry(cmd.Context(), newLogger(cmd.ErrOrStderr(), verbose))
	if err != nil {
		return nil, err
	}

	var nodes []builtin.NodeMetadata
	for _, b := range registry.All() {
		nodes = append(nodes, b.Metadata())
	}
	slices.SortFunc(nodes, func(a, b builtin.NodeMetadata) int {
		if c := strings.Compare(a.Category, b.Category); c != 0 {
			return c
		}
		return strings.Compare(a.Type, b.Type)
	})
	return nodes, nil
}

func writeNodeTable(w io.Writer, nodes []builtin.NodeMetadata) {
	category := ""
	for _, node := range nodes {
		if node.Category != category {
			category = node.Category
			fmt.Fprintf(w, "\n%s:\n", strings.ToUpper(category[:1])+category[1:])
			fmt.Fprintln(w, strings.Repeat("-", len(category)+1))
		}
		fmt.Fprintf(w, "  %-20s %s\n", node.Type, node.Description)
	}

	fmt.Fprintf(w, "\nTotal: %d node types\n", len(nodes))
	fmt.Fprintln(w, "\nUse 'weave nodes info <type>' for detailed information about a specific node.")
}

func writeNodeInfo(w io.Writer, node builtin.NodeMetadata) {
	fmt.Fprintf(w, "Node Type: %s\n", node.Type)
	fmt.Fprintf(w, "Category: %s\n", node.Category)
	fmt.Fprintf(w, "Description: %s\n", node.Description)
	if len(node.Inputs) > 0 {
		fmt.Fprintf(w, "Inputs: %s\n", strings.Join(node.Inputs, ", "))
	}
	if len(node.Outputs) > 0 {
		fmt.Fprintf(w, "Outputs: %s\n", strings.Join(node.Outputs, ", "))
	}
	if node.Since != "" {
		fmt.Fprintf(w, "Since: %s\n", node.Since)
	}

	if len(node.ConfigSchema) > 0 {
		schemaJSON, _ := json.MarshalIndent(node.ConfigSchema, "  ", "  ")
		fmt.Fprintf(w, "\nConfiguration:\n  %s\n", schemaJSON)
	}

	if len(node.Examples) > 0 {
		fmt.Fprintln(w, "\nExamples:")
		for i, example := range node.Examples {
			fmt.Fprintf(w, "  %d. %s\n", i+1, example.Name)
			if example.Description != "" {
				fmt.Fprintf(w, "     %s\n", example.Description)
			}
			if len(example.Config) > 0 {
				configYAML, _ := yaml.Marshal(example.Config)
				fmt.Fprintln(w, "     Config:")
				for _, line := range strings.Split(string(configYAML), "\n") {
					if line != "" {
						fmt.Fprintf(w, "       %s\n", line)
					}
				}
			}
		}
	}
}

func init() {
	nodesCmd.AddCommand(nodesInfoCmd)
	rootCmd.AddCommand(nodesCmd)
}
