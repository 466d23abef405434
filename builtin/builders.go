package builtin

import (
	"context"
	"fmt"
	"slices"

	"github.com/ohler55/ojg/jp"

	"github.com/agentstation/weave"
	"github.com/agentstation/weave/graphdef"
)

// EchoNodeBuilder builds passthrough nodes that copy each input to the
// output of the same name.
type EchoNodeBuilder struct{}

// Metadata returns the node metadata.
func (b *EchoNodeBuilder) Metadata() NodeMetadata {
	return NodeMetadata{
		Type:        "echo",
		Category:    CategoryCore,
		Description: "Copies each input to the output of the same name",
		Inputs:      []string{"value"},
		Outputs:     []string{"value"},
		ConfigSchema: map[string]any{
			"type":                 "object",
			"additionalProperties": false,
		},
		Examples: []Example{
			{
				Name:        "Passthrough",
				Description: "Forward a single value",
				Input:       map[string]any{"value": "foo"},
				Output:      map[string]any{"value": "foo"},
			},
		},
		Since: "1.0.0",
	}
}

// Build creates an echo node from a definition. Outputs default to the
// inputs and must match them when given.
func (b *EchoNodeBuilder) Build(def *graphdef.NodeDefinition, opts ...weave.Option) (weave.Node, error) {
	inputs := ports(def.Inputs, b.Metadata().Inputs)
	outputs := ports(def.Outputs, inputs)
	if !slices.Equal(inputs, outputs) {
		return nil, fmt.Errorf("echo outputs %v must match inputs %v", outputs, inputs)
	}

	return weave.NewNode(def.Name, inputs, outputs,
		func(ctx context.Context, in weave.Values) (weave.Values, error) {
			out := make(weave.Values, len(in))
			for k, v := range in {
				out[k] = v
			}
			return out, nil
		}, opts...)
}

// ConstNodeBuilder builds nodes without inputs that emit a configured value.
type ConstNodeBuilder struct{}

// Metadata returns the node metadata.
func (b *ConstNodeBuilder) Metadata() NodeMetadata {
	return NodeMetadata{
		Type:        "const",
		Category:    CategoryCore,
		Description: "Emits a configured value",
		Outputs:     []string{"value"},
		ConfigSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"value": map[string]any{
					"description": "Value written to the output on every evaluation",
				},
			},
			"required":             []string{"value"},
			"additionalProperties": false,
		},
		Examples: []Example{
			{
				Name:        "Number",
				Description: "Emit a fixed number",
				Config:      map[string]any{"value": 42},
				Output:      map[string]any{"value": 42},
			},
		},
		Since: "1.0.0",
	}
}

// Build creates a const node from a definition.
func (b *ConstNodeBuilder) Build(def *graphdef.NodeDefinition, opts ...weave.Option) (weave.Node, error) {
	if len(def.Inputs) > 0 {
		return nil, fmt.Errorf("const node takes no inputs")
	}
	outputs := ports(def.Outputs, b.Metadata().Outputs)
	if len(outputs) != 1 {
		return nil, fmt.Errorf("const node needs exactly one output, got %d", len(outputs))
	}
	value, ok := def.Config["value"]
	if !ok {
		return nil, fmt.Errorf("value is required")
	}
	port := outputs[0]

	return weave.NewNode(def.Name, nil, outputs,
		func(ctx context.Context, in weave.Values) (weave.Values, error) {
			return weave.Values{port: value}, nil
		}, opts...)
}

// JSONPathNodeBuilder builds nodes that query a document with JSONPath.
type JSONPathNodeBuilder struct{}

// Metadata returns the node metadata.
func (b *JSONPathNodeBuilder) Metadata() NodeMetadata {
	return NodeMetadata{
		Type:        "jsonpath",
		Category:    CategoryData,
		Description: "Extracts data from a document using a JSONPath expression",
		Inputs:      []string{"doc"},
		Outputs:     []string{"result"},
		ConfigSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"path": map[string]any{
					"type":        "string",
					"description": "JSONPath expression to extract data",
				},
				"multiple": map[string]any{
					"type":        "boolean",
					"default":     false,
					"description": "Return all matches as array (true) or first match only (false)",
				},
				"default": map[string]any{
					"description": "Default value if path not found",
				},
				"unwrap": map[string]any{
					"type":        "boolean",
					"default":     true,
					"description": "Unwrap single-element arrays",
				},
			},
			"required": []string{"path"},
		},
		Examples: []Example{
			{
				Name:        "Extract user name",
				Description: "Get user name from nested object",
				Config:      map[string]any{"path": "$.user.name"},
				Input: map[string]any{
					"doc": map[string]any{
						"user": map[string]any{"name": "Alice", "age": 30},
					},
				},
				Output: map[string]any{"result": "Alice"},
			},
			{
				Name:        "Extract all prices",
				Description: "Get all prices from array of items",
				Config:      map[string]any{"path": "$.items[*].price", "multiple": true},
				Input: map[string]any{
					"doc": map[string]any{
						"items": []any{
							map[string]any{"name": "Book", "price": 10.99},
							map[string]any{"name": "Pen", "price": 2.50},
						},
					},
				},
				Output: map[string]any{"result": []any{10.99, 2.50}},
			},
		},
		Since: "1.0.0",
	}
}

// Build creates a JSONPath node from a definition.
func (b *JSONPathNodeBuilder) Build(def *graphdef.NodeDefinition, opts ...weave.Option) (weave.Node, error) {
	pathStr, ok := def.Config["path"].(string)
	if !ok || pathStr == "" {
		return nil, fmt.Errorf("path is required")
	}

	// Parse at build time so a bad expression fails the load.
	expr, err := jp.ParseString(pathStr)
	if err != nil {
		return nil, fmt.Errorf("invalid JSONPath expression: %w", err)
	}

	multiple, _ := def.Config["multiple"].(bool)
	defaultValue := def.Config["default"]
	unwrap := true
	if u, ok := def.Config["unwrap"].(bool); ok {
		unwrap = u
	}

	inputs := ports(def.Inputs, b.Metadata().Inputs)
	outputs := ports(def.Outputs, b.Metadata().Outputs)
	if len(inputs) != 1 || len(outputs) != 1 {
		return nil, fmt.Errorf("jsonpath node needs one input and one output")
	}
	in, out := inputs[0], outputs[0]

	return weave.NewNode(def.Name, inputs, outputs,
		func(ctx context.Context, values weave.Values) (weave.Values, error) {
			results := expr.Get(values[in])

			if len(results) == 0 {
				switch {
				case defaultValue != nil:
					return weave.Values{out: defaultValue}, nil
				case multiple:
					return weave.Values{out: []any{}}, nil
				default:
					return weave.Values{out: nil}, nil
				}
			}

			if multiple {
				return weave.Values{out: results}, nil
			}

			result := results[0]
			if unwrap {
				if arr, ok := result.([]any); ok && len(arr) == 1 {
					result = arr[0]
				}
			}
			return weave.Values{out: result}, nil
		}, opts...)
}
