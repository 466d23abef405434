package builtin

import (
	"context"
	"fmt"
	"os"

	"github.com/agentstation/weave"
	"github.com/agentstation/weave/builtin/script"
	"github.com/agentstation/weave/graphdef"
)

// LuaNodeBuilder builds nodes whose computation is a Lua script given
// inline or by file in the node's config.
type LuaNodeBuilder struct{}

// Metadata returns the node metadata.
func (b *LuaNodeBuilder) Metadata() NodeMetadata {
	return NodeMetadata{
		Type:        "lua",
		Category:    CategoryScript,
		Description: "Runs a Lua evaluate(inputs) function returning a table of outputs",
		ConfigSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"script": map[string]any{
					"type":        "string",
					"description": "Inline Lua source",
				},
				"file": map[string]any{
					"type":        "string",
					"description": "Path to a Lua source file",
				},
			},
			"oneOf": []any{
				map[string]any{"required": []string{"script"}},
				map[string]any{"required": []string{"file"}},
			},
		},
		Examples: []Example{
			{
				Name:        "Scale",
				Description: "Multiply a value by a factor",
				Config: map[string]any{
					"script": "function evaluate(inputs)\n  return { result = inputs.value * inputs.factor }\nend",
				},
				Input:  map[string]any{"value": 2, "factor": 3},
				Output: map[string]any{"result": 6.0},
			},
		},
		Since: "1.0.0",
	}
}

// Build creates a Lua node from a definition. Inputs and outputs must be
// declared on the definition.
func (b *LuaNodeBuilder) Build(def *graphdef.NodeDefinition, opts ...weave.Option) (weave.Node, error) {
	content, _ := def.Config["script"].(string)
	if path, ok := def.Config["file"].(string); ok && path != "" {
		data, err := os.ReadFile(path) //nolint:gosec // Path comes from the graph definition
		if err != nil {
			return nil, fmt.Errorf("read script: %w", err)
		}
		content = string(data)
	}
	if content == "" {
		return nil, fmt.Errorf("script or file is required")
	}
	if len(def.Outputs) == 0 {
		return nil, fmt.Errorf("lua node needs declared outputs")
	}

	return newScriptNode(def.Name, content, def.Inputs, def.Outputs, opts...)
}

// ScriptNodeBuilder exposes a discovered script as its own node type.
type ScriptNodeBuilder struct {
	Script *script.Script
}

// Metadata returns the node metadata.
func (b *ScriptNodeBuilder) Metadata() NodeMetadata {
	return NodeMetadata{
		Type:        b.Script.Name,
		Category:    b.Script.Category,
		Description: b.Script.Description,
		Inputs:      b.Script.Inputs,
		Outputs:     b.Script.Outputs,
		ConfigSchema: map[string]any{
			"type":                 "object",
			"additionalProperties": false,
		},
		Since: b.Script.Version,
	}
}

// Build creates a node running the script. Ports from the definition
// override the script's declared ports.
func (b *ScriptNodeBuilder) Build(def *graphdef.NodeDefinition, opts ...weave.Option) (weave.Node, error) {
	outputs := ports(def.Outputs, b.Script.Outputs)
	if len(outputs) == 0 {
		return nil, fmt.Errorf("script %s declares no outputs", b.Script.Name)
	}
	return newScriptNode(def.Name, b.Script.Content, ports(def.Inputs, b.Script.Inputs), outputs, opts...)
}

// RegisterScripts registers every script discovered by m as a node type.
// Scripts that fail validation are skipped and returned as errors.
func RegisterScripts(r *Registry, m *script.Manager) []error {
	var errs []error
	for _, s := range m.ListScripts() {
		if err := script.Validate(s.Content); err != nil {
			errs = append(errs, fmt.Errorf("script %s: %w", s.Name, err))
			continue
		}
		r.Register(&ScriptNodeBuilder{Script: s})
	}
	return errs
}

// newScriptNode keeps only the declared outputs from the script's result;
// a missing one fails the evaluation.
func newScriptNode(name, content string, inputs, outputs []string, opts ...weave.Option) (weave.Node, error) {
	if err := script.Validate(content); err != nil {
		return nil, err
	}

	logger := weave.LoggerOf(opts...)
	return weave.NewNode(name, inputs, outputs,
		func(ctx context.Context, in weave.Values) (weave.Values, error) {
			result, err := script.Run(ctx, content, in, logger)
			if err != nil {
				return nil, err
			}
			out := make(weave.Values, len(outputs))
			for _, port := range outputs {
				v, ok := result[port]
				if !ok {
					return nil, fmt.Errorf("%w: script did not return %q", weave.ErrMissingOutput, port)
				}
				out[port] = v
			}
			return out, nil
		}, opts...)
}
