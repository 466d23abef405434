// Package builtin provides the node types available to graph definitions.
package builtin

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/agentstation/weave"
	"github.com/agentstation/weave/graphdef"
)

// ErrUnknownType is returned when a definition names an unregistered node type.
var ErrUnknownType = errors.New("builtin: unknown node type")

// NodeBuilder creates nodes and provides metadata.
type NodeBuilder interface {
	Metadata() NodeMetadata
	Build(def *graphdef.NodeDefinition, opts ...weave.Option) (weave.Node, error)
}

// Registry maps node types to builders. It is safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	builders map[string]NodeBuilder
}

// NewRegistry creates an empty node registry.
func NewRegistry() *Registry {
	return &Registry{
		builders: make(map[string]NodeBuilder),
	}
}

// NewDefaultRegistry creates a registry holding every built-in node type.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()

	r.Register(&ArithmeticNodeBuilder{Op: OpAdd})
	r.Register(&ArithmeticNodeBuilder{Op: OpSubtract})
	r.Register(&ArithmeticNodeBuilder{Op: OpMultiply})
	r.Register(&ArithmeticNodeBuilder{Op: OpDivide})

	r.Register(&EchoNodeBuilder{})
	r.Register(&ConstNodeBuilder{})

	r.Register(&JSONPathNodeBuilder{})
	r.Register(&LuaNodeBuilder{})

	return r
}

// Register adds a node builder, replacing any builder of the same type.
func (r *Registry) Register(builder NodeBuilder) {
	r.mu.Lock()
	defer r.mu.Unlock()

	meta := builder.Metadata()
	r.builders[meta.Type] = builder
}

// Get returns a builder by type.
func (r *Registry) Get(nodeType string) (NodeBuilder, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	builder, exists := r.builders[nodeType]
	return builder, exists
}

// All returns a copy of every registered builder keyed by type.
func (r *Registry) All() map[string]NodeBuilder {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]NodeBuilder, len(r.builders))
	for k, v := range r.builders {
		out[k] = v
	}
	return out
}

// Types returns the registered type names, sorted.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]string, 0, len(r.builders))
	for t := range r.builders {
		types = append(types, t)
	}
	slices.Sort(types)
	return types
}

// Build validates def's config against its type's schema and builds the node.
func (r *Registry) Build(def *graphdef.NodeDefinition, opts ...weave.Option) (weave.Node, error) {
	builder, ok := r.Get(def.Type)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, def.Type)
	}

	meta := builder.Metadata()
	if err := ValidateNodeConfig(&meta, def.Config); err != nil {
		return nil, fmt.Errorf("config validation failed for node '%s': %w", def.Name, err)
	}

	node, err := builder.Build(def, opts...)
	if err != nil {
		return nil, fmt.Errorf("build node '%s': %w", def.Name, err)
	}
	return node, nil
}

// ports returns names, or defaults when names is empty.
func ports(names, defaults []string) []string {
	if len(names) > 0 {
		return names
	}
	return slices.Clone(defaults)
}
