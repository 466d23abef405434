// Package graphdef provides declarative graph definitions for weave.
//
// A definition names a composite's interface, its child nodes by builtin type,
// the links between children and the proxies to the composite's own inputs
// and outputs. Definitions are read from YAML or HCL and turned into
// composites by the loader package.
package graphdef

import (
	"errors"
	"fmt"
	"slices"

	"github.com/agentstation/weave"
)

// GraphType is the node type of a nested graph definition.
const GraphType = "graph"

// ErrInvalidDefinition is returned when a definition fails validation.
var ErrInvalidDefinition = errors.New("graphdef: invalid definition")

// GraphDefinition describes a composite node.
type GraphDefinition struct {
	Name         string            `yaml:"name" json:"name"`
	Description  string            `yaml:"description,omitempty" json:"description,omitempty"`
	Version      string            `yaml:"version,omitempty" json:"version,omitempty"`
	Inputs       []string          `yaml:"inputs,omitempty" json:"inputs,omitempty"`
	Outputs      []string          `yaml:"outputs,omitempty" json:"outputs,omitempty"`
	Nodes        []NodeDefinition  `yaml:"nodes" json:"nodes"`
	Links        []LinkDefinition  `yaml:"links,omitempty" json:"links,omitempty"`
	ProxyInputs  []ProxyDefinition `yaml:"proxy_inputs,omitempty" json:"proxy_inputs,omitempty"`
	ProxyOutputs []ProxyDefinition `yaml:"proxy_outputs,omitempty" json:"proxy_outputs,omitempty"`

	// Values are initial input values, applied after the graph is built.
	Values map[string]any `yaml:"values,omitempty" json:"values,omitempty"`
}

// NodeDefinition describes one child node.
type NodeDefinition struct {
	Name        string         `yaml:"name" json:"name"`
	Type        string         `yaml:"type" json:"type"`
	Description string         `yaml:"description,omitempty" json:"description,omitempty"`
	Inputs      []string       `yaml:"inputs,omitempty" json:"inputs,omitempty"`
	Outputs     []string       `yaml:"outputs,omitempty" json:"outputs,omitempty"`
	Config      map[string]any `yaml:"config,omitempty" json:"config,omitempty"`

	// Graph holds the nested definition when Type is "graph".
	Graph *GraphDefinition `yaml:"graph,omitempty" json:"graph,omitempty"`
}

// LinkDefinition connects the outputs of one child to the inputs of another.
type LinkDefinition struct {
	From  string `yaml:"from" json:"from"`
	To    string `yaml:"to" json:"to"`
	Ports any    `yaml:"ports,omitempty" json:"ports,omitempty"`
}

// ProxyDefinition connects the composite's interface to one child.
type ProxyDefinition struct {
	Node  string `yaml:"node" json:"node"`
	Ports any    `yaml:"ports,omitempty" json:"ports,omitempty"`
}

// Mapping returns the link's port mapping.
func (l LinkDefinition) Mapping() (weave.Mapping, error) {
	return PortsMapping(l.Ports)
}

// Mapping returns the proxy's port mapping.
func (p ProxyDefinition) Mapping() (weave.Mapping, error) {
	return PortsMapping(p.Ports)
}

// PortsMapping converts a ports value into a weave.Mapping:
//
//	nil                 -> every shared name
//	"x"                 -> weave.Name("x")
//	["x", "y"]          -> weave.Names("x", "y")
//	{z: x}              -> weave.Map({"z": "x"})
func PortsMapping(ports any) (weave.Mapping, error) {
	switch p := ports.(type) {
	case nil:
		return nil, nil
	case string:
		return weave.Name(p), nil
	case []string:
		return weave.Names(p...), nil
	case []any:
		names := make([]string, len(p))
		for i, v := range p {
			s, ok := v.(string)
			if !ok {
				return nil, fmt.Errorf("%w: port list entry %d is %T, not a string", ErrInvalidDefinition, i, v)
			}
			names[i] = s
		}
		return weave.Names(names...), nil
	case map[string]string:
		return weave.Map(p), nil
	case map[string]any:
		m := make(map[string]string, len(p))
		for k, v := range p {
			s, ok := v.(string)
			if !ok {
				return nil, fmt.Errorf("%w: port %q maps to %T, not a string", ErrInvalidDefinition, k, v)
			}
			m[k] = s
		}
		return weave.Map(m), nil
	default:
		return nil, fmt.Errorf("%w: unsupported ports value %T", ErrInvalidDefinition, ports)
	}
}

// Validate checks the definition's structure. Port names of builtin nodes
// are only known once the nodes are built, so they are checked at load time.
func (gd *GraphDefinition) Validate() error {
	if gd.Name == "" {
		return fmt.Errorf("%w: graph name is required", ErrInvalidDefinition)
	}
	if err := uniqueNames("input", gd.Inputs); err != nil {
		return fmt.Errorf("graph %s: %w", gd.Name, err)
	}
	if err := uniqueNames("output", gd.Outputs); err != nil {
		return fmt.Errorf("graph %s: %w", gd.Name, err)
	}

	nodes := make(map[string]bool, len(gd.Nodes))
	for i := range gd.Nodes {
		node := &gd.Nodes[i]
		if node.Name == "" {
			return fmt.Errorf("%w: graph %s: node %d has no name", ErrInvalidDefinition, gd.Name, i)
		}
		if node.Name == weave.SelfName {
			return fmt.Errorf("%w: graph %s: node name %q is reserved", ErrInvalidDefinition, gd.Name, node.Name)
		}
		if nodes[node.Name] {
			return fmt.Errorf("%w: graph %s: duplicate node %s", ErrInvalidDefinition, gd.Name, node.Name)
		}
		nodes[node.Name] = true

		if err := node.Validate(); err != nil {
			return fmt.Errorf("graph %s: node %s: %w", gd.Name, node.Name, err)
		}
	}

	for _, link := range gd.Links {
		if !nodes[link.From] {
			return fmt.Errorf("%w: graph %s: link from unknown node %q", ErrInvalidDefinition, gd.Name, link.From)
		}
		if !nodes[link.To] {
			return fmt.Errorf("%w: graph %s: link to unknown node %q", ErrInvalidDefinition, gd.Name, link.To)
		}
		if _, err := link.Mapping(); err != nil {
			return fmt.Errorf("graph %s: link %s -> %s: %w", gd.Name, link.From, link.To, err)
		}
	}

	proxies := []struct {
		kind string
		defs []ProxyDefinition
	}{{"input", gd.ProxyInputs}, {"output", gd.ProxyOutputs}}
	for _, p := range proxies {
		for _, proxy := range p.defs {
			if !nodes[proxy.Node] {
				return fmt.Errorf("%w: graph %s: %s proxy to unknown node %q", ErrInvalidDefinition, gd.Name, p.kind, proxy.Node)
			}
			if _, err := proxy.Mapping(); err != nil {
				return fmt.Errorf("graph %s: %s proxy to %s: %w", gd.Name, p.kind, proxy.Node, err)
			}
		}
	}

	for name := range gd.Values {
		if !slices.Contains(gd.Inputs, name) {
			return fmt.Errorf("%w: graph %s: value for undeclared input %q", ErrInvalidDefinition, gd.Name, name)
		}
	}

	return nil
}

// Validate checks a single node definition.
func (nd *NodeDefinition) Validate() error {
	if nd.Type == "" {
		return fmt.Errorf("%w: node type is required", ErrInvalidDefinition)
	}
	if err := uniqueNames("input", nd.Inputs); err != nil {
		return err
	}
	if err := uniqueNames("output", nd.Outputs); err != nil {
		return err
	}

	switch {
	case nd.Type == GraphType && nd.Graph == nil:
		return fmt.Errorf("%w: graph node needs a nested graph", ErrInvalidDefinition)
	case nd.Type != GraphType && nd.Graph != nil:
		return fmt.Errorf("%w: nested graph on node of type %s", ErrInvalidDefinition, nd.Type)
	case nd.Graph != nil:
		return nd.Graph.Validate()
	}
	return nil
}

func uniqueNames(kind string, names []string) error {
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if name == "" {
			return fmt.Errorf("%w: empty %s name", ErrInvalidDefinition, kind)
		}
		if seen[name] {
			return fmt.Errorf("%w: duplicate %s %q", ErrInvalidDefinition, kind, name)
		}
		seen[name] = true
	}
	return nil
}
