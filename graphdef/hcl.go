package graphdef

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

// hclRoot is decoded from the top level of an HCL definition file.
type hclRoot struct {
	Graphs []*hclGraph `hcl:"graph,block"`
	Remain hcl.Body    `hcl:",remain"`
}

type hclGraph struct {
	Name         string      `hcl:"name,label"`
	Description  string      `hcl:"description,optional"`
	Version      string      `hcl:"version,optional"`
	Inputs       []string    `hcl:"inputs,optional"`
	Outputs      []string    `hcl:"outputs,optional"`
	Values       cty.Value   `hcl:"values,optional"`
	Nodes        []*hclNode  `hcl:"node,block"`
	Links        []*hclLink  `hcl:"link,block"`
	ProxyInputs  []*hclProxy `hcl:"proxy_input,block"`
	ProxyOutputs []*hclProxy `hcl:"proxy_output,block"`
}

type hclNode struct {
	Name        string    `hcl:"name,label"`
	Type        string    `hcl:"type"`
	Description string    `hcl:"description,optional"`
	Inputs      []string  `hcl:"inputs,optional"`
	Outputs     []string  `hcl:"outputs,optional"`
	Config      cty.Value `hcl:"config,optional"`
	Graph       *hclGraph `hcl:"graph,block"`
}

type hclLink struct {
	From  string    `hcl:"from"`
	To    string    `hcl:"to"`
	Ports cty.Value `hcl:"ports,optional"`
}

type hclProxy struct {
	Node  string    `hcl:"node"`
	Ports cty.Value `hcl:"ports,optional"`
}

// ParseHCL parses an HCL graph definition. The file must hold exactly one
// top-level graph block:
//
//	graph "two-adder" {
//	  inputs  = ["a", "b", "c"]
//	  outputs = ["d"]
//
//	  node "first" { type = "add" }
//	  node "second" { type = "add" }
//
//	  link {
//	    from  = "first"
//	    to    = "second"
//	    ports = { z = "x" }
//	  }
//	  proxy_input {
//	    node  = "first"
//	    ports = { a = "x", b = "y" }
//	  }
//	}
func ParseHCL(filename string, src []byte) (*GraphDefinition, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("%w: failed to parse HCL file %s: %w", ErrInvalidDefinition, filename, diags)
	}

	var root hclRoot
	diags = gohcl.DecodeBody(file.Body, nil, &root)
	if diags.HasErrors() {
		return nil, fmt.Errorf("%w: failed to decode HCL file %s: %w", ErrInvalidDefinition, filename, diags)
	}

	if len(root.Graphs) != 1 {
		return nil, fmt.Errorf("%w: %s: expected one graph block, found %d", ErrInvalidDefinition, filename, len(root.Graphs))
	}
	return root.Graphs[0].translate()
}

func (g *hclGraph) translate() (*GraphDefinition, error) {
	gd := &GraphDefinition{
		Name:        g.Name,
		Description: g.Description,
		Version:     g.Version,
		Inputs:      g.Inputs,
		Outputs:     g.Outputs,
	}

	values, err := ctyToNative(g.Values)
	if err != nil {
		return nil, fmt.Errorf("graph %s: values: %w", g.Name, err)
	}
	if values != nil {
		m, ok := values.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: graph %s: values must be an object", ErrInvalidDefinition, g.Name)
		}
		gd.Values = m
	}

	for _, n := range g.Nodes {
		nd, err := n.translate()
		if err != nil {
			return nil, fmt.Errorf("graph %s: %w", g.Name, err)
		}
		gd.Nodes = append(gd.Nodes, nd)
	}

	for _, l := range g.Links {
		ports, err := ctyToNative(l.Ports)
		if err != nil {
			return nil, fmt.Errorf("graph %s: link %s -> %s: %w", g.Name, l.From, l.To, err)
		}
		gd.Links = append(gd.Links, LinkDefinition{From: l.From, To: l.To, Ports: ports})
	}

	gd.ProxyInputs, err = translateProxies(g.ProxyInputs)
	if err != nil {
		return nil, fmt.Errorf("graph %s: proxy_input: %w", g.Name, err)
	}
	gd.ProxyOutputs, err = translateProxies(g.ProxyOutputs)
	if err != nil {
		return nil, fmt.Errorf("graph %s: proxy_output: %w", g.Name, err)
	}
	return gd, nil
}

func (n *hclNode) translate() (NodeDefinition, error) {
	nd := NodeDefinition{
		Name:        n.Name,
		Type:        n.Type,
		Description: n.Description,
		Inputs:      n.Inputs,
		Outputs:     n.Outputs,
	}

	config, err := ctyToNative(n.Config)
	if err != nil {
		return nd, fmt.Errorf("node %s: config: %w", n.Name, err)
	}
	if config != nil {
		m, ok := config.(map[string]any)
		if !ok {
			return nd, fmt.Errorf("%w: node %s: config must be an object", ErrInvalidDefinition, n.Name)
		}
		nd.Config = m
	}

	if n.Graph != nil {
		nd.Graph, err = n.Graph.translate()
		if err != nil {
			return nd, fmt.Errorf("node %s: %w", n.Name, err)
		}
	}
	return nd, nil
}

func translateProxies(proxies []*hclProxy) ([]ProxyDefinition, error) {
	var out []ProxyDefinition
	for _, p := range proxies {
		ports, err := ctyToNative(p.Ports)
		if err != nil {
			return nil, fmt.Errorf("node %s: %w", p.Node, err)
		}
		out = append(out, ProxyDefinition{Node: p.Node, Ports: ports})
	}
	return out, nil
}

// ctyToNative converts a cty.Value to its natural Go counterpart. Whole
// numbers become int, other numbers float64.
func ctyToNative(v cty.Value) (any, error) {
	if v.IsNull() || !v.IsKnown() {
		return nil, nil
	}

	ty := v.Type()

	switch {
	case ty == cty.String:
		return v.AsString(), nil

	case ty == cty.Number:
		var i int64
		if err := gocty.FromCtyValue(v, &i); err == nil {
			return int(i), nil
		}
		var f float64
		if err := gocty.FromCtyValue(v, &f); err != nil {
			return nil, fmt.Errorf("could not convert cty.Number to float64: %w", err)
		}
		return f, nil

	case ty == cty.Bool:
		return v.True(), nil

	case ty.IsListType() || ty.IsTupleType() || ty.IsSetType():
		slice := make([]any, 0, v.LengthInt())
		it := v.ElementIterator()
		for it.Next() {
			_, val := it.Element()
			native, err := ctyToNative(val)
			if err != nil {
				return nil, err
			}
			slice = append(slice, native)
		}
		return slice, nil

	case ty.IsObjectType() || ty.IsMapType():
		m := make(map[string]any)
		it := v.ElementIterator()
		for it.Next() {
			key, val := it.Element()
			k := key.AsString()
			native, err := ctyToNative(val)
			if err != nil {
				return nil, fmt.Errorf("in attribute '%s': %w", k, err)
			}
			m[k] = native
		}
		return m, nil

	default:
		return nil, fmt.Errorf("unsupported cty type: %s", ty.FriendlyName())
	}
}
