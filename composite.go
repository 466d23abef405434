package weave

import (
	"context"
	"fmt"
)

// Composite is a node whose evaluation runs a set of child nodes in
// dependency order. Proxies connect the composite's own inputs and outputs to
// its children; links between children determine the order.
//
// Evaluation is not transactional: when a child fails, outputs written by
// children evaluated before it stay in place.
type Composite struct {
	name     string
	inputs   *Refs
	outputs  *Refs
	children []Node
	opts     nodeOptions
}

// NewComposite creates a composite with the given input and output names and
// no children.
func NewComposite(name string, inputs, outputs []string, opts ...Option) (*Composite, error) {
	name = nodeName(name)
	o := resolveOptions(opts)
	in, out, err := newInterface(name, inputs, outputs, opts)
	if err != nil {
		return nil, err
	}

	return &Composite{
		name:    name,
		inputs:  in,
		outputs: out,
		opts:    o,
	}, nil
}

// Wrap creates a composite that exposes n's inputs and outputs unchanged.
func Wrap(name string, n Node, opts ...Option) (*Composite, error) {
	c, err := NewComposite(name, n.Inputs().Names(), n.Outputs().Names(), opts...)
	if err != nil {
		return nil, err
	}
	if err := c.AddChild(n); err != nil {
		return nil, err
	}
	if err := c.ProxyInputs(n, nil); err != nil {
		return nil, err
	}
	if err := c.ProxyOutputs(n, nil); err != nil {
		return nil, err
	}
	return c, nil
}

// Name returns the composite's identifier.
func (c *Composite) Name() string {
	return c.name
}

// Inputs returns the composite's input collection.
func (c *Composite) Inputs() *Refs {
	return c.inputs
}

// Outputs returns the composite's output collection.
func (c *Composite) Outputs() *Refs {
	return c.outputs
}

// Link connects the composite's outputs to the inputs of to.
func (c *Composite) Link(to Node, m Mapping) error {
	return linkNodes(c, to, m)
}

// AddChild registers a child. Children are only evaluated by the composite.
func (c *Composite) AddChild(n Node) error {
	if n == nil {
		return fmt.Errorf("composite %s: nil child", c.name)
	}
	if c.indexOf(n) >= 0 {
		return fmt.Errorf("composite %s: %w: %s", c.name, ErrDuplicateChild, n.Name())
	}
	c.children = append(c.children, n)
	return nil
}

// Children returns the registered children in insertion order.
func (c *Composite) Children() []Node {
	out := make([]Node, len(c.children))
	copy(out, c.children)
	return out
}

// ProxyInputs links the composite's inputs to child's inputs. A nil child
// means the most recently added child; a nil mapping links matching names.
func (c *Composite) ProxyInputs(child Node, m Mapping) error {
	child, err := c.resolveChild(child)
	if err != nil {
		return err
	}
	if err := c.inputs.Link(child.Inputs(), m); err != nil {
		return fmt.Errorf("composite %s: proxy inputs to %s: %w", c.name, child.Name(), err)
	}
	return nil
}

// ProxyOutputs links child's outputs to the composite's outputs. A nil child
// means the most recently added child; a nil mapping links matching names.
func (c *Composite) ProxyOutputs(child Node, m Mapping) error {
	child, err := c.resolveChild(child)
	if err != nil {
		return err
	}
	if err := child.Outputs().Link(c.outputs, m); err != nil {
		return fmt.Errorf("composite %s: proxy outputs from %s: %w", c.name, child.Name(), err)
	}
	return nil
}

func (c *Composite) resolveChild(child Node) (Node, error) {
	if child == nil {
		if len(c.children) == 0 {
			return nil, fmt.Errorf("composite %s: %w", c.name, ErrNoChildren)
		}
		return c.children[len(c.children)-1], nil
	}
	if c.indexOf(child) < 0 {
		return nil, fmt.Errorf("composite %s: %w: %s", c.name, ErrUnknownChild, child.Name())
	}
	return child, nil
}

func (c *Composite) indexOf(n Node) int {
	for i, child := range c.children {
		if child == n {
			return i
		}
	}
	return -1
}

// edges returns one edge per link from a child's outputs to a child's inputs.
func (c *Composite) edges() []Edge {
	owner := make(map[*Refs]int, len(c.children))
	for i, child := range c.children {
		owner[child.Inputs()] = i
	}

	var edges []Edge
	for i, child := range c.children {
		for _, l := range child.Outputs().links {
			if j, ok := owner[l.Target]; ok {
				edges = append(edges, Edge{From: i, To: j})
			}
		}
	}
	return edges
}

// Order returns the children in evaluation order.
func (c *Composite) Order() ([]Node, error) {
	order, err := TopoSort(c.children, c.edges())
	if err != nil {
		return nil, fmt.Errorf("composite %s: %w", c.name, err)
	}
	return order, nil
}

// Call evaluates every child in dependency order. Values reach downstream
// children and the composite's outputs through propagation as each child
// writes its outputs.
func (c *Composite) Call(ctx context.Context) error {
	if _, err := readInputs(c.inputs); err != nil {
		return fmt.Errorf("composite %s: %w", c.name, err)
	}

	order, err := c.Order()
	if err != nil {
		return err
	}

	c.opts.logger.Debug(ctx, "evaluating composite", "composite", c.name, "children", len(order))

	for _, child := range order {
		spanCtx, finish := c.opts.tracer.StartSpan(ctx, c.name+"/"+child.Name())
		err := child.Call(spanCtx)
		finish()
		if err != nil {
			c.opts.logger.Error(ctx, "child evaluation failed",
				"composite", c.name,
				"child", child.Name(),
				"error", err)
			return fmt.Errorf("composite %s: %w", c.name, err)
		}
	}
	return nil
}
