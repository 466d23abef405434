// Package loader turns graph definitions into runnable weave composites.
package loader

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/agentstation/weave"
	"github.com/agentstation/weave/builtin"
	"github.com/agentstation/weave/graphdef"
	"github.com/agentstation/weave/middleware"
)

// Loader builds composites from definitions using a node registry.
type Loader struct {
	registry    *builtin.Registry
	opts        []weave.Option
	middlewares []middleware.Middleware
}

// New creates a loader. A nil registry means builtin.NewDefaultRegistry.
// The options are passed to every node and composite the loader creates.
func New(registry *builtin.Registry, opts ...weave.Option) *Loader {
	if registry == nil {
		registry = builtin.NewDefaultRegistry()
	}
	return &Loader{registry: registry, opts: opts}
}

// Use applies middlewares to every node built from the registry. Nested
// graphs are not wrapped; their nodes are.
func (l *Loader) Use(middlewares ...middleware.Middleware) *Loader {
	l.middlewares = append(l.middlewares, middlewares...)
	return l
}

// LoadFile parses a YAML, JSON or HCL file and builds it.
func (l *Loader) LoadFile(filename string) (*weave.Composite, error) {
	def, err := graphdef.ParseFile(filename)
	if err != nil {
		return nil, fmt.Errorf("parse file: %w", err)
	}
	return l.Load(def)
}

// LoadString parses a YAML definition and builds it.
func (l *Loader) LoadString(s string) (*weave.Composite, error) {
	def, err := graphdef.ParseString(s)
	if err != nil {
		return nil, fmt.Errorf("parse string: %w", err)
	}
	return l.Load(def)
}

// LoadFiles loads several files concurrently. The result keeps the order
// of paths; the first failure cancels the rest.
func (l *Loader) LoadFiles(ctx context.Context, paths ...string) ([]*weave.Composite, error) {
	graphs := make([]*weave.Composite, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			c, err := l.LoadFile(path)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			graphs[i] = c
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return graphs, nil
}

// Load validates def and builds it into a composite named after the graph.
func (l *Loader) Load(def *graphdef.GraphDefinition) (*weave.Composite, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}
	return l.build(def.Name, def)
}

func (l *Loader) build(name string, def *graphdef.GraphDefinition) (*weave.Composite, error) {
	c, err := weave.NewComposite(name, def.Inputs, def.Outputs, l.opts...)
	if err != nil {
		return nil, err
	}

	nodes := make(map[string]weave.Node, len(def.Nodes))
	for i := range def.Nodes {
		nd := &def.Nodes[i]
		n, err := l.node(nd)
		if err != nil {
			return nil, fmt.Errorf("graph %s: node %s: %w", def.Name, nd.Name, err)
		}
		if err := c.AddChild(n); err != nil {
			return nil, err
		}
		nodes[nd.Name] = n
	}

	for _, ld := range def.Links {
		m, err := ld.Mapping()
		if err != nil {
			return nil, err
		}
		if err := nodes[ld.From].Link(nodes[ld.To], m); err != nil {
			return nil, fmt.Errorf("graph %s: link %s -> %s: %w", def.Name, ld.From, ld.To, err)
		}
	}

	for _, pd := range def.ProxyInputs {
		m, err := pd.Mapping()
		if err != nil {
			return nil, err
		}
		if err := c.ProxyInputs(nodes[pd.Node], m); err != nil {
			return nil, err
		}
	}
	for _, pd := range def.ProxyOutputs {
		m, err := pd.Mapping()
		if err != nil {
			return nil, err
		}
		if err := c.ProxyOutputs(nodes[pd.Node], m); err != nil {
			return nil, err
		}
	}

	if len(def.Values) > 0 {
		if err := c.Inputs().Merge(def.Values); err != nil {
			return nil, fmt.Errorf("graph %s: values: %w", def.Name, err)
		}
	}
	return c, nil
}

func (l *Loader) node(nd *graphdef.NodeDefinition) (weave.Node, error) {
	if nd.Type == graphdef.GraphType {
		return l.build(nd.Name, nd.Graph)
	}
	n, err := l.registry.Build(nd, l.opts...)
	if err != nil {
		return nil, err
	}
	return middleware.Apply(n, l.middlewares...), nil
}
