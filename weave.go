// Package weave composes and evaluates dataflow graphs.
//
// Nodes:
// A node owns two collections of named cells: its inputs and its outputs.
// Evaluating a node reads every input, runs the node's computation and writes
// every output. Both leaf nodes and composites implement the Node interface,
// so composites nest and link to other nodes without special cases.
//
// Links:
// A link is a static rule that copies writes from cells of one collection to
// cells of another. Writes propagate synchronously, so a value written to an
// upstream output has already reached every linked input when Set returns.
// Links never form loops: Link rejects any rule that would let a write reach
// its own source.
//
// Composites:
// A composite evaluates its children in an order derived from the links
// between them, using TopoSort. Proxies connect the composite's own inputs
// and outputs to those of its children.
package weave

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"github.com/rs/xid"
)

// Node is a unit of computation with named inputs and outputs.
// Leaf nodes and composites both implement it.
type Node interface {
	// Name returns the node's identifier.
	Name() string

	// Inputs and Outputs return the node's interface collections.
	Inputs() *Refs
	Outputs() *Refs

	// Call evaluates the node, writing every output.
	Call(ctx context.Context) error

	// Link connects this node's outputs to the inputs of another node.
	Link(to Node, m Mapping) error
}

// ComputeFunc derives output values from input values. It receives every
// declared input and must return every declared output.
type ComputeFunc func(ctx context.Context, in Values) (Values, error)

// Logger provides structured logging.
type Logger interface {
	Debug(ctx context.Context, msg string, keysAndValues ...any)
	Info(ctx context.Context, msg string, keysAndValues ...any)
	Error(ctx context.Context, msg string, keysAndValues ...any)
}

// Tracer provides tracing of evaluation steps.
type Tracer interface {
	StartSpan(ctx context.Context, name string) (context.Context, func())
}

// WarningHandler receives non-fatal warnings such as NestedReferenceWarning.
type WarningHandler func(warning error)

// nodeOptions holds configuration for nodes and collections.
type nodeOptions struct {
	logger    Logger
	tracer    Tracer
	onWarning WarningHandler
}

// Option configures a node.
type Option func(*nodeOptions)

// WithLogger adds logging to evaluation.
func WithLogger(logger Logger) Option {
	return func(o *nodeOptions) {
		o.logger = logger
	}
}

// WithTracer adds a span around each child evaluation of a composite.
func WithTracer(tracer Tracer) Option {
	return func(o *nodeOptions) {
		o.tracer = tracer
	}
}

// WithWarningHandler sets the handler for non-fatal warnings.
func WithWarningHandler(handler WarningHandler) Option {
	return func(o *nodeOptions) {
		o.onWarning = handler
	}
}

// resolveOptions applies opts on top of the global defaults and fills in
// no-op implementations.
func resolveOptions(opts []Option) nodeOptions {
	o := getDefaults()
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = nopLogger{}
	}
	if o.tracer == nil {
		o.tracer = nopTracer{}
	}
	return o
}

// LoggerOf returns the logger opts resolve to after applying global defaults.
// It never returns nil.
func LoggerOf(opts ...Option) Logger {
	return resolveOptions(opts).logger
}

func (o nodeOptions) warningHandler() WarningHandler {
	if o.onWarning != nil {
		return o.onWarning
	}
	return logWarnings(o.logger)
}

// node is the leaf implementation of Node, backed by a ComputeFunc.
type node struct {
	name    string
	inputs  *Refs
	outputs *Refs
	compute ComputeFunc
	opts    nodeOptions
}

// NewNode creates a leaf node with the given input and output names.
// The names are fixed for the node's lifetime. An empty name is replaced by
// a generated one.
//
// Example:
//
//	adder, err := weave.NewNode("adder", []string{"x", "y"}, []string{"z"},
//	    func(ctx context.Context, in weave.Values) (weave.Values, error) {
//	        return weave.Values{"z": in["x"].(int) + in["y"].(int)}, nil
//	    },
//	)
func NewNode(name string, inputs, outputs []string, compute ComputeFunc, opts ...Option) (Node, error) {
	if compute == nil {
		return nil, fmt.Errorf("weave: node %q has no compute function", name)
	}

	name = nodeName(name)
	o := resolveOptions(opts)
	in, out, err := newInterface(name, inputs, outputs, opts)
	if err != nil {
		return nil, err
	}

	return &node{
		name:    name,
		inputs:  in,
		outputs: out,
		compute: compute,
		opts:    o,
	}, nil
}

// nodeName generates a name when none is given.
func nodeName(name string) string {
	if name == "" {
		return "node-" + xid.New().String()
	}
	return name
}

// newInterface creates the input and output collections of a node.
func newInterface(name string, inputs, outputs []string, opts []Option) (*Refs, *Refs, error) {
	in := NewRefs(name+".inputs", opts...)
	if err := in.Declare(inputs...); err != nil {
		return nil, nil, err
	}
	out := NewRefs(name+".outputs", opts...)
	if err := out.Declare(outputs...); err != nil {
		return nil, nil, err
	}
	return in, out, nil
}

// Name returns the node's identifier.
func (n *node) Name() string {
	return n.name
}

// Inputs returns the node's input collection.
func (n *node) Inputs() *Refs {
	return n.inputs
}

// Outputs returns the node's output collection.
func (n *node) Outputs() *Refs {
	return n.outputs
}

// Link connects the node's outputs to the inputs of to.
func (n *node) Link(to Node, m Mapping) error {
	return linkNodes(n, to, m)
}

// Call reads every input, runs the compute function and writes every
// output. Nothing is written unless all inputs are set and the result covers
// exactly the declared outputs.
func (n *node) Call(ctx context.Context) error {
	in, err := readInputs(n.inputs)
	if err != nil {
		return fmt.Errorf("node %s: %w", n.name, err)
	}

	n.opts.logger.Debug(ctx, "evaluating node", "node", n.name)

	result, err := n.compute(ctx, in)
	if err != nil {
		n.opts.logger.Error(ctx, "node evaluation failed", "node", n.name, "error", err)
		return fmt.Errorf("node %s: %w", n.name, err)
	}

	if err := checkOutputs(n.outputs, result); err != nil {
		return fmt.Errorf("node %s: %w", n.name, err)
	}
	if err := n.outputs.Merge(result); err != nil {
		return fmt.Errorf("node %s: %w", n.name, err)
	}
	return nil
}

// readInputs resolves every input or fails on the first unset one.
func readInputs(inputs *Refs) (Values, error) {
	in := make(Values, inputs.Len())
	for _, name := range inputs.order {
		v, err := inputs.Get(name)
		if err != nil {
			return nil, err
		}
		in[name] = v
	}
	return in, nil
}

// checkOutputs verifies a result names every declared output and nothing else.
func checkOutputs(outputs *Refs, result Values) error {
	for _, name := range outputs.order {
		if _, ok := result[name]; !ok {
			return nameError(ErrMissingOutput, outputs, name)
		}
	}
	for _, name := range slices.Sorted(maps.Keys(result)) {
		if !outputs.Has(name) {
			return nameError(ErrUnknownName, outputs, name)
		}
	}
	return nil
}

// linkNodes links from's outputs to to's inputs.
func linkNodes(from, to Node, m Mapping) error {
	if to == nil {
		return fmt.Errorf("weave: link from %s to nil node", from.Name())
	}
	return from.Outputs().Link(to.Inputs(), m)
}
