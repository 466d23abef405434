package testutil

import (
	"context"
	"fmt"
	"testing"

	"github.com/agentstation/weave"
)

// AdderNode creates a node with inputs x, y and output z = x + y.
func AdderNode(t *testing.T, name string, opts ...weave.Option) weave.Node {
	t.Helper()
	return arithNode(t, name, func(x, y int) int { return x + y }, opts...)
}

// MultNode creates a node with inputs x, y and output z = x * y.
func MultNode(t *testing.T, name string, opts ...weave.Option) weave.Node {
	t.Helper()
	return arithNode(t, name, func(x, y int) int { return x * y }, opts...)
}

func arithNode(t *testing.T, name string, op func(x, y int) int, opts ...weave.Option) weave.Node {
	t.Helper()
	n, err := weave.NewNode(name, []string{"x", "y"}, []string{"z"},
		func(ctx context.Context, in weave.Values) (weave.Values, error) {
			x, ok := in["x"].(int)
			if !ok {
				return nil, fmt.Errorf("x: expected int, got %T", in["x"])
			}
			y, ok := in["y"].(int)
			if !ok {
				return nil, fmt.Errorf("y: expected int, got %T", in["y"])
			}
			return weave.Values{"z": op(x, y)}, nil
		}, opts...)
	if err != nil {
		t.Fatalf("creating %s: %v", name, err)
	}
	return n
}

// EchoNode creates a node that copies input "value" to output "value".
func EchoNode(t *testing.T, name string) weave.Node {
	t.Helper()
	n, err := weave.NewNode(name, []string{"value"}, []string{"value"},
		func(ctx context.Context, in weave.Values) (weave.Values, error) {
			return weave.Values{"value": in["value"]}, nil
		})
	if err != nil {
		t.Fatalf("creating %s: %v", name, err)
	}
	return n
}

// ErrorNode creates a node with input "x" whose evaluation always fails with err.
func ErrorNode(t *testing.T, name string, err error) weave.Node {
	t.Helper()
	n, nerr := weave.NewNode(name, []string{"x"}, []string{"y"},
		func(ctx context.Context, in weave.Values) (weave.Values, error) {
			return nil, err
		})
	if nerr != nil {
		t.Fatalf("creating %s: %v", name, nerr)
	}
	return n
}

// AddMultComposite builds a composite with inputs a, b, c and output d,
// computing d = (a + b) * c with an adder linked into a multiplier.
// The children are added multiplier first so the order comes from the link.
func AddMultComposite(t *testing.T, name string, opts ...weave.Option) *weave.Composite {
	t.Helper()

	c, err := weave.NewComposite(name, []string{"a", "b", "c"}, []string{"d"}, opts...)
	if err != nil {
		t.Fatalf("creating %s: %v", name, err)
	}
	add := AdderNode(t, name+"-add", opts...)
	mult := MultNode(t, name+"-mult", opts...)

	must(t, c.AddChild(mult))
	must(t, c.ProxyInputs(mult, weave.Map(map[string]string{"c": "y"})))
	must(t, c.ProxyOutputs(mult, weave.Map(map[string]string{"z": "d"})))
	must(t, c.AddChild(add))
	must(t, c.ProxyInputs(add, weave.Map(map[string]string{"a": "x", "b": "y"})))
	must(t, add.Link(mult, weave.Map(map[string]string{"z": "x"})))
	return c
}

// EchoChain wraps an echo node in depth levels of passthrough composites.
func EchoChain(t *testing.T, name string, depth int) *weave.Composite {
	t.Helper()

	var n weave.Node = EchoNode(t, name+"-0")
	var c *weave.Composite
	for i := 1; i <= depth; i++ {
		var err error
		c, err = weave.Wrap(fmt.Sprintf("%s-%d", name, i), n)
		if err != nil {
			t.Fatalf("wrapping level %d: %v", i, err)
		}
		n = c
	}
	return c
}

func must(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatal(err)
	}
}
