/*
Package weave provides a small engine for composing dataflow graphs out of
typed units with named inputs and outputs, and evaluating them on demand.

Key features:
  - Cells that distinguish "no value yet" from any stored value
  - Named, ordered input/output collections with link-based propagation
  - Leaf nodes from plain functions, typed nodes from structs
  - Composites that nest and link like any other node
  - Deterministic evaluation order via topological sort

Basic usage:

	add := func(ctx context.Context, in weave.Values) (weave.Values, error) {
		return weave.Values{"z": in["x"].(int) + in["y"].(int)}, nil
	}

	first, _ := weave.NewNode("first", []string{"x", "y"}, []string{"z"}, add)
	second, _ := weave.NewNode("second", []string{"x", "y"}, []string{"z"}, add)

	// Writes to first's "z" output now propagate to second's "x" input.
	_ = first.Link(second, weave.Map(map[string]string{"z": "x"}))

	_ = first.Inputs().Merge(weave.Values{"x": 1, "y": 10})
	_ = second.Inputs().Set("y", 100)

	_ = first.Call(ctx)
	_ = second.Call(ctx)

	z, _ := second.Outputs().Get("z") // 111

Composites:

	dag, _ := weave.NewComposite("two-adder", []string{"a", "b", "c"}, []string{"d"})
	_ = dag.AddChild(first)
	_ = dag.ProxyInputs(first, weave.Map(map[string]string{"a": "x", "b": "y"}))
	_ = dag.AddChild(second)
	_ = dag.ProxyInputs(second, weave.Map(map[string]string{"c": "y"}))
	_ = dag.ProxyOutputs(second, weave.Map(map[string]string{"z": "d"}))

	_ = dag.Inputs().Merge(weave.Values{"a": 1, "b": 10, "c": 100})
	_ = dag.Call(ctx) // children run in link order: first, then second

Link mappings:

	weave.Intersect()                       // every name present on both sides (also nil)
	weave.Name("x")                         // one name, same on both sides
	weave.Names("x", "y")                   // several names, same on both sides
	weave.Map(map[string]string{"z": "x"})  // explicit local -> remote
*/
package weave
