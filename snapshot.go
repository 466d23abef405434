package weave

// SelfName stands for the composite's own interface in snapshot links.
const SelfName = "$self"

// Snapshot is a read-only description of a composite's wiring, suitable for
// export to visualization tools.
type Snapshot struct {
	Name     string          `json:"name" yaml:"name"`
	Inputs   []string        `json:"inputs" yaml:"inputs"`
	Outputs  []string        `json:"outputs" yaml:"outputs"`
	Children []ChildSnapshot `json:"children,omitempty" yaml:"children,omitempty"`
	Links    []LinkSnapshot  `json:"links,omitempty" yaml:"links,omitempty"`
}

// ChildSnapshot describes one child. Graph is set for nested composites.
type ChildSnapshot struct {
	Name    string    `json:"name" yaml:"name"`
	Inputs  []string  `json:"inputs" yaml:"inputs"`
	Outputs []string  `json:"outputs" yaml:"outputs"`
	Graph   *Snapshot `json:"graph,omitempty" yaml:"graph,omitempty"`
}

// LinkSnapshot is one name-to-name propagation rule.
type LinkSnapshot struct {
	From     string `json:"from" yaml:"from"`
	FromPort string `json:"from_port" yaml:"from_port"`
	To       string `json:"to" yaml:"to"`
	ToPort   string `json:"to_port" yaml:"to_port"`
}

// Snapshot describes the composite's children, proxies and internal links.
// Links leaving the composite are not included.
func (c *Composite) Snapshot() Snapshot {
	s := Snapshot{
		Name:    c.name,
		Inputs:  c.inputs.Names(),
		Outputs: c.outputs.Names(),
	}

	// Input collections are mapped to their owner's name as link endpoints.
	inputOwner := map[*Refs]string{}
	for _, child := range c.children {
		inputOwner[child.Inputs()] = child.Name()

		cs := ChildSnapshot{
			Name:    child.Name(),
			Inputs:  child.Inputs().Names(),
			Outputs: child.Outputs().Names(),
		}
		if nested, ok := child.(*Composite); ok {
			g := nested.Snapshot()
			cs.Graph = &g
		}
		s.Children = append(s.Children, cs)
	}

	appendLinks := func(from string, refs *Refs) {
		for _, l := range refs.links {
			to, ok := inputOwner[l.Target]
			if !ok && l.Target == c.outputs {
				to, ok = SelfName, true
			}
			if !ok {
				continue
			}
			for _, p := range l.Pairs {
				s.Links = append(s.Links, LinkSnapshot{
					From:     from,
					FromPort: p.Local,
					To:       to,
					ToPort:   p.Remote,
				})
			}
		}
	}

	appendLinks(SelfName, c.inputs)
	for _, child := range c.children {
		appendLinks(child.Name(), child.Outputs())
	}
	return s
}
