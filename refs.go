package weave

import (
	"maps"
	"slices"
)

// Values maps names to values. It is the currency of compute functions and
// bulk assignment.
type Values map[string]any

// Item pairs a name with the value currently stored under it.
type Item struct {
	Name  string
	Value any
}

// Refs is a named, ordered set of cells forming one side of a node's
// interface. Writes fan out synchronously along the collection's links.
//
// Refs is not safe for concurrent use.
type Refs struct {
	label  string
	order  []string
	cells  map[string]*Cell
	links  []Link
	onWarn WarningHandler
}

// NewRefs creates an empty collection. The label names the collection in
// errors and log output, e.g. "adder.inputs".
func NewRefs(label string, opts ...Option) *Refs {
	o := resolveOptions(opts)
	return &Refs{
		label:  label,
		cells:  make(map[string]*Cell),
		onWarn: o.warningHandler(),
	}
}

// Label returns the collection's label.
func (r *Refs) Label() string {
	return r.label
}

// Declare adds each name in the uninitialized state, in call order.
// Either every name is added or, on a duplicate, none is.
func (r *Refs) Declare(names ...string) error {
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if _, exists := r.cells[name]; exists || seen[name] {
			return nameError(ErrDuplicateName, r, name)
		}
		seen[name] = true
	}

	for _, name := range names {
		r.cells[name] = &Cell{onWarn: r.onWarn, refs: r, name: name}
		r.order = append(r.order, name)
	}
	return nil
}

// Has reports whether name is declared.
func (r *Refs) Has(name string) bool {
	_, ok := r.cells[name]
	return ok
}

// Len returns the number of declared names.
func (r *Refs) Len() int {
	return len(r.order)
}

// Cell returns the cell declared under name.
func (r *Refs) Cell(name string) (*Cell, bool) {
	c, ok := r.cells[name]
	return c, ok
}

// Get reads the named cell.
func (r *Refs) Get(name string) (any, error) {
	c, ok := r.cells[name]
	if !ok {
		return nil, nameError(ErrUnknownName, r, name)
	}
	return c.Get()
}

// GetOr reads the named cell, returning def if the name is not declared.
// A declared but uninitialized cell still yields ErrUninitialized.
func (r *Refs) GetOr(name string, def any) (any, error) {
	c, ok := r.cells[name]
	if !ok {
		return def, nil
	}
	return c.Get()
}

// SetOption configures a write.
type SetOption func(*setOptions)

type setOptions struct {
	ignoreMissing bool
}

// IgnoreMissing turns writes to undeclared names into no-ops instead of errors.
func IgnoreMissing() SetOption {
	return func(o *setOptions) {
		o.ignoreMissing = true
	}
}

func applySetOptions(opts []SetOption) setOptions {
	var so setOptions
	for _, opt := range opts {
		opt(&so)
	}
	return so
}

// Set writes the named cell and then propagates the value to every linked
// cell, recursively, before returning.
func (r *Refs) Set(name string, value any, opts ...SetOption) error {
	so := applySetOptions(opts)

	c, ok := r.cells[name]
	if !ok {
		if so.ignoreMissing {
			return nil
		}
		return nameError(ErrUnknownName, r, name)
	}

	c.Set(value)
	return r.propagate(name, value)
}

// propagate forwards a write on name along every outgoing link.
func (r *Refs) propagate(name string, value any) error {
	for _, l := range r.links {
		for _, p := range l.Pairs {
			if p.Local != name {
				continue
			}
			if err := l.Target.Set(p.Remote, value); err != nil {
				return err
			}
		}
	}
	return nil
}

// SetMany writes every entry of values. Without IgnoreMissing an undeclared
// name rejects the whole call before anything is written. Entries are applied
// in declaration order.
func (r *Refs) SetMany(values Values, opts ...SetOption) error {
	so := applySetOptions(opts)

	if !so.ignoreMissing {
		for _, name := range slices.Sorted(maps.Keys(values)) {
			if !r.Has(name) {
				return nameError(ErrUnknownName, r, name)
			}
		}
	}

	for _, name := range r.order {
		value, ok := values[name]
		if !ok {
			continue
		}
		if err := r.Set(name, value); err != nil {
			return err
		}
	}
	return nil
}

// Merge assigns values to pre-declared names only.
func (r *Refs) Merge(values Values) error {
	return r.SetMany(values)
}

// Delete resets the named cell. The name stays declared.
func (r *Refs) Delete(name string) error {
	c, ok := r.cells[name]
	if !ok {
		return nameError(ErrUnknownName, r, name)
	}
	c.Reset()
	return nil
}

// Names returns every declared name in declaration order.
func (r *Refs) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Keys is an alias of Names.
func (r *Refs) Keys() []string {
	return r.Names()
}

// Values returns the values of initialized cells in declaration order.
func (r *Refs) Values() []any {
	out := make([]any, 0, len(r.order))
	for _, name := range r.order {
		if c := r.cells[name]; c.set {
			out = append(out, c.value)
		}
	}
	return out
}

// Items returns name/value pairs of initialized cells in declaration order.
func (r *Refs) Items() []Item {
	out := make([]Item, 0, len(r.order))
	for _, name := range r.order {
		if c := r.cells[name]; c.set {
			out = append(out, Item{Name: name, Value: c.value})
		}
	}
	return out
}

// Map returns the initialized cells as a map.
func (r *Refs) Map() Values {
	out := make(Values, len(r.order))
	for _, item := range r.Items() {
		out[item.Name] = item.Value
	}
	return out
}

// Reset returns every cell to the uninitialized state.
func (r *Refs) Reset() {
	for _, c := range r.cells {
		c.Reset()
	}
}
