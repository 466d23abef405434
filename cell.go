package weave

// Cell is a single-slot value holder that distinguishes "no value yet" from
// any stored value, including nil and other zero values.
//
// The zero value is an uninitialized cell.
type Cell struct {
	value any
	set   bool

	// onWarn receives non-fatal warnings; nil falls back to the global default.
	onWarn WarningHandler
	// refs and name identify the cell in warnings when it belongs to a collection.
	refs *Refs
	name string
}

// NewCell creates an uninitialized cell.
func NewCell() *Cell {
	return &Cell{}
}

// Get returns the stored value or ErrUninitialized.
func (c *Cell) Get() (any, error) {
	if !c.set {
		return nil, nameError(ErrUninitialized, c.refs, c.name)
	}
	return c.value, nil
}

// Set stores v. Storing a cell as a value is allowed but reported as a
// NestedReferenceWarning, since it aliases state instead of copying a value.
func (c *Cell) Set(v any) {
	switch v.(type) {
	case *Cell, Cell:
		label := ""
		if c.refs != nil {
			label = c.refs.label
		}
		c.warn(&NestedReferenceWarning{Refs: label, Name: c.name})
	}
	c.value = v
	c.set = true
}

// Reset discards the stored value.
func (c *Cell) Reset() {
	c.value = nil
	c.set = false
}

// IsSet reports whether the cell holds a value.
func (c *Cell) IsSet() bool {
	return c.set
}

func (c *Cell) warn(w error) {
	if c.onWarn != nil {
		c.onWarn(w)
		return
	}
	defaultWarningHandler()(w)
}
