package weave

import (
	"errors"
	"fmt"
	"strings"
)

// Common errors.
var (
	// ErrUnknownName is returned when an operation references a name that is
	// not declared in the target collection.
	ErrUnknownName = errors.New("weave: unknown name")

	// ErrUninitialized is returned when reading a cell that holds no value.
	ErrUninitialized = errors.New("weave: uninitialized reference")

	// ErrDuplicateName is returned when declaring a name twice.
	ErrDuplicateName = errors.New("weave: duplicate name")

	// ErrMissingOutput is returned when a compute function omits a declared output.
	ErrMissingOutput = errors.New("weave: missing output")

	// ErrInvalidInput is returned when an input value does not fit the typed
	// field it is decoded into.
	ErrInvalidInput = errors.New("weave: invalid input type")

	// ErrCycle is returned when no topological order exists.
	ErrCycle = errors.New("weave: cycle detected")

	// ErrInvalidEdge is returned when an edge references an index out of range.
	ErrInvalidEdge = errors.New("weave: invalid edge")

	// ErrLinkCycle is returned when a link would make a write propagate back
	// into the cell it started from.
	ErrLinkCycle = errors.New("weave: link cycle")

	// ErrNestedReference marks the warning raised when a cell is stored as a value.
	ErrNestedReference = errors.New("weave: cell stored as value")

	// ErrUnknownChild is returned when proxying to a node that is not a child.
	ErrUnknownChild = errors.New("weave: unknown child")

	// ErrDuplicateChild is returned when a child is added twice.
	ErrDuplicateChild = errors.New("weave: duplicate child")

	// ErrNoChildren is returned when a proxy needs an implicit child but none was added.
	ErrNoChildren = errors.New("weave: composite has no children")
)

// NameError reports a failed operation on a named cell.
type NameError struct {
	Kind error
	Refs string
	Name string
}

func (e *NameError) Error() string {
	if e.Refs == "" {
		return fmt.Sprintf("%s: %q", e.Kind.Error(), e.Name)
	}
	return fmt.Sprintf("%s: %q in %s", e.Kind.Error(), e.Name, e.Refs)
}

func (e *NameError) Unwrap() error { return e.Kind }

func nameError(kind error, refs *Refs, name string) error {
	label := ""
	if refs != nil {
		label = refs.label
	}
	return &NameError{Kind: kind, Refs: label, Name: name}
}

// CycleError is returned by TopoSort when the remaining items cannot be ordered.
type CycleError struct {
	// Remaining holds the indices left unprocessed, ascending.
	Remaining []int
}

func (e *CycleError) Error() string {
	parts := make([]string, len(e.Remaining))
	for i, idx := range e.Remaining {
		parts[i] = fmt.Sprint(idx)
	}
	return fmt.Sprintf("%s among items [%s]", ErrCycle.Error(), strings.Join(parts, " "))
}

func (e *CycleError) Unwrap() error { return ErrCycle }

// LinkCycleError is returned by Link when the new link closes a propagation loop.
type LinkCycleError struct {
	From string
	To   string
}

func (e *LinkCycleError) Error() string {
	return fmt.Sprintf("%s: %s -> %s", ErrLinkCycle.Error(), e.From, e.To)
}

func (e *LinkCycleError) Unwrap() error { return ErrLinkCycle }

// NestedReferenceWarning is delivered to the warning handler when a cell is
// stored as another cell's value. The value is still stored.
type NestedReferenceWarning struct {
	Refs string
	Name string
}

func (w *NestedReferenceWarning) Error() string {
	if w.Name == "" {
		return ErrNestedReference.Error()
	}
	return fmt.Sprintf("%s: %q in %s", ErrNestedReference.Error(), w.Name, w.Refs)
}

func (w *NestedReferenceWarning) Unwrap() error { return ErrNestedReference }
