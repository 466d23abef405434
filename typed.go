package weave

import (
	"context"
	"fmt"
	"reflect"
)

// NewTypedNode adapts a typed function into a leaf node. Input names are the
// exported fields of In and output names the exported fields of Out; a
// `weave:"name"` tag renames a field and `weave:"-"` skips it.
//
// Type safety:
// Values read from the input cells are assigned to the fields of In. A value
// that is not assignable to its field fails the evaluation with
// ErrInvalidInput before fn runs. A nil value leaves the field at its zero
// value.
//
// Example:
//
//	type addIn struct{ X, Y int }
//	type addOut struct{ Z int }
//
//	adder, err := weave.NewTypedNode("adder",
//	    func(ctx context.Context, in addIn) (addOut, error) {
//	        return addOut{Z: in.X + in.Y}, nil
//	    },
//	)
//
// The adder above declares inputs "X", "Y" and output "Z".
func NewTypedNode[In, Out any](name string, fn func(ctx context.Context, in In) (Out, error), opts ...Option) (Node, error) {
	inType := reflect.TypeOf((*In)(nil)).Elem()
	outType := reflect.TypeOf((*Out)(nil)).Elem()

	inFields, err := portFields(inType)
	if err != nil {
		return nil, fmt.Errorf("node %q input: %w", name, err)
	}
	outFields, err := portFields(outType)
	if err != nil {
		return nil, fmt.Errorf("node %q output: %w", name, err)
	}

	compute := func(ctx context.Context, values Values) (Values, error) {
		var in In
		rv := reflect.ValueOf(&in).Elem()
		for _, f := range inFields {
			v := values[f.port]
			if v == nil {
				continue
			}
			val := reflect.ValueOf(v)
			field := rv.FieldByIndex(f.index)
			if !val.Type().AssignableTo(field.Type()) {
				return nil, fmt.Errorf("%w: input %q expects %v, got %T", ErrInvalidInput, f.port, field.Type(), v)
			}
			field.Set(val)
		}

		out, err := fn(ctx, in)
		if err != nil {
			return nil, err
		}

		ov := reflect.ValueOf(out)
		result := make(Values, len(outFields))
		for _, f := range outFields {
			result[f.port] = ov.FieldByIndex(f.index).Interface()
		}
		return result, nil
	}

	return NewNode(name, portNames(inFields), portNames(outFields), compute, opts...)
}

// portField binds a struct field to a port name.
type portField struct {
	port  string
	index []int
}

func portFields(t reflect.Type) ([]portField, error) {
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %v is not a struct", ErrInvalidInput, t)
	}

	fields := make([]portField, 0, t.NumField())
	for _, sf := range reflect.VisibleFields(t) {
		if !sf.IsExported() || sf.Anonymous {
			continue
		}
		port := sf.Name
		if tag, ok := sf.Tag.Lookup("weave"); ok {
			if tag == "-" {
				continue
			}
			if tag != "" {
				port = tag
			}
		}
		fields = append(fields, portField{port: port, index: sf.Index})
	}
	return fields, nil
}

func portNames(fields []portField) []string {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.port
	}
	return names
}
