package builtin

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/agentstation/weave"
	"github.com/agentstation/weave/graphdef"
)

// Arithmetic operations.
const (
	OpAdd      = "add"
	OpSubtract = "subtract"
	OpMultiply = "multiply"
	OpDivide   = "divide"
)

// ErrDivideByZero is returned by divide nodes when y is zero.
var ErrDivideByZero = errors.New("builtin: division by zero")

// ArithmeticNodeBuilder builds nodes computing z = x <op> y.
type ArithmeticNodeBuilder struct {
	Op string
}

var arithmeticDescriptions = map[string]string{
	OpAdd:      "Adds x and y",
	OpSubtract: "Subtracts y from x",
	OpMultiply: "Multiplies x by y",
	OpDivide:   "Divides x by y, always producing a float",
}

// Metadata returns the node metadata.
func (b *ArithmeticNodeBuilder) Metadata() NodeMetadata {
	return NodeMetadata{
		Type:        b.Op,
		Category:    CategoryMath,
		Description: arithmeticDescriptions[b.Op],
		Inputs:      []string{"x", "y"},
		Outputs:     []string{"z"},
		ConfigSchema: map[string]any{
			"type":                 "object",
			"additionalProperties": false,
		},
		Examples: []Example{
			{
				Name:        "Integers",
				Description: "Integer operands give an integer result, except for divide",
				Input:       map[string]any{"x": 6, "y": 3},
				Output:      map[string]any{"z": arithmeticExample(b.Op)},
			},
		},
		Since: "1.0.0",
	}
}

func arithmeticExample(op string) any {
	switch op {
	case OpAdd:
		return 9
	case OpSubtract:
		return 3
	case OpMultiply:
		return 18
	default:
		return 2.0
	}
}

// Build creates an arithmetic node from a definition.
func (b *ArithmeticNodeBuilder) Build(def *graphdef.NodeDefinition, opts ...weave.Option) (weave.Node, error) {
	if _, ok := arithmeticDescriptions[b.Op]; !ok {
		return nil, fmt.Errorf("unknown arithmetic operation %q", b.Op)
	}
	meta := b.Metadata()
	if !slices.Equal(ports(def.Inputs, meta.Inputs), meta.Inputs) || !slices.Equal(ports(def.Outputs, meta.Outputs), meta.Outputs) {
		return nil, fmt.Errorf("%s node ports are fixed to %v -> %v", b.Op, meta.Inputs, meta.Outputs)
	}
	op := b.Op

	return weave.NewNode(def.Name, meta.Inputs, meta.Outputs,
		func(ctx context.Context, in weave.Values) (weave.Values, error) {
			z, err := arithmetic(op, in["x"], in["y"])
			if err != nil {
				return nil, err
			}
			return weave.Values{"z": z}, nil
		}, opts...)
}

func arithmetic(op string, x, y any) (any, error) {
	xi, xf, xInt, err := toNumber("x", x)
	if err != nil {
		return nil, err
	}
	yi, yf, yInt, err := toNumber("y", y)
	if err != nil {
		return nil, err
	}

	if op == OpDivide {
		if yf == 0 {
			return nil, ErrDivideByZero
		}
		return xf / yf, nil
	}

	if xInt && yInt {
		if z, ok := intArithmetic(op, xi, yi); ok {
			return z, nil
		}
	}

	switch op {
	case OpAdd:
		return xf + yf, nil
	case OpSubtract:
		return xf - yf, nil
	default:
		return xf * yf, nil
	}
}

// intArithmetic computes an integer result. It reports false when the result
// does not fit an int, in which case the caller falls back to float64.
func intArithmetic(op string, x, y int64) (int, bool) {
	var z int64
	switch op {
	case OpAdd:
		z = x + y
		if (y > 0 && z < x) || (y < 0 && z > x) {
			return 0, false
		}
	case OpSubtract:
		z = x - y
		if (y > 0 && z > x) || (y < 0 && z < x) {
			return 0, false
		}
	case OpMultiply:
		if x == 0 || y == 0 {
			return 0, true
		}
		z = x * y
		if z/y != x || (x == -1 && y == math.MinInt64) || (y == -1 && x == math.MinInt64) {
			return 0, false
		}
	default:
		return 0, false
	}
	if z < math.MinInt || z > math.MaxInt {
		return 0, false
	}
	return int(z), true
}

// toNumber reads any Go numeric type. Integers report isInt; both
// representations are always filled in.
func toNumber(name string, v any) (i int64, f float64, isInt bool, err error) {
	switch n := v.(type) {
	case int:
		return int64(n), float64(n), true, nil
	case int8:
		return int64(n), float64(n), true, nil
	case int16:
		return int64(n), float64(n), true, nil
	case int32:
		return int64(n), float64(n), true, nil
	case int64:
		return n, float64(n), true, nil
	case uint:
		return int64(n), float64(n), n <= math.MaxInt64, nil
	case uint8:
		return int64(n), float64(n), true, nil
	case uint16:
		return int64(n), float64(n), true, nil
	case uint32:
		return int64(n), float64(n), true, nil
	case uint64:
		return int64(n), float64(n), n <= math.MaxInt64, nil
	case float32:
		return int64(n), float64(n), false, nil
	case float64:
		return int64(n), n, false, nil
	default:
		return 0, 0, false, fmt.Errorf("%w: %s must be a number, got %T", weave.ErrInvalidInput, name, v)
	}
}
