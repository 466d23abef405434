package script

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Shopify/go-lua"

	"github.com/agentstation/weave"
)

// EntryPoint is the Lua function called with the inputs table.
const EntryPoint = "evaluate"

// ErrNoEntryPoint is returned when a script does not define EntryPoint.
var ErrNoEntryPoint = errors.New("script: evaluate function not defined")

// Run executes a Lua script in a sandbox and calls its evaluate function
// with the inputs as a table. The function must return a table of outputs.
// Lua's print is routed to logger at debug level when logger is non-nil.
func Run(ctx context.Context, content string, inputs map[string]any, logger weave.Logger) (map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l := lua.NewState()
	setupSandbox(l)

	if logger != nil {
		l.Register("print", func(l *lua.State) int {
			n := l.Top()
			parts := make([]string, 0, n)
			for i := 1; i <= n; i++ {
				parts = append(parts, lua.CheckString(l, i))
			}
			logger.Debug(ctx, "lua print", "message", strings.Join(parts, "\t"))
			return 0
		})
	}

	if err := lua.DoString(l, content); err != nil {
		return nil, fmt.Errorf("script error: %w", err)
	}

	l.Global(EntryPoint)
	if l.TypeOf(-1) != lua.TypeFunction {
		l.Pop(1)
		return nil, ErrNoEntryPoint
	}

	pushValue(l, inputs)
	if err := l.ProtectedCall(1, 1, 0); err != nil {
		return nil, fmt.Errorf("evaluate error: %w", err)
	}
	result := pullValue(l, -1)
	l.Pop(1)

	switch out := result.(type) {
	case map[string]any:
		return out, nil
	case nil:
		return nil, fmt.Errorf("evaluate returned nil, expected a table of outputs")
	default:
		return nil, fmt.Errorf("evaluate returned %T, expected a table of outputs", result)
	}
}
