package middleware

import (
	"context"
	"fmt"
	"time"

	"github.com/agentstation/weave"
	"github.com/agentstation/weave/internal/retry"
)

// Retry re-evaluates a failing node according to policy. A failed leaf
// evaluation writes no outputs, so retrying does not leave partial results.
func Retry(policy retry.Policy) Middleware {
	return func(n weave.Node) weave.Node {
		return Wrap(n, func(ctx context.Context, next CallFunc) error {
			return policy.Do(ctx, func() error { return next(ctx) })
		})
	}
}

// Timeout bounds each evaluation by d. The node's computation must honor
// context cancellation for the bound to take effect.
func Timeout(d time.Duration) Middleware {
	return func(n weave.Node) weave.Node {
		return Wrap(n, func(ctx context.Context, next CallFunc) error {
			ctx, cancel := context.WithTimeout(ctx, d)
			defer cancel()

			if err := next(ctx); err != nil {
				if ctx.Err() == context.DeadlineExceeded {
					return fmt.Errorf("node %s timed out after %v: %w", n.Name(), d, err)
				}
				return err
			}
			return nil
		})
	}
}

// ErrorHandler passes evaluation errors through handler, which may replace
// or suppress them.
func ErrorHandler(handler func(name string, err error) error) Middleware {
	return func(n weave.Node) weave.Node {
		return Wrap(n, func(ctx context.Context, next CallFunc) error {
			if err := next(ctx); err != nil {
				return handler(n.Name(), err)
			}
			return nil
		})
	}
}
