package middleware

import (
	"context"
	"time"

	"github.com/agentstation/weave"
)

// Logging logs the start and outcome of every evaluation.
func Logging(logger weave.Logger) Middleware {
	return func(n weave.Node) weave.Node {
		return Wrap(n, func(ctx context.Context, next CallFunc) error {
			logger.Debug(ctx, "node call starting", "node", n.Name())
			start := time.Now()

			err := next(ctx)
			if err != nil {
				logger.Error(ctx, "node call failed",
					"node", n.Name(),
					"duration", time.Since(start),
					"error", err)
				return err
			}

			logger.Debug(ctx, "node call completed",
				"node", n.Name(),
				"duration", time.Since(start),
				"outputs", n.Outputs().Len())
			return nil
		})
	}
}
