package main

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/agentstation/weave"
	"github.com/agentstation/weave/middleware"
)

func TestRunMiddlewaresTimeoutPerAttempt(t *testing.T) {
	calls := 0
	n, err := weave.NewNode("stall-once", nil, []string{"done"},
		func(ctx context.Context, in weave.Values) (weave.Values, error) {
			calls++
			if calls == 1 {
				<-ctx.Done()
				return nil, ctx.Err()
			}
			return weave.Values{"done": true}, nil
		})
	if err != nil {
		t.Fatal(err)
	}

	stats := middleware.NewStats()
	mws := runMiddlewares(newLogger(io.Discard, false), stats, 20*time.Millisecond, 1)
	wrapped := middleware.Apply(n, mws...)

	if err := wrapped.Call(context.Background()); err != nil {
		t.Fatalf("second attempt should get a fresh deadline: %v", err)
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
	if done, _ := wrapped.Outputs().Get("done"); done != true {
		t.Errorf("done = %v", done)
	}
	if ns, ok := stats.Get("stall-once"); !ok || ns.Calls != 1 {
		t.Errorf("timing should record one outer call, got %+v", ns)
	}
}

func TestRunMiddlewaresDefaults(t *testing.T) {
	mws := runMiddlewares(newLogger(io.Discard, false), middleware.NewStats(), 0, 0)
	if len(mws) != 2 {
		t.Errorf("expected logging and timing only, got %d middlewares", len(mws))
	}
}
