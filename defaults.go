package weave

import (
	"context"
	"sync"
)

// globalDefaults holds the configuration applied to every node and collection
// before its own options.
var globalDefaults = &nodeDefaults{}

// nodeDefaults contains default configuration that can be applied to nodes.
type nodeDefaults struct {
	mu sync.RWMutex

	logger    Logger
	tracer    Tracer
	onWarning WarningHandler
}

// SetDefaults configures global defaults for all nodes created afterwards.
// Options not mentioned keep their current default.
func SetDefaults(opts ...Option) {
	globalDefaults.mu.Lock()
	defer globalDefaults.mu.Unlock()

	tempOpts := nodeOptions{
		logger:    globalDefaults.logger,
		tracer:    globalDefaults.tracer,
		onWarning: globalDefaults.onWarning,
	}

	for _, opt := range opts {
		opt(&tempOpts)
	}

	globalDefaults.logger = tempOpts.logger
	globalDefaults.tracer = tempOpts.tracer
	globalDefaults.onWarning = tempOpts.onWarning
}

// getDefaults returns a copy of the current global defaults.
func getDefaults() nodeOptions {
	globalDefaults.mu.RLock()
	defer globalDefaults.mu.RUnlock()

	return nodeOptions{
		logger:    globalDefaults.logger,
		tracer:    globalDefaults.tracer,
		onWarning: globalDefaults.onWarning,
	}
}

// ResetDefaults resets all global defaults to their initial values.
func ResetDefaults() {
	globalDefaults.mu.Lock()
	defer globalDefaults.mu.Unlock()

	globalDefaults.logger = nil
	globalDefaults.tracer = nil
	globalDefaults.onWarning = nil
}

// defaultWarningHandler is used by cells that were created without one.
func defaultWarningHandler() WarningHandler {
	opts := getDefaults()
	if opts.onWarning != nil {
		return opts.onWarning
	}
	return logWarnings(opts.logger)
}

// logWarnings reports warnings through the logger at info level.
func logWarnings(logger Logger) WarningHandler {
	if logger == nil {
		logger = nopLogger{}
	}
	return func(w error) {
		logger.Info(context.Background(), "warning", "warning", w)
	}
}

// nopLogger discards everything.
type nopLogger struct{}

func (nopLogger) Debug(context.Context, string, ...any) {}
func (nopLogger) Info(context.Context, string, ...any)  {}
func (nopLogger) Error(context.Context, string, ...any) {}

// nopTracer opens spans that do nothing.
type nopTracer struct{}

func (nopTracer) StartSpan(ctx context.Context, _ string) (context.Context, func()) {
	return ctx, func() {}
}
