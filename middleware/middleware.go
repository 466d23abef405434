// Package middleware wraps nodes with cross-cutting behavior such as
// logging, timing, retries and timeouts.
//
// A wrapped node keeps the inner node's name and its input and output
// collections, so it can be linked and added to a composite in place of the
// inner node. Only Call is intercepted.
package middleware

import (
	"context"

	"github.com/agentstation/weave"
)

// Middleware modifies node behavior.
type Middleware func(weave.Node) weave.Node

// CallFunc evaluates a node.
type CallFunc func(ctx context.Context) error

// middlewareNode replaces the inner node's Call.
type middlewareNode struct {
	weave.Node
	call CallFunc
}

func (m *middlewareNode) Call(ctx context.Context) error {
	return m.call(ctx)
}

// Wrap returns a node that evaluates through call. Call receives the inner
// node's Call as next.
func Wrap(n weave.Node, call func(ctx context.Context, next CallFunc) error) weave.Node {
	return &middlewareNode{
		Node: n,
		call: func(ctx context.Context) error { return call(ctx, n.Call) },
	}
}

// Chain combines middlewares into one. The first middleware is outermost.
func Chain(middlewares ...Middleware) Middleware {
	return func(n weave.Node) weave.Node {
		for i := len(middlewares) - 1; i >= 0; i-- {
			n = middlewares[i](n)
		}
		return n
	}
}

// Apply applies middlewares to a node in order, so the last one is
// outermost.
func Apply(n weave.Node, middlewares ...Middleware) weave.Node {
	for _, mw := range middlewares {
		n = mw(n)
	}
	return n
}
