package chain

import (
	"context"

	"github.com/ib-77/ropflow/pkg/rop"
	"github.com/ib-77/ropflow/pkg/rop/plan"
	"github.com/ib-77/ropflow/pkg/rop/solo"
)

// Chain wraps a plan node to enable fluent composition. Every call returns
// a new Chain; the receiver is never changed.
type Chain[T any] struct {
	node plan.Node[T]
}

// Start creates a new chain from a plan node
func Start[T any](node plan.Node[T]) *Chain[T] {
	return &Chain[T]{node: node}
}

// FromValue creates a new chain from a successful value
func FromValue[T any](value T) *Chain[T] {
	return Start(plan.Succeed(value))
}

// FromFunc creates a new chain from an effectful operation
func FromFunc[T any](fn func(context.Context) (T, error)) *Chain[T] {
	return Start(plan.Create(fn))
}

// Node returns the underlying plan node
func (c *Chain[T]) Node() plan.Node[T] {
	return c.node
}

// Then chains a function that returns the next plan
func Then[T, U any](c *Chain[T], onSuccess func(context.Context, T) (plan.Node[U], error)) *Chain[U] {
	return Start(plan.Sequence(c.node, onSuccess))
}

// ThenTry chains a function that returns (U, error)
func ThenTry[T, U any](c *Chain[T], tryOnSuccess func(context.Context, T) (U, error)) *Chain[U] {
	return Start(plan.Transform(c.node, tryOnSuccess))
}

// Map chains a pure transformation function
func Map[T, U any](c *Chain[T], onSuccess func(context.Context, T) U) *Chain[U] {
	return Start(plan.Map(c.node, onSuccess))
}

// Validate fails values for which valid reports false
func (c *Chain[T]) Validate(valid func(context.Context, T) bool, invalid func(context.Context, T) error) *Chain[T] {
	return Start(plan.Validate(c.node, valid, invalid))
}

// Ensure performs a side effect on success; its error fails the chain
func (c *Chain[T]) Ensure(onSuccess func(context.Context, T) error) *Chain[T] {
	return Start(plan.OnSuccess(c.node, onSuccess))
}

// OnFailure performs a side effect on failure without changing the result
func (c *Chain[T]) OnFailure(onFailure func(context.Context, error)) *Chain[T] {
	return Start(plan.OnFailure(c.node, onFailure))
}

// Recover replaces a failure by the plan onFailure returns
func (c *Chain[T]) Recover(onFailure func(context.Context, error) (plan.Node[T], error)) *Chain[T] {
	return Start(plan.Recover(c.node, onFailure))
}

// With rewrites the chain with the given behaviors, in order
func (c *Chain[T]) With(behaviors ...plan.Behavior) *Chain[T] {
	node := c.node
	for _, b := range behaviors {
		node = plan.Rewrite(node, b)
	}
	return Start(node)
}

// Run evaluates the chain
func (c *Chain[T]) Run(ctx context.Context) rop.Result[T] {
	return plan.Evaluate(ctx, c.node)
}

// Finally evaluates the chain and collapses the result using solo.Finally
func Finally[T, U any](ctx context.Context, c *Chain[T], onSuccess func(context.Context, T) U,
	onFailure func(context.Context, error) U, onCancel func(context.Context, error) U) U {
	return solo.Finally(ctx, c.Run(ctx), onSuccess, onFailure, onCancel)
}
