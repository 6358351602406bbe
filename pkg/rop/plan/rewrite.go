package plan

import (
	"context"

	"github.com/ib-77/ropflow/pkg/rop"
	"github.com/ib-77/ropflow/pkg/rop/solo"
)

// Effect is a type-erased invocation handed to a Behavior.
type Effect func(ctx context.Context) (any, error)

// Behavior injects resilience around effects. Rewrite applies it to the
// Create leaves and Sequence continuations of a plan. When CoversComposites
// reports true, All, Any and Resource nodes are wrapped as a whole;
// otherwise they are left as they are.
type Behavior interface {
	Apply(ctx context.Context, op Effect) (any, error)
	CoversComposites() bool
}

// Rewrite returns a new plan equivalent to node with b applied. node itself
// is not modified and stays usable on its own.
func Rewrite[T any](node Node[T], b Behavior) Node[T] {
	if rop.IsNil(node) || b == nil {
		return node
	}
	return node.rewrite(b)
}

func (n *succeedNode[T]) rewrite(Behavior) Node[T] { return n }

func (n *failNode[T]) rewrite(Behavior) Node[T] { return n }

func (n *createNode[T]) rewrite(b Behavior) Node[T] {
	fn := n.fn
	return &createNode[T]{fn: func(ctx context.Context) (T, error) {
		out, err := b.Apply(ctx, func(ctx context.Context) (any, error) {
			v, err := solo.Call(func() (T, error) { return fn(ctx) })
			return v, err
		})
		return valueAs[T](out), err
	}}
}

func (n *transformNode[T, U]) rewrite(b Behavior) Node[U] {
	return &transformNode[T, U]{up: Rewrite(n.up, b), fn: n.fn}
}

// The continuation is wrapped, and so is the plan it builds: that plan is
// only known once the continuation ran.
func (n *sequenceNode[T, U]) rewrite(b Behavior) Node[U] {
	fn := n.fn
	return &sequenceNode[T, U]{
		up: Rewrite(n.up, b),
		fn: func(ctx context.Context, in T) (Node[U], error) {
			out, err := b.Apply(ctx, func(ctx context.Context) (any, error) {
				next, err := solo.Call(func() (Node[U], error) { return fn(ctx, in) })
				if err == nil && rop.IsNil(next) {
					err = rop.ErrNilNode
				}
				return next, err
			})
			if err != nil {
				return nil, err
			}
			return Rewrite(valueAs[Node[U]](out), b), nil
		},
	}
}

func (n *validateNode[T]) rewrite(b Behavior) Node[T] {
	return &validateNode[T]{up: Rewrite(n.up, b), valid: n.valid, invalid: n.invalid}
}

func (n *recoverNode[T]) rewrite(b Behavior) Node[T] {
	return &recoverNode[T]{src: Rewrite(n.src, b), fn: n.fn}
}

func (n *onSuccessNode[T]) rewrite(b Behavior) Node[T] {
	return &onSuccessNode[T]{up: Rewrite(n.up, b), fn: n.fn}
}

func (n *onFailureNode[T]) rewrite(b Behavior) Node[T] {
	return &onFailureNode[T]{up: Rewrite(n.up, b), fn: n.fn}
}

func (n *allNode[T]) rewrite(b Behavior) Node[[]T] { return guard[[]T](n, b) }

func (n *anyNode[T]) rewrite(b Behavior) Node[T] { return guard[T](n, b) }

func (n *resourceNode[R, T]) rewrite(b Behavior) Node[T] { return guard[T](n, b) }

// guardNode runs a whole composite under one behavior. It reports the kind
// and children of the node it wraps.
type guardNode[T any] struct {
	inner    Node[T]
	behavior Behavior
}

func guard[T any](n Node[T], b Behavior) Node[T] {
	if !b.CoversComposites() {
		return n
	}
	return &guardNode[T]{inner: n, behavior: b}
}

func (g *guardNode[T]) Kind() Kind              { return g.inner.Kind() }
func (g *guardNode[T]) Children() []Inspectable { return g.inner.Children() }

func (g *guardNode[T]) rewrite(b Behavior) Node[T] { return guard[T](g, b) }

func (g *guardNode[T]) eval(ctx context.Context, e *evaluator) rop.Result[T] {
	out, err := g.behavior.Apply(ctx, func(ctx context.Context) (any, error) {
		res := g.inner.eval(ctx, e)
		if res.IsFailure() {
			return nil, res.Err()
		}
		return res.Result(), nil
	})
	if err != nil {
		return solo.FromError[T](ctx, err)
	}
	return rop.Success(valueAs[T](out))
}

func valueAs[T any](v any) T {
	out, _ := v.(T)
	return out
}
