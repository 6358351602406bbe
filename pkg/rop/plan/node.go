package plan

import (
	"context"
	"io"

	"github.com/ib-77/ropflow/pkg/rop"
)

// Node is an immutable description of a computation producing T. Nodes are
// built with the constructors of this package, composed by wrapping, and
// run by Evaluate. The interface is sealed.
type Node[T any] interface {
	Inspectable

	eval(ctx context.Context, e *evaluator) rop.Result[T]
	rewrite(b Behavior) Node[T]
}

type succeedNode[T any] struct {
	value T
}

// Succeed is a node that always succeeds with value.
func Succeed[T any](value T) Node[T] {
	return &succeedNode[T]{value: value}
}

func (n *succeedNode[T]) Kind() Kind              { return KindSucceed }
func (n *succeedNode[T]) Children() []Inspectable { return nil }

type failNode[T any] struct {
	err error
}

// Fail is a node that always fails with err.
func Fail[T any](err error) Node[T] {
	return &failNode[T]{err: err}
}

func (n *failNode[T]) Kind() Kind              { return KindFail }
func (n *failNode[T]) Children() []Inspectable { return nil }

type createNode[T any] struct {
	fn func(ctx context.Context) (T, error)
}

// Create wraps an effectful, cancellable operation.
func Create[T any](fn func(ctx context.Context) (T, error)) Node[T] {
	return &createNode[T]{fn: fn}
}

// From wraps an operation that ignores cancellation.
func From[T any](fn func() (T, error)) Node[T] {
	return &createNode[T]{fn: func(context.Context) (T, error) { return fn() }}
}

func (n *createNode[T]) Kind() Kind              { return KindCreate }
func (n *createNode[T]) Children() []Inspectable { return nil }

type transformNode[T, U any] struct {
	up Node[T]
	fn func(ctx context.Context, in T) (U, error)
}

// Transform applies fn to the value of up when up succeeded.
func Transform[T, U any](up Node[T], fn func(ctx context.Context, in T) (U, error)) Node[U] {
	return &transformNode[T, U]{up: up, fn: fn}
}

// Map is Transform for functions that cannot fail.
func Map[T, U any](up Node[T], fn func(ctx context.Context, in T) U) Node[U] {
	return &transformNode[T, U]{up: up, fn: func(ctx context.Context, in T) (U, error) {
		return fn(ctx, in), nil
	}}
}

func (n *transformNode[T, U]) Kind() Kind              { return KindTransform }
func (n *transformNode[T, U]) Children() []Inspectable { return []Inspectable{n.up} }

type sequenceNode[T, U any] struct {
	up Node[T]
	fn func(ctx context.Context, in T) (Node[U], error)
}

// Sequence evaluates up, passes its value to fn and evaluates the node fn
// returns.
func Sequence[T, U any](up Node[T], fn func(ctx context.Context, in T) (Node[U], error)) Node[U] {
	return &sequenceNode[T, U]{up: up, fn: fn}
}

func (n *sequenceNode[T, U]) Kind() Kind              { return KindSequence }
func (n *sequenceNode[T, U]) Children() []Inspectable { return []Inspectable{n.up} }

type validateNode[T any] struct {
	up      Node[T]
	valid   func(ctx context.Context, in T) bool
	invalid func(ctx context.Context, in T) error
}

// Validate fails a successful value of up for which valid reports false,
// with a validation error wrapping what invalid returns.
func Validate[T any](up Node[T], valid func(ctx context.Context, in T) bool,
	invalid func(ctx context.Context, in T) error) Node[T] {
	return &validateNode[T]{up: up, valid: valid, invalid: invalid}
}

func (n *validateNode[T]) Kind() Kind              { return KindValidate }
func (n *validateNode[T]) Children() []Inspectable { return []Inspectable{n.up} }

type recoverNode[T any] struct {
	src Node[T]
	fn  func(ctx context.Context, err error) (Node[T], error)
}

// Recover replaces a failure of src by the evaluation of the node fn
// returns. Cancellations are not recovered.
func Recover[T any](src Node[T], fn func(ctx context.Context, err error) (Node[T], error)) Node[T] {
	return &recoverNode[T]{src: src, fn: fn}
}

func (n *recoverNode[T]) Kind() Kind              { return KindRecover }
func (n *recoverNode[T]) Children() []Inspectable { return []Inspectable{n.src} }

type onSuccessNode[T any] struct {
	up Node[T]
	fn func(ctx context.Context, in T) error
}

// OnSuccess runs fn after up succeeded. An error from fn fails the node.
func OnSuccess[T any](up Node[T], fn func(ctx context.Context, in T) error) Node[T] {
	return &onSuccessNode[T]{up: up, fn: fn}
}

func (n *onSuccessNode[T]) Kind() Kind              { return KindOnSuccess }
func (n *onSuccessNode[T]) Children() []Inspectable { return []Inspectable{n.up} }

type onFailureNode[T any] struct {
	up Node[T]
	fn func(ctx context.Context, err error)
}

// OnFailure runs fn after up failed. The original failure is always kept.
func OnFailure[T any](up Node[T], fn func(ctx context.Context, err error)) Node[T] {
	return &onFailureNode[T]{up: up, fn: fn}
}

func (n *onFailureNode[T]) Kind() Kind              { return KindOnFailure }
func (n *onFailureNode[T]) Children() []Inspectable { return []Inspectable{n.up} }

type allNode[T any] struct {
	nodes []Node[T]
}

// All evaluates nodes concurrently and waits for every one of them. It
// succeeds with the values in declaration order, or fails with an
// AggregateError holding the failures in completion order.
func All[T any](nodes ...Node[T]) Node[[]T] {
	return &allNode[T]{nodes: append([]Node[T](nil), nodes...)}
}

func (n *allNode[T]) Kind() Kind              { return KindAll }
func (n *allNode[T]) Children() []Inspectable { return inspectables(n.nodes) }

type anyNode[T any] struct {
	nodes []Node[T]
}

// Any evaluates nodes concurrently and returns the first success,
// cancelling the others. If every node fails it fails with an
// AggregateError holding the failures in completion order.
func Any[T any](nodes ...Node[T]) Node[T] {
	return &anyNode[T]{nodes: append([]Node[T](nil), nodes...)}
}

func (n *anyNode[T]) Kind() Kind              { return KindAny }
func (n *anyNode[T]) Children() []Inspectable { return inspectables(n.nodes) }

type resourceNode[R io.Closer, T any] struct {
	acquire func(ctx context.Context) (R, error)
	use     func(ctx context.Context, res R) (Node[T], error)
}

// Resource acquires a resource, evaluates the node built by use and closes
// the resource on every exit path.
func Resource[R io.Closer, T any](acquire func(ctx context.Context) (R, error),
	use func(ctx context.Context, res R) (Node[T], error)) Node[T] {
	return &resourceNode[R, T]{acquire: acquire, use: use}
}

func (n *resourceNode[R, T]) Kind() Kind              { return KindResource }
func (n *resourceNode[R, T]) Children() []Inspectable { return nil }

func inspectables[T any](nodes []Node[T]) []Inspectable {
	out := make([]Inspectable, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n)
	}
	return out
}
