package plan

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ib-77/ropflow/pkg/rop"
	"github.com/ib-77/ropflow/pkg/rop/core"
	"github.com/ib-77/ropflow/pkg/rop/solo"
)

// evaluator holds what one Evaluate call shares with every node: the
// logger and observer read from the ambient context.
type evaluator struct {
	id       uuid.UUID
	log      *slog.Logger
	observer core.Observer
}

func newEvaluator(ctx context.Context) *evaluator {
	id := uuid.New()
	return &evaluator{
		id:       id,
		log:      core.Logger(ctx).With("eval_id", id.String()),
		observer: core.GetObserver(ctx),
	}
}

func (e *evaluator) finished(ctx context.Context, kind Kind, err error, elapsed time.Duration) {
	if e.observer != nil {
		e.observer.Observe(ctx, kind.String(), err, elapsed)
	}
	if err != nil && e.log.Enabled(ctx, slog.LevelDebug) {
		e.log.DebugContext(ctx, "node failed",
			"kind", kind.String(), "error_kind", rop.KindOf(err).String(), "error", err)
	}
}

// Evaluate runs root under ctx and returns its result. ctx is the ambient
// cancellation signal; its logger and observer (see package core) are used
// for the whole evaluation. Evaluate never panics for failures of user
// callables; it panics with rop.ErrUnknownNode when it reaches a nil node.
func Evaluate[T any](ctx context.Context, root Node[T]) rop.Result[T] {
	e := newEvaluator(ctx)
	start := time.Now()
	res := evalNode(ctx, e, root)
	e.log.DebugContext(ctx, "plan evaluated",
		"kind", root.Kind().String(),
		"outcome", outcomeOf[T](res),
		"elapsed", time.Since(start))
	return res
}

func outcomeOf[T any](r rop.WithCancel[T]) string {
	switch {
	case r.IsSuccess():
		return "success"
	case r.IsCancel():
		return "cancelled"
	case r.IsTimeout():
		return "timeout"
	}
	return "failure"
}

func evalNode[T any](ctx context.Context, e *evaluator, n Node[T]) rop.Result[T] {
	if rop.IsNil(n) {
		panic(fmt.Errorf("%w: nil", rop.ErrUnknownNode))
	}
	start := time.Now()
	res := n.eval(ctx, e)
	e.finished(ctx, n.Kind(), res.Err(), time.Since(start))
	return res
}

func (n *succeedNode[T]) eval(context.Context, *evaluator) rop.Result[T] {
	return rop.Success(n.value)
}

func (n *failNode[T]) eval(context.Context, *evaluator) rop.Result[T] {
	return rop.Fail[T](n.err)
}

func (n *createNode[T]) eval(ctx context.Context, _ *evaluator) rop.Result[T] {
	if res, done := solo.Interrupted[T](ctx); done {
		return res
	}
	out, err := solo.Call(func() (T, error) { return n.fn(ctx) })
	return solo.Lift(ctx, out, err)
}

func (n *transformNode[T, U]) eval(ctx context.Context, e *evaluator) rop.Result[U] {
	return solo.Try(ctx, evalNode(ctx, e, n.up), n.fn)
}

func (n *sequenceNode[T, U]) eval(ctx context.Context, e *evaluator) rop.Result[U] {
	up := evalNode(ctx, e, n.up)
	if up.IsFailure() {
		return rop.FailFrom[T, U](up)
	}
	if res, done := solo.Interrupted[U](ctx); done {
		return res
	}
	return evalContinuation(ctx, e, func() (Node[U], error) {
		return n.fn(ctx, up.Result())
	})
}

func (n *validateNode[T]) eval(ctx context.Context, e *evaluator) rop.Result[T] {
	return solo.AndValidate(ctx, evalNode(ctx, e, n.up), n.valid, n.invalid)
}

func (n *recoverNode[T]) eval(ctx context.Context, e *evaluator) rop.Result[T] {
	src := evalNode(ctx, e, n.src)
	if src.IsSuccess() || src.IsCancel() {
		return src
	}
	return evalContinuation(ctx, e, func() (Node[T], error) {
		return n.fn(ctx, src.Err())
	})
}

func (n *onSuccessNode[T]) eval(ctx context.Context, e *evaluator) rop.Result[T] {
	return solo.Tee(ctx, evalNode(ctx, e, n.up), n.fn)
}

func (n *onFailureNode[T]) eval(ctx context.Context, e *evaluator) rop.Result[T] {
	return solo.TeeFailure(ctx, evalNode(ctx, e, n.up), n.fn)
}

// evalContinuation builds a node with next and evaluates it. Only the
// building is guarded: a panic from the evaluation itself is a malformed
// plan and must not be turned into a failure.
func evalContinuation[T any](ctx context.Context, e *evaluator, next func() (Node[T], error)) rop.Result[T] {
	node, err := solo.Call(next)
	if err != nil {
		return solo.FromError[T](ctx, err)
	}
	if rop.IsNil(node) {
		return rop.Fail[T](rop.ErrNilNode)
	}
	return evalNode(ctx, e, node)
}
