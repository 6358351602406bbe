package plan

import (
	"context"

	"github.com/ib-77/ropflow/pkg/rop"
	"github.com/ib-77/ropflow/pkg/rop/solo"
)

func (n *resourceNode[R, T]) eval(ctx context.Context, e *evaluator) (out rop.Result[T]) {
	if res, done := solo.Interrupted[T](ctx); done {
		return res
	}

	res, err := solo.Call(func() (R, error) { return n.acquire(ctx) })
	if err != nil {
		// nothing was acquired, nothing to dispose
		return solo.FromError[T](ctx, err)
	}

	defer func() {
		out = release(ctx, e, res, out)
	}()

	return evalContinuation(ctx, e, func() (Node[T], error) {
		return n.use(ctx, res)
	})
}

// release closes res. With a live context it closes synchronously and a
// close error replaces out. Once ctx is done it closes in the background
// and out is returned untouched.
func release[R interface{ Close() error }, T any](ctx context.Context, e *evaluator, res R, out rop.Result[T]) rop.Result[T] {
	if rop.IsNil(res) {
		return out
	}

	if ctx.Err() == nil {
		if err := solo.Do(res.Close); err != nil {
			return rop.Fail[T](&rop.DisposalError{Err: err})
		}
		return out
	}

	go func() {
		if err := solo.Do(res.Close); err != nil {
			e.log.DebugContext(context.WithoutCancel(ctx), "background disposal failed", "error", err)
		}
	}()
	return out
}
