package behavior

import (
	"context"
	"errors"
	"time"

	"github.com/ib-77/ropflow/pkg/rop"
	"github.com/ib-77/ropflow/pkg/rop/core"
	"github.com/ib-77/ropflow/pkg/rop/plan"
	"github.com/ib-77/ropflow/pkg/rop/solo"
)

// Timeout races an effect against a deadline derived from the ambient
// context. A composite node is raced as a whole.
type Timeout struct {
	After time.Duration
}

func NewTimeout(after time.Duration) *Timeout {
	return &Timeout{After: after}
}

// WithTimeout returns node rewritten so that its effects fail with a
// rop.TimeoutError when they take longer than after.
func WithTimeout[T any](node plan.Node[T], after time.Duration) plan.Node[T] {
	return plan.Rewrite(node, NewTimeout(after))
}

func (t *Timeout) CoversComposites() bool { return true }

type attempt struct {
	out any
	err error
}

func (t *Timeout) Apply(ctx context.Context, op plan.Effect) (any, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, t.After)
	defer cancel()

	done := make(chan attempt, 1)
	go func() {
		out, err := solo.Call(func() (any, error) { return op(timeoutCtx) })
		done <- attempt{out: out, err: err}
	}()

	select {
	case res := <-done:
		if res.err != nil && ctx.Err() == nil && errors.Is(timeoutCtx.Err(), context.DeadlineExceeded) {
			// finished, but only because the deadline cut it short
			return nil, &rop.TimeoutError{After: t.After}
		}
		return res.out, res.err
	case <-timeoutCtx.Done():
		t.abandon(ctx, done)
		if err := ctx.Err(); err != nil {
			return nil, rop.Cancelled(err)
		}
		return nil, &rop.TimeoutError{After: t.After}
	}
}

// abandon observes the late outcome of an operation that lost the race.
func (t *Timeout) abandon(ctx context.Context, done <-chan attempt) {
	log := core.Logger(ctx)
	ctx = context.WithoutCancel(ctx)
	go func() {
		res := <-done
		if res.err != nil {
			log.DebugContext(ctx, "abandoned operation failed", "after", t.After, "error", res.err)
		}
	}()
}
