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

// Retry re-runs a failing effect up to MaxAttempts times. Errors matching
// one of NonRetryable (errors.Is) end the loop at once. Cancellations are
// never retried.
type Retry struct {
	MaxAttempts  int
	NonRetryable []error
	// Backoff is multiplied by the attempt number between attempts.
	Backoff time.Duration
}

type RetryOption func(*Retry)

// WithNonRetryable replaces the default non-retryable set, which holds
// rop.ErrTimeout. Calling it without arguments makes every error retryable.
func WithNonRetryable(errs ...error) RetryOption {
	return func(r *Retry) {
		r.NonRetryable = append([]error(nil), errs...)
	}
}

func WithBackoff(backoff time.Duration) RetryOption {
	return func(r *Retry) {
		r.Backoff = backoff
	}
}

func NewRetry(maxAttempts int, opts ...RetryOption) *Retry {
	r := &Retry{
		MaxAttempts:  maxAttempts,
		NonRetryable: []error{rop.ErrTimeout},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// WithRetry returns node rewritten so that its effects are retried.
func WithRetry[T any](node plan.Node[T], maxAttempts int, opts ...RetryOption) plan.Node[T] {
	return plan.Rewrite(node, NewRetry(maxAttempts, opts...))
}

func (r *Retry) CoversComposites() bool { return false }

func (r *Retry) Apply(ctx context.Context, op plan.Effect) (any, error) {
	attempts := max(r.MaxAttempts, 1)
	log := core.Logger(ctx)

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, rop.Cancelled(err)
		}

		out, err := solo.Call(func() (any, error) { return op(ctx) })
		if err == nil {
			return out, nil
		}
		if !r.retryable(ctx, err) {
			return nil, err
		}
		lastErr = err

		if attempt == attempts {
			break
		}
		log.DebugContext(ctx, "attempt failed, retrying",
			"attempt", attempt, "max_attempts", attempts, "error", err)

		if r.Backoff > 0 {
			timer := time.NewTimer(r.Backoff * time.Duration(attempt))
			select {
			case <-ctx.Done():
				timer.Stop()
				return nil, rop.Cancelled(ctx.Err())
			case <-timer.C:
			}
		}
	}
	return nil, lastErr
}

func (r *Retry) retryable(ctx context.Context, err error) bool {
	if rop.IsCancellationError(err) {
		return false
	}
	if ctx.Err() != nil && rop.IsContextError(err) {
		return false
	}
	for _, target := range r.NonRetryable {
		if errors.Is(err, target) {
			return false
		}
	}
	return true
}
