package plan

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/ib-77/ropflow/pkg/rop"
)

func (n *allNode[T]) eval(ctx context.Context, e *evaluator) rop.Result[[]T] {
	checkBranches(n.nodes)
	values := make([]T, len(n.nodes))

	var (
		mu       sync.Mutex
		failures []error
		g        errgroup.Group
	)

	// no short-circuit: every branch runs to completion
	for i, child := range n.nodes {
		g.Go(func() error {
			res := evalNode(ctx, e, child)
			if res.IsSuccess() {
				values[i] = res.Result()
				return nil
			}
			mu.Lock()
			failures = append(failures, res.Err())
			mu.Unlock()
			return nil
		})
	}
	// branches never return an error, failures are collected above
	_ = g.Wait()

	if len(failures) == 0 {
		return rop.Success(values)
	}
	return aggregate[[]T](ctx, failures)
}

func (n *anyNode[T]) eval(ctx context.Context, e *evaluator) rop.Result[T] {
	if len(n.nodes) == 0 {
		return aggregate[T](ctx, nil)
	}
	checkBranches(n.nodes)

	raceCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	// buffered so that a branch finishing after the race is decided never blocks
	done := make(chan rop.Result[T], len(n.nodes))
	for _, child := range n.nodes {
		go func() {
			childCtx, childCancel := context.WithCancel(raceCtx)
			defer childCancel()
			done <- evalNode(childCtx, e, child)
		}()
	}

	failures := make([]error, 0, len(n.nodes))
	for pending := len(n.nodes); pending > 0; pending-- {
		select {
		case res := <-done:
			if res.IsSuccess() {
				cancel()
				drain(ctx, e, done, pending-1)
				return res
			}
			failures = append(failures, res.Err())
		case <-ctx.Done():
			cancel()
			drain(ctx, e, done, pending)
			return rop.Cancel[T](ctx.Err())
		}
	}
	return aggregate[T](ctx, failures)
}

// checkBranches panics on the calling goroutine when a branch is nil, so
// that the panic can be recovered around Evaluate.
func checkBranches[T any](nodes []Node[T]) {
	for _, n := range nodes {
		if rop.IsNil(n) {
			panic(fmt.Errorf("%w: nil", rop.ErrUnknownNode))
		}
	}
}

// drain observes the outcomes of branches nobody waits for anymore.
func drain[T any](ctx context.Context, e *evaluator, done <-chan rop.Result[T], pending int) {
	if pending <= 0 {
		return
	}
	go func() {
		for range pending {
			res := <-done
			if res.IsFailure() {
				e.log.DebugContext(ctx, "abandoned race branch failed", "error", res.Err())
			}
		}
	}()
}

func aggregate[T any](ctx context.Context, failures []error) rop.Result[T] {
	err := &rop.AggregateError{Errors: failures}
	if ctx.Err() != nil {
		return rop.Cancel[T](err)
	}
	return rop.Fail[T](err)
}
