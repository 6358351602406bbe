package plan

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ib-77/ropflow/pkg/rop"
	"github.com/ib-77/ropflow/pkg/rop/core"
)

var errBoom = errors.New("boom")

func TestEvaluate_Sources(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	ok := Evaluate(ctx, Succeed(42))
	require.True(t, ok.IsSuccess())
	assert.Equal(t, 42, ok.Result())

	failed := Evaluate(ctx, Fail[int](errBoom))
	require.True(t, failed.IsFailure())
	assert.ErrorIs(t, failed.Err(), errBoom)
}

func TestEvaluate_Create(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	res := Evaluate(ctx, Create(func(context.Context) (string, error) { return "made", nil }))
	require.True(t, res.IsSuccess())
	assert.Equal(t, "made", res.Result())

	res = Evaluate(ctx, From(func() (string, error) { return "", errBoom }))
	assert.ErrorIs(t, res.Err(), errBoom)
}

func TestEvaluate_CreatePanicBecomesFailure(t *testing.T) {
	t.Parallel()

	res := Evaluate(context.Background(), Create(func(context.Context) (int, error) {
		panic("kaboom")
	}))

	require.True(t, res.IsFailure())
	assert.Equal(t, rop.KindPanic, rop.KindOf(res.Err()))
}

func TestEvaluate_CreateObservingCancellationIsCancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	started := make(chan struct{})

	go func() {
		<-started
		cancel()
	}()

	res := Evaluate(ctx, Create(func(ctx context.Context) (int, error) {
		close(started)
		<-ctx.Done()
		return 0, ctx.Err()
	}))

	require.True(t, res.IsFailure())
	assert.True(t, res.IsCancel())
	assert.False(t, res.IsTimeout())
}

func TestEvaluate_CreateNotInvokedOnceCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	res := Evaluate(ctx, Create(func(context.Context) (int, error) {
		called = true
		return 1, nil
	}))

	assert.False(t, called)
	assert.True(t, res.IsCancel())
}

func TestEvaluate_TransformSkippedOnFailure(t *testing.T) {
	t.Parallel()

	called := false
	node := Transform(Fail[int](errBoom), func(context.Context, int) (string, error) {
		called = true
		return "", nil
	})

	res := Evaluate(context.Background(), node)

	assert.False(t, called)
	assert.ErrorIs(t, res.Err(), errBoom)
}

func TestEvaluate_TransformAndMap(t *testing.T) {
	t.Parallel()

	node := Map(
		Transform(Succeed("21"), func(_ context.Context, in string) (int, error) {
			return strconv.Atoi(in)
		}),
		func(_ context.Context, in int) int { return in * 2 })

	res := Evaluate(context.Background(), node)

	require.True(t, res.IsSuccess())
	assert.Equal(t, 42, res.Result())
}

func TestEvaluate_TransformErrorCaptured(t *testing.T) {
	t.Parallel()

	node := Transform(Succeed("x"), func(_ context.Context, in string) (int, error) {
		return strconv.Atoi(in)
	})

	res := Evaluate(context.Background(), node)

	var numErr *strconv.NumError
	assert.ErrorAs(t, res.Err(), &numErr)
}

func TestEvaluate_SequenceEvaluatesReturnedNode(t *testing.T) {
	t.Parallel()

	node := Sequence(Succeed(3), func(_ context.Context, in int) (Node[string], error) {
		return Map(Succeed(in), func(_ context.Context, v int) string {
			return strconv.Itoa(v * 10)
		}), nil
	})

	res := Evaluate(context.Background(), node)

	require.True(t, res.IsSuccess())
	assert.Equal(t, "30", res.Result())
}

func TestEvaluate_SequenceFailures(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	res := Evaluate(ctx, Sequence(Succeed(1), func(context.Context, int) (Node[int], error) {
		return nil, errBoom
	}))
	assert.ErrorIs(t, res.Err(), errBoom)

	res = Evaluate(ctx, Sequence(Succeed(1), func(context.Context, int) (Node[int], error) {
		return nil, nil
	}))
	assert.ErrorIs(t, res.Err(), rop.ErrNilNode)

	res = Evaluate(ctx, Sequence(Succeed(1), func(context.Context, int) (Node[int], error) {
		return Fail[int](errBoom), nil
	}))
	assert.ErrorIs(t, res.Err(), errBoom)
}

func TestEvaluate_Validate(t *testing.T) {
	t.Parallel()

	errOdd := errors.New("odd")
	even := func(up Node[int]) Node[int] {
		return Validate(up,
			func(_ context.Context, in int) bool { return in%2 == 0 },
			func(context.Context, int) error { return errOdd })
	}

	ok := Evaluate(context.Background(), even(Succeed(4)))
	assert.True(t, ok.IsSuccess())

	bad := Evaluate(context.Background(), even(Succeed(3)))
	assert.ErrorIs(t, bad.Err(), rop.ErrValidation)
	assert.ErrorIs(t, bad.Err(), errOdd)
	assert.Equal(t, rop.KindValidation, rop.KindOf(bad.Err()))
}

func TestEvaluate_ValidatePredicatePanic(t *testing.T) {
	t.Parallel()

	node := Validate(Succeed(1),
		func(context.Context, int) bool { panic("predicate") },
		func(context.Context, int) error { return nil })

	res := Evaluate(context.Background(), node)

	assert.ErrorIs(t, res.Err(), rop.ErrPanic)
}

func TestEvaluate_Recover(t *testing.T) {
	t.Parallel()

	var seen error
	node := Recover(Fail[int](errBoom), func(_ context.Context, err error) (Node[int], error) {
		seen = err
		return Succeed(7), nil
	})

	res := Evaluate(context.Background(), node)

	require.True(t, res.IsSuccess())
	assert.Equal(t, 7, res.Result())
	assert.Same(t, errBoom, seen)
}

func TestEvaluate_RecoverNotCalledOnSuccess(t *testing.T) {
	t.Parallel()

	called := false
	node := Recover(Succeed(1), func(context.Context, error) (Node[int], error) {
		called = true
		return Succeed(2), nil
	})

	res := Evaluate(context.Background(), node)

	assert.False(t, called)
	assert.Equal(t, 1, res.Result())
}

func TestEvaluate_RecoverCallableErrorIsNewFailure(t *testing.T) {
	t.Parallel()

	errRecover := errors.New("cannot recover")
	node := Recover(Fail[int](errBoom), func(context.Context, error) (Node[int], error) {
		return nil, errRecover
	})

	res := Evaluate(context.Background(), node)

	assert.ErrorIs(t, res.Err(), errRecover)
	assert.NotErrorIs(t, res.Err(), errBoom)
}

func TestEvaluate_RecoverLeavesCancellationAlone(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	node := Recover(Create(func(context.Context) (int, error) { return 1, nil }),
		func(context.Context, error) (Node[int], error) {
			called = true
			return Succeed(2), nil
		})

	res := Evaluate(ctx, node)

	assert.False(t, called)
	assert.True(t, res.IsCancel())
}

func TestEvaluate_OnSuccess(t *testing.T) {
	t.Parallel()

	var seen int
	ok := Evaluate(context.Background(), OnSuccess(Succeed(5), func(_ context.Context, in int) error {
		seen = in
		return nil
	}))
	assert.Equal(t, 5, seen)
	assert.Equal(t, 5, ok.Result())

	overridden := Evaluate(context.Background(), OnSuccess(Succeed(5), func(context.Context, int) error {
		return errBoom
	}))
	assert.ErrorIs(t, overridden.Err(), errBoom)
}

func TestEvaluate_OnSuccessNotCalledOnFailure(t *testing.T) {
	t.Parallel()

	called := false
	res := Evaluate(context.Background(), OnSuccess(Fail[int](errBoom), func(context.Context, int) error {
		called = true
		return nil
	}))

	assert.False(t, called)
	assert.ErrorIs(t, res.Err(), errBoom)
}

func TestEvaluate_OnFailureKeepsOriginalFailure(t *testing.T) {
	t.Parallel()

	var seen error
	res := Evaluate(context.Background(), OnFailure(Fail[int](errBoom), func(_ context.Context, err error) {
		seen = err
		panic("observer broke")
	}))

	assert.Same(t, errBoom, seen)
	assert.Same(t, errBoom, res.Err())
}

func TestEvaluate_OnFailureNotCalledOnSuccess(t *testing.T) {
	t.Parallel()

	called := false
	res := Evaluate(context.Background(), OnFailure(Succeed(1), func(context.Context, error) {
		called = true
	}))

	assert.False(t, called)
	assert.True(t, res.IsSuccess())
}

func TestEvaluate_UpstreamBeforeDownstream(t *testing.T) {
	t.Parallel()

	var (
		mu    sync.Mutex
		order []string
	)
	record := func(step string) {
		mu.Lock()
		defer mu.Unlock()
		order = append(order, step)
	}

	node := OnSuccess(
		Validate(
			Transform(
				Create(func(context.Context) (int, error) { record("create"); return 1, nil }),
				func(_ context.Context, in int) (int, error) { record("transform"); return in + 1, nil }),
			func(context.Context, int) bool { record("validate"); return true },
			func(context.Context, int) error { return nil }),
		func(context.Context, int) error { record("observe"); return nil })

	res := Evaluate(context.Background(), node)

	require.True(t, res.IsSuccess())
	assert.Equal(t, []string{"create", "transform", "validate", "observe"}, order)
}

func TestEvaluate_AlwaysOneOutcome(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	nodes := []Node[int]{
		Succeed(1),
		Fail[int](errBoom),
		Create(func(context.Context) (int, error) { panic("x") }),
		Map(Fail[int](errBoom), func(context.Context, int) int { return 0 }),
		Recover(Fail[int](errBoom), func(context.Context, error) (Node[int], error) { panic("y") }),
		OnSuccess(Succeed(1), func(context.Context, int) error { panic("z") }),
		Any[int](),
	}

	for i, node := range nodes {
		res := Evaluate(ctx, node)
		assert.NotEqual(t, res.IsSuccess(), res.IsFailure(), "node %d", i)
		if res.IsFailure() {
			assert.Error(t, res.Err(), "node %d", i)
		} else {
			assert.NoError(t, res.Err(), "node %d", i)
		}
	}
}

func TestEvaluate_NilNodePanics(t *testing.T) {
	t.Parallel()

	assert.PanicsWithError(t, "unknown node: nil", func() {
		Evaluate[int](context.Background(), nil)
	})

	var typedNil *succeedNode[int]
	assert.Panics(t, func() {
		Evaluate[int](context.Background(), Map[int, int](typedNil, func(_ context.Context, in int) int { return in }))
	})
}

func TestEvaluate_ReportsToObserver(t *testing.T) {
	t.Parallel()

	var (
		mu    sync.Mutex
		kinds []string
		fails atomic.Int32
	)
	observer := core.ObserverFunc(func(_ context.Context, kind string, err error, elapsed time.Duration) {
		mu.Lock()
		defer mu.Unlock()
		kinds = append(kinds, kind)
		if err != nil {
			fails.Add(1)
		}
	})
	ctx := core.WithObserver(context.Background(), observer)

	res := Evaluate(ctx, Transform(Succeed(1), func(context.Context, int) (int, error) { return 0, errBoom }))

	require.True(t, res.IsFailure())
	assert.Equal(t, []string{"succeed", "transform"}, kinds)
	assert.Equal(t, int32(1), fails.Load())
}
