package solo

import (
	"context"
	"runtime/debug"

	"github.com/ib-77/ropflow/pkg/rop"
)

// Call runs fn and turns a panic into a *rop.PanicError.
func Call[T any](fn func() (T, error)) (out T, err error) {
	defer func() {
		if r := recover(); r != nil {
			var zero T
			out, err = zero, &rop.PanicError{Value: r, Stack: debug.Stack()}
		}
	}()
	return fn()
}

// Do is Call for callables without a value.
func Do(fn func() error) error {
	_, err := Call(func() (struct{}, error) {
		return struct{}{}, fn()
	})
	return err
}

// FromError builds a failure from err. A context error surfacing while ctx
// is done becomes a cancellation; anything else is an ordinary failure.
func FromError[T any](ctx context.Context, err error) rop.Result[T] {
	if rop.IsCancellationError(err) {
		return rop.Fail[T](err)
	}
	if ctx.Err() != nil && rop.IsContextError(err) {
		return rop.Cancel[T](err)
	}
	return rop.Fail[T](err)
}

// Interrupted returns a cancellation failure when ctx is already done.
func Interrupted[T any](ctx context.Context) (rop.Result[T], bool) {
	if err := ctx.Err(); err != nil {
		return rop.Cancel[T](err), true
	}
	return rop.Result[T]{}, false
}

// Lift converts a (value, error) pair into a Result.
func Lift[T any](ctx context.Context, v T, err error) rop.Result[T] {
	if err != nil {
		return FromError[T](ctx, err)
	}
	return rop.Success(v)
}

// AndValidate keeps a successful input when valid reports true and otherwise
// fails with a validation error built by invalid.
func AndValidate[T any](ctx context.Context, input rop.Result[T],
	valid func(ctx context.Context, in T) bool,
	invalid func(ctx context.Context, in T) error) rop.Result[T] {

	if input.IsFailure() {
		return input
	}

	ok, err := Call(func() (bool, error) {
		return valid(ctx, input.Result()), nil
	})
	if err != nil {
		return FromError[T](ctx, err)
	}
	if ok {
		return input
	}

	verr, err := Call(func() (error, error) {
		return invalid(ctx, input.Result()), nil
	})
	if err != nil {
		return FromError[T](ctx, err)
	}
	return rop.Fail[T](&rop.ValidationError{Err: verr})
}

func Try[In any, Out any](ctx context.Context, input rop.Result[In],
	onTryExecute func(ctx context.Context, r In) (Out, error)) rop.Result[Out] {

	if input.IsFailure() {
		return rop.FailFrom[In, Out](input)
	}
	if res, done := Interrupted[Out](ctx); done {
		return res
	}

	out, err := Call(func() (Out, error) {
		return onTryExecute(ctx, input.Result())
	})
	return Lift(ctx, out, err)
}

// Tee runs onSuccess for a successful input. Its error or panic replaces
// the result.
func Tee[T any](ctx context.Context,
	input rop.Result[T],
	onSuccess func(ctx context.Context, r T) error) rop.Result[T] {

	if input.IsFailure() {
		return input
	}

	if err := Do(func() error { return onSuccess(ctx, input.Result()) }); err != nil {
		return FromError[T](ctx, err)
	}
	return input
}

// TeeFailure runs onFailure for a failed input. Whatever happens inside it,
// the original failure is returned.
func TeeFailure[T any](ctx context.Context,
	input rop.Result[T],
	onFailure func(ctx context.Context, err error)) rop.Result[T] {

	if input.IsSuccess() {
		return input
	}

	_ = Do(func() error {
		onFailure(ctx, input.Err())
		return nil
	})
	return input
}

func Finally[In, Out any](ctx context.Context, input rop.Result[In],
	onSuccess func(ctx context.Context, r In) Out,
	onError func(ctx context.Context, err error) Out,
	onCancel func(ctx context.Context, err error) Out) Out {

	if input.IsSuccess() {
		return onSuccess(ctx, input.Result())
	} else if input.IsCancel() {
		return onCancel(ctx, input.Err())
	} else {
		return onError(ctx, input.Err())
	}
}
