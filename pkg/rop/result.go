package rop

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrUnknownFailure replaces a nil error handed to Fail.
var ErrUnknownFailure = errors.New("unknown failure")

// Result is the outcome of evaluating a plan: either a success carrying a
// value or a failure carrying an error. There is no third state.
type Result[T any] struct {
	id        uuid.UUID
	createdAt time.Time
	result    T
	err       error
	isSuccess bool
}

func Success[T any](r T) Result[T] {
	return Result[T]{
		result:    r,
		err:       nil,
		isSuccess: true,
		createdAt: time.Now().UTC(),
		id:        uuid.New(),
	}
}

func Fail[T any](err error) Result[T] {
	if err == nil {
		err = ErrUnknownFailure
	}
	return Result[T]{
		err:       err,
		isSuccess: false,
		createdAt: time.Now().UTC(),
		id:        uuid.New(),
	}
}

// Cancel builds a failure whose error is cancellation-kind. The cause is
// wrapped in a CancelledError unless it already is one.
func Cancel[T any](err error) Result[T] {
	return Fail[T](Cancelled(err))
}

// FailFrom forwards a failure to another value type, keeping its id, time
// and error untouched.
func FailFrom[In, Out any](from Result[In]) Result[Out] {
	return Result[Out]{
		err:       from.err,
		isSuccess: false,
		createdAt: from.createdAt,
		id:        from.id,
	}
}

func (r Result[T]) Result() T {
	return r.result
}

func (r Result[T]) Err() error {
	return r.err
}

func (r Result[T]) IsSuccess() bool {
	return r.isSuccess
}

func (r Result[T]) IsFailure() bool {
	return !r.isSuccess
}

// IsCancel reports whether the failure came from the ambient cancellation
// signal rather than from the operation itself.
func (r Result[T]) IsCancel() bool {
	return !r.isSuccess && errors.Is(r.err, ErrCancelled)
}

func (r Result[T]) IsTimeout() bool {
	return !r.isSuccess && errors.Is(r.err, ErrTimeout)
}

// ValueOrElse returns the success value or def on failure.
func (r Result[T]) ValueOrElse(def T) T {
	if r.isSuccess {
		return r.result
	}
	return def
}

func (r Result[T]) CreatedAt() time.Time {
	return r.createdAt
}

func (r Result[T]) Id() uuid.UUID {
	return r.id
}
