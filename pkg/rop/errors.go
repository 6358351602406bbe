package rop

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrCancelled   = errors.New("operation cancelled")
	ErrTimeout     = errors.New("operation timed out")
	ErrValidation  = errors.New("validation failed")
	ErrAggregate   = errors.New("one or more branches failed")
	ErrDisposal    = errors.New("resource disposal failed")
	ErrPanic       = errors.New("operation panicked")
	ErrNilNode     = errors.New("continuation returned a nil node")
	ErrUnknownNode = errors.New("unknown node")
)

// ErrorKind is the failure category of an error.
type ErrorKind int

const (
	KindNone ErrorKind = iota
	KindOperation
	KindValidation
	KindTimeout
	KindCancellation
	KindAggregate
	KindDisposal
	KindPanic
)

func (k ErrorKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindOperation:
		return "operation"
	case KindValidation:
		return "validation"
	case KindTimeout:
		return "timeout"
	case KindCancellation:
		return "cancellation"
	case KindAggregate:
		return "aggregate"
	case KindDisposal:
		return "disposal"
	case KindPanic:
		return "panic"
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// KindOf classifies err. Cancellation wins over every other category since a
// cancelled aggregate is still a cancellation.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrCancelled):
		return KindCancellation
	case errors.Is(err, ErrTimeout):
		return KindTimeout
	case errors.Is(err, ErrDisposal):
		return KindDisposal
	case errors.Is(err, ErrAggregate):
		return KindAggregate
	case errors.Is(err, ErrValidation):
		return KindValidation
	case errors.Is(err, ErrPanic):
		return KindPanic
	}
	return KindOperation
}

// CancelledError marks a failure caused by the ambient cancellation signal.
type CancelledError struct {
	Cause error
}

// Cancelled wraps cause as a cancellation. A cause that already is a
// cancellation is returned as is.
func Cancelled(cause error) error {
	if cause != nil && errors.Is(cause, ErrCancelled) {
		return cause
	}
	return &CancelledError{Cause: cause}
}

func (e *CancelledError) Error() string {
	if e.Cause == nil {
		return ErrCancelled.Error()
	}
	return ErrCancelled.Error() + ": " + e.Cause.Error()
}

func (e *CancelledError) Is(target error) bool { return target == ErrCancelled }

func (e *CancelledError) Unwrap() error { return e.Cause }

// TimeoutError is returned when a deadline elapsed before the operation
// completed.
type TimeoutError struct {
	After time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s after %v", ErrTimeout.Error(), e.After)
}

func (e *TimeoutError) Is(target error) bool { return target == ErrTimeout }

// ValidationError wraps the error built by a validation factory.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string {
	if e.Err == nil {
		return ErrValidation.Error()
	}
	return ErrValidation.Error() + ": " + e.Err.Error()
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func (e *ValidationError) Unwrap() error { return e.Err }

// AggregateError carries the errors of every failed branch of a join or
// race, in completion order.
type AggregateError struct {
	Errors []error
}

func (e *AggregateError) Error() string {
	if len(e.Errors) == 0 {
		return ErrAggregate.Error()
	}
	msgs := make([]string, 0, len(e.Errors))
	for _, err := range e.Errors {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("%s (%d): %s", ErrAggregate.Error(), len(e.Errors), strings.Join(msgs, "; "))
}

func (e *AggregateError) Is(target error) bool { return target == ErrAggregate }

func (e *AggregateError) Unwrap() []error { return e.Errors }

// DisposalError is returned when closing a resource failed.
type DisposalError struct {
	Err error
}

func (e *DisposalError) Error() string {
	if e.Err == nil {
		return ErrDisposal.Error()
	}
	return ErrDisposal.Error() + ": " + e.Err.Error()
}

func (e *DisposalError) Is(target error) bool { return target == ErrDisposal }

func (e *DisposalError) Unwrap() error { return e.Err }

// PanicError holds a value recovered from a panicking callable.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("%s: %v", ErrPanic.Error(), e.Value)
}

func (e *PanicError) Is(target error) bool { return target == ErrPanic }

// Unwrap exposes a panicked error value.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}
