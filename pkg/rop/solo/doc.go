// Package solo contains single-step primitives over Result[T]. Each one
// evaluates exactly one user callable, captures its panics and classifies
// its error, so that the plan interpreter never lets a failure escape.
//
// Highlights:
// - Call/Do: run a callable with panic capture
// - FromError/Lift/Interrupted: classify errors, telling cancellation apart
// - AndValidate: predicate plus error factory
// - Try: move from Result[In] to Result[Out]
// - Tee/TeeFailure: success and failure side effects
// - Finally: reduce to a concrete value via success/error/cancel handlers
package solo
