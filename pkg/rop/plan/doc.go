// Package plan describes computations as immutable trees of typed nodes and
// evaluates them.
//
// Building a plan does nothing: constructors such as Create, Sequence, All or
// Resource only record what to do. Evaluate walks the tree under a context
// and always returns exactly one rop.Result. User callables run under panic
// capture, and failures short-circuit everything downstream until a Recover
// or OnFailure node sees them.
//
// Cancellation of the ambient context is reported as a failure whose error
// matches rop.ErrCancelled. It is never retried and Recover lets it through.
//
// Rewrite returns a new plan with a Behavior injected around every effect.
// The original plan is left untouched and stays usable on its own. Behaviors
// that report CoversComposites wrap All, Any and Resource nodes as a whole;
// the others leave those nodes alone.
//
// Every node is Inspectable, so tools can walk a plan without evaluating it.
package plan
