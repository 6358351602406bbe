// Package chain provides a fluent builder around plan nodes for writing
// railway-oriented recipes without nesting constructor calls.
//
// A Chain only describes work; nothing runs until Run or Finally.
//
// Key operations:
// - Start/FromValue/FromFunc: begin a chain from a node, a value or an operation
// - Then: continue with a plan built from the value
// - ThenTry: call a function (U, error) and convert error to failure
// - Map: transform the successful value (T -> U)
// - Validate, Ensure, OnFailure, Recover: checks, side effects and recovery
// - With: apply behaviors such as retry and timeout
// - Run/Finally: evaluate, optionally collapsing into a final value
package chain
