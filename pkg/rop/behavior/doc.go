// Package behavior provides the resilience behaviors that plan.Rewrite
// injects into a plan: Retry and Timeout. Both are pure rewrites; the
// original plan keeps its own behavior.
//
//	node := behavior.WithTimeout(behavior.WithRetry(fetch, 3), time.Second)
//	res := plan.Evaluate(ctx, node)
//
// Behaviors can also be described in YAML and applied with Apply:
//
//	retry:
//	  max_attempts: 3
//	  backoff: 100ms
//	timeout: 2s
package behavior
