// Package frame provides the composable execution tree a task runs.
//
// A frame is one node of the tree: leaves (Func, NoOp) do the work,
// decorators (Retry, Timeout, Fallback, Conditional, Select,
// Sequential, Parallel, Dependent, Delay) wrap children and add
// behavior around
// them. Decorators nest freely, so a retried, timed-out action with a
// fallback is plain composition:
//
//	f := frame.Fallback(
//		frame.Retry(
//			frame.Timeout(frame.Func(fetch), 5*time.Second),
//			3, frame.ExponentialBackoff(time.Second, 30*time.Second),
//		),
//		frame.Func(fetchFromCache),
//	)
//
// Builder offers the same composition through named options with a
// fixed nesting order.
//
// Frames report outcomes as errors: nil is success, ErrSkipped marks a
// conditional skip that is neither success nor failure, and everything
// else is a failure. Decorators emit events into the task's hook
// container as they act, so observers can follow retries, timeouts and
// fallbacks without being wired into the tree.
package frame
