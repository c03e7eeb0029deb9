// Package hook provides the typed event bus tasks and frames emit into.
//
// Hooks are attachable observers keyed by event kind. A registration
// interest may be a concrete Kind, a group alias bundling several kinds
// (GroupLifecycle, GroupFrame, ...), or the wildcard KindAll. Matching
// is driven by an explicit membership table, not type hierarchies.
//
// Hook failures are isolated: a panic in one hook is logged and never
// aborts the emission or the frame execution that triggered it.
//
//	c := hook.NewContainer()
//	c.Attach(hook.Func(func(_ context.Context, e hook.Event) {
//		log.Println("event:", e.Kind)
//	}), hook.GroupLifecycle, hook.KindTimeout)
//
// Stateful hooks can additionally be looked up from inside frame
// execution via Get, which is how frames cooperate with hooks such as
// circuit breakers.
package hook
