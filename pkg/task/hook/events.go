package hook

import (
	"time"
)

// Kind identifies one event type on the bus. Kinds are explicit runtime
// keys: matching is a table lookup, never implicit subtyping.
type Kind string

// Concrete event kinds emitted by tasks and frames.
const (
	// KindTaskStart fires when a task run begins.
	KindTaskStart Kind = "task.start"
	// KindTaskEnd fires when a task run finishes, success or failure.
	KindTaskEnd Kind = "task.end"

	// KindHookAttach fires when a hook is attached to a container.
	KindHookAttach Kind = "hook.attach"
	// KindHookDetach fires when a hook is detached from a container.
	KindHookDetach Kind = "hook.detach"

	// KindRetryAttempt fires before each retry attempt after the first.
	KindRetryAttempt Kind = "frame.retry.attempt"
	// KindTimeout fires when a timeout frame's timer elapses.
	KindTimeout Kind = "frame.timeout"
	// KindFallback fires when a fallback frame's primary fails and the
	// secondary is about to run.
	KindFallback Kind = "frame.fallback"
	// KindConditionTrue and KindConditionFalse fire after a conditional
	// frame evaluates its predicate.
	KindConditionTrue  Kind = "frame.condition.true"
	KindConditionFalse Kind = "frame.condition.false"
	// KindDelayStart and KindDelayEnd bracket a delay frame's wait.
	KindDelayStart Kind = "frame.delay.start"
	KindDelayEnd   Kind = "frame.delay.end"
	// KindChildStart and KindChildEnd bracket each child of a sequential
	// or parallel frame.
	KindChildStart Kind = "frame.child.start"
	KindChildEnd   Kind = "frame.child.end"
	// KindDependencyResolved fires when a dependency frame's expression
	// resolves, or when its deadline is reached without resolution.
	KindDependencyResolved Kind = "frame.dependency.resolved"
	// KindFrameSelected fires when a select frame has picked a child and
	// is about to run it.
	KindFrameSelected Kind = "frame.select"

	// KindScheduleError fires when a task's schedule fails to compute the
	// next fire time; the task will not be scheduled again.
	KindScheduleError Kind = "schedule.error"
)

// Special interest keys.
const (
	// KindAll subscribes a hook to every emittable event.
	KindAll Kind = "*"

	// KindNone marks a state-only hook. It matches nothing and is never
	// emitted; attaching under KindNone only makes the hook reachable
	// through Get for cooperative frame behavior.
	KindNone Kind = ""
)

// Event-group aliases. Attaching under a group subscribes to every kind
// the group bundles.
const (
	// GroupLifecycle bundles task start and end.
	GroupLifecycle Kind = "group.lifecycle"
	// GroupFrame bundles every frame-emitted kind.
	GroupFrame Kind = "group.frame"
	// GroupChildren bundles the child start/end kinds.
	GroupChildren Kind = "group.children"
	// GroupHooks bundles hook attach/detach.
	GroupHooks Kind = "group.hooks"
)

// groupTable is the explicit membership table behind group matching.
var groupTable = map[Kind][]Kind{
	GroupLifecycle: {KindTaskStart, KindTaskEnd},
	GroupFrame: {
		KindRetryAttempt, KindTimeout, KindFallback,
		KindConditionTrue, KindConditionFalse,
		KindDelayStart, KindDelayEnd,
		KindChildStart, KindChildEnd,
		KindDependencyResolved, KindFrameSelected,
	},
	GroupChildren: {KindChildStart, KindChildEnd},
	GroupHooks:    {KindHookAttach, KindHookDetach},
}

// IsGroup reports whether k is a group alias.
func IsGroup(k Kind) bool {
	_, ok := groupTable[k]
	return ok
}

// GroupKinds returns the concrete kinds a group bundles, or nil if k is
// not a group.
func GroupKinds(k Kind) []Kind {
	members := groupTable[k]
	out := make([]Kind, len(members))
	copy(out, members)
	return out
}

// Matches reports whether a registration interest covers a concrete
// event kind.
func Matches(interest, event Kind) bool {
	if event == KindNone || interest == KindNone {
		return false
	}
	if interest == KindAll || interest == event {
		return true
	}
	for _, member := range groupTable[interest] {
		if member == event {
			return true
		}
	}
	return false
}

// Event is one occurrence delivered to hooks.
type Event struct {
	// Kind is the concrete event type. Never a group or wildcard.
	Kind Kind

	// TaskID and TaskLabel identify the task the event belongs to.
	// Empty for container-level events emitted outside a task run.
	TaskID    string
	TaskLabel string

	// At is the time the event was emitted.
	At time.Time

	// Payload carries kind-specific data; see the *Payload types.
	Payload any
}

// TaskEndPayload accompanies KindTaskEnd. Err is nil on success.
type TaskEndPayload struct {
	Err error
}

// RetryPayload accompanies KindRetryAttempt. Attempt counts from 2: the
// first attempt never emits.
type RetryPayload struct {
	Attempt int
	LastErr error
}

// TimeoutPayload accompanies KindTimeout.
type TimeoutPayload struct {
	Limit time.Duration
}

// FallbackPayload accompanies KindFallback.
type FallbackPayload struct {
	PrimaryErr error
}

// ChildPayload accompanies KindChildStart and KindChildEnd.
type ChildPayload struct {
	Index int
	Err   error // KindChildEnd only
}

// DependencyPayload accompanies KindDependencyResolved.
type DependencyPayload struct {
	Resolved bool
}

// AttachPayload accompanies KindHookAttach and KindHookDetach.
type AttachPayload struct {
	Interest Kind
}

// SelectPayload accompanies KindFrameSelected.
type SelectPayload struct {
	Index int
}

// ScheduleErrorPayload accompanies KindScheduleError.
type ScheduleErrorPayload struct {
	Err error
}
