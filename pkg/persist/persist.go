package persist

import (
	"context"
	"time"

	"github.com/vnykmshr/chronoflow/pkg/task"
)

// Spec is a declarative, serializable description of a task: which
// registered action it runs, how the frame tree decorates it, and when
// it fires. Specs survive restarts; closures do not, so leaf frames
// reference actions by the name they were registered under.
type Spec struct {
	// ID keys the spec in a backend. Required.
	ID string `json:"id"`

	Label    string        `json:"label,omitempty"`
	Priority task.Priority `json:"priority,omitempty"`
	Strategy task.Strategy `json:"strategy,omitempty"`
	MaxRuns  uint64        `json:"max_runs,omitempty"`

	Schedule ScheduleSpec `json:"schedule"`
	Frame    FrameSpec    `json:"frame"`
}

// ScheduleSpec describes a schedule. Type selects the variant and the
// matching fields apply.
type ScheduleSpec struct {
	// Type is one of "immediate", "interval", "cron", "calendar".
	Type string `json:"type"`

	// Interval applies to type "interval".
	Interval time.Duration `json:"interval,omitempty"`

	// Expr applies to type "cron".
	Expr string `json:"expr,omitempty"`

	// Instants applies to type "calendar".
	Instants []time.Time `json:"instants,omitempty"`

	// Jitter optionally spreads any variant's fire times.
	Jitter time.Duration `json:"jitter,omitempty"`
}

// FrameSpec describes one node of a frame tree. Type selects the
// variant; Child, Children and the scalar fields apply per variant.
type FrameSpec struct {
	// Type is one of "action", "noop", "retry", "timeout", "fallback",
	// "sequential", "parallel", "delay".
	Type string `json:"type"`

	// Action names a registered action, for type "action". Composite
	// frames that cannot be described declaratively (conditionals,
	// selects, dependency gates) are registered whole under an action
	// name.
	Action string `json:"action,omitempty"`

	// Child is the wrapped frame for decorator types.
	Child *FrameSpec `json:"child,omitempty"`

	// Children are the branches for "sequential" and "parallel", and
	// the pair [primary, secondary] for "fallback".
	Children []FrameSpec `json:"children,omitempty"`

	// Attempts and Backoff apply to type "retry".
	Attempts int          `json:"attempts,omitempty"`
	Backoff  *BackoffSpec `json:"backoff,omitempty"`

	// Limit applies to type "timeout", Wait to type "delay".
	Limit time.Duration `json:"limit,omitempty"`
	Wait  time.Duration `json:"wait,omitempty"`
}

// BackoffSpec describes a retry backoff policy.
type BackoffSpec struct {
	// Type is "constant" or "exponential".
	Type string `json:"type"`

	Delay   time.Duration `json:"delay,omitempty"`   // constant
	Initial time.Duration `json:"initial,omitempty"` // exponential
	Max     time.Duration `json:"max,omitempty"`     // exponential

	// Spread adds uniform jitter as a fraction of each delay.
	Spread float64 `json:"spread,omitempty"`
}

// Backend stores task specs durably. Implementations must be safe for
// concurrent use.
type Backend interface {
	// Save writes or overwrites a spec keyed by its ID.
	Save(ctx context.Context, spec Spec) error

	// Load reads one spec, returning ErrNotFound when absent.
	Load(ctx context.Context, id string) (Spec, error)

	// Delete removes a spec. Deleting an absent spec is a no-op.
	Delete(ctx context.Context, id string) error

	// List returns every stored spec.
	List(ctx context.Context) ([]Spec, error)

	// Close releases backend resources.
	Close() error
}
