package task

// Priority orders tasks that are ready at the same instant and weights
// dispatcher load so urgent work jumps queues.
type Priority int

const (
	PriorityLow Priority = iota
	PriorityMedium
	PriorityHigh
	PriorityImportant
	PriorityCritical
)

// String returns the priority name.
func (p Priority) String() string {
	switch p {
	case PriorityLow:
		return "low"
	case PriorityMedium:
		return "medium"
	case PriorityHigh:
		return "high"
	case PriorityImportant:
		return "important"
	case PriorityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// Weight returns the dispatch weight of the priority. Higher-priority
// tasks count more toward a worker's load, so workers carrying urgent
// work receive fewer new assignments.
func (p Priority) Weight() int {
	switch p {
	case PriorityLow:
		return 1
	case PriorityMedium:
		return 2
	case PriorityHigh:
		return 4
	case PriorityImportant:
		return 8
	case PriorityCritical:
		return 16
	default:
		return 2
	}
}

// Strategy decides what happens when a task fires while a previous run
// of the same task is still executing.
type Strategy int

const (
	// StrategySequential queues the new run and starts it when the
	// current one finishes. The default.
	StrategySequential Strategy = iota
	// StrategyCancelCurrent cancels the running execution and starts
	// the new one.
	StrategyCancelCurrent
	// StrategySkipIfRunning drops the new run entirely.
	StrategySkipIfRunning
	// StrategyAllowParallel lets overlapping runs execute concurrently.
	StrategyAllowParallel
)

// String returns the strategy name.
func (s Strategy) String() string {
	switch s {
	case StrategySequential:
		return "sequential"
	case StrategyCancelCurrent:
		return "cancel-current"
	case StrategySkipIfRunning:
		return "skip-if-running"
	case StrategyAllowParallel:
		return "allow-parallel"
	default:
		return "unknown"
	}
}

// State is the task's position in its lifecycle. Terminal outcomes
// apply per run: a repeating task moves back to Pending after each run.
type State int32

const (
	// StateIdle means the task exists but is not yet scheduled.
	StateIdle State = iota
	// StatePending means the task is in the store waiting to fire.
	StatePending
	// StateRunning means a run is executing.
	StateRunning
	// StateCompleted means the last run succeeded.
	StateCompleted
	// StateFailed means the last run failed.
	StateFailed
	// StateTimedOut means the last run exceeded its time budget.
	StateTimedOut
	// StateCanceled means the task was cancelled, from outside or by
	// an overlap strategy.
	StateCanceled
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePending:
		return "pending"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	case StateTimedOut:
		return "timed-out"
	case StateCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}
