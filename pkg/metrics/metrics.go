package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Config holds configuration for metrics collection.
type Config struct {
	// Registry is the Prometheus registerer to use. If nil, uses
	// prometheus.DefaultRegisterer.
	Registry prometheus.Registerer

	// Namespace overrides the default "chronoflow" namespace.
	Namespace string
}

// Registry holds all metric instances. Metrics are fed exclusively
// through the event Hook; the engine itself has no metrics wiring.
type Registry struct {
	TaskRunsStarted   *prometheus.CounterVec
	TaskRunsCompleted *prometheus.CounterVec
	TaskRunsFailed    *prometheus.CounterVec
	TaskRunsTimedOut  *prometheus.CounterVec
	TaskRunsCanceled  *prometheus.CounterVec
	TaskRunDuration   *prometheus.HistogramVec

	RetryAttempts   *prometheus.CounterVec
	Fallbacks       *prometheus.CounterVec
	ScheduleErrors  *prometheus.CounterVec
	DependencyGates *prometheus.CounterVec
}

// NewRegistry creates a metrics registry with the given configuration.
func NewRegistry(cfg Config) *Registry {
	reg := cfg.Registry
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	namespace := cfg.Namespace
	if namespace == "" {
		namespace = "chronoflow"
	}
	factory := promauto.With(reg)

	return &Registry{
		TaskRunsStarted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "tasks",
				Name:      "runs_started_total",
				Help:      "Total number of task runs started",
			},
			[]string{"task_label"},
		),

		TaskRunsCompleted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "tasks",
				Name:      "runs_completed_total",
				Help:      "Total number of task runs that finished successfully",
			},
			[]string{"task_label"},
		),

		TaskRunsFailed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "tasks",
				Name:      "runs_failed_total",
				Help:      "Total number of task runs that finished with an error",
			},
			[]string{"task_label"},
		),

		TaskRunsTimedOut: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "tasks",
				Name:      "runs_timed_out_total",
				Help:      "Total number of task runs that exceeded their time budget",
			},
			[]string{"task_label"},
		),

		TaskRunsCanceled: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "tasks",
				Name:      "runs_canceled_total",
				Help:      "Total number of task runs cancelled mid-flight",
			},
			[]string{"task_label"},
		),

		TaskRunDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "tasks",
				Name:      "run_duration_seconds",
				Help:      "Wall time from run start to run end",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"task_label"},
		),

		RetryAttempts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "frames",
				Name:      "retry_attempts_total",
				Help:      "Total number of retry attempts across all tasks",
			},
			[]string{"task_label"},
		),

		Fallbacks: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "frames",
				Name:      "fallbacks_total",
				Help:      "Total number of fallback activations",
			},
			[]string{"task_label"},
		),

		ScheduleErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "scheduler",
				Name:      "schedule_errors_total",
				Help:      "Total number of schedule computation or dispatch failures",
			},
			[]string{"task_label"},
		),

		DependencyGates: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "frames",
				Name:      "dependency_gates_total",
				Help:      "Total number of dependency gate resolutions, by outcome",
			},
			[]string{"task_label", "outcome"},
		),
	}
}
