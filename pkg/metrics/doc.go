// Package metrics provides Prometheus instrumentation for the engine.
//
// The engine exposes no metrics itself; instrumentation rides on the
// event bus. Hook implements the hook interface and translates task
// events into counters and histograms, so attaching one hook to a
// scheduler's global hooks instruments every task it runs:
//
//	m := metrics.NewHook(metrics.Config{})
//	sched.GlobalHooks().Attach(m, hook.KindAll)
//
//	http.Handle("/metrics", promhttp.Handler())
//
// Pass a custom prometheus.Registerer through Config to isolate
// registries, e.g. in tests.
package metrics
