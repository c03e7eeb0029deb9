// Package scheduler drives tasks through their schedules on a single
// node.
//
// The scheduling loop is tickless. It keeps pending fires in a
// time-ordered store, sleeps on the clock until the earliest deadline,
// and wakes early whenever the store changes. With a virtual clock the
// whole engine runs deterministically: advance the clock and due tasks
// fire, with no real time passing.
//
//	sched := scheduler.New()
//	_ = sched.Start()
//	defer func() { <-sched.Stop() }()
//
//	hourly, _ := schedule.Cron("0 0 * * * *")
//	t, _ := task.New(task.Config{
//		Frame:    frame.Func(rotateLogs),
//		Schedule: hourly,
//	})
//	_ = sched.Schedule(t)
//
// Ready tasks go to a pool of dispatch workers. Each worker has a
// bounded queue, and new work lands on the worker with the lowest
// priority-weighted load. When every queue is full the fire fails with
// a DispatchError and the task retries at its next scheduled time.
//
// A task that fires while a previous run is still executing is
// resolved by its overlap strategy: queue it, cancel the current run,
// skip the new one, or let them overlap.
package scheduler
