// Package task binds the pieces of a schedulable unit of work: an
// execution frame tree, a schedule, an overlap strategy, a priority,
// and a hook container for observers.
//
//	t, err := task.New(task.Config{
//		Frame:    frame.Func(syncInventory),
//		Schedule: schedule.Every(5 * time.Minute),
//		Strategy: task.StrategySkipIfRunning,
//		Priority: task.PriorityHigh,
//		Label:    "inventory-sync",
//	})
//
// A task does not run itself; hand it to a scheduler. Identity and
// wiring are fixed at construction, while run count, lifecycle state
// and attached hooks evolve as the scheduler drives it.
package task
