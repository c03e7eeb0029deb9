// Package clock abstracts time for the scheduler.
//
// The scheduler never reads the wall clock directly; it consumes the
// Clock interface, which supplies "now" and an interruptible wait.
// System is the production implementation. Virtual supports manual time
// advance so that timing behavior can be tested deterministically:
//
//	vc := clock.NewVirtual(time.Time{})
//	done := vc.After(2 * time.Second)
//	vc.Advance(3 * time.Second)
//	<-done // fires without real waiting
package clock
