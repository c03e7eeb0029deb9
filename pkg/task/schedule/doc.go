// Package schedule decides when tasks fire.
//
// A Schedule maps the previous planned fire time to the next one:
// Every gives an anchored fixed interval, Cron evaluates cron
// expressions with a seconds field, Calendar fires at explicit
// instants, Immediate fires once right away, and Jitter spreads any of
// them over a window. ErrExhausted from Next retires the task normally.
//
// Schedules are plain values and know nothing about execution; the
// scheduler queries them and owns the timing.
package schedule
