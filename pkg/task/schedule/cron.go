package schedule

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// cronParser accepts six-field expressions with a leading seconds
// field, plus descriptors like @hourly and @every.
var cronParser = cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

type cronSchedule struct {
	expr  string
	inner cron.Schedule
	loc   *time.Location
}

// Cron fires per a cron expression, evaluated in the local timezone.
// The expression takes six fields with seconds first, or a descriptor:
//
//	"0 30 * * * *"   every hour on the half hour
//	"*/10 * * * * *" every ten seconds
//	"@hourly"        top of every hour
func Cron(expr string) (Schedule, error) {
	return CronIn(expr, time.Local)
}

// CronIn is Cron with an explicit timezone for expression evaluation.
func CronIn(expr string, loc *time.Location) (Schedule, error) {
	if expr == "" {
		return nil, fmt.Errorf("cron expression cannot be empty")
	}
	if loc == nil {
		loc = time.Local
	}
	inner, err := cronParser.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid cron expression '%s': %w", expr, err)
	}
	return &cronSchedule{expr: expr, inner: inner, loc: loc}, nil
}

func (s *cronSchedule) Next(after time.Time) (time.Time, error) {
	next := s.inner.Next(after.In(s.loc))
	if next.IsZero() {
		// The cron library gives up after a bounded search, e.g. for
		// an impossible date.
		return time.Time{}, fmt.Errorf("cron expression '%s' has no next activation after %v", s.expr, after)
	}
	return next, nil
}

// ValidateCron checks a cron expression without building a schedule.
func ValidateCron(expr string) error {
	_, err := cronParser.Parse(expr)
	if err != nil {
		return fmt.Errorf("invalid cron expression '%s': %w", expr, err)
	}
	return nil
}
