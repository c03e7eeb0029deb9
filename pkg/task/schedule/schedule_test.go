package schedule

import (
	"errors"
	"testing"
	"time"

	"github.com/vnykmshr/chronoflow/internal/testutil"
)

func TestEveryAnchored(t *testing.T) {
	s := Every(time.Minute)
	t0 := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	next, err := s.Next(t0)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, next, t0.Add(time.Minute))

	// Feeding back the planned fire time keeps the cadence anchored.
	next2, err := s.Next(next)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, next2, t0.Add(2*time.Minute))
}

func TestImmediateFiresOnce(t *testing.T) {
	s := Immediate()
	t0 := time.Now()

	next, err := s.Next(t0)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, next, t0)

	_, err = s.Next(next)
	if !errors.Is(err, ErrExhausted) {
		t.Fatalf("got %v, want ErrExhausted", err)
	}
}

func TestCalendar(t *testing.T) {
	t0 := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	a, b, c := t0.Add(time.Hour), t0.Add(2*time.Hour), t0.Add(3*time.Hour)

	// Out of order on purpose.
	s := Calendar(c, a, b)

	next, err := s.Next(t0)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, next, a)

	next, err = s.Next(a)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, next, b)

	next, err = s.Next(b)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, next, c)

	_, err = s.Next(c)
	if !errors.Is(err, ErrExhausted) {
		t.Fatalf("got %v, want ErrExhausted", err)
	}
}

func TestAt(t *testing.T) {
	when := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	s := At(when)

	next, err := s.Next(when.Add(-time.Hour))
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, next, when)

	_, err = s.Next(when)
	if !errors.Is(err, ErrExhausted) {
		t.Fatalf("got %v, want ErrExhausted", err)
	}
}

func TestCron(t *testing.T) {
	s, err := CronIn("0 30 * * * *", time.UTC)
	testutil.AssertNoError(t, err)

	after := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	next, err := s.Next(after)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, next, time.Date(2025, 6, 1, 12, 30, 0, 0, time.UTC))

	next2, err := s.Next(next)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, next2, time.Date(2025, 6, 1, 13, 30, 0, 0, time.UTC))
}

func TestCronSecondsField(t *testing.T) {
	s, err := CronIn("*/10 * * * * *", time.UTC)
	testutil.AssertNoError(t, err)

	after := time.Date(2025, 6, 1, 12, 0, 5, 0, time.UTC)
	next, err := s.Next(after)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, next, time.Date(2025, 6, 1, 12, 0, 10, 0, time.UTC))
}

func TestCronInvalidExpression(t *testing.T) {
	_, err := Cron("not a cron expr")
	testutil.AssertError(t, err)

	_, err = Cron("")
	testutil.AssertError(t, err)

	testutil.AssertError(t, ValidateCron("61 * * * * *"))
	testutil.AssertNoError(t, ValidateCron("@hourly"))
}

func TestJitterWithinWindow(t *testing.T) {
	base := Every(time.Minute)
	s := Jitter(base, 10*time.Second)
	t0 := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 100; i++ {
		next, err := s.Next(t0)
		testutil.AssertNoError(t, err)
		lo, hi := t0.Add(time.Minute), t0.Add(time.Minute+10*time.Second)
		if next.Before(lo) || !next.Before(hi) {
			t.Fatalf("jittered fire time %v outside [%v, %v)", next, lo, hi)
		}
	}
}

func TestJitterZeroSpreadPassthrough(t *testing.T) {
	base := Every(time.Minute)
	testutil.AssertEqual(t, Jitter(base, 0) == base, true)
}

func TestJitterPropagatesExhaustion(t *testing.T) {
	s := Jitter(Immediate(), time.Second)
	now := time.Now()
	_, err := s.Next(now)
	testutil.AssertNoError(t, err)
	_, err = s.Next(now)
	if !errors.Is(err, ErrExhausted) {
		t.Fatalf("got %v, want ErrExhausted", err)
	}
}

func TestScheduleFunc(t *testing.T) {
	calls := 0
	s := Func(func(after time.Time) (time.Time, error) {
		calls++
		return after.Add(time.Second), nil
	})
	now := time.Now()
	next, err := s.Next(now)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, next, now.Add(time.Second))
	testutil.AssertEqual(t, calls, 1)
}
