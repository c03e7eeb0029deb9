package frame

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/vnykmshr/chronoflow/internal/testutil"
	"github.com/vnykmshr/chronoflow/pkg/task/hook"
)

func TestSelectRunsChosenChild(t *testing.T) {
	fc, rec := testContext(nil)

	var ran [3]int32
	child := func(i int) Frame {
		return Func(func(context.Context) error {
			atomic.AddInt32(&ran[i], 1)
			return nil
		})
	}

	f := Select(func(context.Context, *Context) int { return 1 },
		child(0), child(1), child(2))

	testutil.AssertNoError(t, f.Execute(context.Background(), fc))
	testutil.AssertEqual(t, atomic.LoadInt32(&ran[0]), 0)
	testutil.AssertEqual(t, atomic.LoadInt32(&ran[1]), 1)
	testutil.AssertEqual(t, atomic.LoadInt32(&ran[2]), 0)

	testutil.AssertEqual(t, rec.Count(hook.KindFrameSelected), 1)
	for _, e := range rec.Events() {
		if e.Kind == hook.KindFrameSelected {
			testutil.AssertEqual(t, e.Payload.(hook.SelectPayload).Index, 1)
		}
	}
}

func TestSelectByRunCount(t *testing.T) {
	c := hook.NewContainer()
	fc := NewContext("task-1", "test", 5, c, nil)

	var picked int32
	f := Select(func(_ context.Context, fc *Context) int {
		return int(fc.Runs) % 3
	},
		Func(func(context.Context) error { atomic.StoreInt32(&picked, 0); return nil }),
		Func(func(context.Context) error { atomic.StoreInt32(&picked, 1); return nil }),
		Func(func(context.Context) error { atomic.StoreInt32(&picked, 2); return nil }),
	)

	testutil.AssertNoError(t, f.Execute(context.Background(), fc))
	testutil.AssertEqual(t, atomic.LoadInt32(&picked), 2)
}

func TestSelectIndexOutOfRange(t *testing.T) {
	fc, rec := testContext(nil)

	var ran int32
	f := Select(func(context.Context, *Context) int { return 3 },
		Func(func(context.Context) error { atomic.AddInt32(&ran, 1); return nil }))

	testutil.AssertError(t, f.Execute(context.Background(), fc))
	testutil.AssertEqual(t, atomic.LoadInt32(&ran), 0)
	testutil.AssertEqual(t, rec.Count(hook.KindFrameSelected), 0)

	f = Select(func(context.Context, *Context) int { return -1 }, NoOp{})
	testutil.AssertError(t, f.Execute(context.Background(), fc))
}

func TestSelectErrorPropagates(t *testing.T) {
	fc, _ := testContext(nil)

	f := Select(func(context.Context, *Context) int { return 0 },
		Func(func(context.Context) error { return errBoom }))

	err := f.Execute(context.Background(), fc)
	if !errors.Is(err, errBoom) {
		t.Fatalf("got %v, want errBoom", err)
	}
}
