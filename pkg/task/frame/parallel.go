package frame

import (
	"context"
	"sync"

	"github.com/vnykmshr/chronoflow/pkg/task/hook"
)

type parallelFrame struct {
	children        []Frame
	cancelOnFailure bool
}

// Parallel runs its children concurrently and waits for all of them.
// The frame succeeds when every child succeeded or skipped; otherwise
// it returns the first failure observed. Child start and end events
// are emitted per child and may interleave.
func Parallel(children ...Frame) Frame {
	return &parallelFrame{children: children}
}

// ParallelCancelOnFailure is Parallel with sibling cancellation: the
// first child failure cancels the contexts of the still-running
// children.
func ParallelCancelOnFailure(children ...Frame) Frame {
	return &parallelFrame{children: children, cancelOnFailure: true}
}

func (p *parallelFrame) Execute(ctx context.Context, fc *Context) error {
	if len(p.children) == 0 {
		return nil
	}

	runCtx := ctx
	var cancel context.CancelFunc
	if p.cancelOnFailure {
		runCtx, cancel = context.WithCancel(ctx)
		defer cancel()
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	for i, child := range p.children {
		wg.Add(1)
		go func(i int, child Frame) {
			defer wg.Done()
			fc.Emit(runCtx, hook.KindChildStart, hook.ChildPayload{Index: i})
			err := child.Execute(runCtx, fc)
			fc.Emit(runCtx, hook.KindChildEnd, hook.ChildPayload{Index: i, Err: err})
			if err == nil || IsSkip(err) {
				return
			}
			mu.Lock()
			if firstErr == nil {
				firstErr = err
				if cancel != nil {
					cancel()
				}
			}
			mu.Unlock()
		}(i, child)
	}
	wg.Wait()
	return firstErr
}
