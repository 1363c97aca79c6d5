package acquire

import (
	"context"
	"sync"

	"github.com/optigauge/go-grating/logger"
)

// taskFunc performs one iteration of a managed task. It returns true to
// keep running or false to stop the goroutine.
type taskFunc func(ctx context.Context) bool

// taskManager manages the lifecycle of the polling worker goroutine:
// structured start, cancellation, and join. After Wait returns, the
// manager's context is recreated so a subsequent Start works again.
type taskManager struct {
	pctx   context.Context
	logger logger.Logger

	mu     sync.Mutex // guards ctx and cancel
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func newTaskManager(ctx context.Context, l logger.Logger) *taskManager {
	mgr := &taskManager{pctx: ctx, logger: l}
	mgr.ctx, mgr.cancel = context.WithCancel(ctx)

	return mgr
}

func (mgr *taskManager) getContext() context.Context {
	mgr.mu.Lock()
	defer mgr.mu.Unlock()

	return mgr.ctx
}

// start launches a goroutine that invokes fn until it returns false or the
// manager is stopped. Panics in fn terminate the task, not the process.
func (mgr *taskManager) start(name string, fn taskFunc) {
	mgr.logger.Debug("start task", "name", name)

	mgr.wg.Add(1)

	go func() {
		defer mgr.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				mgr.logger.Error("panic in task", "name", name, "panic", r)
			}
			mgr.logger.Debug("task terminated", "name", name)
		}()

		for {
			ctx := mgr.getContext()
			select {
			case <-ctx.Done():
				return
			default:
				if !fn(ctx) {
					return
				}
			}
		}
	}()
}

// stop signals all running tasks to exit.
func (mgr *taskManager) stop() {
	mgr.mu.Lock()
	if mgr.cancel != nil {
		mgr.cancel()
	}
	mgr.mu.Unlock()
}

// wait blocks until all tasks have exited, then recreates the context so
// the manager can be reused.
func (mgr *taskManager) wait() {
	mgr.wg.Wait()

	mgr.mu.Lock()
	mgr.ctx, mgr.cancel = context.WithCancel(mgr.pctx)
	mgr.mu.Unlock()
}
