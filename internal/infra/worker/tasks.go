package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// Runner tracks background tasks so shutdown can cancel and await them
// instead of firing and forgetting. Registration-triggered syncs run
// through it.
type Runner struct {
	baseCtx context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewRunner creates a task runner whose tasks are cancelled on Shutdown.
func NewRunner() *Runner {
	ctx, cancel := context.WithCancel(context.Background())
	return &Runner{baseCtx: ctx, cancel: cancel}
}

// Go runs fn on its own goroutine under the runner's lifecycle context.
// A panicking task is logged and absorbed; it must not take the process down.
func (r *Runner) Go(name string, fn func(ctx context.Context)) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer func() {
			if rec := recover(); rec != nil {
				slog.Error("background task panicked",
					slog.String("task", name),
					slog.Any("panic", rec))
			}
		}()
		fn(r.baseCtx)
	}()
}

// Shutdown cancels all tasks and waits for them to return, bounded by ctx.
func (r *Runner) Shutdown(ctx context.Context) error {
	r.cancel()

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("task runner shutdown: %w", ctx.Err())
	}
}
