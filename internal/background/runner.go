// Package background runs fire-and-forget work outside the request lifecycle.
package background

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/taka-shaka/matching-site-sub001/internal/metrics"
	"go.uber.org/zap"
)

// Runner starts detached goroutines with their own timeout. Tasks run at most
// once; failures and panics are logged and never reach the caller.
type Runner struct {
	logger  *zap.Logger
	timeout time.Duration
	wg      sync.WaitGroup
}

func NewRunner(logger *zap.Logger, timeout time.Duration) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Runner{logger: logger, timeout: timeout}
}

// Go schedules fn. The context passed to fn is detached from any request.
func (r *Runner) Go(name string, fn func(ctx context.Context) error) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		defer cancel()

		err := r.run(ctx, fn)
		metrics.RecordBackgroundTask(name, err)
		if err != nil {
			r.logger.Warn("background task failed", zap.String("task", name), zap.Error(err))
		}
	}()
}

func (r *Runner) run(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("panic: %v", recovered)
		}
	}()
	return fn(ctx)
}

// Wait blocks until every scheduled task finished or ctx is done.
func (r *Runner) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
