package service

import (
	"context"
	"fmt"
	"runtime"

	"github.com/ludo-technologies/dsastcheck/domain"
	"github.com/ludo-technologies/dsastcheck/internal/config"
	"golang.org/x/sync/errgroup"
)

// TaskError is the failure of the work item named Item
type TaskError struct {
	Item string
	Err  error
}

// Error implements the error interface
func (e TaskError) Error() string {
	return fmt.Sprintf("[%s] %v", e.Item, e.Err)
}

// Unwrap returns the underlying error
func (e TaskError) Unwrap() error {
	return e.Err
}

// ParallelExecutor runs per-file work with bounded concurrency. Results
// keep input order, so a run with N workers reports exactly what a
// sequential run reports.
type ParallelExecutor struct {
	maxConcurrency int
	progress       domain.ProgressManager
}

// NewParallelExecutorFromConfig creates an executor from configuration.
// MaxWorkers 0 means one worker per CPU.
func NewParallelExecutorFromConfig(cfg *config.PerformanceConfig) *ParallelExecutor {
	maxConcurrency := cfg.MaxWorkers
	if maxConcurrency <= 0 {
		maxConcurrency = runtime.NumCPU()
	}
	return &ParallelExecutor{maxConcurrency: maxConcurrency}
}

// NewParallelExecutorWithProgress creates an executor reporting progress to pm
func NewParallelExecutorWithProgress(cfg *config.PerformanceConfig, pm domain.ProgressManager) *ParallelExecutor {
	executor := NewParallelExecutorFromConfig(cfg)
	executor.progress = pm
	return executor
}

// MaxConcurrency returns the configured number of workers
func (e *ParallelExecutor) MaxConcurrency() int {
	return e.maxConcurrency
}

// ExecuteOrdered runs fn for every item and returns the results in item
// order. The first failing item (in item order) stops the run and is
// returned as a TaskError; pending items are cancelled.
func ExecuteOrdered[T any](ctx context.Context, e *ParallelExecutor, description string, items []string, fn func(ctx context.Context, item string) (T, error)) ([]T, error) {
	results := make([]T, len(items))
	if len(items) == 0 {
		return results, nil
	}

	var task domain.TaskProgress = SilentProgress{}
	if e.progress != nil {
		task = e.progress.StartTask(description, len(items))
	}
	defer task.Complete()

	errs := make([]error, len(items))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(e.MaxConcurrency())

	for i, item := range items {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				errs[i] = err
				return err
			}

			result, err := fn(gCtx, item)
			task.Increment(1)
			if err != nil {
				errs[i] = TaskError{Item: item, Err: err}
				return errs[i]
			}
			results[i] = result
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		// report the earliest real failure rather than a cancellation
		for _, itemErr := range errs {
			if _, ok := itemErr.(TaskError); ok {
				return nil, itemErr
			}
		}
		return nil, err
	}

	return results, nil
}
