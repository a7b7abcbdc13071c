package workerpool

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"go.uber.org/zap"

	gferrors "github.com/vnykmshr/conduit/pkg/common/errors"
	"github.com/vnykmshr/conduit/pkg/streaming/channel"
)

// ErrPoolShutdown is returned when submitting to a pool that has been shut down.
var ErrPoolShutdown = errors.New("worker pool has been shut down")

// ErrNilTask is returned when submitting a nil task.
var ErrNilTask = errors.New("task cannot be nil")

// Submit adds a task to the pool for execution.
// The task will be executed with context.Background().
// Use SubmitWithContext to provide a custom context.
func (p *workerPool) Submit(task Task) error {
	return p.SubmitWithContext(context.Background(), task)
}

// SubmitWithTimeout submits a task, giving up if it cannot be queued in time.
// Expiry returns an error matching ErrTimeout from pkg/common/errors.
func (p *workerPool) SubmitWithTimeout(task Task, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	err := p.submit(ctx, context.Background(), task)
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("cannot submit task within %v: %w", timeout, gferrors.ErrTimeout)
	}
	return err
}

// SubmitWithContext adds a task to the pool for execution with the given context.
// The context is passed to the task's Execute method, enabling timeout and
// cancellation propagation. If the pool has a TaskTimeout configured, the
// effective timeout will be the minimum of the context deadline and TaskTimeout.
func (p *workerPool) SubmitWithContext(ctx context.Context, task Task) error {
	if ctx == nil {
		ctx = context.Background()
	}
	return p.submit(ctx, ctx, task)
}

// submit queues task. queueCtx bounds the wait for queue space; taskCtx is
// handed to the task.
func (p *workerPool) submit(queueCtx, taskCtx context.Context, task Task) error {
	if task == nil {
		return ErrNilTask
	}

	// Check if context is already canceled before attempting to queue
	// This ensures deterministic behavior for pre-canceled contexts
	if err := queueCtx.Err(); err != nil {
		return fmt.Errorf("cannot submit task: %w", err)
	}

	err := p.queue.SendContext(queueCtx, taskWithContext{task: task, ctx: taskCtx})
	switch {
	case err == nil:
		p.totalSubmitted.Add(1)
		return nil
	case errors.Is(err, channel.ErrClosed):
		return fmt.Errorf("cannot submit task: %w", ErrPoolShutdown)
	default:
		return fmt.Errorf("cannot submit task: %w", err)
	}
}

// Results returns the channel of task results.
func (p *workerPool) Results() channel.Channel[Result] {
	return p.results
}

// Shutdown stops accepting tasks and lets workers drain the queue.
func (p *workerPool) Shutdown() <-chan struct{} {
	p.shutdownOnce.Do(func() {
		p.queue.Close()
	})
	return p.done
}

// ShutdownWithTimeout shuts down the pool, canceling whatever is still
// queued or running once the timeout elapses.
func (p *workerPool) ShutdownWithTimeout(timeout time.Duration) <-chan struct{} {
	done := p.Shutdown()

	go func() {
		timer := time.NewTimer(timeout)
		defer timer.Stop()

		select {
		case <-done:
		case <-timer.C:
			p.logger.Warn("shutdown timed out, canceling remaining tasks",
				zap.Duration("timeout", timeout))
			p.cancel()
		}
	}()

	return done
}

// Size returns the number of workers in the pool.
func (p *workerPool) Size() int {
	return p.config.WorkerCount
}

// QueueSize returns the current number of queued tasks waiting for execution.
func (p *workerPool) QueueSize() int {
	return p.queue.Len()
}

// ActiveWorkers returns the number of workers currently executing tasks.
func (p *workerPool) ActiveWorkers() int {
	return int(p.activeWorkers.Load())
}

// TotalSubmitted returns the total number of tasks submitted to the pool.
func (p *workerPool) TotalSubmitted() int64 {
	return p.totalSubmitted.Load()
}

// TotalCompleted returns the total number of tasks completed by the pool.
func (p *workerPool) TotalCompleted() int64 {
	return p.totalCompleted.Load()
}

// runWorker is the main loop for a worker. It returns once the queue is
// closed and drained.
func (p *workerPool) runWorker(workerID, _ int) {
	if hook := p.config.OnWorkerStart; hook != nil {
		hook(workerID)
	}
	if hook := p.config.OnWorkerStop; hook != nil {
		defer hook(workerID)
	}

	for twc := range p.queue.All() {
		p.sendResult(p.executeTask(workerID, twc))
	}
}

// finish runs after the last worker exits.
func (p *workerPool) finish() {
	p.results.Close()
	p.cancel()
	close(p.done)
}

// sendResult hands a result to the consumer, dropping it if nobody takes it
// within ResultTimeout.
func (p *workerPool) sendResult(result Result) {
	ctx, cancel := context.WithTimeout(p.ctx, p.config.ResultTimeout)
	defer cancel()

	if err := p.results.SendContext(ctx, result); err != nil {
		p.logger.Debug("result dropped",
			zap.Int("worker_id", result.WorkerID),
			zap.Error(err))
	}
}

// executeTask executes a single task with the provided context.
func (p *workerPool) executeTask(workerID int, twc taskWithContext) (result Result) {
	start := time.Now()
	result = Result{Task: twc.task, WorkerID: workerID}

	p.activeWorkers.Add(1)
	defer func() {
		p.activeWorkers.Add(-1)
		p.totalCompleted.Add(1)
		if hook := p.config.OnTaskComplete; hook != nil {
			hook(workerID, result)
		}
	}()

	// Handle panics during task execution
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("task panicked",
				zap.Int("worker_id", workerID),
				zap.Any("panic", r))
			if p.config.PanicHandler != nil {
				p.config.PanicHandler(twc.task, r)
				result.Error = nil
			} else {
				result.Error = fmt.Errorf("task panicked: %v\nStack trace:\n%s", r, debug.Stack())
			}
		}
		result.Duration = time.Since(start)
	}()

	if hook := p.config.OnTaskStart; hook != nil {
		hook(workerID, twc.task)
	}

	// A timed-out shutdown skips whatever is still queued.
	if err := p.ctx.Err(); err != nil {
		result.Error = err
		return result
	}

	ctx := twc.ctx
	if ctx == nil {
		ctx = context.Background()
	}

	// Apply TaskTimeout if configured
	// The effective timeout is the minimum of the context deadline and TaskTimeout
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	if p.config.TaskTimeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, p.config.TaskTimeout)
		defer cancel()
	}
	stop := context.AfterFunc(p.ctx, cancel)
	defer stop()

	result.Error = twc.task.Execute(ctx)
	return result
}
