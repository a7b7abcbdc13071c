package waitgroup

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// TaskError is a panic recovered from a task launched by a WaitGroup.
type TaskError struct {
	// Value is the value passed to panic.
	Value any

	// Stack is the stack of the panicking goroutine.
	Stack string
}

// Error returns the panic value.
func (e *TaskError) Error() string {
	return fmt.Sprintf("task panicked: %v", e.Value)
}

// Unwrap returns the panic value if it is an error.
func (e *TaskError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

func newTaskError(v any) *TaskError {
	buf := make([]byte, 8192)
	n := runtime.Stack(buf, false)
	return &TaskError{
		Value: v,
		Stack: string(buf[:n]),
	}
}

// Config holds optional behavior for a WaitGroup.
type Config struct {
	// Name identifies the group in log entries.
	Name string

	// Logger receives task panics. Defaults to a no-op logger.
	Logger *zap.Logger

	// PanicHandler receives panics from tasks. When nil, a panic is
	// re-raised on the task's goroutine after the count is decremented.
	PanicHandler func(err *TaskError)

	// OnTaskStart is called when a launched task begins.
	OnTaskStart func(id uint64)

	// OnTaskDone is called when a launched task ends, before its Done.
	// err is a *TaskError if the task panicked.
	OnTaskDone func(id uint64, duration time.Duration, err error)
}

// WaitGroup counts outstanding tasks and lets any number of goroutines wait
// for the count to reach zero. The zero value is ready to use.
//
// Unlike sync.WaitGroup, Done below zero is ignored, waiting can be bounded
// by a context or timeout, and Go and Together launch tracked goroutines.
type WaitGroup struct {
	config Config
	ids    atomic.Uint64

	mu    sync.Mutex
	count int
	zero  chan struct{} // closed when count drops to zero
}

// New creates a WaitGroup with default configuration.
func New() *WaitGroup {
	return &WaitGroup{}
}

// NewWithConfig creates a WaitGroup with the given configuration.
func NewWithConfig(config Config) *WaitGroup {
	return &WaitGroup{config: config}
}

// Add increases the outstanding count by n. Non-positive n is ignored.
//
// As with sync.WaitGroup, calls that raise the count from zero must happen
// before the Wait they are meant to hold back.
func (wg *WaitGroup) Add(n int) {
	if n <= 0 {
		return
	}

	wg.mu.Lock()
	defer wg.mu.Unlock()

	if wg.count == 0 {
		wg.zero = make(chan struct{})
	}
	wg.count += n
}

// Done decrements the outstanding count by one, never below zero, and
// releases every waiter when it reaches zero.
func (wg *WaitGroup) Done() {
	wg.mu.Lock()
	defer wg.mu.Unlock()

	if wg.count == 0 {
		return
	}
	wg.count--
	if wg.count == 0 {
		close(wg.zero)
		wg.zero = nil
	}
}

// Count returns the current outstanding count.
func (wg *WaitGroup) Count() int {
	wg.mu.Lock()
	defer wg.mu.Unlock()
	return wg.count
}

// Wait blocks until the count is zero.
func (wg *WaitGroup) Wait() {
	if zero := wg.waitChan(); zero != nil {
		<-zero
	}
}

// WaitContext blocks until the count is zero or ctx is done.
func (wg *WaitGroup) WaitContext(ctx context.Context) error {
	zero := wg.waitChan()
	if zero == nil {
		return nil
	}

	select {
	case <-zero:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// WaitTimeout waits until either the count reaches zero or the timeout
// elapses. It returns true if the count reached zero within the timeout.
func (wg *WaitGroup) WaitTimeout(timeout time.Duration) bool {
	zero := wg.waitChan()
	if zero == nil {
		return true
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-zero:
		return true
	case <-timer.C:
		return false
	}
}

// waitChan returns the channel closed at zero, or nil if the count is zero.
func (wg *WaitGroup) waitChan() <-chan struct{} {
	wg.mu.Lock()
	defer wg.mu.Unlock()
	if wg.count == 0 {
		return nil
	}
	return wg.zero
}

// Go runs task in a new goroutine tracked by the group.
func (wg *WaitGroup) Go(task func()) {
	wg.Add(1)
	go wg.run(task, nil)
}

// Together runs n copies of task concurrently, passing each its index and n.
// Non-positive n uses runtime.GOMAXPROCS(0).
func (wg *WaitGroup) Together(n int, task func(idx, n int)) {
	wg.TogetherFinally(n, task, nil)
}

// TogetherFinally is Together with a final callback. final runs exactly once,
// on the goroutine of whichever task finishes last, before that task's Done.
// Waiters therefore observe its effects.
func (wg *WaitGroup) TogetherFinally(n int, task func(idx, n int), final func()) {
	if n <= 0 {
		n = runtime.GOMAXPROCS(0)
	}

	var finish func()
	if final != nil {
		var remaining atomic.Int64
		remaining.Store(int64(n))
		finish = func() {
			if remaining.Add(-1) == 0 {
				final()
			}
		}
	}

	wg.Add(n)
	for i := 0; i < n; i++ {
		go wg.run(func() { task(i, n) }, finish)
	}
}

// run executes a tracked task. Done always runs, even if task panics; an
// unhandled panic is re-raised only after it.
func (wg *WaitGroup) run(task func(), finish func()) {
	id := wg.ids.Add(1)
	if hook := wg.config.OnTaskStart; hook != nil {
		hook(id)
	}
	start := time.Now()

	var unhandled *TaskError
	defer func() {
		if unhandled != nil {
			panic(unhandled)
		}
	}()
	defer wg.Done()
	defer func() {
		var taskErr *TaskError
		if r := recover(); r != nil {
			taskErr = newTaskError(r)
			wg.logger().Error("task panicked",
				zap.String("group", wg.config.Name),
				zap.Uint64("task_id", id),
				zap.Any("panic", r),
				zap.String("stack", taskErr.Stack),
			)
			if handler := wg.config.PanicHandler; handler != nil {
				handler(taskErr)
			} else {
				unhandled = taskErr
			}
		}

		if hook := wg.config.OnTaskDone; hook != nil {
			var err error
			if taskErr != nil {
				err = taskErr
			}
			hook(id, time.Since(start), err)
		}

		if finish != nil {
			finish()
		}
	}()

	task()
}

func (wg *WaitGroup) logger() *zap.Logger {
	if wg.config.Logger == nil {
		return zap.NewNop()
	}
	return wg.config.Logger
}
