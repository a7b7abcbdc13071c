package workerpool

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/vnykmshr/conduit/pkg/common/validation"
	"github.com/vnykmshr/conduit/pkg/scheduling/waitgroup"
	"github.com/vnykmshr/conduit/pkg/streaming/channel"
)

// DefaultResultTimeout bounds how long a worker waits to hand off a result
// before dropping it.
const DefaultResultTimeout = 100 * time.Millisecond

// Task represents a unit of work that can be executed by a worker.
type Task interface {
	// Execute runs the task with the given context.
	// It should respect context cancellation and return any error encountered.
	Execute(ctx context.Context) error
}

// TaskFunc is a function type that implements the Task interface.
type TaskFunc func(ctx context.Context) error

// Execute implements the Task interface for TaskFunc.
func (f TaskFunc) Execute(ctx context.Context) error {
	return f(ctx)
}

// Result represents the result of a task execution.
type Result struct {
	// Task is the original task that was executed
	Task Task

	// Error is any error that occurred during task execution
	Error error

	// Duration is how long the task took to execute
	Duration time.Duration

	// WorkerID identifies which worker executed the task
	WorkerID int
}

// Pool represents a worker pool that can execute tasks concurrently.
type Pool interface {
	// Submit adds a task to the pool for execution.
	// Returns an error if the pool is shut down or if the task cannot be queued.
	Submit(task Task) error

	// SubmitWithTimeout submits a task with a timeout for queuing.
	// If the task cannot be queued within the timeout, it returns an error.
	SubmitWithTimeout(task Task, timeout time.Duration) error

	// SubmitWithContext submits a task with a context for cancellation.
	// The context bounds the queuing and is also passed to the task.
	SubmitWithContext(ctx context.Context, task Task) error

	// Results returns the channel of task results.
	// It is closed once the pool is shut down and every worker has exited.
	Results() channel.Channel[Result]

	// Shutdown stops accepting tasks. Queued tasks are still executed.
	// Returns a channel that closes when shutdown is complete.
	Shutdown() <-chan struct{}

	// ShutdownWithTimeout shuts down the pool with a timeout.
	// If shutdown doesn't complete within the timeout, remaining tasks are canceled.
	ShutdownWithTimeout(timeout time.Duration) <-chan struct{}

	// Size returns the number of workers in the pool.
	Size() int

	// QueueSize returns the current number of queued tasks waiting for execution.
	QueueSize() int

	// ActiveWorkers returns the number of workers currently executing tasks.
	ActiveWorkers() int

	// TotalSubmitted returns the total number of tasks submitted to the pool.
	TotalSubmitted() int64

	// TotalCompleted returns the total number of tasks completed by the pool.
	TotalCompleted() int64
}

// Config holds configuration options for creating a worker pool.
type Config struct {
	// WorkerCount is the number of workers in the pool.
	// Must be greater than 0.
	WorkerCount int

	// QueueSize is the capacity of the task queue.
	// If 0, Submit waits until a worker takes the task.
	QueueSize int

	// TaskTimeout is the default timeout for individual task execution.
	// Zero means no timeout.
	TaskTimeout time.Duration

	// BufferedResults determines if results should be buffered.
	// Buffer size equals worker count.
	BufferedResults bool

	// ResultTimeout bounds how long a worker waits for a result consumer.
	// Zero uses DefaultResultTimeout.
	ResultTimeout time.Duration

	// Logger receives task panics and dropped results. Defaults to a no-op logger.
	Logger *zap.Logger

	// PanicHandler is called when a task panics.
	// If nil, the panic is reported as the task's Result.Error.
	PanicHandler func(task Task, recovered interface{})

	// OnWorkerStart is called when a worker starts.
	// Useful for per-worker initialization (e.g., database connections).
	OnWorkerStart func(workerID int)

	// OnWorkerStop is called when a worker stops.
	// Useful for per-worker cleanup.
	OnWorkerStop func(workerID int)

	// OnTaskStart is called before a task begins execution.
	OnTaskStart func(workerID int, task Task)

	// OnTaskComplete is called after a task completes (success or failure).
	OnTaskComplete func(workerID int, result Result)
}

// taskWithContext pairs a queued task with the context it was submitted with.
type taskWithContext struct {
	task Task
	ctx  context.Context
}

// workerPool implements the Pool interface.
type workerPool struct {
	config Config
	logger *zap.Logger

	queue   channel.Channel[taskWithContext]
	results channel.Channel[Result]
	workers *waitgroup.WaitGroup
	done    chan struct{}

	// ctx is canceled when a timed shutdown gives up on remaining tasks.
	ctx          context.Context
	cancel       context.CancelFunc
	shutdownOnce sync.Once

	activeWorkers  atomic.Int64
	totalSubmitted atomic.Int64
	totalCompleted atomic.Int64
}

// New creates a new worker pool with the specified number of workers and queue size.
// It panics on invalid arguments; use NewSafe to get an error instead.
func New(workerCount, queueSize int) Pool {
	pool, err := NewSafe(workerCount, queueSize)
	if err != nil {
		panic("invalid worker pool configuration: " + err.Error())
	}
	return pool
}

// NewSafe creates a new worker pool, returning an error on invalid arguments.
func NewSafe(workerCount, queueSize int) (Pool, error) {
	return NewWithConfigSafe(Config{
		WorkerCount: workerCount,
		QueueSize:   queueSize,
	})
}

// NewWithConfig creates a new worker pool with the specified configuration.
// It panics on an invalid configuration.
func NewWithConfig(config Config) Pool {
	pool, err := NewWithConfigSafe(config)
	if err != nil {
		panic("invalid worker pool configuration: " + err.Error())
	}
	return pool
}

// NewWithConfigSafe creates a new worker pool with the specified configuration,
// returning an error if it is invalid.
func NewWithConfigSafe(config Config) (Pool, error) {
	if err := validation.ValidatePositive("workerpool", "WorkerCount", config.WorkerCount); err != nil {
		return nil, err
	}
	if err := validation.ValidateNonNegative("workerpool", "QueueSize", config.QueueSize); err != nil {
		return nil, err
	}

	if config.ResultTimeout <= 0 {
		config.ResultTimeout = DefaultResultTimeout
	}
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	resultCapacity := 0
	if config.BufferedResults {
		resultCapacity = config.WorkerCount
	}

	ctx, cancel := context.WithCancel(context.Background())
	p := &workerPool{
		config:  config,
		logger:  logger,
		queue:   channel.New[taskWithContext](config.QueueSize),
		results: channel.New[Result](resultCapacity),
		done:    make(chan struct{}),
		ctx:     ctx,
		cancel:  cancel,
	}

	p.workers = waitgroup.NewWithConfig(waitgroup.Config{
		Name:   "workerpool",
		Logger: logger,
	})
	p.workers.TogetherFinally(config.WorkerCount, p.runWorker, p.finish)

	return p, nil
}
