package workerpool

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/vnykmshr/conduit/pkg/metrics"
	"github.com/vnykmshr/conduit/pkg/streaming/channel"
)

// MetricsPool wraps a worker Pool with Prometheus metrics collection.
type MetricsPool struct {
	pool     Pool
	name     string
	registry atomic.Pointer[metrics.Registry]
	enabled  atomic.Bool
}

// NewWithMetrics creates a new worker pool with metrics enabled.
func NewWithMetrics(workerCount int, name string) Pool {
	// Use a separate registry for each metrics-enabled component to avoid conflicts
	config := metrics.Config{
		Enabled:  true,
		Registry: prometheus.NewRegistry(),
	}

	return NewWithConfigAndMetrics(Config{
		WorkerCount: workerCount,
		QueueSize:   0, // Rendezvous by default
	}, name, config)
}

// NewWithConfigAndMetrics creates a new worker pool with custom config and metrics.
// Task hooks already present in config still run, after the metrics are recorded.
func NewWithConfigAndMetrics(config Config, name string, metricsConfig metrics.Config) Pool {
	if !metricsConfig.Enabled {
		return NewWithConfig(config)
	}

	mp := &MetricsPool{name: name}
	mp.registry.Store(metrics.RegistryFor(metricsConfig))
	mp.enabled.Store(true)

	onStart, onComplete := config.OnTaskStart, config.OnTaskComplete
	config.OnTaskStart = func(workerID int, task Task) {
		mp.updateMetrics()
		if onStart != nil {
			onStart(workerID, task)
		}
	}
	config.OnTaskComplete = func(workerID int, result Result) {
		mp.recordResult(result)
		if onComplete != nil {
			onComplete(workerID, result)
		}
	}

	mp.pool = NewWithConfig(config)
	mp.updateMetrics()

	return mp
}

// active returns the registry to record into, or nil while metrics are disabled.
func (mp *MetricsPool) active() *metrics.Registry {
	if !mp.enabled.Load() {
		return nil
	}
	return mp.registry.Load()
}

// updateMetrics updates the current state metrics.
func (mp *MetricsPool) updateMetrics() {
	reg := mp.active()
	if reg == nil || mp.pool == nil {
		return
	}

	reg.WorkerPoolSize.WithLabelValues(mp.name).Set(float64(mp.pool.Size()))
	reg.WorkerPoolActive.WithLabelValues(mp.name).Set(float64(mp.pool.ActiveWorkers()))
	reg.WorkerPoolQueued.WithLabelValues(mp.name).Set(float64(mp.pool.QueueSize()))
}

// recordResult records a finished task.
func (mp *MetricsPool) recordResult(result Result) {
	reg := mp.active()
	if reg == nil {
		return
	}

	reg.TaskExecutionDuration.WithLabelValues(mp.name).Observe(result.Duration.Seconds())
	reg.TasksExecuted.WithLabelValues(mp.name).Inc()
	if result.Error != nil {
		reg.TasksFailed.WithLabelValues(mp.name).Inc()
	} else {
		reg.TasksCompleted.WithLabelValues(mp.name).Inc()
	}
	mp.updateMetrics()
}

// Submit adds a task to the pool for execution.
func (mp *MetricsPool) Submit(task Task) error {
	return mp.SubmitWithContext(context.Background(), task)
}

// SubmitWithTimeout submits a task with a timeout for queuing.
func (mp *MetricsPool) SubmitWithTimeout(task Task, timeout time.Duration) error {
	err := mp.pool.SubmitWithTimeout(task, timeout)
	mp.updateMetrics()
	return err
}

// SubmitWithContext submits a task with a context for cancellation.
func (mp *MetricsPool) SubmitWithContext(ctx context.Context, task Task) error {
	err := mp.pool.SubmitWithContext(ctx, task)
	mp.updateMetrics()
	return err
}

// Results returns the channel of task results.
func (mp *MetricsPool) Results() channel.Channel[Result] {
	return mp.pool.Results()
}

// Shutdown initiates graceful shutdown of the pool.
func (mp *MetricsPool) Shutdown() <-chan struct{} {
	return mp.pool.Shutdown()
}

// ShutdownWithTimeout shuts down the pool with a timeout.
func (mp *MetricsPool) ShutdownWithTimeout(timeout time.Duration) <-chan struct{} {
	return mp.pool.ShutdownWithTimeout(timeout)
}

// Size returns the current number of workers.
func (mp *MetricsPool) Size() int {
	return mp.pool.Size()
}

// QueueSize returns the current number of queued tasks.
func (mp *MetricsPool) QueueSize() int {
	queueSize := mp.pool.QueueSize()

	if reg := mp.active(); reg != nil {
		reg.WorkerPoolQueued.WithLabelValues(mp.name).Set(float64(queueSize))
	}

	return queueSize
}

// ActiveWorkers returns the number of workers currently executing tasks.
func (mp *MetricsPool) ActiveWorkers() int {
	activeWorkers := mp.pool.ActiveWorkers()

	if reg := mp.active(); reg != nil {
		reg.WorkerPoolActive.WithLabelValues(mp.name).Set(float64(activeWorkers))
	}

	return activeWorkers
}

// TotalSubmitted returns the total number of tasks submitted.
func (mp *MetricsPool) TotalSubmitted() int64 {
	return mp.pool.TotalSubmitted()
}

// TotalCompleted returns the total number of tasks completed.
func (mp *MetricsPool) TotalCompleted() int64 {
	return mp.pool.TotalCompleted()
}

// EnableMetrics enables metrics collection. A nil config.Registry keeps the
// current registry.
func (mp *MetricsPool) EnableMetrics(config metrics.Config) error {
	if config.Registry != nil {
		mp.registry.Store(metrics.RegistryFor(config))
	}
	mp.enabled.Store(config.Enabled)

	if config.Enabled {
		mp.updateMetrics()
	}

	return nil
}

// DisableMetrics disables metrics collection.
func (mp *MetricsPool) DisableMetrics() {
	mp.enabled.Store(false)
}

// MetricsEnabled returns true if metrics are currently enabled.
func (mp *MetricsPool) MetricsEnabled() bool {
	return mp.enabled.Load()
}

var _ metrics.Instrumentable = (*MetricsPool)(nil)
