/*
Package workerpool provides a fixed-size worker pool built on conduit channels.

A pool runs WorkerCount goroutines, launched through a waitgroup.WaitGroup,
that take tasks from a channel.Channel queue and publish a Result for each
one on a second channel.

Basic usage:

	pool := workerpool.New(4, 100) // 4 workers, queue size 100
	defer pool.Shutdown()

	task := workerpool.TaskFunc(func(ctx context.Context) error {
		// Do work
		return nil
	})

	if err := pool.Submit(task); err != nil {
		log.Printf("Failed to submit: %v", err)
	}

	result, _ := pool.Results().Receive()
	if result.Error != nil {
		log.Printf("Task failed: %v", result.Error)
	}

Configuration Options:

	config := workerpool.Config{
		WorkerCount:     8,
		QueueSize:       1000,
		TaskTimeout:     30 * time.Second,
		BufferedResults: true,
		Logger:          logger, // *zap.Logger
		OnTaskComplete: func(workerID int, result Result) {
			logger.Debug("task done", zap.Duration("took", result.Duration))
		},
	}
	pool := workerpool.NewWithConfig(config)

NewSafe and NewWithConfigSafe return a validation error instead of panicking
on a non-positive WorkerCount or a negative QueueSize.

Queue Configurations:

	// Bounded queue
	pool := workerpool.New(4, 100)

	// Rendezvous queue - Submit waits until a worker takes the task
	pool := workerpool.New(4, 0)

Submission Methods:

	err := pool.Submit(task)
	err := pool.SubmitWithTimeout(task, time.Second)
	err := pool.SubmitWithContext(ctx, task)

SubmitWithContext passes ctx to the task as well. Submitting after shutdown
returns an error matching ErrPoolShutdown.

Result Processing:

Results is a channel.Channel that is closed once every worker has exited:

	for result := range pool.Results().All() {
		if result.Error != nil {
			log.Printf("Task failed: %v", result.Error)
		}
	}

A worker waits up to ResultTimeout (DefaultResultTimeout when zero) for a
consumer to take a result and drops it after that.

Error Handling:

Task errors are returned in Result.Error. A panicking task is recovered and
logged; the panic becomes Result.Error unless a PanicHandler is configured.

Graceful Shutdown:

	// Stop accepting tasks, run everything already queued
	<-pool.Shutdown()

	// Same, but cancel running and queued tasks after the timeout
	<-pool.ShutdownWithTimeout(30 * time.Second)

Metrics:

NewWithMetrics and NewWithConfigAndMetrics record executed, completed and
failed tasks, task durations and pool gauges in Prometheus.

Thread Safety:

All pool operations are safe for concurrent use from multiple goroutines.
*/
package workerpool
