package workerpool

import (
	"context"
	"strconv"
	"testing"
	"time"
)

var noop = TaskFunc(func(context.Context) error { return nil })

// drain consumes results until the pool's result channel is closed.
func drain(pool Pool) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		for range pool.Results().All() {
		}
	}()
	return done
}

// BenchmarkQueueCapacity compares a rendezvous queue, where Submit waits for
// a worker to take the task, against buffered queues.
func BenchmarkQueueCapacity(b *testing.B) {
	for _, queue := range []int{0, 1, 64, 1024} {
		name := "rendezvous"
		if queue > 0 {
			name = "buffered_" + strconv.Itoa(queue)
		}
		b.Run(name, func(b *testing.B) {
			pool := NewWithConfig(Config{
				WorkerCount:     4,
				QueueSize:       queue,
				BufferedResults: true,
			})
			done := drain(pool)

			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				_ = pool.Submit(noop)
			}
			<-pool.Shutdown()
			b.StopTimer()
			<-done
		})
	}
}

// BenchmarkResultDelivery compares handing every result to a consumer with
// letting each one time out and be dropped.
func BenchmarkResultDelivery(b *testing.B) {
	b.Run("consumed", func(b *testing.B) {
		pool := NewWithConfig(Config{WorkerCount: 4, QueueSize: 64})
		done := drain(pool)

		b.ReportAllocs()
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			_ = pool.Submit(noop)
		}
		<-pool.Shutdown()
		b.StopTimer()
		<-done
	})

	b.Run("dropped", func(b *testing.B) {
		pool := NewWithConfig(Config{
			WorkerCount:   4,
			QueueSize:     64,
			ResultTimeout: time.Microsecond,
		})

		b.ReportAllocs()
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			_ = pool.Submit(noop)
		}
		<-pool.Shutdown()
	})
}

// BenchmarkShutdownDrain measures shutting down with a full queue: workers
// drain it and the last one to exit closes the results.
func BenchmarkShutdownDrain(b *testing.B) {
	const queued = 256

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		pool := NewWithConfig(Config{
			WorkerCount:     4,
			QueueSize:       queued,
			BufferedResults: true,
		})
		done := drain(pool)
		for j := 0; j < queued; j++ {
			_ = pool.Submit(noop)
		}

		<-pool.Shutdown()
		<-done
	}
}

// BenchmarkPanicRecovery measures tasks that panic and are reported as errors.
func BenchmarkPanicRecovery(b *testing.B) {
	pool := NewWithConfig(Config{WorkerCount: 4, QueueSize: 64, BufferedResults: true})
	done := drain(pool)

	task := TaskFunc(func(context.Context) error { panic("bench") })

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = pool.Submit(task)
	}
	<-pool.Shutdown()
	b.StopTimer()
	<-done
}
