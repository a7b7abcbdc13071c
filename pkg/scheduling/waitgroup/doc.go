/*
Package waitgroup provides a task-completion counter for fan-out and fan-in.

A WaitGroup counts outstanding tasks. Add raises the count, Done lowers it,
and Wait blocks until it reaches zero. Any number of goroutines may wait at
once; all are released together.

	wg := waitgroup.New()
	wg.Together(8, func(idx, n int) {
		processShard(idx, n)
	})
	wg.Wait()

Compared with sync.WaitGroup:

  - The zero value is usable and the group may be reused after reaching zero.
  - Done below zero is ignored rather than panicking.
  - WaitContext and WaitTimeout bound the wait.
  - Go and Together launch goroutines already tracked by the group.
  - TogetherFinally runs a callback exactly once, after the last task and
    before the count reaches zero.

Task Panics:

A panicking task still decrements the count, so siblings and waiters are
never stranded. The panic is captured as a *TaskError with its stack and
logged through Config.Logger. If Config.PanicHandler is set it receives the
error; otherwise the panic is re-raised, which terminates the program as an
unrecovered goroutine panic would.

Metrics:

NewWithMetrics records started, completed and panicked tasks, the
outstanding count and task durations in Prometheus.
*/
package waitgroup
