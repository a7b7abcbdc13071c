/*
Package scheduling provides task execution primitives built on conduit channels.

  - waitgroup: Counting wait group that launches and tracks goroutines
  - pipeline: Producer, stage and fan-in composition over channels
  - workerpool: Fixed worker pool for concurrent task execution

Wait Group:

	wg := waitgroup.New()
	wg.Together(8, func(idx, n int) {
		process(idx, n)
	})
	if !wg.WaitTimeout(time.Minute) {
		log.Println("workers still running")
	}

Pipeline:

	lines := pipeline.Produce(16, 1, readLines)
	words := pipeline.Stage(lines, 4, 16, splitWords)
	all := pipeline.Collect(words)

Worker Pool:

	pool := workerpool.New(4, 100) // 4 workers, queue size 100
	defer pool.Shutdown()

	task := workerpool.TaskFunc(func(ctx context.Context) error {
		// Do work
		return nil
	})

	pool.Submit(task)
	result, ok := pool.Results().Receive()

All scheduling components are safe for concurrent use.
*/
package scheduling
