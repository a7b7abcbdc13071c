/*
Package pipeline composes channels and wait groups into producer and
consumer stages.

Each function starts its goroutines through a waitgroup.WaitGroup and
returns a channel.Channel. The output channel is closed by whichever
goroutine finishes last, so a downstream range over All terminates on its
own.

# Quick Start

	numbers := pipeline.Produce[int](16, 4, func(idx, n int, emit func(int) bool) {
		for i := idx; i < 1000; i += n {
			if !emit(i) {
				return // downstream closed
			}
		}
	})

	squares := pipeline.Stage(numbers, 8, 16, func(v int) int { return v * v })

	for v := range squares.All() {
		fmt.Println(v)
	}

# Stages

Produce runs producers goroutines, each given its index, the producer count
and an emit function. Stage runs workers goroutines reading one channel and
writing another. Merge joins several channels into one. Collect drains a
channel into a slice.

# Ordering

Values from a single producer arrive in the order emitted. A Stage with one
worker preserves order; with several, results interleave.

# Early Termination

Closing a stage's output makes its workers close their input, which in turn
makes emit return false in the producers. Values still buffered upstream
are discarded.
*/
package pipeline
