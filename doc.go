/*
Package conduit provides closable channels and wait groups for Go, plus the
small set of helpers built on them.

Streaming (pkg/streaming):
  - channel: Closable generic channel, buffered or rendezvous, with Try and
    context-aware variants, iteration and statistics
  - source: Producers that feed a channel from a slice, a function or a cron schedule

Scheduling (pkg/scheduling):
  - waitgroup: Counting wait group with tracked goroutines, panic capture and timeouts
  - pipeline: Produce, Stage, Merge and Collect built from channels and wait groups
  - workerpool: Background task processing on a channel-backed queue

Helpers:
  - parallel/mtsort: Multi-threaded stable sort
  - shared: Lazily built, reference-counted shared instances
  - common/elapse: Elapsed time measurement

Example usage:

	import (
		"github.com/vnykmshr/conduit/pkg/scheduling/waitgroup"
		"github.com/vnykmshr/conduit/pkg/streaming/channel"
	)

	ch := channel.New[int](4)
	wg := waitgroup.New()

	wg.TogetherFinally(4, func(idx, n int) {
		for i := idx; i < 100; i += n {
			ch.Send(i)
		}
	}, func() { ch.Close() })

	sum := 0
	for v := range ch.All() {
		sum += v
	}
	wg.Wait()
*/
package conduit
