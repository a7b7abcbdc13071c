package pipeline

import (
	"github.com/vnykmshr/conduit/pkg/scheduling/waitgroup"
	"github.com/vnykmshr/conduit/pkg/streaming/channel"
)

// Produce starts producers goroutines that emit into a new channel of the
// given capacity. Each call to fn receives its index, the producer count and
// an emit function that reports false once the channel has been closed. The
// channel is closed after the last producer returns.
//
// Non-positive producers uses runtime.GOMAXPROCS(0).
func Produce[T any](capacity, producers int, fn func(idx, n int, emit func(T) bool)) channel.Channel[T] {
	out := channel.New[T](capacity)

	wg := waitgroup.New()
	wg.TogetherFinally(producers, func(idx, n int) {
		fn(idx, n, out.Send)
	}, func() {
		out.Close()
	})

	return out
}

// Stage applies fn to every value of in using workers goroutines and sends
// the results to a new channel, which is closed once in is exhausted.
//
// With more than one worker, output order across values is not preserved.
// If the output channel is closed by a consumer, Stage closes in as well so
// that upstream producers stop.
func Stage[In, Out any](in channel.Channel[In], workers, capacity int, fn func(In) Out) channel.Channel[Out] {
	out := channel.New[Out](capacity)

	wg := waitgroup.New()
	wg.TogetherFinally(workers, func(int, int) {
		for v := range in.All() {
			if !out.Send(fn(v)) {
				in.Close()
				return
			}
		}
	}, func() {
		out.Close()
	})

	return out
}

// Merge forwards every value of ins into a single new channel, which is
// closed once all inputs are exhausted. Values from one input keep their
// relative order.
func Merge[T any](capacity int, ins ...channel.Channel[T]) channel.Channel[T] {
	out := channel.New[T](capacity)
	if len(ins) == 0 {
		out.Close()
		return out
	}

	wg := waitgroup.New()
	wg.TogetherFinally(len(ins), func(idx, _ int) {
		in := ins[idx]
		for v := range in.All() {
			if !out.Send(v) {
				in.Close()
				return
			}
		}
	}, func() {
		out.Close()
	})

	return out
}

// Collect receives from in until it is exhausted and returns the values in
// the order received.
func Collect[T any](in channel.Channel[T]) []T {
	var values []T
	for v := range in.All() {
		values = append(values, v)
	}
	return values
}
