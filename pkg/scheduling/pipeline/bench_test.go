package pipeline

import (
	"testing"
)

func benchmarkPipeline(b *testing.B, capacity, producers, workers int) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		src := Produce[int](capacity, producers, func(idx, n int, emit func(int) bool) {
			for v := idx; v < 10000; v += n {
				emit(v)
			}
		})
		out := Stage(src, workers, capacity, func(v int) int { return v + 1 })
		for range out.All() {
		}
	}
}

// BenchmarkPipelineRendezvous measures a produce/stage chain over rendezvous channels.
func BenchmarkPipelineRendezvous(b *testing.B) {
	benchmarkPipeline(b, 0, 4, 4)
}

// BenchmarkPipelineBuffered measures a produce/stage chain over buffered channels.
func BenchmarkPipelineBuffered(b *testing.B) {
	benchmarkPipeline(b, 1024, 4, 4)
}

// BenchmarkMerge measures fan-in of several producers.
func BenchmarkMerge(b *testing.B) {
	for i := 0; i < b.N; i++ {
		a := Produce[int](64, 1, func(_, _ int, emit func(int) bool) {
			for v := 0; v < 5000; v++ {
				emit(v)
			}
		})
		c := Produce[int](64, 1, func(_, _ int, emit func(int) bool) {
			for v := 0; v < 5000; v++ {
				emit(v)
			}
		})
		for range Merge(64, a, c).All() {
		}
	}
}
