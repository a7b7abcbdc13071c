package pipeline

import (
	"fmt"
	"slices"
	"strings"
)

// Example demonstrates a producer, a transform stage and a collector.
func Example() {
	words := Produce[string](4, 1, func(_, _ int, emit func(string) bool) {
		for _, w := range []string{"alpha", "beta", "gamma"} {
			emit(w)
		}
	})

	upper := Stage(words, 1, 4, strings.ToUpper)

	fmt.Println(Collect(upper))

	// Output:
	// [ALPHA BETA GAMMA]
}

// Example_fanOut demonstrates several producers and workers sharing channels.
func Example_fanOut() {
	numbers := Produce[int](8, 4, func(idx, n int, emit func(int) bool) {
		for i := idx; i < 20; i += n {
			emit(i)
		}
	})

	squares := Stage(numbers, 3, 8, func(v int) int { return v * v })

	result := Collect(squares)
	slices.Sort(result)
	fmt.Println(len(result), result[:5])

	// Output:
	// 20 [0 1 4 9 16]
}

// Example_merge demonstrates joining independent streams.
func Example_merge() {
	evens := Produce[int](2, 1, func(_, _ int, emit func(int) bool) {
		emit(0)
		emit(2)
	})
	odds := Produce[int](2, 1, func(_, _ int, emit func(int) bool) {
		emit(1)
		emit(3)
	})

	all := Collect(Merge(4, evens, odds))
	slices.Sort(all)
	fmt.Println(all)

	// Output:
	// [0 1 2 3]
}
