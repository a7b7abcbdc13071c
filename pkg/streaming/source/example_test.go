package source_test

import (
	"fmt"

	"github.com/vnykmshr/conduit/pkg/streaming/source"
)

func ExampleFromSlice() {
	ch := source.FromSlice([]string{"alpha", "beta", "gamma"}, 0)

	for s := range ch.All() {
		fmt.Println(s)
	}

	// Output:
	// alpha
	// beta
	// gamma
}

func ExampleGenerate() {
	squares := source.Generate(4, func(i int) (int, bool) {
		return i * i, i < 4
	})

	sum := 0
	for v := range squares.All() {
		sum += v
	}
	fmt.Println("sum:", sum)

	// Output:
	// sum: 14
}

func ExampleNewTicker() {
	ticker, err := source.NewTicker("@every 1m", source.DefaultTickerConfig())
	if err != nil {
		fmt.Println(err)
		return
	}
	defer ticker.Stop()

	fmt.Println(ticker.Expr(), ticker.C().Cap())

	// Output:
	// @every 1m 1
}
