package mtsort

import (
	"cmp"
	"runtime"
	"slices"

	"github.com/vnykmshr/conduit/pkg/scheduling/waitgroup"
)

// MinChunk is the smallest run a worker is given. Inputs shorter than two
// chunks are sorted on the calling goroutine.
const MinChunk = 2048

// Sort sorts s in ascending order using up to GOMAXPROCS goroutines.
// Equal elements keep their relative order.
func Sort[S ~[]E, E cmp.Ordered](s S) {
	SortFuncN(s, cmp.Compare[E], 0)
}

// SortFunc sorts s by cmp using up to GOMAXPROCS goroutines. The result is
// the same as slices.SortStableFunc.
func SortFunc[S ~[]E, E any](s S, cmp func(a, b E) int) {
	SortFuncN(s, cmp, 0)
}

// SortFuncN is SortFunc with at most workers goroutines. Non-positive
// workers uses GOMAXPROCS.
func SortFuncN[S ~[]E, E any](s S, cmp func(a, b E) int, workers int) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	chunks := min(workers, len(s)/MinChunk)
	if chunks < 2 {
		slices.SortStableFunc(s, cmp)
		return
	}

	bounds := make([]int, chunks+1)
	for i := range bounds {
		bounds[i] = i * len(s) / chunks
	}

	wg := waitgroup.New()
	wg.Together(chunks, func(idx, _ int) {
		slices.SortStableFunc(s[bounds[idx]:bounds[idx+1]], cmp)
	})
	wg.Wait()

	// Merge adjacent runs pairwise until one remains, alternating between s
	// and a scratch buffer.
	src, dst := s, make(S, len(s))
	for len(bounds) > 2 {
		runs := len(bounds) - 1
		pairs := (runs + 1) / 2
		wg.Together(pairs, func(idx, _ int) {
			lo := bounds[2*idx]
			if 2*idx+1 == runs {
				// Odd run out.
				copy(dst[lo:], src[lo:bounds[runs]])
				return
			}
			mid, hi := bounds[2*idx+1], bounds[2*idx+2]
			merge(dst[lo:hi], src[lo:mid], src[mid:hi], cmp)
		})
		wg.Wait()

		next := make([]int, 0, pairs+1)
		for i := 0; i < len(bounds); i += 2 {
			next = append(next, bounds[i])
		}
		if next[len(next)-1] != len(s) {
			next = append(next, len(s))
		}
		bounds = next
		src, dst = dst, src
	}

	if &src[0] != &s[0] {
		copy(s, src)
	}
}

// merge writes the stable merge of sorted runs a and b into dst. Ties take
// from a, which precedes b in the input.
func merge[S ~[]E, E any](dst, a, b S, cmp func(a, b E) int) {
	i, j, k := 0, 0, 0
	for i < len(a) && j < len(b) {
		if cmp(b[j], a[i]) < 0 {
			dst[k] = b[j]
			j++
		} else {
			dst[k] = a[i]
			i++
		}
		k++
	}
	k += copy(dst[k:], a[i:])
	copy(dst[k:], b[j:])
}
