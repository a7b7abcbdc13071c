// Package mtsort sorts large slices on several goroutines.
//
// The slice is cut into one run per worker, the runs are sorted in parallel
// with slices.SortStableFunc, and neighbouring runs are then merged pairwise
// in parallel rounds. The merge prefers the left run on ties, so the result
// is identical to a single-threaded stable sort.
//
//	mtsort.SortFunc(users, func(a, b User) int {
//		return cmp.Compare(a.LastSeen, b.LastSeen)
//	})
//
// Merging needs a scratch buffer the size of the input. Slices shorter than
// 2*MinChunk are sorted on the calling goroutine.
package mtsort
