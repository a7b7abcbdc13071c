package source

import (
	"github.com/vnykmshr/conduit/pkg/streaming/channel"
)

// FromSlice returns a channel that yields items in order and is then closed.
// If the consumer closes the channel early, the remaining items are skipped.
func FromSlice[T any](items []T, capacity int) channel.Channel[T] {
	ch := channel.New[T](capacity)

	// Everything fits: no goroutine needed.
	if capacity >= len(items) {
		for _, item := range items {
			ch.Send(item)
		}
		ch.Close()
		return ch
	}

	go func() {
		defer ch.Close()
		for _, item := range items {
			if !ch.Send(item) {
				return
			}
		}
	}()

	return ch
}

// Generate returns a channel fed by fn, called with 0, 1, 2, ... until it
// reports false or the consumer closes the channel.
func Generate[T any](capacity int, fn func(i int) (T, bool)) channel.Channel[T] {
	ch := channel.New[T](capacity)

	go func() {
		defer ch.Close()
		for i := 0; ; i++ {
			v, ok := fn(i)
			if !ok || !ch.Send(v) {
				return
			}
		}
	}()

	return ch
}
