/*
Package streaming groups the value-passing building blocks of conduit.

This package provides two components:

  - channel: A closable, capacity-bounded multi-producer multi-consumer channel
  - source: Producers that feed a channel from a slice, a generator, or a cron schedule

Basic usage:

	ch := channel.New[int](16)
	go func() {
		defer ch.Close()
		for i := 0; i < 100; i++ {
			ch.Send(i)
		}
	}()

	for v := range ch.All() {
		process(v)
	}

A channel differs from a built-in Go channel in three ways: sends on a closed
channel report false instead of panicking, Close is idempotent, and every
blocking operation has a context-aware and a non-blocking variant.
*/
package streaming
