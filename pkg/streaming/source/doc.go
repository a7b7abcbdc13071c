// Package source provides producers that feed a channel.Channel.
//
// FromSlice and Generate turn a slice or a function into a channel that is
// closed once the values run out. Both stop early if the consumer closes the
// channel first.
//
//	ch := source.FromSlice([]string{"a", "b", "c"}, 0)
//	for s := range ch.All() {
//		fmt.Println(s)
//	}
//
// Ticker delivers the fire times of a cron expression. Expressions take a
// leading seconds field and the usual descriptors:
//
//	ticker, err := source.NewTicker("*/5 * * * * *", source.DefaultTickerConfig())
//	if err != nil {
//		return err
//	}
//	defer ticker.Stop()
//
//	for t := range ticker.C().All() {
//		refresh(t)
//	}
//
// Like time.Ticker, a tick nobody is ready for is dropped rather than queued.
// Dropped reports how many were lost.
package source
