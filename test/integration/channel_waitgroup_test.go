package integration

import (
	"math/rand"
	"slices"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vnykmshr/conduit/internal/testutil"
	"github.com/vnykmshr/conduit/pkg/parallel/mtsort"
	"github.com/vnykmshr/conduit/pkg/scheduling/waitgroup"
	"github.com/vnykmshr/conduit/pkg/streaming/channel"
)

// TestRendezvousStreamInOrder sends 0..999 over an unbuffered channel and
// drains it by iteration.
func TestRendezvousStreamInOrder(t *testing.T) {
	ch := channel.New[int](0)

	wg := waitgroup.New()
	wg.Go(func() {
		defer ch.Close()
		for i := 0; i < 1000; i++ {
			ch.Send(i)
		}
	})

	got := slices.Collect(ch.All())
	wg.Wait()

	require.Len(t, got, 1000)
	for i, v := range got {
		require.Equal(t, i, v)
	}
	assert.True(t, ch.IsExhausted())
}

// TestFourProducersManyConsumers has four producers send disjoint ranges
// into a small buffer; the last one to finish closes the channel.
func TestFourProducersManyConsumers(t *testing.T) {
	for _, consumers := range []int{1, 3, 8} {
		ch := channel.New[int](4)

		producers := waitgroup.New()
		producers.TogetherFinally(4, func(idx, _ int) {
			for i := idx * 250; i < (idx+1)*250; i++ {
				ch.Send(i)
			}
		}, func() { ch.Close() })

		var mu sync.Mutex
		var collected []int
		drain := waitgroup.New()
		drain.Together(consumers, func(_, _ int) {
			var local []int
			for v := range ch.All() {
				local = append(local, v)
			}
			mu.Lock()
			collected = append(collected, local...)
			mu.Unlock()
		})

		require.True(t, drain.WaitTimeout(testutil.TestTimeout), "consumers did not finish")
		producers.Wait()

		mtsort.Sort(collected)
		require.Len(t, collected, 1000, "consumers=%d", consumers)
		for i, v := range collected {
			require.Equal(t, i, v, "consumers=%d", consumers)
		}
	}
}

func TestTrySendOnFullChannelDoesNotBlock(t *testing.T) {
	ch := channel.New[string](1)
	require.NoError(t, ch.TrySend("queued"))

	start := time.Now()
	err := ch.TrySend("overflow")
	assert.ErrorIs(t, err, channel.ErrWouldBlock)
	assert.Less(t, time.Since(start), 50*time.Millisecond)
	assert.Equal(t, 1, ch.Len())
}

func TestReceiveOnClosedEmptyChannel(t *testing.T) {
	ch := channel.New[int](3)
	require.NoError(t, ch.Close())

	done := testutil.Run(func() {
		_, ok := ch.Receive()
		assert.False(t, ok)
	})
	testutil.AssertCompletes(t, done)
}

// TestTogetherWaitsForAll runs eight tasks of random length and checks that
// Wait returns only after every one has finished.
func TestTogetherWaitsForAll(t *testing.T) {
	var finished atomic.Int64

	wg := waitgroup.New()
	wg.Together(8, func(_, _ int) {
		time.Sleep(time.Duration(rand.Intn(20)+1) * time.Millisecond)
		finished.Add(1)
	})
	wg.Wait()

	assert.EqualValues(t, 8, finished.Load())
	assert.Equal(t, 0, wg.Count())
}

// TestPanickingProducerStillClosesChannel checks that TogetherFinally's
// final callback runs even when a task panics.
func TestPanickingProducerStillClosesChannel(t *testing.T) {
	var panics atomic.Int64
	wg := waitgroup.NewWithConfig(waitgroup.Config{
		PanicHandler: func(*waitgroup.TaskError) { panics.Add(1) },
	})

	ch := channel.New[int](8)
	wg.TogetherFinally(3, func(idx, _ int) {
		if idx == 1 {
			panic("producer failed")
		}
		ch.Send(idx)
	}, func() { ch.Close() })

	got := slices.Collect(ch.All())
	wg.Wait()

	slices.Sort(got)
	assert.Equal(t, []int{0, 2}, got)
	assert.EqualValues(t, 1, panics.Load())
}

// TestCloseWhileBlocked closes a rendezvous channel with senders and
// receivers parked on it.
func TestCloseWhileBlocked(t *testing.T) {
	senders := channel.New[int](0)
	var rejected atomic.Int64
	wg := waitgroup.New()
	wg.Together(4, func(idx, _ int) {
		if !senders.Send(idx) {
			rejected.Add(1)
		}
	})

	receivers := channel.New[int](0)
	var exhausted atomic.Int64
	wg.Together(4, func(_, _ int) {
		if _, ok := receivers.Receive(); !ok {
			exhausted.Add(1)
		}
	})

	testutil.AssertEventually(t, func() bool {
		s, r := senders.Stats(), receivers.Stats()
		return s.BlockedSends == 4 && r.BlockedReceives == 4
	})

	require.NoError(t, senders.Close())
	require.NoError(t, receivers.Close())
	require.True(t, wg.WaitTimeout(testutil.TestTimeout))

	assert.EqualValues(t, 4, rejected.Load())
	assert.EqualValues(t, 4, exhausted.Load())
}
