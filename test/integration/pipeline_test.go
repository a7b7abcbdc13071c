package integration

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vnykmshr/conduit/internal/testutil"
	"github.com/vnykmshr/conduit/pkg/scheduling/pipeline"
	"github.com/vnykmshr/conduit/pkg/scheduling/workerpool"
	"github.com/vnykmshr/conduit/pkg/shared"
	"github.com/vnykmshr/conduit/pkg/streaming/source"
)

// TestSourceThroughStagesToCollect feeds a slice through two stages and a merge.
func TestSourceThroughStagesToCollect(t *testing.T) {
	words := []string{"alpha", "beta", "gamma", "delta", "epsilon", "zeta"}

	upper := pipeline.Stage(source.FromSlice(words, 2), 3, 2, strings.ToUpper)
	lengths := pipeline.Stage(source.FromSlice(words, 0), 2, 0, func(s string) string {
		return strings.Repeat("*", len(s))
	})

	got := pipeline.Collect(pipeline.Merge(4, upper, lengths))
	slices.Sort(got)

	assert.Len(t, got, 2*len(words))
	assert.Contains(t, got, "EPSILON")
	assert.Contains(t, got, "*******")
}

// TestGenerateIntoWorkerPool submits generated tasks to a pool and reads
// every result back through the pool's result channel.
func TestGenerateIntoWorkerPool(t *testing.T) {
	pool := workerpool.NewWithConfig(workerpool.Config{
		WorkerCount:     4,
		QueueSize:       0,
		BufferedResults: true,
		ResultTimeout:   testutil.TestTimeout,
	})

	var sum atomic.Int64
	tasks := source.Generate(0, func(i int) (workerpool.Task, bool) {
		n := int64(i)
		return workerpool.TaskFunc(func(context.Context) error {
			sum.Add(n)
			if n%10 == 0 {
				return errors.New("multiple of ten")
			}
			return nil
		}), i < 100
	})

	var failed atomic.Int64
	var received atomic.Int64
	consumer := testutil.Run(func() {
		for r := range pool.Results().All() {
			received.Add(1)
			if r.Error != nil {
				failed.Add(1)
			}
		}
	})

	for task := range tasks.All() {
		require.NoError(t, pool.Submit(task))
	}

	select {
	case <-pool.Shutdown():
	case <-time.After(testutil.TestTimeout):
		t.Fatal("pool did not shut down")
	}
	testutil.AssertCompletes(t, consumer)

	assert.EqualValues(t, 4950, sum.Load())
	assert.EqualValues(t, 100, received.Load())
	assert.EqualValues(t, 10, failed.Load())
	assert.EqualValues(t, 100, pool.TotalCompleted())
}

// TestSharedResourceAcrossWorkers has every task borrow the same shared
// instance; it is built once and evicted after the last release.
func TestSharedResourceAcrossWorkers(t *testing.T) {
	registry := shared.NewRegistry(shared.DefaultConfig())
	defer registry.Close()

	type client struct{ calls atomic.Int64 }
	var built atomic.Int64
	newClient := func() (*client, error) {
		built.Add(1)
		return &client{}, nil
	}

	anchor, err := shared.Get(registry, newClient)
	require.NoError(t, err)

	out := pipeline.Produce(0, 8, func(idx, _ int, emit func(int64) bool) {
		h, err := shared.Get(registry, newClient)
		if err != nil {
			return
		}
		defer h.Release()
		emit(h.Value().calls.Add(1))
	})
	got := pipeline.Collect(out)

	assert.Len(t, got, 8)
	assert.EqualValues(t, 1, built.Load())
	assert.EqualValues(t, 8, anchor.Value().calls.Load())

	anchor.Release()
	assert.Equal(t, 0, registry.Len())
}

// TestEarlyConsumerCloseStopsUpstream closes the end of a pipeline and
// checks that the producer notices.
func TestEarlyConsumerCloseStopsUpstream(t *testing.T) {
	var produced atomic.Int64
	upstream := source.Generate(0, func(i int) (int, bool) {
		produced.Add(1)
		return i, true
	})

	doubled := pipeline.Stage(upstream, 1, 0, func(v int) int { return v * 2 })
	for v := range doubled.All() {
		if v >= 20 {
			break
		}
	}
	require.NoError(t, doubled.Close())

	testutil.AssertEventually(t, upstream.IsClosed)
	n := produced.Load()
	assert.Less(t, n, int64(100))
}
