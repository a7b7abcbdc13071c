package channel

import (
	"context"
	"errors"
	"iter"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/vnykmshr/conduit/pkg/metrics"
)

// Outcome label values for the send and receive counters.
const (
	outcomeAccepted   = "accepted"
	outcomeRejected   = "rejected"
	outcomeReceived   = "received"
	outcomeExhausted  = "exhausted"
	outcomeWouldBlock = "would_block"
	outcomeCanceled   = "canceled"
)

// MetricsChannel wraps a Channel with Prometheus metrics collection.
type MetricsChannel[T any] struct {
	ch       Channel[T]
	name     string
	registry atomic.Pointer[metrics.Registry]
	enabled  atomic.Bool
}

// NewWithMetrics creates a new channel with metrics enabled.
func NewWithMetrics[T any](capacity int, name string) (*MetricsChannel[T], error) {
	// Separate registry per component so repeated names do not collide.
	config := metrics.Config{
		Enabled:  true,
		Registry: prometheus.NewRegistry(),
	}

	return NewWithConfigAndMetrics[T](Config{Capacity: capacity}, name, config)
}

// NewWithConfigAndMetrics creates a new channel with custom config and metrics.
func NewWithConfigAndMetrics[T any](config Config, name string, metricsConfig metrics.Config) (*MetricsChannel[T], error) {
	base, err := NewWithConfig[T](config)
	if err != nil {
		return nil, err
	}

	mc := &MetricsChannel[T]{
		ch:   base,
		name: name,
	}
	if err := mc.EnableMetrics(metricsConfig); err != nil {
		return nil, err
	}
	return mc, nil
}

// active returns the registry to record into, or nil while metrics are disabled.
func (mc *MetricsChannel[T]) active() *metrics.Registry {
	if !mc.enabled.Load() {
		return nil
	}
	return mc.registry.Load()
}

// updateMetrics updates the current state gauges.
func (mc *MetricsChannel[T]) updateMetrics() {
	if reg := mc.active(); reg != nil {
		mc.updateGauges(reg)
	}
}

func (mc *MetricsChannel[T]) updateGauges(reg *metrics.Registry) {
	reg.ChannelBufferUsage.WithLabelValues(mc.name).Set(float64(mc.ch.Len()))
	reg.ChannelCapacity.WithLabelValues(mc.name).Set(float64(mc.ch.Cap()))
	closed := 0.0
	if mc.ch.IsClosed() {
		closed = 1
	}
	reg.ChannelClosed.WithLabelValues(mc.name).Set(closed)
}

func (mc *MetricsChannel[T]) recordSend(err error, start time.Time, blocking bool) {
	reg := mc.active()
	if reg == nil {
		return
	}

	outcome := outcomeAccepted
	switch {
	case err == nil:
	case errors.Is(err, ErrClosed):
		outcome = outcomeRejected
	case errors.Is(err, ErrWouldBlock):
		outcome = outcomeWouldBlock
	default:
		outcome = outcomeCanceled
	}

	reg.ChannelSends.WithLabelValues(mc.name, outcome).Inc()
	if blocking {
		reg.ChannelWaitDuration.WithLabelValues(mc.name, "send").Observe(time.Since(start).Seconds())
	}
	mc.updateGauges(reg)
}

func (mc *MetricsChannel[T]) recordReceive(err error, start time.Time, blocking bool) {
	reg := mc.active()
	if reg == nil {
		return
	}

	outcome := outcomeReceived
	switch {
	case err == nil:
	case errors.Is(err, ErrExhausted):
		outcome = outcomeExhausted
	case errors.Is(err, ErrWouldBlock):
		outcome = outcomeWouldBlock
	default:
		outcome = outcomeCanceled
	}

	reg.ChannelReceives.WithLabelValues(mc.name, outcome).Inc()
	if blocking {
		reg.ChannelWaitDuration.WithLabelValues(mc.name, "receive").Observe(time.Since(start).Seconds())
	}
	mc.updateGauges(reg)
}

// Send blocks until value is accepted or the channel is closed.
func (mc *MetricsChannel[T]) Send(value T) bool {
	return mc.SendContext(context.Background(), value) == nil
}

// SendContext sends with cancellation and records the outcome.
func (mc *MetricsChannel[T]) SendContext(ctx context.Context, value T) error {
	start := time.Now()
	err := mc.ch.SendContext(ctx, value)
	mc.recordSend(err, start, true)
	return err
}

// TrySend attempts a non-blocking send and records the outcome.
func (mc *MetricsChannel[T]) TrySend(value T) error {
	err := mc.ch.TrySend(value)
	mc.recordSend(err, time.Time{}, false)
	return err
}

// Receive blocks until a value is available or the channel is exhausted.
func (mc *MetricsChannel[T]) Receive() (T, bool) {
	value, err := mc.ReceiveContext(context.Background())
	return value, err == nil
}

// ReceiveContext receives with cancellation and records the outcome.
func (mc *MetricsChannel[T]) ReceiveContext(ctx context.Context) (T, error) {
	start := time.Now()
	value, err := mc.ch.ReceiveContext(ctx)
	mc.recordReceive(err, start, true)
	return value, err
}

// TryReceive attempts a non-blocking receive and records the outcome.
func (mc *MetricsChannel[T]) TryReceive() (T, error) {
	value, err := mc.ch.TryReceive()
	mc.recordReceive(err, time.Time{}, false)
	return value, err
}

// All returns a sequence that receives through the instrumented path.
func (mc *MetricsChannel[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for {
			value, ok := mc.Receive()
			if !ok || !yield(value) {
				return
			}
		}
	}
}

// Close closes the underlying channel.
func (mc *MetricsChannel[T]) Close() error {
	err := mc.ch.Close()
	mc.updateMetrics()
	return err
}

// IsClosed returns true if the channel is closed.
func (mc *MetricsChannel[T]) IsClosed() bool {
	return mc.ch.IsClosed()
}

// IsExhausted returns true if the channel is closed and drained.
func (mc *MetricsChannel[T]) IsExhausted() bool {
	return mc.ch.IsExhausted()
}

// Len returns the current number of buffered elements.
func (mc *MetricsChannel[T]) Len() int {
	return mc.ch.Len()
}

// Cap returns the buffer capacity.
func (mc *MetricsChannel[T]) Cap() int {
	return mc.ch.Cap()
}

// Stats returns the underlying channel statistics.
func (mc *MetricsChannel[T]) Stats() Stats {
	return mc.ch.Stats()
}

// EnableMetrics enables metrics collection. It is safe to call while the
// channel is in use.
func (mc *MetricsChannel[T]) EnableMetrics(config metrics.Config) error {
	if !config.Enabled {
		mc.enabled.Store(false)
		return nil
	}

	// Publish the registry before the flag so readers never see enabled without one.
	mc.registry.Store(metrics.RegistryFor(config))
	mc.enabled.Store(true)
	mc.updateMetrics()
	return nil
}

// DisableMetrics disables metrics collection.
func (mc *MetricsChannel[T]) DisableMetrics() {
	mc.enabled.Store(false)
}

// MetricsEnabled returns true if metrics are currently enabled.
func (mc *MetricsChannel[T]) MetricsEnabled() bool {
	return mc.enabled.Load()
}

// Compile-time interface checks.
var (
	_ Channel[int]           = (*MetricsChannel[int])(nil)
	_ metrics.Instrumentable = (*MetricsChannel[int])(nil)
)
