package channel

import (
	"context"
	"iter"
	"sync"
	"time"

	gferrors "github.com/vnykmshr/conduit/pkg/common/errors"
	"github.com/vnykmshr/conduit/pkg/common/validation"
)

var (
	// ErrClosed is returned when sending on a closed channel.
	ErrClosed = gferrors.ErrClosed

	// ErrExhausted is returned when receiving from a channel that is closed
	// and has no deliverable values left.
	ErrExhausted = gferrors.ErrExhausted

	// ErrWouldBlock is returned by TrySend and TryReceive when the operation
	// cannot complete without waiting.
	ErrWouldBlock = gferrors.ErrWouldBlock
)

// Channel is a closable, capacity-bounded queue of values of type T shared
// by any number of producers and consumers.
type Channel[T any] interface {
	// Send blocks until value is accepted or the channel is closed.
	// It reports whether the value was accepted.
	Send(value T) bool

	// SendContext is Send with cancellation. It returns nil, ErrClosed,
	// or the context error.
	SendContext(ctx context.Context, value T) error

	// TrySend attempts to send a value without blocking. It returns nil,
	// ErrClosed, or ErrWouldBlock.
	TrySend(value T) error

	// Receive blocks until a value is available or the channel is
	// exhausted. The boolean is false only once the channel is exhausted.
	Receive() (T, bool)

	// ReceiveContext is Receive with cancellation. It returns nil,
	// ErrExhausted, or the context error.
	ReceiveContext(ctx context.Context) (T, error)

	// TryReceive attempts to receive a value without blocking. It returns
	// nil, ErrExhausted, or ErrWouldBlock.
	TryReceive() (T, error)

	// All returns a single-use sequence that receives until the channel
	// is exhausted.
	All() iter.Seq[T]

	// Close closes the channel for sending. It is idempotent and always
	// returns nil.
	Close() error

	// IsClosed returns true if the channel is closed.
	IsClosed() bool

	// IsExhausted returns true if the channel is closed and drained.
	IsExhausted() bool

	// Len returns the current number of buffered elements.
	Len() int

	// Cap returns the buffer capacity. Zero means rendezvous.
	Cap() int

	// Stats returns channel statistics.
	Stats() Stats
}

// Stats holds statistics about channel activity.
type Stats struct {
	// SendCount is the total number of accepted values.
	SendCount int64

	// ReceiveCount is the total number of delivered values.
	ReceiveCount int64

	// RejectedSends is the number of sends refused because the channel was closed.
	RejectedSends int64

	// BlockedSends is the number of sends that had to park.
	BlockedSends int64

	// BlockedReceives is the number of receives that had to park.
	BlockedReceives int64

	// Handoffs is the number of values passed directly between a sender
	// and a receiver without touching the buffer.
	Handoffs int64

	// BufferUtilization is the current buffer utilization (0.0 to 1.0).
	BufferUtilization float64

	// LastSendTime is the timestamp of the last accepted send.
	LastSendTime time.Time

	// LastReceiveTime is the timestamp of the last delivered value.
	LastReceiveTime time.Time
}

// Config holds configuration for Channel.
type Config struct {
	// Capacity is the size of the buffer. Zero selects rendezvous mode:
	// every send waits for a matching receive.
	Capacity int

	// OnBlock is called when a send has to park. It runs outside the lock.
	OnBlock func()
}

// DefaultConfig returns a default configuration: an unbuffered channel.
func DefaultConfig() Config {
	return Config{
		Capacity: 0,
	}
}

// channel implements Channel.
//
// All state lives under mu. A parked operation owns a waiter whose state is
// set under mu before its ready channel is closed, so a parked goroutine
// cannot miss a transition. recvq is non-empty only while the buffer is empty
// and no sender is parked; sendq is non-empty only while the buffer is full
// and no receiver is parked.
type channel[T any] struct {
	capacity int
	onBlock  func()

	mu     sync.Mutex
	buffer []T
	head   int
	count  int
	closed bool
	recvq  waitq[T]
	sendq  waitq[T]
	stats  Stats
}

// New creates a new Channel with the given capacity.
// It panics if capacity is negative; use NewSafe to get an error instead.
func New[T any](capacity int) Channel[T] {
	ch, err := NewSafe[T](capacity)
	if err != nil {
		panic("invalid channel configuration: " + err.Error())
	}
	return ch
}

// NewSafe creates a new Channel, returning a validation error if capacity is negative.
func NewSafe[T any](capacity int) (Channel[T], error) {
	config := DefaultConfig()
	config.Capacity = capacity
	return NewWithConfig[T](config)
}

// NewWithConfig creates a new Channel with the specified configuration.
func NewWithConfig[T any](config Config) (Channel[T], error) {
	if err := validation.ValidateNonNegative("channel", "capacity", config.Capacity); err != nil {
		return nil, err
	}

	return &channel[T]{
		capacity: config.Capacity,
		onBlock:  config.OnBlock,
		buffer:   make([]T, config.Capacity),
	}, nil
}

// Send implements Channel.Send.
func (ch *channel[T]) Send(value T) bool {
	return ch.send(context.Background(), value, true) == nil
}

// SendContext implements Channel.SendContext.
func (ch *channel[T]) SendContext(ctx context.Context, value T) error {
	return ch.send(ctx, value, true)
}

// TrySend implements Channel.TrySend.
func (ch *channel[T]) TrySend(value T) error {
	return ch.send(context.Background(), value, false)
}

// Receive implements Channel.Receive.
func (ch *channel[T]) Receive() (T, bool) {
	value, err := ch.receive(context.Background(), true)
	return value, err == nil
}

// ReceiveContext implements Channel.ReceiveContext.
func (ch *channel[T]) ReceiveContext(ctx context.Context) (T, error) {
	return ch.receive(ctx, true)
}

// TryReceive implements Channel.TryReceive.
func (ch *channel[T]) TryReceive() (T, error) {
	return ch.receive(context.Background(), false)
}

// All implements Channel.All.
func (ch *channel[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for {
			value, ok := ch.Receive()
			if !ok || !yield(value) {
				return
			}
		}
	}
}

// Close implements Channel.Close.
func (ch *channel[T]) Close() error {
	ch.mu.Lock()
	defer ch.mu.Unlock()

	if ch.closed {
		return nil
	}
	ch.closed = true

	// Parked receivers imply an empty buffer and no parked senders.
	for r := ch.recvq.dequeue(); r != nil; r = ch.recvq.dequeue() {
		r.wake(stateClosed)
	}

	// Parked senders were never accepted; their values go back to them.
	for s := ch.sendq.dequeue(); s != nil; s = ch.sendq.dequeue() {
		s.clear()
		ch.stats.RejectedSends++
		s.wake(stateClosed)
	}

	return nil
}

// IsClosed implements Channel.IsClosed.
func (ch *channel[T]) IsClosed() bool {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	return ch.closed
}

// IsExhausted implements Channel.IsExhausted.
func (ch *channel[T]) IsExhausted() bool {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	return ch.closed && ch.count == 0 && ch.sendq.len() == 0
}

// Len implements Channel.Len.
func (ch *channel[T]) Len() int {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	return ch.count
}

// Cap implements Channel.Cap.
func (ch *channel[T]) Cap() int {
	return ch.capacity
}

// Stats implements Channel.Stats.
func (ch *channel[T]) Stats() Stats {
	ch.mu.Lock()
	defer ch.mu.Unlock()

	stats := ch.stats
	if ch.capacity > 0 {
		stats.BufferUtilization = float64(ch.count) / float64(ch.capacity)
	}
	return stats
}

// send runs the send state machine. With block unset it never parks.
func (ch *channel[T]) send(ctx context.Context, value T, block bool) error {
	ch.mu.Lock()

	if ch.closed {
		ch.stats.RejectedSends++
		ch.mu.Unlock()
		return ErrClosed
	}

	// A parked receiver takes ownership of the value right here.
	if r := ch.recvq.dequeue(); r != nil {
		r.value = value
		ch.markSentLocked()
		ch.markReceivedLocked()
		ch.stats.Handoffs++
		r.wake(stateDelivered)
		ch.mu.Unlock()
		return nil
	}

	if ch.count < ch.capacity {
		ch.pushLocked(value)
		ch.markSentLocked()
		ch.mu.Unlock()
		return nil
	}

	if !block {
		ch.mu.Unlock()
		return ErrWouldBlock
	}

	if err := ctx.Err(); err != nil {
		ch.mu.Unlock()
		return err
	}

	w := newWaiter(value)
	ch.sendq.enqueue(w)
	ch.stats.BlockedSends++
	ch.mu.Unlock()

	if ch.onBlock != nil {
		ch.onBlock()
	}

	select {
	case <-w.ready:
	case <-ctx.Done():
		ch.mu.Lock()
		if w.state == stateWaiting {
			ch.sendq.remove(w)
			ch.mu.Unlock()
			return ctx.Err()
		}
		// A receiver or Close got there first; honor that outcome.
		ch.mu.Unlock()
	}

	if w.state == stateDelivered {
		return nil
	}
	return ErrClosed
}

// receive runs the receive state machine. With block unset it never parks.
func (ch *channel[T]) receive(ctx context.Context, block bool) (T, error) {
	var zero T

	ch.mu.Lock()

	if ch.count > 0 {
		value := ch.popLocked()
		// The buffer was full; admit the longest-parked sender into it.
		if s := ch.sendq.dequeue(); s != nil {
			ch.pushLocked(s.value)
			s.clear()
			ch.markSentLocked()
			s.wake(stateDelivered)
		}
		ch.markReceivedLocked()
		ch.mu.Unlock()
		return value, nil
	}

	// Empty buffer with a parked sender only happens in rendezvous mode.
	if s := ch.sendq.dequeue(); s != nil {
		value := s.value
		s.clear()
		ch.markSentLocked()
		ch.markReceivedLocked()
		ch.stats.Handoffs++
		s.wake(stateDelivered)
		ch.mu.Unlock()
		return value, nil
	}

	if ch.closed {
		ch.mu.Unlock()
		return zero, ErrExhausted
	}

	if !block {
		ch.mu.Unlock()
		return zero, ErrWouldBlock
	}

	if err := ctx.Err(); err != nil {
		ch.mu.Unlock()
		return zero, err
	}

	w := newWaiter(zero)
	ch.recvq.enqueue(w)
	ch.stats.BlockedReceives++
	ch.mu.Unlock()

	select {
	case <-w.ready:
	case <-ctx.Done():
		ch.mu.Lock()
		if w.state == stateWaiting {
			ch.recvq.remove(w)
			ch.mu.Unlock()
			return zero, ctx.Err()
		}
		// A value was already handed to us; it must not be dropped.
		ch.mu.Unlock()
	}

	if w.state == stateDelivered {
		value := w.value
		w.clear()
		return value, nil
	}
	return zero, ErrExhausted
}

// pushLocked appends a value to the ring buffer (must hold lock).
func (ch *channel[T]) pushLocked(value T) {
	tail := (ch.head + ch.count) % ch.capacity
	ch.buffer[tail] = value
	ch.count++
}

// popLocked removes the head of the ring buffer (must hold lock).
func (ch *channel[T]) popLocked() T {
	value := ch.buffer[ch.head]
	var zero T
	ch.buffer[ch.head] = zero // Clear reference
	ch.head = (ch.head + 1) % ch.capacity
	ch.count--
	return value
}

func (ch *channel[T]) markSentLocked() {
	ch.stats.SendCount++
	ch.stats.LastSendTime = time.Now()
}

func (ch *channel[T]) markReceivedLocked() {
	ch.stats.ReceiveCount++
	ch.stats.LastReceiveTime = time.Now()
}
