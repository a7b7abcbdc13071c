package channel

// waitState is the lifecycle of a parked operation.
type waitState uint8

const (
	stateWaiting waitState = iota
	stateDelivered
	stateClosed
)

// waiter is a parked Send or Receive. For a sender, value holds the
// not-yet-accepted element; for a receiver, it is the cell a sender fills.
// state changes exactly once, under the channel lock, right before ready
// is closed.
type waiter[T any] struct {
	value T
	state waitState
	ready chan struct{}

	prev, next *waiter[T]
}

func newWaiter[T any](value T) *waiter[T] {
	return &waiter[T]{
		value: value,
		ready: make(chan struct{}),
	}
}

// wake finalizes the waiter and releases its goroutine (must hold lock).
func (w *waiter[T]) wake(state waitState) {
	w.state = state
	close(w.ready)
}

// clear drops the waiter's reference to its value.
func (w *waiter[T]) clear() {
	var zero T
	w.value = zero
}

// waitq is a FIFO of parked waiters. Removal of a canceled waiter from the
// middle is O(1).
type waitq[T any] struct {
	first, last *waiter[T]
	n           int
}

func (q *waitq[T]) len() int {
	return q.n
}

func (q *waitq[T]) enqueue(w *waiter[T]) {
	w.prev = q.last
	w.next = nil
	if q.last == nil {
		q.first = w
	} else {
		q.last.next = w
	}
	q.last = w
	q.n++
}

func (q *waitq[T]) dequeue() *waiter[T] {
	w := q.first
	if w == nil {
		return nil
	}
	q.remove(w)
	return w
}

func (q *waitq[T]) remove(w *waiter[T]) {
	if w.prev == nil {
		q.first = w.next
	} else {
		w.prev.next = w.next
	}
	if w.next == nil {
		q.last = w.prev
	} else {
		w.next.prev = w.prev
	}
	w.prev, w.next = nil, nil
	q.n--
}
