/*
Package channel provides a closable multi-producer multi-consumer channel.

A Channel carries values of one type between any number of senders and
receivers. It is either buffered, holding up to Cap values in FIFO order, or
rendezvous (capacity zero), where each send is matched with exactly one
receive.

Lifecycle:

A channel starts open. Close moves it to closed: further sends are rejected,
but values already accepted stay deliverable. Once the buffer drains the
channel is exhausted and every receive reports that immediately.

	ch := channel.New[string](8)

	ch.Send("a")            // true
	ch.Close()
	ch.Send("b")            // false, rejected
	v, ok := ch.Receive()   // "a", true
	_, ok = ch.Receive()    // ok == false, exhausted

Blocking, cancellation and polling:

Send and Receive block. SendContext and ReceiveContext give up when the
context is done; a value handed over before cancellation is never lost or
delivered twice. TrySend and TryReceive never wait and return ErrWouldBlock
instead.

	if err := ch.TrySend(v); errors.Is(err, channel.ErrWouldBlock) {
		// full, or no receiver waiting on a rendezvous channel
	}

Rendezvous mode:

With capacity zero a sender parks until a receiver takes its value, and a
receiver parks until a sender arrives. TrySend succeeds only when a receiver
is already waiting.

Iteration:

All returns an iter.Seq that receives until exhaustion:

	for v := range ch.All() {
		handle(v)
	}

Ordering:

Values from a single sender are received in the order sent. Parked senders
and receivers are served in arrival order.

Metrics:

NewWithMetrics and NewWithConfigAndMetrics wrap a channel with Prometheus
counters for send and receive outcomes, buffer usage gauges and wait
duration histograms.

Thread Safety:

All operations are safe for concurrent use. Closing is safe from any
goroutine, any number of times.
*/
package channel
