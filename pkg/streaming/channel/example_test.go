package channel

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// Example demonstrates basic buffered channel usage.
func Example() {
	ch := New[int](3)

	ch.Send(1)
	ch.Send(2)
	ch.Send(3)

	fmt.Printf("Channel length: %d\n", ch.Len())

	val1, _ := ch.Receive()
	val2, _ := ch.Receive()

	fmt.Printf("Received: %d, %d\n", val1, val2)
	fmt.Printf("Remaining length: %d\n", ch.Len())

	// Output:
	// Channel length: 3
	// Received: 1, 2
	// Remaining length: 1
}

// Example_rendezvous demonstrates a capacity-zero channel, where every send
// waits for a matching receive.
func Example_rendezvous() {
	ch := New[string](0)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		ok := ch.Send("hello")
		fmt.Println("Send accepted:", ok)
	}()

	val, _ := ch.Receive()
	wg.Wait()

	fmt.Println("Received:", val)

	// Output:
	// Send accepted: true
	// Received: hello
}

// Example_close shows that buffered values remain deliverable after Close.
func Example_close() {
	ch := New[int](2)
	ch.Send(10)
	ch.Send(20)
	ch.Close()

	fmt.Println("Send after close:", ch.Send(30))

	for v := range ch.All() {
		fmt.Println("Drained:", v)
	}
	fmt.Println("Exhausted:", ch.IsExhausted())

	// Output:
	// Send after close: false
	// Drained: 10
	// Drained: 20
	// Exhausted: true
}

// Example_trySendReceive demonstrates non-blocking operations.
func Example_trySendReceive() {
	ch := New[string](1)

	fmt.Println(ch.TrySend("first"))
	fmt.Println(errors.Is(ch.TrySend("second"), ErrWouldBlock))

	val, err := ch.TryReceive()
	fmt.Println(val, err)

	_, err = ch.TryReceive()
	fmt.Println(errors.Is(err, ErrWouldBlock))

	// Output:
	// <nil>
	// true
	// first <nil>
	// true
}

// Example_withTimeout demonstrates context-bounded receives.
func Example_withTimeout() {
	ch := New[int](1)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := ch.ReceiveContext(ctx)
	fmt.Println(errors.Is(err, context.DeadlineExceeded))

	// Output:
	// true
}

// Example_producerConsumer demonstrates a fan-in with several producers.
func Example_producerConsumer() {
	ch := New[int](4)

	var wg sync.WaitGroup
	for p := 0; p < 3; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for i := 0; i < 5; i++ {
				ch.Send(p*100 + i)
			}
		}(p)
	}

	go func() {
		wg.Wait()
		ch.Close()
	}()

	sum := 0
	for v := range ch.All() {
		sum += v
	}
	fmt.Println("Sum:", sum)

	// Output:
	// Sum: 1530
}

// Example_statistics demonstrates reading channel statistics.
func Example_statistics() {
	ch := New[int](4)
	ch.Send(1)
	ch.Send(2)
	ch.Receive()
	ch.Close()
	ch.Send(3)

	stats := ch.Stats()
	fmt.Printf("Sent: %d, Received: %d, Rejected: %d\n",
		stats.SendCount, stats.ReceiveCount, stats.RejectedSends)
	fmt.Printf("Utilization: %.2f\n", stats.BufferUtilization)

	// Output:
	// Sent: 2, Received: 1, Rejected: 1
	// Utilization: 0.25
}
