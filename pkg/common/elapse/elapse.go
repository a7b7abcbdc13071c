// Package elapse measures how long a piece of work takes.
package elapse

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Measure runs fn once and returns the wall time it took.
func Measure(fn func()) time.Duration {
	start := time.Now()
	fn()
	return time.Since(start)
}

// MeasureErr runs fn once and returns the wall time it took along with its error.
func MeasureErr(fn func() error) (time.Duration, error) {
	start := time.Now()
	err := fn()
	return time.Since(start), err
}

// Observe runs fn, records the elapsed seconds in o and returns the elapsed time.
// The observation is made even if fn panics.
func Observe(o prometheus.Observer, fn func()) (elapsed time.Duration) {
	start := time.Now()
	defer func() {
		elapsed = time.Since(start)
		o.Observe(elapsed.Seconds())
	}()
	fn()
	return
}
