package source

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"

	gferrors "github.com/vnykmshr/conduit/pkg/common/errors"
	"github.com/vnykmshr/conduit/pkg/common/validation"
	"github.com/vnykmshr/conduit/pkg/scheduling/waitgroup"
	"github.com/vnykmshr/conduit/pkg/streaming/channel"
)

// cronParser accepts a leading seconds field and descriptors such as @every.
var cronParser = cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// Clock provides the current time.
type Clock interface {
	Now() time.Time
}

// SystemClock implements Clock using the system time.
type SystemClock struct{}

// Now returns the current system time.
func (SystemClock) Now() time.Time {
	return time.Now()
}

// TickerConfig holds configuration for a cron Ticker.
type TickerConfig struct {
	// Capacity is the tick buffer size. Zero delivers a tick only to a
	// receiver that is already waiting.
	Capacity int

	// Location is the time zone the expression is evaluated in.
	// Defaults to time.Local.
	Location *time.Location

	// Clock supplies the current time the next fire time is computed from.
	// Defaults to SystemClock. It does not drive the wait itself; see After.
	Clock Clock

	// After returns a channel that fires once d has elapsed. The ticker
	// waits on it between fire times. Defaults to time.After.
	After func(d time.Duration) <-chan time.Time
}

// DefaultTickerConfig returns a configuration that buffers one tick, like time.Ticker.
func DefaultTickerConfig() TickerConfig {
	return TickerConfig{
		Capacity: 1,
		Location: time.Local,
		Clock:    SystemClock{},
		After:    time.After,
	}
}

// Ticker delivers the fire times of a cron schedule on a channel. Ticks that
// cannot be delivered immediately are dropped and counted.
type Ticker struct {
	expr     string
	schedule cron.Schedule
	location *time.Location
	clock    Clock
	after    func(time.Duration) <-chan time.Time

	ch      channel.Channel[time.Time]
	stop    chan struct{}
	stopped *waitgroup.WaitGroup
	once    sync.Once
	dropped atomic.Int64
}

// NewTicker parses expr and starts delivering its fire times.
func NewTicker(expr string, config TickerConfig) (*Ticker, error) {
	if err := validation.ValidateNotEmpty("source", "expr", expr); err != nil {
		return nil, err
	}
	if err := validation.ValidateNonNegative("source", "Capacity", config.Capacity); err != nil {
		return nil, err
	}

	schedule, err := cronParser.Parse(expr)
	if err != nil {
		return nil, gferrors.NewOperationError("source", "NewTicker",
			fmt.Errorf("invalid cron expression: %w", err)).WithContext(expr)
	}

	if config.Location == nil {
		config.Location = time.Local
	}
	if config.Clock == nil {
		config.Clock = SystemClock{}
	}
	if config.After == nil {
		config.After = time.After
	}

	t := &Ticker{
		expr:     expr,
		schedule: schedule,
		location: config.Location,
		clock:    config.Clock,
		after:    config.After,
		ch:       channel.New[time.Time](config.Capacity),
		stop:     make(chan struct{}),
		stopped:  waitgroup.New(),
	}

	t.stopped.Go(t.run)

	return t, nil
}

// C returns the channel ticks are delivered on. It is closed by Stop.
func (t *Ticker) C() channel.Channel[time.Time] {
	return t.ch
}

// Expr returns the cron expression the ticker was created with.
func (t *Ticker) Expr() string {
	return t.expr
}

// Dropped returns the number of ticks no receiver was ready for.
func (t *Ticker) Dropped() int64 {
	return t.dropped.Load()
}

// Stop stops the ticker, closes its channel and waits for the ticking
// goroutine to exit. Buffered ticks remain receivable. Stop is idempotent.
func (t *Ticker) Stop() {
	t.once.Do(func() {
		close(t.stop)
		t.ch.Close()
	})
	t.stopped.Wait()
}

func (t *Ticker) run() {
	for {
		now := t.clock.Now().In(t.location)
		next := t.schedule.Next(now)
		if next.IsZero() {
			// The schedule never fires again.
			return
		}

		select {
		case <-t.stop:
			return
		case <-t.after(next.Sub(now)):
		}

		err := t.ch.TrySend(next)
		switch {
		case err == nil:
		case gferrors.IsTerminal(err):
			// Closed by the consumer.
			return
		case gferrors.IsRetryable(err):
			t.dropped.Add(1)
		}
	}
}
