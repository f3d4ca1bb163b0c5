package timer

import (
	"context"
	"sync"
	"time"

	"github.com/mcoot/wordrush/internal/dependencies/clock"
)

// TickFunc receives the seconds remaining after each tick
type TickFunc func(remaining int)

// ExpireFunc is called once when the countdown reaches zero
type ExpireFunc func()

// Countdown ticks once per second in its own goroutine until it expires or is stopped
type Countdown struct {
	cancel   context.CancelFunc
	done     chan struct{}
	stopOnce sync.Once
}

// Start begins a countdown of the given number of seconds.
// onTick runs for every tick that leaves time remaining; onExpire runs when
// the count reaches zero. Neither runs once ctx is cancelled or Stop is called.
func Start(ctx context.Context, clk clock.Clock, seconds int, onTick TickFunc, onExpire ExpireFunc) *Countdown {
	ctx, cancel := context.WithCancel(ctx)
	c := &Countdown{
		cancel: cancel,
		done:   make(chan struct{}),
	}

	// Created before the goroutine starts so no tick can be missed
	ticker := clk.NewTicker(time.Second)

	go func() {
		defer close(c.done)
		defer ticker.Stop()

		remaining := seconds
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C():
				if ctx.Err() != nil {
					return
				}
				remaining--
				if remaining <= 0 {
					onExpire()
					return
				}
				onTick(remaining)
			}
		}
	}()

	return c
}

// Stop cancels the countdown. It does not wait for the goroutine to exit.
func (c *Countdown) Stop() {
	c.stopOnce.Do(c.cancel)
}

// Done is closed once the countdown goroutine has exited
func (c *Countdown) Done() <-chan struct{} {
	return c.done
}
