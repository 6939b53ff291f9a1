package attempt

import (
	"sync"
	"time"
)

// countdown ticks from a starting number of seconds down to zero.
// onTick fires with the full count as soon as the countdown is armed and
// again as each interval elapses; onExpire fires exactly once after the
// zero tick, then the countdown stops on its own.
type countdown struct {
	stop chan struct{}
	once sync.Once
}

func startCountdown(seconds int, interval time.Duration, onTick func(remaining int), onExpire func()) *countdown {
	c := &countdown{stop: make(chan struct{})}
	go func() {
		onTick(seconds)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for remaining := seconds - 1; ; remaining-- {
			select {
			case <-c.stop:
				return
			case <-ticker.C:
			}
			onTick(remaining)
			if remaining <= 0 {
				onExpire()
				return
			}
		}
	}()
	return c
}

// Cancel stops the countdown. Calling it after expiry or after a prior
// cancel is a no-op.
func (c *countdown) Cancel() {
	c.once.Do(func() { close(c.stop) })
}
