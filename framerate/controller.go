// Package framerate paces a loop to a target rate.
package framerate

import (
	"context"
	"time"
)

// Controller sleeps between loop iterations so that they happen at
// FrameRate per second. When an iteration overruns its slot the overrun is
// carried over and deducted from the next sleep, so short stalls do not
// reduce the average rate.
//
// Controller is not safe for concurrent use; it belongs to one loop.
type Controller struct {
	FrameRate float64

	start time.Time
	debt  time.Duration

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration)
}

func New(frameRate float64) *Controller {
	return &Controller{
		FrameRate: frameRate,
		now:       time.Now,
		sleep:     sleepCtx,
	}
}

// Enabled reports whether the controller paces at all; a rate <= 0 means
// as fast as possible.
func (c *Controller) Enabled() bool {
	return c.FrameRate > 0
}

func (c *Controller) Interval() time.Duration {
	if !c.Enabled() {
		return 0
	}
	return time.Duration(float64(time.Second) / c.FrameRate)
}

// Start marks the beginning of the first iteration.
func (c *Controller) Start() {
	c.start = c.now()
	c.debt = 0
}

// Control is called at the end of every iteration.
func (c *Controller) Control(ctx context.Context) {
	if !c.Enabled() {
		return
	}
	elapsed := c.now().Sub(c.start)
	gap := c.Interval() - elapsed - c.debt
	if gap > 0 {
		c.sleep(ctx, gap)
		c.debt = 0
	} else {
		c.debt = -gap
	}
	c.start = c.now()
}

func sleepCtx(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
