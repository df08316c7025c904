package framerate

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	cur    time.Time
	sleeps []time.Duration
}

func (c *fakeClock) now() time.Time { return c.cur }

func (c *fakeClock) sleep(_ context.Context, d time.Duration) {
	c.sleeps = append(c.sleeps, d)
	c.cur = c.cur.Add(d)
}

func newFakeController(frameRate float64) (*Controller, *fakeClock) {
	clock := &fakeClock{cur: time.Unix(1000, 0)}
	c := New(frameRate)
	c.now = clock.now
	c.sleep = clock.sleep
	return c, clock
}

func TestControllerSleepsTheRemainderOfTheSlot(t *testing.T) {
	ctx := context.Background()
	c, clock := newFakeController(25)
	require.Equal(t, 40*time.Millisecond, c.Interval())

	c.Start()
	clock.cur = clock.cur.Add(10 * time.Millisecond)
	c.Control(ctx)
	require.Equal(t, []time.Duration{30 * time.Millisecond}, clock.sleeps)
}

func TestControllerCarriesOverrun(t *testing.T) {
	ctx := context.Background()
	c, clock := newFakeController(25)
	c.Start()

	// 60ms iteration: 20ms behind, no sleep
	clock.cur = clock.cur.Add(60 * time.Millisecond)
	c.Control(ctx)
	require.Empty(t, clock.sleeps)

	// 10ms iteration: 30ms left in the slot minus 20ms of debt
	clock.cur = clock.cur.Add(10 * time.Millisecond)
	c.Control(ctx)
	require.Equal(t, []time.Duration{10 * time.Millisecond}, clock.sleeps)

	// the debt is paid off
	clock.cur = clock.cur.Add(10 * time.Millisecond)
	c.Control(ctx)
	require.Equal(t, []time.Duration{10 * time.Millisecond, 30 * time.Millisecond}, clock.sleeps)
}

func TestControllerDisabled(t *testing.T) {
	for _, rate := range []float64{0, -1} {
		c, clock := newFakeController(rate)
		require.False(t, c.Enabled())
		require.Zero(t, c.Interval())
		c.Start()
		c.Control(context.Background())
		require.Empty(t, clock.sleeps)
	}
}

func TestControllerRealClock(t *testing.T) {
	c := New(200)
	c.Start()
	begin := time.Now()
	for range 10 {
		c.Control(context.Background())
	}
	require.GreaterOrEqual(t, time.Since(begin), 40*time.Millisecond)
}

func TestControllerSleepIsCancellable(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c := New(0.01)
	c.Start()
	begin := time.Now()
	c.Control(ctx)
	require.Less(t, time.Since(begin), time.Second)
}
