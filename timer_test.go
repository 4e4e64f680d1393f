package gochan_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/veezhang/gochan"
)

// fakeClock is a manually-advanced Clock for deterministic timer tests.
// Sleep blocks until the clock is advanced at least that far, which is
// enough to drive the Timer/Ticker fire loop without real wall-clock waits.
type fakeClock struct {
	mu   sync.Mutex
	now  float64
	cond *sync.Cond
}

func newFakeClock() *fakeClock {
	c := &fakeClock{}
	c.cond = sync.NewCond(&c.mu)
	return c
}

func (c *fakeClock) Now() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Sleep(d float64) {
	c.mu.Lock()
	target := c.now + d
	for c.now < target {
		c.cond.Wait()
	}
	c.mu.Unlock()
}

func (c *fakeClock) Advance(d float64) {
	c.mu.Lock()
	c.now += d
	c.cond.Broadcast()
	c.mu.Unlock()
}

func TestTimerFiresAfterDeadline(t *testing.T) {
	clock := newFakeClock()
	rt := gochan.New(gochan.WithClock(clock))

	c := rt.TimerAfter(1.0)
	clock.Advance(1.0)

	select {
	case <-waitRecv(c):
	case <-time.After(time.Second):
		t.Fatal("timer never fired")
	}
}

func TestTimerStopBeforeFirePreventsFiring(t *testing.T) {
	clock := newFakeClock()
	rt := gochan.New(gochan.WithClock(clock))

	fired := make(chan struct{}, 1)
	timer := rt.TimerAfterFunc(1.0, func() { fired <- struct{}{} })
	require.True(t, timer.Stop())

	clock.Advance(10.0)
	time.Sleep(20 * time.Millisecond) // let any (incorrect) fire task run
	require.Len(t, fired, 0)
}

func TestTimerResetAfterStopIsLegalResetWhileArmedPanics(t *testing.T) {
	clock := newFakeClock()
	rt := gochan.New(gochan.WithClock(clock))

	timer := rt.TimerAfterFunc(1.0, func() {})
	require.Panics(t, func() { timer.Reset(1.0) })

	require.True(t, timer.Stop())
	require.NotPanics(t, func() { timer.Reset(1.0) })
}

func TestTimerStopAfterFireReturnsFalse(t *testing.T) {
	clock := newFakeClock()
	rt := gochan.New(gochan.WithClock(clock))

	c := rt.TimerAfter(1.0)
	clock.Advance(1.0)
	<-waitRecv(c)

	timer := rt.TimerAfterFunc(1.0, func() {})
	clock.Advance(1.0)
	time.Sleep(20 * time.Millisecond)
	require.False(t, timer.Stop())
}

// waitRecv bridges a *Channel[float64]'s blocking Recv into a native
// channel so tests can select on it with a timeout.
func waitRecv(c *gochan.Channel[float64]) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		c.Recv()
		close(done)
	}()
	return done
}
