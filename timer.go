package gochan

import (
	"math"
	"sync"

	"github.com/veezhang/gochan/internal/runtimecore"
)

// Timer is a one-shot event source (spec.md §4.5). A Timer built by
// TimerAfter delivers on a capacity-1 channel it owns, and TimerAfter
// returns only that channel, not the Timer. TimerAfterFunc returns the
// Timer and runs a callback in its own task instead; such a Timer's channel
// is the nil channel.
type Timer struct {
	runtime *Runtime

	mu       sync.Mutex
	deadline float64 // +Inf means disarmed
	version  uint64

	c *Channel[float64]
	f func()
}

// TimerAfter returns a channel that receives the current time once, after
// at least dt seconds, on Default.
func TimerAfter(dt float64) *Channel[float64] { return Default.TimerAfter(dt) }

// TimerAfterFunc runs f in a new task after at least dt seconds, on
// Default. The returned Timer supports Stop/Reset.
func TimerAfterFunc(dt float64, f func()) *Timer { return Default.TimerAfterFunc(dt, f) }

// TimerAfter returns a channel that receives the current time once, after
// at least dt seconds.
func (r *Runtime) TimerAfter(dt float64) *Channel[float64] {
	return r.newTimer(dt, nil).c
}

// TimerAfterFunc runs f in a new task after at least dt seconds. The
// returned Timer supports Stop/Reset; f is not guaranteed to have finished
// by the time Stop returns (spec.md §4.5).
func (r *Runtime) TimerAfterFunc(dt float64, f func()) *Timer {
	return r.newTimer(dt, f)
}

func (r *Runtime) newTimer(dt float64, f func()) *Timer {
	t := &Timer{runtime: r, f: f, deadline: math.Inf(1)}
	if f == nil {
		t.c = Make[float64](1)
	} else {
		// Construction with a callback uses the nil channel: nothing is
		// ever sent on it, per spec.md §4.5.
		t.c = Nil[float64]()
	}
	t.armLocked(dt)
	return t
}

// armLocked sets the deadline, bumps the version, and spawns the fire task
// bound to that version. Callers must hold t.mu; newTimer calls it before
// the Timer is visible to any other goroutine.
func (t *Timer) armLocked(dt float64) {
	t.deadline = t.runtime.clock.Now() + dt
	t.version++
	version := t.version
	deadline := t.deadline
	t.runtime.Spawn(func() { t.fire(deadline, version) })
}

func (t *Timer) fire(deadline float64, version uint64) {
	// Sleep until the deadline recorded when the timer was armed, so a fire
	// task that starts running late still fires at arming time + dt.
	t.runtime.clock.Sleep(deadline - t.runtime.clock.Now())

	t.mu.Lock()
	if t.version != version {
		// Cancelled or superseded by a Stop/Reset since this task was
		// spawned.
		t.mu.Unlock()
		return
	}
	t.deadline = math.Inf(1)

	if t.f == nil {
		// Sending under t.mu is what lets Stop guarantee "if I observe
		// deadline == +Inf, no send into c is in progress" (spec.md §4.5
		// rationale). It cannot block: c has capacity 1 and is guaranteed
		// empty by Stop's postcondition.
		t.c.Send(t.runtime.clock.Now())
		t.mu.Unlock()
		return
	}

	t.mu.Unlock()
	// f runs outside t.mu so it may itself call Reset without deadlocking.
	t.f()
}

// Reset rearms the timer to fire after dt seconds. Panics if the timer is
// already armed (must be Stopped or have already expired first).
func (t *Timer) Reset(dt float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !math.IsInf(t.deadline, 1) {
		panic(runtimecore.NewRuntimeError("the timer is armed; must be stopped or expired"))
	}
	t.armLocked(dt)
}

// Stop prevents the Timer from firing. Returns true if this call stopped a
// pending firing, false if the timer had already fired or been stopped.
// Guarantees that, once Stop returns, the timer's channel is empty — but
// does not guarantee a callback Timer (TimerAfterFunc) has finished
// running if it had already started (spec.md §4.5).
func (t *Timer) Stop() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if math.IsInf(t.deadline, 1) {
		t.drainLocked()
		return false
	}
	t.deadline = math.Inf(1)
	t.version++
	t.drainLocked()
	return true
}

func (t *Timer) drainLocked() {
	for {
		_, _, selected := t.c.TryRecv()
		if !selected {
			return
		}
	}
}
