package runtimecore

import (
	"sync"
)

// tryOutcome is the result of a single non-blocking attempt at a send or
// receive, used by both the blocking entry points and select's poll/
// subscribe passes (spec.md §4.1, §4.3).
type tryOutcome int

const (
	// tryBlocked means the attempt could not complete; on return the
	// channel's mutex is still held so the caller can enqueue a waiter
	// under the same critical section.
	tryBlocked tryOutcome = iota
	// tryDone means the attempt completed (value transferred, or a
	// closed-channel recv); the channel's mutex has already been
	// released.
	tryDone
	// tryClosedPanic means this was a send on a closed channel; the
	// channel's mutex has already been released and the caller must
	// panic.
	tryClosedPanic
)

// RawChannel is the type-erased channel engine: a ring buffer of pending
// `any` values, FIFO queues of parked senders and receivers, a one-way
// closed flag, and the mutex serializing all of it — spec.md §3. It plays
// the role the teacher's hchan plays for the compiler: Channel[T] (the
// public, generic facade) and select's Case both operate on a *RawChannel
// directly, the same way reflect.Select operates on boxed reflect.Values
// rather than a concrete channel type.
type RawChannel struct {
	mu sync.Mutex

	isNil    bool
	capacity int
	buffer   []any
	sendx    int
	recvx    int
	qcount   int
	closed   bool

	recvq waitq
	sendq waitq
}

// NewRawChannel creates a channel of the given capacity. Capacity 0 is
// synchronous (rendezvous); capacity N>0 is buffered with room for N
// pending values.
func NewRawChannel(capacity int) *RawChannel {
	c := &RawChannel{capacity: capacity}
	if capacity > 0 {
		c.buffer = make([]any, capacity)
	}
	return c
}

// nilSingleton is the distinguished nil-channel value every element type's
// Nil[T]() wraps, per spec.md §3's "Nil channel: a distinguished
// singleton channel value". One underlying sentinel suffices across all
// element types since it carries no buffer or queue state of its own.
var nilSingleton = &RawChannel{isNil: true}

// NilChannel returns the nil-channel sentinel.
func NilChannel() *RawChannel { return nilSingleton }

// IsNil reports whether c is the nil-channel sentinel.
func (c *RawChannel) IsNil() bool { return c.isNil }

// blockForever parks the calling goroutine on a WaitGroup whose semaphore
// is never released, modelling spec.md §5's "acquiring a never-released
// binary semaphore" for send/recv on the nil channel. Because the
// semaphore is golang.org/x/sync/semaphore's context-aware Acquire, the
// goroutine parks properly (no busy-waiting) under both preemptive and
// cooperative hosts.
func blockForever() {
	g := NewWaitGroup()
	g.Wait()
}

// trySendLocked attempts the non-blocking fast paths of a send. The caller
// must hold c.mu. On tryDone or tryClosedPanic, trySendLocked has already
// released c.mu. On tryBlocked, c.mu remains held so the caller can enqueue
// a waiter in the same critical section.
func (c *RawChannel) trySendLocked(v any) tryOutcome {
	if c.closed {
		c.mu.Unlock()
		return tryClosedPanic
	}

	if c.capacity == 0 {
		if w := c.recvq.dequeueWinner(); w != nil {
			w.Value = v
			w.OK = true
			c.mu.Unlock()
			w.Group.Wakeup()
			return tryDone
		}
		return tryBlocked
	}

	if c.qcount < c.capacity {
		c.buffer[c.sendx] = v
		c.sendx++
		if c.sendx == c.capacity {
			c.sendx = 0
		}
		c.qcount++

		// A receiver can be parked here only if the buffer was empty
		// before this append (buffer non-empty implies recvq empty), the
		// case spec.md §4.1 calls out explicitly. Hand the buffer head
		// straight through when that happens instead of leaving it
		// stranded in the buffer.
		var woken *Waiter
		if w := c.recvq.dequeueWinner(); w != nil {
			w.Value = c.buffer[c.recvx]
			w.OK = true
			c.buffer[c.recvx] = nil
			c.recvx++
			if c.recvx == c.capacity {
				c.recvx = 0
			}
			c.qcount--
			woken = w
		}
		c.mu.Unlock()
		if woken != nil {
			woken.Group.Wakeup()
		}
		return tryDone
	}

	return tryBlocked
}

// tryRecvLocked attempts the non-blocking fast paths of a receive. Same
// locking contract as trySendLocked.
func (c *RawChannel) tryRecvLocked() (outcome tryOutcome, value any, ok bool) {
	if c.qcount > 0 {
		v := c.buffer[c.recvx]
		c.buffer[c.recvx] = nil
		c.recvx++
		if c.recvx == c.capacity {
			c.recvx = 0
		}
		c.qcount--

		var woken *Waiter
		if w := c.sendq.dequeueWinner(); w != nil {
			c.buffer[c.sendx] = w.Value
			c.sendx++
			if c.sendx == c.capacity {
				c.sendx = 0
			}
			c.qcount++
			w.Succeeded = true
			woken = w
		}
		c.mu.Unlock()
		if woken != nil {
			woken.Group.Wakeup()
		}
		return tryDone, v, true
	}

	if c.closed {
		c.mu.Unlock()
		return tryDone, nil, false
	}

	if w := c.sendq.dequeueWinner(); w != nil {
		v := w.Value
		w.Succeeded = true
		c.mu.Unlock()
		w.Group.Wakeup()
		return tryDone, v, true
	}

	return tryBlocked, nil, false
}

// Send delivers v, blocking until a receiver takes it (capacity 0) or
// buffer room frees up (capacity>0). Panics with a RuntimeError if the
// channel is or becomes closed.
func (c *RawChannel) Send(v any) {
	if c.isNil {
		blockForever()
		return
	}

	c.mu.Lock()
	switch c.trySendLocked(v) {
	case tryDone:
		return
	case tryClosedPanic:
		panic(NewRuntimeError("send on closed channel"))
	}

	w := &Waiter{Kind: KindSend, Group: NewWaitGroup(), Channel: c, Value: v, CaseIndex: -1}
	c.sendq.enqueue(w)
	c.mu.Unlock()

	w.Group.Wait()
	if !w.Succeeded {
		panic(NewRuntimeError("send on closed channel"))
	}
}

// TrySend attempts a non-blocking send. Returns false if it would have to
// block (no room, no receiver). Still panics on a closed channel.
func (c *RawChannel) TrySend(v any) bool {
	if c.isNil {
		return false
	}
	c.mu.Lock()
	switch c.trySendLocked(v) {
	case tryDone:
		return true
	case tryClosedPanic:
		panic(NewRuntimeError("send on closed channel"))
	default:
		c.mu.Unlock()
		return false
	}
}

// RecvOK receives a value, blocking until one is available. ok is false
// only when the channel is closed and empty — not an error, per spec.md §7.
func (c *RawChannel) RecvOK() (value any, ok bool) {
	if c.isNil {
		blockForever()
		return nil, false
	}

	c.mu.Lock()
	if outcome, v, ok := c.tryRecvLocked(); outcome == tryDone {
		return v, ok
	}

	w := &Waiter{Kind: KindRecv, Group: NewWaitGroup(), Channel: c, CaseIndex: -1}
	c.recvq.enqueue(w)
	c.mu.Unlock()

	w.Group.Wait()
	return w.Value, w.OK
}

// Recv receives a value, discarding the comma-ok result.
func (c *RawChannel) Recv() any {
	v, _ := c.RecvOK()
	return v
}

// TryRecv attempts a non-blocking receive. selected is false if there was
// nothing to receive without blocking (empty and open); ok follows RecvOK's
// meaning when selected is true.
func (c *RawChannel) TryRecv() (value any, ok bool, selected bool) {
	if c.isNil {
		return nil, false, false
	}
	c.mu.Lock()
	outcome, v, recvOK := c.tryRecvLocked()
	if outcome == tryDone {
		return v, recvOK, true
	}
	c.mu.Unlock()
	return nil, false, false
}

// Close marks the channel closed and wakes every parked sender (which will
// panic) and receiver (which will see ok=false), per spec.md §4.1. Panics
// if c is the nil channel or already closed.
func (c *RawChannel) Close() {
	if c.isNil {
		panic(NewRuntimeError("close of nil channel"))
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		panic(NewRuntimeError("close of closed channel"))
	}
	c.closed = true

	var recvWoken, sendWoken []*Waiter
	for {
		w := c.recvq.dequeueWinner()
		if w == nil {
			break
		}
		w.Value = nil
		w.OK = false
		recvWoken = append(recvWoken, w)
	}
	for {
		w := c.sendq.dequeueWinner()
		if w == nil {
			break
		}
		w.Succeeded = false
		sendWoken = append(sendWoken, w)
	}
	c.mu.Unlock()

	// Wake everyone outside c.mu: waking touches group.mu, and channel.mu
	// must never be held across that (spec.md §4.1/§5 lock ordering).
	for _, w := range recvWoken {
		w.Group.Wakeup()
	}
	for _, w := range sendWoken {
		w.Group.Wakeup()
	}
}

// Len reports the number of values currently buffered. Advisory only, per
// spec.md §4.1: the count is read under c.mu, but concurrent operations may
// change it before the caller acts on it.
func (c *RawChannel) Len() int {
	if c.isNil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.qcount
}

// Cap reports the channel's buffer capacity.
func (c *RawChannel) Cap() int {
	if c.isNil {
		return 0
	}
	return c.capacity
}

// unregister removes w from whichever queue it is (or was) linked into.
// Safe to call after w has already been dequeued by a peer.
func (c *RawChannel) unregister(w *Waiter) {
	c.mu.Lock()
	if w.Kind == KindSend {
		c.sendq.unlink(w)
	} else {
		c.recvq.unlink(w)
	}
	c.mu.Unlock()
}
