package runtimecore

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"
)

// selfWinSentinel is the placeholder Waiter a select uses to claim victory
// in its own WaitGroup when it completes a case itself during the second
// ("subscribe") pass, per spec.md §4.3 step 5: "set g.winner to a sentinel
// (so already-queued cases cannot also win)". It carries no channel state
// and is never woken through the normal send/recv wakeup path.
var selfWinSentinel = &Waiter{CaseIndex: -1}

// SelfWinSentinel reports whether w is the select self-win placeholder, so
// callers outside this file (select.go) can tell it apart from a genuine
// queued Waiter after WaitGroup.Wait returns.
func SelfWinSentinel(w *Waiter) bool { return w == selfWinSentinel }

// WaitGroup is the arbitration object for a single blocking act — a lone
// send, a lone recv, or a whole select — per spec.md §3/§4.2. It owns the
// wakeup semaphore and decides, via TryWin, which of its registered
// Waiters (there may be many, one per select case) wins.
//
// The semaphore is golang.org/x/sync/semaphore.Weighted used as a binary
// semaphore: exactly the "binary semaphore that may be released from a
// different task than the one that will acquire it" spec.md §2 asks the
// host scheduler to supply. A WaitGroup is born with its one permit
// already consumed, so Wait blocks until some other goroutine calls
// Wakeup, which releases the permit exactly once.
type WaitGroup struct {
	mu     sync.Mutex
	winner *Waiter
	sema   *semaphore.Weighted
}

// NewWaitGroup creates a WaitGroup ready to be waited on: its semaphore
// starts with no permit available, so the first Wait call blocks.
func NewWaitGroup() *WaitGroup {
	g := &WaitGroup{sema: semaphore.NewWeighted(1)}
	// Acquire can't fail against a background context on a semaphore we
	// just created with weight 1.
	_ = g.sema.Acquire(context.Background(), 1)
	return g
}

// TryWin atomically claims victory for w if no Waiter has won yet.
// Monotonic: once a winner is set it never changes.
func (g *WaitGroup) TryWin(w *Waiter) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.winner != nil {
		return false
	}
	g.winner = w
	return true
}

// Winner returns the Waiter that won this group, or nil if none has yet.
func (g *WaitGroup) Winner() *Waiter {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.winner
}

// Wait blocks until Wakeup is called by whichever task won this group.
func (g *WaitGroup) Wait() {
	_ = g.sema.Acquire(context.Background(), 1)
}

// Wakeup releases the group's semaphore. Precondition: a winner has
// already been committed via TryWin. Called exactly once per group.
func (g *WaitGroup) Wakeup() {
	g.sema.Release(1)
}

// UnregisterAll removes every still-queued waiter in waiters from its
// channel's send/recv queue, tolerating waiters already dequeued by a
// peer (spec.md §4.2). Always safe to call, including on the winning
// waiter itself (a no-op, since dequeueWinner already unlinked it).
func (g *WaitGroup) UnregisterAll(waiters []*Waiter) {
	for _, w := range waiters {
		w.Channel.unregister(w)
	}
}
