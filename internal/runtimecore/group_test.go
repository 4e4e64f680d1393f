package runtimecore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWaitGroupTryWinIsMonotonic(t *testing.T) {
	g := NewWaitGroup()
	w1 := &Waiter{}
	w2 := &Waiter{}

	require.True(t, g.TryWin(w1))
	require.False(t, g.TryWin(w2))
	require.Same(t, w1, g.Winner())
}

func TestWaitGroupWaitBlocksUntilWakeup(t *testing.T) {
	g := NewWaitGroup()
	done := make(chan struct{})
	go func() {
		g.Wait()
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("wait returned before wakeup")
	case <-time.After(20 * time.Millisecond):
	}

	g.Wakeup()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("wait never returned after wakeup")
	}
}

func TestUnregisterAllToleratesAlreadyDequeued(t *testing.T) {
	c := NewRawChannel(0)
	g := NewWaitGroup()
	w := &Waiter{Kind: KindRecv, Group: g, Channel: c}
	c.recvq.enqueue(w)

	// Simulate a peer already having dequeued it.
	c.mu.Lock()
	c.recvq.unlink(w)
	c.mu.Unlock()

	require.NotPanics(t, func() {
		g.UnregisterAll([]*Waiter{w})
	})
}
