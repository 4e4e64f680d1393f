package gochan_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/veezhang/gochan"
)

func TestSelectDefault(t *testing.T) {
	c := gochan.Make[int](0)
	chosen, _, _ := gochan.Select(gochan.RecvCase(c), gochan.DefaultCase())
	require.Equal(t, 1, chosen)
}

func TestSelectFairness(t *testing.T) {
	wins := [2]int{}
	for i := 0; i < 10000; i++ {
		a := gochan.Make[string](1)
		b := gochan.Make[string](1)
		a.Send("a")
		b.Send("b")

		chosen, _, _ := gochan.Select(gochan.RecvCase(a), gochan.RecvCase(b))
		wins[chosen]++
	}
	require.InDelta(t, 5000, wins[0], 500)
	require.InDelta(t, 5000, wins[1], 500)
}

func TestSelectRecvValue(t *testing.T) {
	c := gochan.Make[int](1)
	c.Send(5)
	chosen, v, ok := gochan.Select(gochan.RecvCase(c))
	require.Equal(t, 0, chosen)
	require.True(t, ok)
	require.Equal(t, 5, gochan.RecvValue[int](v))
}

func TestSelectBlocksThenWins(t *testing.T) {
	c := gochan.Make[int](0)
	done := make(chan int, 1)
	go func() {
		_, v, _ := gochan.Select(gochan.RecvCase(c))
		done <- gochan.RecvValue[int](v)
	}()

	time.Sleep(20 * time.Millisecond)
	c.Send(7)

	select {
	case v := <-done:
		require.Equal(t, 7, v)
	case <-time.After(time.Second):
		t.Fatal("select never observed the send")
	}
}
