package runtimecore

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newPerm(seed int64) func(int) []int {
	r := rand.New(rand.NewSource(seed))
	return r.Perm
}

func TestSelectDefaultWinsWhenNoCaseReady(t *testing.T) {
	c := NewRawChannel(0)
	res := SelectRaw([]Case{
		{Kind: CaseRecv, Channel: c},
		{Kind: CaseDefault},
	}, newPerm(1))
	require.Equal(t, 1, res.Index)
}

func TestSelectMultipleDefaultsPanics(t *testing.T) {
	require.Panics(t, func() {
		SelectRaw([]Case{
			{Kind: CaseDefault},
			{Kind: CaseDefault},
		}, newPerm(1))
	})
}

func TestSelectInvalidCaseShapePanics(t *testing.T) {
	require.Panics(t, func() {
		SelectRaw([]Case{{Kind: CaseKind(99)}}, newPerm(1))
	})
}

func TestSelectNilChannelCaseNeverWins(t *testing.T) {
	nilC := NilChannel()
	ready := NewRawChannel(1)
	ready.Send(1)

	res := SelectRaw([]Case{
		{Kind: CaseRecv, Channel: nilC},
		{Kind: CaseRecv, Channel: ready},
	}, newPerm(1))
	require.Equal(t, 1, res.Index)
	require.Equal(t, 1, res.Value)
	require.True(t, res.OK)
}

func TestSelectBlocksUntilAPeerSends(t *testing.T) {
	c := NewRawChannel(0)
	done := make(chan Result, 1)

	go func() {
		res := SelectRaw([]Case{{Kind: CaseRecv, Channel: c}}, newPerm(1))
		done <- res
	}()

	time.Sleep(20 * time.Millisecond)
	c.Send(99)

	select {
	case res := <-done:
		require.Equal(t, 0, res.Index)
		require.Equal(t, 99, res.Value)
		require.True(t, res.OK)
	case <-time.After(time.Second):
		t.Fatal("select never observed the send")
	}
}

func TestSelectFairnessOverManyTrials(t *testing.T) {
	const trials = 10000
	wins := [2]int{}

	for i := 0; i < trials; i++ {
		a := NewRawChannel(1)
		b := NewRawChannel(1)
		a.Send(1)
		b.Send(1)

		res := SelectRaw([]Case{
			{Kind: CaseRecv, Channel: a},
			{Kind: CaseRecv, Channel: b},
		}, rand.New(rand.NewSource(int64(i))).Perm)
		wins[res.Index]++
	}

	require.InDelta(t, trials/2, wins[0], float64(trials)*0.05)
	require.InDelta(t, trials/2, wins[1], float64(trials)*0.05)
}

func TestSelectSendOnClosedChannelPanics(t *testing.T) {
	c := NewRawChannel(0)
	c.Close()
	require.Panics(t, func() {
		SelectRaw([]Case{{Kind: CaseSend, Channel: c, Value: 1}}, newPerm(1))
	})
}
