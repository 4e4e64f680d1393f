package runtimecore

// CaseKind tags one select case's shape. Known only to the caller (package
// gochan) and this file — there is no compiler support to enforce it the
// way the real Go compiler enforces scase.kind, so SelectRaw validates it.
type CaseKind int

const (
	CaseRecv CaseKind = iota
	CaseSend
	CaseDefault
)

// Case is one arm of a select: a recv or send on Channel, or a default.
// Channel is nil (or the nil-channel sentinel) for a case that should never
// become ready, and entirely unused for CaseDefault.
type Case struct {
	Kind    CaseKind
	Channel *RawChannel
	Value   any // the value to send, for Kind == CaseSend
}

// Result is what a completed select reports back.
type Result struct {
	Index int
	Value any
	OK    bool
}

// SelectRaw runs spec.md §4.3's select algorithm over cases. perm must
// return a permutation of [0, n) — package gochan supplies one backed by a
// per-Runtime *rand.Rand so select's fairness guarantee (spec.md §8
// property 5) only needs "per-task seeding", not a shared PRNG lock held
// across this whole call.
func SelectRaw(cases []Case, perm func(n int) []int) Result {
	defaultIdx := -1
	for i, c := range cases {
		switch c.Kind {
		case CaseDefault:
			if defaultIdx != -1 {
				panic(NewRuntimeError("select has multiple default cases"))
			}
			defaultIdx = i
		case CaseRecv, CaseSend:
			// recognized
		default:
			panic(NewRuntimeError("select case is not a recognized recv/send/default shape"))
		}
	}

	order := perm(len(cases))

	live := make([]int, 0, len(cases))
	for _, idx := range order {
		c := cases[idx]
		if c.Kind == CaseDefault {
			continue
		}
		if c.Channel == nil || c.Channel.isNil {
			continue // nil-channel cases are legal; they just never become ready
		}
		live = append(live, idx)
	}

	// First pass: poll every live case once, in the random order, for an
	// immediately-ready fast path.
	for _, idx := range live {
		c := cases[idx]
		c.Channel.mu.Lock()
		if c.Kind == CaseSend {
			switch c.Channel.trySendLocked(c.Value) {
			case tryDone:
				return Result{Index: idx}
			case tryClosedPanic:
				panic(NewRuntimeError("send on closed channel"))
			default:
				c.Channel.mu.Unlock()
			}
		} else {
			outcome, v, ok := c.Channel.tryRecvLocked()
			if outcome == tryDone {
				return Result{Index: idx, Value: v, OK: ok}
			}
			c.Channel.mu.Unlock()
		}
	}

	if defaultIdx != -1 {
		return Result{Index: defaultIdx}
	}

	if len(live) == 0 {
		// every case is a nil channel and there is no default: block
		// forever, per spec.md §4.3 step 4.
		blockForever()
		panic("unreachable")
	}

	// Second pass: subscribe a Waiter on every live case under one shared
	// WaitGroup, then block until exactly one wins.
	g := NewWaitGroup()
	queued := make([]*Waiter, 0, len(live))

	for _, idx := range live {
		c := cases[idx]

		// channel.mu then g.mu, per spec.md §4.1/§5's lock order. g.mu is
		// held continuously from the winner-check through the operation
		// attempt and the win-claim: a peer can only dequeue and win one of
		// this select's already-queued waiters (an earlier case in this
		// same loop) by going through WaitGroup.TryWin, which takes the
		// same g.mu — so it cannot interleave with this case's attempt and
		// deliver a value this select then fails to report.
		c.Channel.mu.Lock()
		g.mu.Lock()
		if g.winner != nil {
			g.mu.Unlock()
			c.Channel.mu.Unlock()
			break
		}

		var outcome tryOutcome
		var v any
		var ok bool
		if c.Kind == CaseSend {
			outcome = c.Channel.trySendLocked(c.Value)
		} else {
			outcome, v, ok = c.Channel.tryRecvLocked()
		}

		switch outcome {
		case tryDone:
			g.winner = selfWinSentinel
			g.mu.Unlock()
			g.UnregisterAll(queued)
			if c.Kind == CaseSend {
				return Result{Index: idx}
			}
			return Result{Index: idx, Value: v, OK: ok}
		case tryClosedPanic:
			g.winner = selfWinSentinel
			g.mu.Unlock()
			g.UnregisterAll(queued)
			panic(NewRuntimeError("send on closed channel"))
		default: // tryBlocked: c.Channel.mu is still held
			kind := KindRecv
			if c.Kind == CaseSend {
				kind = KindSend
			}
			w := &Waiter{Kind: kind, Group: g, Channel: c.Channel, Value: c.Value, CaseIndex: idx}
			if c.Kind == CaseSend {
				c.Channel.sendq.enqueue(w)
			} else {
				c.Channel.recvq.enqueue(w)
			}
			queued = append(queued, w)
			g.mu.Unlock()
			c.Channel.mu.Unlock()
		}
	}

	g.Wait()
	w := g.Winner()
	g.UnregisterAll(queued)
	// w is never selfWinSentinel here: every path above that sets it to
	// selfWinSentinel returns or panics before reaching g.Wait().

	if w.Kind == KindSend {
		if !w.Succeeded {
			panic(NewRuntimeError("send on closed channel"))
		}
		return Result{Index: w.CaseIndex}
	}
	return Result{Index: w.CaseIndex, Value: w.Value, OK: w.OK}
}
