package runtimecore

// Kind tags what a Waiter is parked on: a send of a pending value, or a
// receive. Mirrors the teacher's sudog, which is likewise tagged implicitly
// by which of c.elem/c.isSelect/c.success the caller filled in — made
// explicit here since this engine has no compiler to keep the invariant for
// it.
type Kind int

const (
	KindSend Kind = iota
	KindRecv
)

// Waiter is a transient record for one task parked on one potential
// operation (send or receive) on one channel, per spec.md §3. It is
// intrusively linked into exactly one channel waitq at a time.
type Waiter struct {
	Kind    Kind
	Group   *WaitGroup
	Channel *RawChannel

	// Value carries the value to send (Kind == KindSend, set by the
	// enqueuing caller) or the value received (Kind == KindRecv, filled in
	// by whoever wakes this waiter).
	Value any
	// OK is the comma-ok result for a Recv waiter.
	OK bool
	// Succeeded is true if a Send waiter's value was actually delivered;
	// false means the channel was closed out from under it.
	Succeeded bool

	// CaseIndex is the original (pre-shuffle) select case index this
	// waiter represents, or -1 for a plain (non-select) blocking op.
	CaseIndex int

	queued     bool
	prev, next *Waiter
}

// waitq is the FIFO queue of parked senders or receivers on one channel,
// spec.md §3's recvq/sendq. It is an intrusive doubly-linked list so a
// select's cleanup pass can unlink a specific waiter in O(1) without
// scanning (spec.md §4.2 unregisterAll).
type waitq struct {
	first, last *Waiter
}

func (q *waitq) enqueue(w *Waiter) {
	w.next = nil
	w.prev = q.last
	if q.last == nil {
		q.first = w
	} else {
		q.last.next = w
	}
	q.last = w
	w.queued = true
}

// unlink removes w from the queue if it is still linked; tolerates w
// already having been dequeued by a peer (spec.md §4.2 unregisterAll).
func (q *waitq) unlink(w *Waiter) {
	if !w.queued {
		return
	}
	if w.prev != nil {
		w.prev.next = w.next
	} else {
		q.first = w.next
	}
	if w.next != nil {
		w.next.prev = w.prev
	} else {
		q.last = w.prev
	}
	w.prev, w.next = nil, nil
	w.queued = false
}

// dequeueWinner pops waiters from the front of the queue until one
// successfully claims victory in its own wait group, or the queue runs dry.
// A popped waiter that loses the race (its group already has a winner via
// another channel, only possible for a select waiter) is discarded and the
// search continues. This is spec.md §4.1's dequeueWaiter.
func (q *waitq) dequeueWinner() *Waiter {
	for {
		w := q.first
		if w == nil {
			return nil
		}
		q.unlink(w)
		if w.Group.TryWin(w) {
			return w
		}
	}
}

func (q *waitq) empty() bool { return q.first == nil }
