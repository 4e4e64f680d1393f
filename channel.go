package gochan

import "github.com/veezhang/gochan/internal/runtimecore"

// Channel is a generic, type-safe FIFO rendezvous/buffer carrying values of
// type T (spec.md GLOSSARY). Capacity 0 is synchronous: send and receive
// complete only in matched pairs. Capacity N>0 is buffered, FIFO, bounded
// by N. The zero Channel[T] is not usable — build one with Make or Nil.
type Channel[T any] struct {
	raw *runtimecore.RawChannel
}

// Make creates a channel of the given capacity. Capacity 0 ⇒ synchronous,
// capacity N ⇒ buffered of N, per spec.md §4.1/§6.
func Make[T any](capacity int) *Channel[T] {
	return &Channel[T]{raw: runtimecore.NewRawChannel(capacity)}
}

// Nil returns the nil channel of element type T: a distinguished sentinel
// that blocks forever on Send/Recv and panics on Close (spec.md §4.1,
// GLOSSARY). Every Nil[T]() wraps the same underlying sentinel; only the
// compile-time element type differs.
func Nil[T any]() *Channel[T] {
	return &Channel[T]{raw: runtimecore.NilChannel()}
}

// Send blocks until v is delivered to a receiver (capacity 0) or there is
// buffer room (capacity>0). Panics with a *RuntimeError if the channel is
// or becomes closed while parked. Blocks forever on the nil channel.
func (c *Channel[T]) Send(v T) {
	c.raw.Send(v)
}

// TrySend attempts a non-blocking send; returns false instead of blocking
// when there is no room and no parked receiver. Still panics if the
// channel is closed.
func (c *Channel[T]) TrySend(v T) bool {
	return c.raw.TrySend(v)
}

// Recv blocks until a value is available, discarding the comma-ok result
// close delivers. Blocks forever on the nil channel.
func (c *Channel[T]) Recv() T {
	return asT[T](c.raw.Recv())
}

// RecvOK blocks until a value is available or the channel is closed and
// drained, in which case it returns the zero value and ok=false — not an
// error, per spec.md §7.
func (c *Channel[T]) RecvOK() (T, bool) {
	v, ok := c.raw.RecvOK()
	return asT[T](v), ok
}

// TryRecv attempts a non-blocking receive. selected is false when there is
// nothing available without blocking (empty and open, or the nil channel);
// when selected is true, ok carries RecvOK's closed/open meaning.
func (c *Channel[T]) TryRecv() (value T, ok bool, selected bool) {
	v, recvOK, done := c.raw.TryRecv()
	if !done {
		var zero T
		return zero, false, false
	}
	return asT[T](v), recvOK, true
}

// Close marks the channel closed: every parked receiver wakes with
// (zero, false); every parked sender wakes into a panic. Panics if c is
// already closed or is the nil channel.
func (c *Channel[T]) Close() {
	c.raw.Close()
}

// Len reports the number of values currently buffered. Advisory only, per
// spec.md §4.1: concurrent operations may change the count before the
// caller acts on it.
func (c *Channel[T]) Len() int {
	return c.raw.Len()
}

// Cap reports the channel's buffer capacity.
func (c *Channel[T]) Cap() int {
	return c.raw.Cap()
}

func asT[T any](v any) T {
	if v == nil {
		var zero T
		return zero
	}
	return v.(T)
}
