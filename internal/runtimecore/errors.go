// Package runtimecore implements the type-erased concurrency engine behind
// package gochan: channels, the waiter/wait-group rendezvous protocol, and
// select. It is the Go-native analogue of the teacher's runtime/chan.go and
// runtime/select.go, generalized from compiler-known hchan/sudog/scase
// structs operating on unsafe.Pointer to a library operating on boxed `any`
// values, since this engine has no compiler support to specialize per type.
package runtimecore

import "github.com/pkg/errors"

// RuntimeError is the panic value raised for every fatal condition in
// spec.md §7: send on a closed channel, a second close, close of a nil
// channel, reset of an armed timer, a non-positive ticker interval, a
// malformed or duplicated select case. It wraps github.com/pkg/errors so a
// recovering caller can still inspect the cause with errors.Cause.
type RuntimeError struct {
	msg   string
	cause error
}

// NewRuntimeError builds a RuntimeError carrying msg, usable both inside
// this package and by package gochan for the handful of panics (timer,
// ticker) that originate above the channel engine.
func NewRuntimeError(msg string) *RuntimeError {
	return &RuntimeError{msg: msg, cause: errors.New(msg)}
}

func (e *RuntimeError) Error() string { return e.msg }

// Unwrap lets errors.As/errors.Is see through to the wrapped sentinel.
func (e *RuntimeError) Unwrap() error { return e.cause }

// Cause lets pkg/errors.Cause see through to the wrapped sentinel.
func (e *RuntimeError) Cause() error { return e.cause }
