package gochan

import "github.com/veezhang/gochan/internal/runtimecore"

// RuntimeError is the panic value raised for every fatal condition in
// spec.md §7: send on a closed channel, a second close, close of a nil
// channel, reset of an armed timer, a non-positive ticker interval, a
// malformed select. It wraps github.com/pkg/errors internally so a
// recovering caller can still walk the cause chain with errors.Cause.
type RuntimeError = runtimecore.RuntimeError
