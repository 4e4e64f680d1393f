package gochan

import "github.com/veezhang/gochan/internal/runtimecore"

// SelectCase is one arm of a Select call, built with RecvCase, SendCase or
// DefaultCase. At most one DefaultCase is allowed per Select; a second one
// panics (spec.md §4.3, §7).
type SelectCase struct {
	raw runtimecore.Case
}

// RecvCase builds a select case that receives from c.
func RecvCase[T any](c *Channel[T]) SelectCase {
	return SelectCase{raw: runtimecore.Case{Kind: runtimecore.CaseRecv, Channel: c.raw}}
}

// SendCase builds a select case that sends v on c.
func SendCase[T any](c *Channel[T], v T) SelectCase {
	return SelectCase{raw: runtimecore.Case{Kind: runtimecore.CaseSend, Channel: c.raw, Value: v}}
}

// DefaultCase builds the (at most one) default case of a select.
func DefaultCase() SelectCase {
	return SelectCase{raw: runtimecore.Case{Kind: runtimecore.CaseDefault}}
}

// Select runs spec.md §4.3's multi-way rendezvous over cases and returns
// the original (pre-shuffle) index of the case that fired, plus the
// received value/ok when that case was a RecvCase. This mirrors the
// standard library's reflect.Select shape deliberately: recvValue is typed
// `any` because Select has no way to know which element type won ahead of
// time, so callers type-assert it (or use RecvValue[T]) against the
// element type of the channel at the winning index, exactly as reflect.
// Select callers do against its reflect.Value result.
//
// When no case is immediately ready and cases includes a DefaultCase, that
// case wins immediately. When no case is ready, there is no default, and
// every channel named is the nil channel, Select blocks forever. Panics if
// cases contains more than one default, an unrecognized case shape, or if
// the winning case is a send on a channel that was (or became) closed.
func Select(cases ...SelectCase) (chosen int, recvValue any, recvOK bool) {
	return Default.Select(cases...)
}

// Select runs Select using r's own select-fairness PRNG.
func (r *Runtime) Select(cases ...SelectCase) (chosen int, recvValue any, recvOK bool) {
	raw := make([]runtimecore.Case, len(cases))
	for i, c := range cases {
		raw[i] = c.raw
	}
	res := runtimecore.SelectRaw(raw, r.perm)
	return res.Index, res.Value, res.OK
}

// RecvValue type-asserts a Select result's recvValue against T, returning
// the zero value if v is nil (e.g. the winning case was a send, or a recv
// from a closed channel). A convenience over the raw `any` Select returns.
func RecvValue[T any](v any) T {
	return asT[T](v)
}
