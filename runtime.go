// Package gochan reproduces Go-style lightweight tasks, typed channels,
// multi-way select and a timer/ticker subsystem as a library a host
// process can embed, per spec.md. The host scheduler spec.md §2 item 2
// names is, here, the Go runtime's own goroutines — Spawn is a thin
// wrapper over `go`, and the binary semaphore the wait-group protocol
// needs comes from golang.org/x/sync/semaphore rather than anything this
// package builds itself.
package gochan

import (
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Runtime bundles the external collaborators spec.md §6 asks a host to
// provide — a Clock, and (since this is a library rather than a language
// runtime) a logger and a select PRNG — plus the teardown-suppression
// flag spec.md §4.4/§7 describes. Default is a ready-to-use Runtime built
// with RealClock and a no-op logger; most callers never need to construct
// their own.
type Runtime struct {
	clock  Clock
	logger *zap.Logger

	randMu sync.Mutex
	rand   *rand.Rand

	shuttingDown atomic.Bool
}

// Option configures a Runtime built with New.
type Option func(*Runtime)

// WithClock overrides the Clock a Runtime's Timer/Ticker subsystem uses.
// Grounded in the teacher's separation of the runtime engine from the
// external clock service (spec.md §2 item 1): tests construct a Runtime
// with a fake Clock instead of sleeping for real.
func WithClock(c Clock) Option {
	return func(r *Runtime) { r.clock = c }
}

// WithLogger overrides the *zap.Logger a Runtime uses for the diagnostics
// named in SPEC_FULL.md's ambient logging section (recovered teardown
// panics, dropped ticks). The default is zap.NewNop(), matching a library
// that should stay silent unless a host opts in.
func WithLogger(l *zap.Logger) Option {
	return func(r *Runtime) { r.logger = l }
}

// WithRandSeed seeds the Runtime's select-fairness PRNG deterministically,
// for reproducible tests of spec.md §8 property 5.
func WithRandSeed(seed int64) Option {
	return func(r *Runtime) { r.rand = rand.New(rand.NewSource(seed)) }
}

// New builds a Runtime. Per-task seeding suffices for select's fairness
// requirement (spec.md §9 design notes), so the default PRNG is seeded off
// the wall clock rather than shared process-wide.
func New(opts ...Option) *Runtime {
	r := &Runtime{
		clock:  RealClock{},
		logger: zap.NewNop(),
		rand:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Default is the package-level Runtime the free functions Spawn, Select,
// TimerAfter, NewTicker and the like delegate to. Make and Nil use no
// Runtime.
var Default = New()

// perm returns a permutation of [0, n), guarded by a mutex since *rand.Rand
// is not itself safe for concurrent use (unlike the math/rand package-level
// functions, which lock internally).
func (r *Runtime) perm(n int) []int {
	r.randMu.Lock()
	defer r.randMu.Unlock()
	return r.rand.Perm(n)
}

// Shutdown marks the Runtime as tearing down. Spawn's panic recovery
// consults this flag to implement spec.md §4.4/§7's "panics raised during
// host-process teardown are swallowed silently" rule — this library has no
// access to a real process-exit hook, so an embedding host calls Shutdown
// explicitly just before it starts tearing down globals Spawned tasks might
// still be touching.
func (r *Runtime) Shutdown() {
	r.shuttingDown.Store(true)
}

// Spawn launches fn as an independent task on the host scheduler, per
// spec.md §4.4: no return handle, no join. A panic inside fn propagates to
// the process in Go's usual way, unless the Runtime has been told to shut
// down, in which case it is logged at debug level and swallowed instead of
// crashing an otherwise-exiting process.
func (r *Runtime) Spawn(fn func()) {
	go func() {
		defer r.recoverTeardownPanic()
		fn()
	}()
}

func (r *Runtime) recoverTeardownPanic() {
	rec := recover()
	if rec == nil {
		return
	}
	if r.shuttingDown.Load() {
		r.logger.Debug("panic suppressed during runtime teardown", zap.Any("panic", rec))
		return
	}
	panic(rec)
}

// Spawn launches fn on Default.
func Spawn(fn func()) { Default.Spawn(fn) }

// Shutdown marks Default as tearing down.
func Shutdown() { Default.Shutdown() }

// Now returns Default's clock's current time, in seconds.
func Now() float64 { return Default.clock.Now() }

// SleepSeconds blocks the calling goroutine for d seconds on Default's clock.
func SleepSeconds(d float64) { Default.clock.Sleep(d) }
