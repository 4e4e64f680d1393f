package gochan

import (
	"sync"

	"github.com/veezhang/gochan/internal/runtimecore"
)

// Ticker is a periodic event source built on a capacity-1 channel it owns
// (spec.md §4.5). Ticks are dropped, not queued, when the receiver falls
// behind.
type Ticker struct {
	runtime *Runtime

	mu      sync.Mutex
	stopped bool

	c *Channel[float64]
}

// NewTicker returns a periodic event source that delivers the current time
// on Default every dt seconds. Panics if dt <= 0.
func NewTicker(dt float64) *Ticker { return Default.NewTicker(dt) }

// TickerChan is a convenience wrapper returning only the ticking channel,
// for callers with no need to ever stop it — mirrors the standard
// library's time.Tick (wenfang/golang1.6-src's src/time/tick.go).
func TickerChan(dt float64) *Channel[float64] { return Default.Ticker(dt) }

// NewTicker returns a periodic event source that delivers the current time
// every dt seconds. Panics if dt <= 0.
func (r *Runtime) NewTicker(dt float64) *Ticker {
	if dt <= 0 {
		panic(runtimecore.NewRuntimeError("dt <= 0"))
	}
	tk := &Ticker{runtime: r, c: Make[float64](1)}
	r.Spawn(tk.loop(dt))
	return tk
}

// Ticker is a convenience wrapper returning only the ticking channel.
func (r *Runtime) Ticker(dt float64) *Channel[float64] {
	return r.NewTicker(dt).c
}

func (tk *Ticker) loop(dt float64) func() {
	return func() {
		for {
			tk.runtime.clock.Sleep(dt)

			tk.mu.Lock()
			if tk.stopped {
				tk.mu.Unlock()
				return
			}
			// Non-blocking send: drop the tick on the floor when the
			// receiver is behind instead of ever queuing one up
			// (spec.md §4.5).
			if !tk.c.TrySend(tk.runtime.clock.Now()) {
				tk.runtime.logger.Debug("ticker dropped a tick; receiver behind")
			}
			tk.mu.Unlock()
		}
	}
}

// C returns the channel ticks are delivered on.
func (tk *Ticker) C() *Channel[float64] { return tk.c }

// Stop turns off the ticker. After Stop returns, the channel is empty and
// no further ticks will ever be delivered.
func (tk *Ticker) Stop() {
	tk.mu.Lock()
	defer tk.mu.Unlock()
	tk.stopped = true
	for {
		_, _, selected := tk.c.TryRecv()
		if !selected {
			return
		}
	}
}
