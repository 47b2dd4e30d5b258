package analytics

import (
	"sync"
	"time"
)

// DefaultDebounce is how long the aggregator waits for further updates before flushing
const DefaultDebounce = time.Second

// debouncer holds at most one pending callback. Scheduling again replaces it.
type debouncer struct {
	mu    sync.Mutex
	delay time.Duration
	timer *time.Timer
	gen   uint64
}

func newDebouncer(delay time.Duration) *debouncer {
	return &debouncer{delay: delay}
}

// Schedule replaces any pending callback with fn. fn receives the generation it was
// scheduled under so it can check Current before acting.
func (d *debouncer) Schedule(fn func(gen uint64)) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.timer = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		if gen == d.gen {
			d.timer = nil
		}
		d.mu.Unlock()
		fn(gen)
	})
}

// Current reports whether gen is still the latest scheduled generation
func (d *debouncer) Current(gen uint64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return gen == d.gen
}

// Cancel drops the pending callback, if any, and reports whether one was pending
func (d *debouncer) Cancel() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	pending := d.timer != nil
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.gen++
	return pending
}

// Pending reports whether a callback is waiting to fire
func (d *debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}
