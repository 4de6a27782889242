package syncer

import (
	"sync"
	"time"
)

// Debouncer coalesces rapid sync triggers into one pass. Each Trigger
// call cancels any pending timer and schedules a fresh one; once the
// delay elapses the run function executes to completion and is never
// cancelled mid-flight. Cancellation is only meaningful before a pass
// starts.
type Debouncer struct {
	delay time.Duration
	run   func()

	mu    sync.Mutex
	timer *time.Timer
}

// NewDebouncer wraps run with the given coalescing delay.
func NewDebouncer(delay time.Duration, run func()) *Debouncer {
	return &Debouncer{delay: delay, run: run}
}

// Trigger schedules a pass after the delay, replacing any pending one.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, d.run)
}

// Cancel drops a pending pass. Passes already started are unaffected.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// Flush runs a pending pass immediately instead of waiting out the
// delay. It is a no-op when nothing is pending.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	pending := d.timer != nil && d.timer.Stop()
	d.timer = nil
	d.mu.Unlock()

	if pending {
		d.run()
	}
}
