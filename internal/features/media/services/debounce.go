package services

import (
	"sync"
	"time"
)

// SearchDebounceDelay is how long query input must settle before a search runs
const SearchDebounceDelay = 300 * time.Millisecond

// Debouncer coalesces rapid query updates so only the final value within the
// delay window is acted on.
type Debouncer struct {
	delay time.Duration

	mu    sync.Mutex
	timer *time.Timer
}

// NewDebouncer creates a debouncer with the given settle delay
func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

// Trigger schedules fn to run with value after the delay. A newer Trigger
// before the delay elapses cancels the pending one.
func (d *Debouncer) Trigger(value string, fn func(string)) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, func() {
		fn(value)
	})
}

// Stop cancels any pending trigger
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
