package validation

import (
	"sync"
	"time"
)

// Debouncer coalesces rapid repeated validation requests into the latest
// one: each Schedule call resets the window, and only the most recent
// function scheduled within the window runs. Callers tearing down (an
// editor field losing focus) must call Stop to prevent a stray run firing
// after disposal.
//
// This is the only asynchronous member of the package; the synchronous
// validators need no cancellation since they cannot block.
type Debouncer struct {
	delay time.Duration

	mu    sync.Mutex
	timer *time.Timer
}

// NewDebouncer builds a debouncer with the given window.
func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

// Schedule queues fn to run after the window elapses, replacing any
// previously scheduled function that has not yet fired.
func (d *Debouncer) Schedule(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, fn)
}

// Stop cancels any pending run. It is safe to call repeatedly and after the
// debouncer has fired.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
