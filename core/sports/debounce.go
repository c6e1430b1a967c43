package sports

import (
	"sync"
	"time"
)

// debouncer coalesces rapid triggers into a single fire after a quiet
// period. Each trigger replaces the pending payload and restarts the delay;
// only the latest payload is delivered.
type debouncer struct {
	delay time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	pending Update
}

func newDebouncer(delay time.Duration) *debouncer {
	return &debouncer{delay: delay}
}

func (d *debouncer) trigger(upd Update, fire func(Update)) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.pending = upd
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		latest := d.pending
		d.timer = nil
		d.mu.Unlock()
		fire(latest)
	})
}

func (d *debouncer) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
