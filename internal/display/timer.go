package display

import (
	"sync"
	"time"

	"github.com/diamondburned/gotk4/pkg/core/glib"
)

// Scheduler runs f once after d. The returned func cancels it.
type Scheduler interface {
	After(d time.Duration, f func()) (cancel func())
}

// glibScheduler schedules on the GTK main loop.
type glibScheduler struct{}

func (glibScheduler) After(d time.Duration, f func()) func() {
	handle := glib.TimeoutAdd(uint(d.Milliseconds()), func() bool {
		f()
		return false
	})
	var once sync.Once
	return func() {
		once.Do(func() { glib.SourceRemove(handle) })
	}
}

// DismissTimer hides the toast after a timeout. A zero timeout never fires.
// Hover pauses it; leaving restarts the full timeout.
type DismissTimer struct {
	sched   Scheduler
	onFire  func()
	mu      sync.Mutex
	timeout time.Duration
	cancel  func()
	gen     uint64
	paused  bool
	armed   bool
}

// NewDismissTimer creates a stopped timer calling onFire when it expires.
func NewDismissTimer(sched Scheduler, onFire func()) *DismissTimer {
	return &DismissTimer{sched: sched, onFire: onFire}
}

// SetTimeout sets the duration used by the next Restart.
func (t *DismissTimer) SetTimeout(d time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.timeout = d
}

// Timeout returns the configured duration.
func (t *DismissTimer) Timeout() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.timeout
}

// Restart cancels any pending expiry and starts a new one.
func (t *DismissTimer) Restart() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.armed = true
	t.scheduleLocked()
}

// Pause cancels the pending expiry until Resume.
func (t *DismissTimer) Pause() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.paused = true
	t.cancelLocked()
}

// Resume restarts the full timeout if the timer was armed.
func (t *DismissTimer) Resume() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.paused = false
	if t.armed {
		t.scheduleLocked()
	}
}

// Stop disarms the timer.
func (t *DismissTimer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.armed = false
	t.cancelLocked()
}

// Pending reports whether an expiry is scheduled.
func (t *DismissTimer) Pending() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cancel != nil
}

func (t *DismissTimer) scheduleLocked() {
	t.cancelLocked()
	if t.paused || t.timeout <= 0 {
		return
	}

	t.gen++
	gen := t.gen
	t.cancel = t.sched.After(t.timeout, func() {
		t.mu.Lock()
		// A later Restart or Pause replaced this expiry
		current := t.gen == gen && t.cancel != nil
		if current {
			t.cancel = nil
			t.armed = false
		}
		t.mu.Unlock()

		if current && t.onFire != nil {
			t.onFire()
		}
	})
}

func (t *DismissTimer) cancelLocked() {
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
}
