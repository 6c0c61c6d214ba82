package daemon

import (
	"sync"
	"time"

	"github.com/jmylchreest/toasty/internal/dbus"
	"github.com/jmylchreest/toasty/internal/model"
)

// DisplayStatus is the visibility of the toast.
type DisplayStatus int

const (
	// DisplayStatusIdle means nothing has been shown yet.
	DisplayStatusIdle DisplayStatus = iota
	// DisplayStatusActive means the toast is on screen.
	DisplayStatusActive
	// DisplayStatusDismissed means the last toast timed out or was closed.
	DisplayStatusDismissed
)

// String returns the string representation of DisplayStatus.
func (s DisplayStatus) String() string {
	switch s {
	case DisplayStatusIdle:
		return "idle"
	case DisplayStatusActive:
		return "active"
	case DisplayStatusDismissed:
		return "dismissed"
	default:
		return "unknown"
	}
}

// Tracker remembers the last shown request. It keeps no history.
type Tracker struct {
	mu      sync.RWMutex
	last    model.NotificationRequest
	shownAt time.Time
	count   uint32
	status  DisplayStatus
	now     func() time.Time
}

// NewTracker creates an idle tracker.
func NewTracker() *Tracker {
	return &Tracker{now: time.Now}
}

// Record stores req as the last shown request. It matches the event bus
// handler signature so it can be subscribed after the binding.
func (t *Tracker) Record(req model.NotificationRequest) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.last = req
	t.shownAt = t.now()
	t.count++
	t.status = DisplayStatusActive
}

// MarkDismissed records that the toast left the screen.
func (t *Tracker) MarkDismissed() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.status == DisplayStatusActive {
		t.status = DisplayStatusDismissed
	}
}

// Last returns the last shown request and whether there was one.
func (t *Tracker) Last() (model.NotificationRequest, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.last, t.count > 0
}

// Count returns the number of requests shown since start.
func (t *Tracker) Count() uint32 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.count
}

// DisplayStatus returns the toast visibility.
func (t *Tracker) DisplayStatus() DisplayStatus {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.status
}

// Status returns the tracker state in GetStatus form.
func (t *Tracker) Status() dbus.Status {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return dbus.Status{
		ID:      t.last.ID,
		Text:    t.last.Text,
		Type:    t.last.Type,
		ShownAt: t.shownAt,
		Count:   t.count,
	}
}
