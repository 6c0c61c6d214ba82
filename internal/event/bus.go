// Package event provides a typed, synchronous event bus.
package event

import (
	"log/slog"
	"sync"
)

// Handler receives published events.
type Handler[T any] func(T)

// BusOptions configures a Bus.
type BusOptions struct {
	// Name identifies the event carried by the bus (e.g. "showMessage").
	Name   string
	Logger *slog.Logger
}

// Bus delivers events of a single type to its subscribers.
//
// Events are dispatched in publish order and handlers never run
// concurrently. A Publish made while another dispatch is in progress
// (from a handler, or from a different goroutine) is appended to the
// pending queue and delivered by the dispatching goroutine once the
// current event has reached every subscriber.
type Bus[T any] struct {
	name   string
	logger *slog.Logger

	mu          sync.Mutex
	nextID      uint64
	subscribers []subscriber[T]
	pending     []T
	dispatching bool
}

type subscriber[T any] struct {
	id      uint64
	handler Handler[T]
}

// NewBus creates an empty bus.
func NewBus[T any](opts BusOptions) *Bus[T] {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Bus[T]{
		name:   opts.Name,
		logger: logger,
	}
}

// Name returns the event name the bus carries.
func (b *Bus[T]) Name() string {
	return b.name
}

// Subscribe registers handler and returns a function that removes it.
// The returned function is safe to call more than once.
func (b *Bus[T]) Subscribe(handler Handler[T]) (unsubscribe func()) {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.subscribers = append(b.subscribers, subscriber[T]{id: id, handler: handler})
	count := len(b.subscribers)
	b.mu.Unlock()

	b.logger.Debug("event subscriber added", "event", b.name, "subscribers", count)

	var once sync.Once
	return func() {
		once.Do(func() { b.remove(id) })
	}
}

func (b *Bus[T]) remove(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, s := range b.subscribers {
		if s.id == id {
			b.subscribers = append(b.subscribers[:i:i], b.subscribers[i+1:]...)
			break
		}
	}
	b.logger.Debug("event subscriber removed", "event", b.name, "subscribers", len(b.subscribers))
}

// SubscriberCount returns the number of registered handlers.
func (b *Bus[T]) SubscriberCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subscribers)
}

// Publish delivers v to every subscriber registered at dispatch time.
// If a handler panics the panic propagates to the dispatching caller and
// any events still pending are dropped.
func (b *Bus[T]) Publish(v T) {
	b.mu.Lock()
	b.pending = append(b.pending, v)
	if b.dispatching {
		b.mu.Unlock()
		return
	}
	b.dispatching = true
	b.mu.Unlock()

	drained := false
	defer func() {
		if !drained {
			b.mu.Lock()
			b.dispatching = false
			b.pending = nil
			b.mu.Unlock()
		}
	}()

	for {
		b.mu.Lock()
		if len(b.pending) == 0 {
			b.dispatching = false
			b.mu.Unlock()
			drained = true
			return
		}
		next := b.pending[0]
		var zero T
		b.pending[0] = zero
		b.pending = b.pending[1:]
		subs := make([]subscriber[T], len(b.subscribers))
		copy(subs, b.subscribers)
		b.mu.Unlock()

		for _, s := range subs {
			s.handler(next)
		}
	}
}
