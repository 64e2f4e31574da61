package service

import "sync"

// Event reports the outcome of an earthquake layer render.
type Event struct {
	Resource string // e.g. "earthquakes"
	Action   string // "rendered", "failed"
	Count    int    // markers in the layer
	Message  string
}

// EventBus is a simple fan-out pub/sub for render events.
type EventBus struct {
	mu   sync.RWMutex
	subs map[chan Event]struct{}
	last *Event
}

// NewEventBus creates a new event bus.
func NewEventBus() *EventBus {
	return &EventBus{subs: make(map[chan Event]struct{})}
}

// Publish sends an event to all subscribers (non-blocking).
func (b *EventBus) Publish(e Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.last = &e
	for ch := range b.subs {
		select {
		case ch <- e:
		default:
			// subscriber too slow, skip
		}
	}
}

// Subscribe returns a buffered channel that receives events.
func (b *EventBus) Subscribe() chan Event {
	ch := make(chan Event, 16)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes a subscriber and closes its channel.
func (b *EventBus) Unsubscribe(ch chan Event) {
	b.mu.Lock()
	delete(b.subs, ch)
	b.mu.Unlock()
	close(ch)
}

// Last returns the most recently published event, if any. New subscribers
// use it to show the current status before the next publish.
func (b *EventBus) Last() (Event, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.last == nil {
		return Event{}, false
	}
	return *b.last, true
}
