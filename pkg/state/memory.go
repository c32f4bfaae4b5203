package state

import "sync"

// MemStore is an in-memory Store for tests and single-process embedding.
type MemStore struct {
	mu     sync.RWMutex
	values map[string][]byte
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{values: make(map[string][]byte)}
}

// Get implements Store.
func (m *MemStore) Get(address string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[address]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, true, nil
}

// Set implements Store.
func (m *MemStore) Set(address string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	v := make([]byte, len(value))
	copy(v, value)
	m.values[address] = v
	return nil
}

// Len returns the number of written addresses.
func (m *MemStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.values)
}

// Event is one recorded notification.
type Event struct {
	Type       string
	Attributes []Attribute
}

// EventRecorder is an EventSink that keeps every emitted event in order.
type EventRecorder struct {
	mu     sync.Mutex
	events []Event
}

// NewEventRecorder creates an empty recorder.
func NewEventRecorder() *EventRecorder {
	return &EventRecorder{}
}

// Emit implements EventSink.
func (r *EventRecorder) Emit(eventType string, attributes []Attribute) {
	r.mu.Lock()
	defer r.mu.Unlock()
	attrs := make([]Attribute, len(attributes))
	copy(attrs, attributes)
	r.events = append(r.events, Event{Type: eventType, Attributes: attrs})
}

// Events returns a copy of all recorded events.
func (r *EventRecorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Last returns the most recent event, if any.
func (r *EventRecorder) Last() (Event, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.events) == 0 {
		return Event{}, false
	}
	return r.events[len(r.events)-1], true
}
