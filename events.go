package ygggo_dbal

import "sync"

// EventKind identifies a connection lifecycle event.
type EventKind string

const (
	EventConnect EventKind = "connect"
	EventClose   EventKind = "close"
)

// Event carries what happened on a connection to its subscribers.
type Event struct {
	Kind EventKind
	Conn *Conn
	Err  error
}

// Subscriber receives connection events.
type Subscriber interface {
	Handle(Event)
}

// SubscriberFactory constructs a fresh subscriber instance.
type SubscriberFactory func() Subscriber

var subscriberFactories = struct {
	mu sync.RWMutex
	m  map[string]SubscriberFactory
}{m: map[string]SubscriberFactory{}}

// RegisterSubscriber makes a subscriber constructible by name, typically
// from an init function. Names are then usable in EnvEventSubscribers.
func RegisterSubscriber(name string, factory SubscriberFactory) {
	subscriberFactories.mu.Lock()
	defer subscriberFactories.mu.Unlock()
	subscriberFactories.m[name] = factory
}

// newSubscriber instantiates a registered subscriber. Unknown names are a
// configuration error, never silently skipped.
func newSubscriber(name string) (Subscriber, error) {
	subscriberFactories.mu.RLock()
	factory, ok := subscriberFactories.m[name]
	subscriberFactories.mu.RUnlock()
	if !ok {
		return nil, &ConfigurationError{Key: name, Message: "unknown event subscriber"}
	}
	return factory(), nil
}

// EventManager dispatches connection events to its subscribers in
// subscription order. It is owned by the connection it observes.
type EventManager struct {
	subs []Subscriber
}

// Subscribe appends a subscriber. Order of subscription is dispatch order.
func (m *EventManager) Subscribe(s Subscriber) {
	if m == nil || s == nil {
		return
	}
	m.subs = append(m.subs, s)
}

func (m *EventManager) dispatch(e Event) {
	if m == nil {
		return
	}
	for _, s := range m.subs {
		s.Handle(e)
	}
}
