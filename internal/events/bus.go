package events

import (
	"github.com/kelindar/event"
)

// Bus wraps a kelindar/event dispatcher for broadcasting state changes to
// dynamically subscribed consumers. Publishing is asynchronous per
// subscriber, a slow consumer never stalls the publisher.
type Bus struct {
	dispatcher *event.Dispatcher
}

func New() *Bus {
	return &Bus{
		dispatcher: event.NewDispatcher(),
	}
}

// Publish publishes an event to all subscribers.
func (b *Bus) Publish(ev Event) {
	// the generic event.Publish needs the concrete type
	switch e := ev.(type) {
	case ValueChangedEvent:
		event.Publish(b.dispatcher, e)
	case ActionRequestedEvent:
		event.Publish(b.dispatcher, e)
	}
}

// Subscribe registers a handler for the event type matched by its argument
// and returns an unsubscribe function.
func (b *Bus) Subscribe(handler any) func() {
	switch h := handler.(type) {
	case func(ValueChangedEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(ActionRequestedEvent):
		return event.Subscribe(b.dispatcher, h)
	default:
		return func() {}
	}
}

func (b *Bus) Close() error {
	return b.dispatcher.Close()
}
