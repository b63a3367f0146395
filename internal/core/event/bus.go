package event

import (
	"reflect"
	"sync"
)

// Bus is a double-buffered event bus. Events emitted in tick N are readable
// in tick N+1. SwapBuffers() is called at tick start by the dispatch system.
// Events are delivered in emission order regardless of type.
type Bus struct {
	mu       sync.Mutex // only protects handler registration
	front    []any
	back     []any
	handlers map[reflect.Type][]func(any)
}

func NewBus() *Bus {
	return &Bus{
		front:    make([]any, 0, 64),
		back:     make([]any, 0, 64),
		handlers: make(map[reflect.Type][]func(any)),
	}
}

// Emit queues an event into the back buffer (will be readable next tick).
func Emit[T any](b *Bus, event T) {
	b.back = append(b.back, event)
}

// Subscribe registers a typed handler for events of type T.
func Subscribe[T any](b *Bus, fn func(T)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	t := reflect.TypeOf((*T)(nil)).Elem()
	b.handlers[t] = append(b.handlers[t], func(ev any) { fn(ev.(T)) })
}

// SwapBuffers rotates back→front and clears the new back buffer.
// Called once at tick start.
func (b *Bus) SwapBuffers() {
	b.front, b.back = b.back, b.front[:0]
}

// DispatchAll delivers all front-buffer events to their subscribed handlers
// and returns how many events were delivered.
func (b *Bus) DispatchAll() int {
	for _, ev := range b.front {
		for _, h := range b.handlers[reflect.TypeOf(ev)] {
			h(ev)
		}
	}
	n := len(b.front)
	b.front = b.front[:0]
	return n
}

// Pending returns the number of events waiting for the next swap.
func (b *Bus) Pending() int {
	return len(b.back)
}

// Reset drops every queued event in both buffers. Handlers stay registered.
func (b *Bus) Reset() {
	b.front = b.front[:0]
	b.back = b.back[:0]
}
