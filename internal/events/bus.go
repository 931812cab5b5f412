// Package events provides the in-process event bus and the run-history
// log that observers (bridge, CLI, side panel) consume.
package events

import (
	"sync"
	"time"
)

// EventType represents the type of event being published.
type EventType string

const (
	// EventRunStarted is published when the engine begins a workflow run.
	EventRunStarted EventType = "run_started"
	// EventStepCompleted is published after each action finishes.
	EventStepCompleted EventType = "step_completed"
	// EventArtifactEmitted is published when a handler produces an artifact.
	EventArtifactEmitted EventType = "artifact_emitted"
	// EventRunCompleted is published when a run report is finalized.
	EventRunCompleted EventType = "run_completed"
	// EventSettingsReloaded is published when the settings file changes on disk.
	EventSettingsReloaded EventType = "settings_reloaded"
)

// Event represents a runtime event.
type Event struct {
	Type      EventType
	Timestamp time.Time
	Data      map[string]any
}

// Subscriber is a function that receives events.
type Subscriber func(Event)

// Bus is a non-blocking publish/subscribe event bus. Events are
// delivered asynchronously via buffered channels; if a subscriber's
// channel is full the event is dropped silently.
type Bus struct {
	mu          sync.RWMutex
	subscribers map[EventType][]chan Event
	bufferSize  int
}

// NewBus creates a new event bus with the specified buffer size per subscriber.
func NewBus(bufferSize int) *Bus {
	if bufferSize <= 0 {
		bufferSize = 100
	}
	return &Bus{
		subscribers: make(map[EventType][]chan Event),
		bufferSize:  bufferSize,
	}
}

// Subscribe registers a subscriber for a specific event type and
// returns an unsubscribe function. The subscriber runs on its own
// goroutine; panics inside it are recovered so the bus keeps working.
func (b *Bus) Subscribe(eventType EventType, fn Subscriber) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan Event, b.bufferSize)
	b.subscribers[eventType] = append(b.subscribers[eventType], ch)

	go func() {
		for event := range ch {
			func() {
				defer func() {
					_ = recover()
				}()
				fn(event)
			}()
		}
	}()

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()

		subs := b.subscribers[eventType]
		for i, subCh := range subs {
			if subCh == ch {
				b.subscribers[eventType] = append(subs[:i], subs[i+1:]...)
				close(ch)
				break
			}
		}
	}
}

// Publish sends an event to all subscribers of the given type without
// blocking: a full subscriber channel drops the event for that subscriber.
func (b *Bus) Publish(eventType EventType, data map[string]any) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	event := Event{
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}

	for _, ch := range b.subscribers[eventType] {
		select {
		case ch <- event:
		default:
		}
	}
}

// Close closes all subscriber channels and clears subscriptions.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for eventType, subs := range b.subscribers {
		for _, ch := range subs {
			close(ch)
		}
		delete(b.subscribers, eventType)
	}
}
