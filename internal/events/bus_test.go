package events

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBusDeliversToSubscribers(t *testing.T) {
	bus := NewBus(10)
	defer bus.Close()

	var mu sync.Mutex
	var got []Event
	done := make(chan struct{})

	bus.Subscribe(EventRunCompleted, func(e Event) {
		mu.Lock()
		got = append(got, e)
		mu.Unlock()
		done <- struct{}{}
	})

	bus.Publish(EventRunCompleted, map[string]any{"workflow_id": "wf"})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("event never delivered")
	}

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, got, 1)
	assert.Equal(t, EventRunCompleted, got[0].Type)
	assert.Equal(t, "wf", got[0].Data["workflow_id"])
	assert.False(t, got[0].Timestamp.IsZero())
}

func TestBusFiltersByEventType(t *testing.T) {
	bus := NewBus(10)
	defer bus.Close()

	received := make(chan Event, 10)
	bus.Subscribe(EventRunStarted, func(e Event) { received <- e })

	bus.Publish(EventRunCompleted, nil)
	bus.Publish(EventRunStarted, nil)

	select {
	case e := <-received:
		assert.Equal(t, EventRunStarted, e.Type)
	case <-time.After(2 * time.Second):
		t.Fatal("event never delivered")
	}
	select {
	case e := <-received:
		t.Fatalf("unexpected extra event %s", e.Type)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestBusUnsubscribe(t *testing.T) {
	bus := NewBus(10)
	defer bus.Close()

	received := make(chan Event, 10)
	unsubscribe := bus.Subscribe(EventStepCompleted, func(e Event) { received <- e })
	unsubscribe()

	bus.Publish(EventStepCompleted, nil)

	select {
	case <-received:
		t.Fatal("unsubscribed subscriber still received an event")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestBusSurvivesSubscriberPanic(t *testing.T) {
	bus := NewBus(10)
	defer bus.Close()

	received := make(chan Event, 10)
	bus.Subscribe(EventRunStarted, func(Event) { panic("boom") })
	bus.Subscribe(EventRunStarted, func(e Event) { received <- e })

	bus.Publish(EventRunStarted, nil)

	select {
	case <-received:
	case <-time.After(2 * time.Second):
		t.Fatal("healthy subscriber starved by a panicking one")
	}
}
