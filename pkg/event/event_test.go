// pkg/event/event_test.go
package event

import (
	"testing"
)

func TestBus_PublishReachesSubscribers(t *testing.T) {
	bus := NewEventBus()
	received := 0
	bus.Subscribe(PhaseChanged, func(e Event) {
		received++
		pe, ok := e.(*PhaseEvent)
		if !ok {
			t.Fatalf("unexpected event type %T", e)
		}
		if pe.From != "launch" || pe.To != "space" {
			t.Errorf("payload = %s -> %s", pe.From, pe.To)
		}
	})

	bus.Publish(NewPhaseEvent(nil, "launch", "space"))
	if received != 1 {
		t.Errorf("handler invoked %d times, expected 1", received)
	}
}

func TestBus_PublishIgnoresOtherTypes(t *testing.T) {
	bus := NewEventBus()
	received := 0
	bus.Subscribe(HazardCollision, func(Event) { received++ })

	bus.Publish(NewLandingEvent(nil, "Luna", "success"))
	if received != 0 {
		t.Error("handler received an event of a different type")
	}
}

func TestBus_Unsubscribe(t *testing.T) {
	bus := NewEventBus()
	received := 0
	sub := bus.Subscribe(LandingResolved, func(Event) { received++ })

	bus.Publish(NewLandingEvent(nil, "Luna", "crash"))
	bus.Unsubscribe(LandingResolved, sub)
	bus.Publish(NewLandingEvent(nil, "Luna", "crash"))

	if received != 1 {
		t.Errorf("handler invoked %d times, expected 1", received)
	}
}

func TestBus_MultipleSubscribers(t *testing.T) {
	bus := NewEventBus()
	a, b := 0, 0
	bus.Subscribe(SceneEntered, func(Event) { a++ })
	bus.Subscribe(SceneEntered, func(Event) { b++ })

	bus.Publish(NewSceneEvent(nil, "planet", "Mars"))
	if a != 1 || b != 1 {
		t.Errorf("handlers invoked %d/%d times, expected 1/1", a, b)
	}
}
