// pkg/event/event.go
package event

import (
	"sync"
)

// Type represents the type of event
type Type string

// Common event types
const (
	PhaseChanged     Type = "phase_changed"
	ViewModeChanged  Type = "view_mode_changed"
	LandingResolved  Type = "landing_resolved"
	HazardCollision  Type = "hazard_collision"
	FuelExhausted    Type = "fuel_exhausted"
	SceneEntered     Type = "scene_entered"
	RespawnScheduled Type = "respawn_scheduled"
	CraftRespawned   Type = "craft_respawned"
	GameStarted      Type = "game_started"
	GameEnded        Type = "game_ended"
)

// Event is the base interface for all events
type Event interface {
	GetType() Type
	GetSource() interface{}
}

// BaseEvent provides common functionality for all events
type BaseEvent struct {
	EventType Type
	Source    interface{}
}

// GetType returns the event type
func (e *BaseEvent) GetType() Type {
	return e.EventType
}

// GetSource returns the event source
func (e *BaseEvent) GetSource() interface{} {
	return e.Source
}

// Handler is a function that handles events
type Handler func(Event)

// Subscription identifies a registered handler so it can be removed later.
type Subscription uint64

// Bus manages event subscriptions and dispatching
type Bus struct {
	mu       sync.RWMutex
	nextSub  Subscription
	handlers map[Type]map[Subscription]Handler
}

// NewEventBus creates a new event bus
func NewEventBus() *Bus {
	return &Bus{
		handlers: make(map[Type]map[Subscription]Handler),
	}
}

// Subscribe registers a handler for a specific event type and returns a
// subscription token for later removal.
func (b *Bus) Subscribe(eventType Type, handler Handler) Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextSub++
	if b.handlers[eventType] == nil {
		b.handlers[eventType] = make(map[Subscription]Handler)
	}
	b.handlers[eventType][b.nextSub] = handler
	return b.nextSub
}

// Unsubscribe removes a previously registered handler.
func (b *Bus) Unsubscribe(eventType Type, sub Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.handlers[eventType], sub)
}

// Publish sends an event to all subscribed handlers
func (b *Bus) Publish(event Event) {
	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.handlers[event.GetType()]))
	for _, h := range b.handlers[event.GetType()] {
		handlers = append(handlers, h)
	}
	b.mu.RUnlock()

	for _, handler := range handlers {
		handler(event)
	}
}

// Specific event implementations

// PhaseEvent reports a top-level phase transition.
type PhaseEvent struct {
	BaseEvent
	From string
	To   string
}

// NewPhaseEvent creates a phase transition event.
func NewPhaseEvent(source interface{}, from, to string) *PhaseEvent {
	return &PhaseEvent{
		BaseEvent: BaseEvent{EventType: PhaseChanged, Source: source},
		From:      from,
		To:        to,
	}
}

// LandingEvent reports a resolved landing outcome against a body.
type LandingEvent struct {
	BaseEvent
	BodyName string
	Outcome  string
}

// NewLandingEvent creates a landing outcome event.
func NewLandingEvent(source interface{}, bodyName, outcome string) *LandingEvent {
	return &LandingEvent{
		BaseEvent: BaseEvent{EventType: LandingResolved, Source: source},
		BodyName:  bodyName,
		Outcome:   outcome,
	}
}

// CollisionEvent reports the craft striking a hazard body.
type CollisionEvent struct {
	BaseEvent
	AsteroidID uint64
}

// NewCollisionEvent creates a hazard collision event.
func NewCollisionEvent(source interface{}, asteroidID uint64) *CollisionEvent {
	return &CollisionEvent{
		BaseEvent:  BaseEvent{EventType: HazardCollision, Source: source},
		AsteroidID: asteroidID,
	}
}

// ViewEvent reports a camera view mode change.
type ViewEvent struct {
	BaseEvent
	From string
	To   string
}

// NewViewEvent creates a view mode change event.
func NewViewEvent(source interface{}, from, to string) *ViewEvent {
	return &ViewEvent{
		BaseEvent: BaseEvent{EventType: ViewModeChanged, Source: source},
		From:      from,
		To:        to,
	}
}

// RespawnEvent reports a respawn being scheduled or performed. Delay is the
// simulated seconds until the respawn fires; zero once it has fired.
type RespawnEvent struct {
	BaseEvent
	Body  string
	Delay float64
}

// NewRespawnEvent creates a respawn lifecycle event of the given type.
func NewRespawnEvent(source interface{}, eventType Type, body string, delay float64) *RespawnEvent {
	return &RespawnEvent{
		BaseEvent: BaseEvent{EventType: eventType, Source: source},
		Body:      body,
		Delay:     delay,
	}
}

// SceneEvent reports the craft entering a scene.
type SceneEvent struct {
	BaseEvent
	Scene string
	Body  string
}

// NewSceneEvent creates a scene transfer event.
func NewSceneEvent(source interface{}, scene, body string) *SceneEvent {
	return &SceneEvent{
		BaseEvent: BaseEvent{EventType: SceneEntered, Source: source},
		Scene:     scene,
		Body:      body,
	}
}
