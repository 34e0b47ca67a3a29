// pkg/entity/entity.go
package entity

import (
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/marvinvr/rockets/pkg/physics"
)

// ID is a unique identifier for an entity
type ID uint64

var nextID atomic.Uint64

// GenerateID returns a process-unique entity identifier.
func GenerateID() ID {
	return ID(nextID.Add(1))
}

// Outcome is the terminal classification of a tick: what, if anything,
// happened to the craft. Exactly one outcome is reported per tick.
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeSuccess
	OutcomeCrash
	OutcomeCollision
	OutcomeOutOfFuel
)

// String returns the wire/code form of the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeCrash:
		return "crash"
	case OutcomeCollision:
		return "collision"
	case OutcomeOutOfFuel:
		return "outOfFuel"
	default:
		return "none"
	}
}

// Entity is the base interface for all simulated objects
type Entity interface {
	GetID() ID
	GetPosition() mgl64.Vec3
	GetCollider() physics.Sphere
	Update(deltaTime float64)
	Render(r Renderer)
}

// BaseEntity contains common functionality for all entities
type BaseEntity struct {
	ID       ID
	Position mgl64.Vec3
	Velocity mgl64.Vec3
	Collider physics.Sphere
	Active   bool
}

// GetID returns the entity's unique identifier
func (e *BaseEntity) GetID() ID {
	return e.ID
}

// GetPosition returns the entity's position
func (e *BaseEntity) GetPosition() mgl64.Vec3 {
	return e.Position
}

// GetCollider returns the entity's collision shape
func (e *BaseEntity) GetCollider() physics.Sphere {
	return physics.Sphere{
		Center: e.Position,
		Radius: e.Collider.Radius,
	}
}

// Update advances the entity's position from its velocity
func (e *BaseEntity) Update(deltaTime float64) {
	e.Position = e.Position.Add(e.Velocity.Mul(deltaTime))
	e.Collider.Center = e.Position
}
