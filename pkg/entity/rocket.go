// pkg/entity/rocket.go
package entity

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/marvinvr/rockets/pkg/physics"
)

// RocketStatus is the craft's operational state.
type RocketStatus int

const (
	StatusNormal RocketStatus = iota
	StatusDestroyed
)

// Pose is a position/orientation pair used when placing the craft into a
// scene.
type Pose struct {
	Position    mgl64.Vec3
	Orientation mgl64.Quat
}

// Rocket is the single player craft. One instance is shared across scenes;
// only its fuel and velocity transfer between them.
type Rocket struct {
	BaseEntity
	Orientation     mgl64.Quat
	AngularVelocity mgl64.Vec3
	Mass            float64
	Fuel            float64
	MaxFuel         float64
	GearDeployed    bool
	Status          RocketStatus
}

// NewRocket creates a craft with full tanks at the given pose.
func NewRocket(id ID, mass, maxFuel, colliderRadius float64, pose Pose) *Rocket {
	return &Rocket{
		BaseEntity: BaseEntity{
			ID:       id,
			Position: pose.Position,
			Collider: physics.Sphere{
				Center: pose.Position,
				Radius: colliderRadius,
			},
			Active: true,
		},
		Orientation: pose.Orientation,
		Mass:        mass,
		Fuel:        maxFuel,
		MaxFuel:     maxFuel,
	}
}

// Forward returns the craft's nose direction: local +Y rotated into world
// space.
func (r *Rocket) Forward() mgl64.Vec3 {
	return r.Orientation.Rotate(mgl64.Vec3{0, 1, 0})
}

// Speed returns the magnitude of the craft's velocity.
func (r *Rocket) Speed() float64 {
	return r.Velocity.Len()
}

// FuelFraction returns remaining fuel in [0, 1].
func (r *Rocket) FuelFraction() float64 {
	if r.MaxFuel == 0 {
		return 0
	}
	return r.Fuel / r.MaxFuel
}

// ConsumeFuel burns up to amount of fuel and returns how much was actually
// consumed. Fuel never goes negative.
func (r *Rocket) ConsumeFuel(amount float64) float64 {
	if amount <= 0 || r.Fuel <= 0 {
		return 0
	}
	if amount > r.Fuel {
		amount = r.Fuel
	}
	r.Fuel -= amount
	return amount
}

// DeployGear extends the landing gear.
func (r *Rocket) DeployGear() {
	r.GearDeployed = true
}

// RetractGear stows the landing gear.
func (r *Rocket) RetractGear() {
	r.GearDeployed = false
}

// Destroy marks the craft inoperable. Only Reset recovers it.
func (r *Rocket) Destroy() {
	r.Status = StatusDestroyed
	r.Active = false
}

// Reset respawns the craft at a surface pose: velocity and rotation zeroed,
// fuel restored to the given level, status back to normal.
func (r *Rocket) Reset(pose Pose, fuel float64) {
	r.Position = pose.Position
	r.Orientation = pose.Orientation
	r.Velocity = mgl64.Vec3{}
	r.AngularVelocity = mgl64.Vec3{}
	r.Fuel = physics.Clamp(fuel, 0, r.MaxFuel)
	r.Status = StatusNormal
	r.Active = true
	r.Collider.Center = r.Position
}

// Update integrates position and orientation for one tick.
func (r *Rocket) Update(deltaTime float64) {
	r.BaseEntity.Update(deltaTime)
	r.Orientation = physics.RotateBy(r.Orientation, r.AngularVelocity, deltaTime)
}
