// pkg/entity/asteroid.go
package entity

import (
	"math"
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/marvinvr/rockets/pkg/physics"
)

// Asteroid is a moving hazard body. It follows a straight scripted path;
// the spin is cosmetic state for renderers.
type Asteroid struct {
	BaseEntity
	Rotation float64
	Spin     float64
}

// NewAsteroid creates a hazard body with the given motion.
func NewAsteroid(id ID, position, velocity mgl64.Vec3, radius float64) *Asteroid {
	return &Asteroid{
		BaseEntity: BaseEntity{
			ID:       id,
			Position: position,
			Velocity: velocity,
			Collider: physics.Sphere{
				Center: position,
				Radius: radius,
			},
			Active: true,
		},
	}
}

// Update advances the asteroid along its scripted path.
func (a *Asteroid) Update(deltaTime float64) {
	if !a.Active {
		return
	}
	a.BaseEntity.Update(deltaTime)
	a.Rotation += a.Spin * deltaTime
}

// HazardField is a collection of asteroids sharing one collision check
// against the craft. Hazard counts stay in the tens, so an exhaustive scan
// per tick is sufficient.
type HazardField struct {
	Asteroids []*Asteroid
}

// NewHazardField creates an empty field.
func NewHazardField() *HazardField {
	return &HazardField{}
}

// NewBeltField populates a ring of asteroids between innerRadius and
// outerRadius on the orbital plane, each drifting tangentially. The caller
// supplies the random source so scene setup stays reproducible.
func NewBeltField(rng *rand.Rand, count int, innerRadius, outerRadius, asteroidRadius, driftSpeed float64) *HazardField {
	field := NewHazardField()
	for i := 0; i < count; i++ {
		angle := rng.Float64() * 2 * math.Pi
		distance := innerRadius + rng.Float64()*(outerRadius-innerRadius)
		position := mgl64.Vec3{
			math.Cos(angle) * distance,
			(rng.Float64() - 0.5) * asteroidRadius * 4,
			math.Sin(angle) * distance,
		}
		// Tangent to the ring, split between prograde and retrograde.
		tangent := mgl64.Vec3{-math.Sin(angle), 0, math.Cos(angle)}
		if rng.Float64() < 0.5 {
			tangent = tangent.Mul(-1)
		}
		speed := driftSpeed * (0.5 + rng.Float64())

		asteroid := NewAsteroid(GenerateID(), position, tangent.Mul(speed), asteroidRadius*(0.5+rng.Float64()))
		asteroid.Spin = (rng.Float64() - 0.5) * 2
		field.Add(asteroid)
	}
	return field
}

// Add appends an asteroid to the field.
func (f *HazardField) Add(a *Asteroid) {
	f.Asteroids = append(f.Asteroids, a)
}

// Update advances every asteroid's scripted motion.
func (f *HazardField) Update(deltaTime float64) {
	for _, a := range f.Asteroids {
		a.Update(deltaTime)
	}
}

// CheckCollision scans every active asteroid against the given collider and
// returns the first hit.
func (f *HazardField) CheckCollision(collider physics.Sphere) (*Asteroid, bool) {
	for _, a := range f.Asteroids {
		if !a.Active {
			continue
		}
		if a.GetCollider().Collides(collider) {
			return a, true
		}
	}
	return nil, false
}
