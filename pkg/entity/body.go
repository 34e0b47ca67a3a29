// pkg/entity/body.go
package entity

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/marvinvr/rockets/pkg/physics"
)

// LandingLimits holds the per-body safe landing envelope. A touchdown with
// either component above its limit is a crash.
type LandingLimits struct {
	MaxVerticalSpeed   float64
	MaxHorizontalSpeed float64
}

// Body represents a celestial body: a star, planet or moon. Bodies with a
// parent follow a scripted circular orbit; the rest are stationary within
// their scene. Bodies never attract each other dynamically.
type Body struct {
	BaseEntity
	Name          string
	Mass          float64
	Radius        float64
	GravityRating float64 // descriptor used for scoring, not by the physics
	Difficulty    int
	Description   string

	// Scripted orbit around Parent. OrbitSpeed is in radians per simulated
	// second; motion is a pure function of accumulated simulated time.
	Parent        *Body
	OrbitDistance float64
	OrbitSpeed    float64
	orbitAngle    float64

	// Scripted axial spin in radians per simulated second. Presentation
	// only; the physics never reads it.
	Rotation float64
	SpinRate float64

	// Atmosphere band for drag. Zero height means no atmosphere.
	AtmosphereHeight float64
	DragCoefficient  float64

	// Landing evaluation.
	ContactThreshold float64
	Limits           LandingLimits

	// Latched while the craft sits inside the current contact episode so an
	// outcome resolves at most once per touchdown.
	contactResolved bool
}

// NewBody creates a stationary body at the given position. Orbital and
// landing parameters are set by the scene builder.
func NewBody(id ID, name string, mass, radius float64, position mgl64.Vec3) *Body {
	return &Body{
		BaseEntity: BaseEntity{
			ID:       id,
			Position: position,
			Collider: physics.Sphere{
				Center: position,
				Radius: radius,
			},
			Active: true,
		},
		Name:   name,
		Mass:   mass,
		Radius: radius,
	}
}

// SetOrbit places the body on a circular scripted orbit around parent,
// starting at the given phase angle.
func (b *Body) SetOrbit(parent *Body, distance, speed, startAngle float64) {
	b.Parent = parent
	b.OrbitDistance = distance
	b.OrbitSpeed = speed
	b.orbitAngle = startAngle
	b.advanceOrbit(0)
}

// OrbitAngle returns the current scripted orbit phase in radians.
func (b *Body) OrbitAngle() float64 {
	return b.orbitAngle
}

// OrbitalVelocity returns the body's instantaneous scripted velocity,
// parent motion included. Stationary bodies return the zero vector.
func (b *Body) OrbitalVelocity() mgl64.Vec3 {
	if b.Parent == nil {
		return mgl64.Vec3{}
	}
	v := b.Parent.OrbitalVelocity()
	if b.OrbitDistance == 0 {
		return v
	}
	tangent := mgl64.Vec3{-math.Sin(b.orbitAngle), 0, math.Cos(b.orbitAngle)}
	return v.Add(tangent.Mul(b.OrbitSpeed * b.OrbitDistance))
}

// Altitude returns the distance from point to the body's surface. Negative
// or near-zero altitude denotes surface contact.
func (b *Body) Altitude(point mgl64.Vec3) float64 {
	return point.Sub(b.Position).Len() - b.Radius
}

// Update advances the scripted orbital angle and axial spin. Bodies without
// a parent stay where the scene put them.
func (b *Body) Update(deltaTime float64) {
	b.Rotation = math.Mod(b.Rotation+b.SpinRate*deltaTime, 2*math.Pi)
	if b.Parent == nil || b.OrbitDistance == 0 {
		return
	}
	b.advanceOrbit(deltaTime)
}

func (b *Body) advanceOrbit(deltaTime float64) {
	b.orbitAngle = math.Mod(b.orbitAngle+b.OrbitSpeed*deltaTime, 2*math.Pi)
	offset := mgl64.Vec3{
		math.Cos(b.orbitAngle) * b.OrbitDistance,
		0,
		math.Sin(b.orbitAngle) * b.OrbitDistance,
	}
	b.Position = b.Parent.Position.Add(offset)
	b.Collider.Center = b.Position
}

// ClassifyLanding evaluates a touchdown. It fires at most once per contact
// episode: while the craft stays below the contact threshold, repeated calls
// return OutcomeNone after the first resolution. Rising back above the
// threshold re-arms the check.
func (b *Body) ClassifyLanding(position, velocity mgl64.Vec3) Outcome {
	altitude := b.Altitude(position)
	if altitude > b.ContactThreshold {
		b.contactResolved = false
		return OutcomeNone
	}
	if b.contactResolved {
		return OutcomeNone
	}
	b.contactResolved = true

	up := physics.SafeNormalize(position.Sub(b.Position))
	vertical := math.Abs(velocity.Dot(up))
	horizontal := velocity.Sub(up.Mul(velocity.Dot(up))).Len()

	if vertical <= b.Limits.MaxVerticalSpeed && horizontal <= b.Limits.MaxHorizontalSpeed {
		return OutcomeSuccess
	}
	return OutcomeCrash
}

// ContactResolved reports whether the current contact episode has already
// produced an outcome.
func (b *Body) ContactResolved() bool {
	return b.contactResolved
}

// SurfaceOrientation returns the orientation whose local up (+Y) points
// radially outward at the given point. When the radial direction is nearly
// parallel to the primary reference axis a secondary axis is used, avoiding
// a zero-length cross product.
func (b *Body) SurfaceOrientation(point mgl64.Vec3) mgl64.Quat {
	up := physics.SafeNormalize(point.Sub(b.Position))
	if up == (mgl64.Vec3{}) {
		return mgl64.QuatIdent()
	}

	reference := mgl64.Vec3{0, 0, 1}
	if math.Abs(up.Dot(reference)) > 0.999 {
		reference = mgl64.Vec3{1, 0, 0}
	}

	right := physics.SafeNormalize(reference.Cross(up))
	forward := right.Cross(up)

	basis := mgl64.Mat3FromCols(right, up, forward)
	return mgl64.Mat4ToQuat(basis.Mat4()).Normalize()
}
