// pkg/physics/collision.go
package physics

import "github.com/go-gl/mathgl/mgl64"

// Sphere represents a spherical collision shape.
type Sphere struct {
	Center mgl64.Vec3
	Radius float64
}

// Collides checks if two spheres are overlapping.
func (s Sphere) Collides(other Sphere) bool {
	return s.Center.Sub(other.Center).Len() < s.Radius+other.Radius
}

// CollisionResult contains information about a collision.
type CollisionResult struct {
	Collided     bool
	Normal       mgl64.Vec3
	Penetration  float64
	ContactPoint mgl64.Vec3
}

// CheckCollision performs detailed collision detection between two spheres.
func CheckCollision(a, b Sphere) CollisionResult {
	normal := b.Center.Sub(a.Center)
	distance := normal.Len()

	if distance > a.Radius+b.Radius {
		return CollisionResult{Collided: false}
	}

	penetration := a.Radius + b.Radius - distance

	normal = SafeNormalize(normal)
	contactPoint := a.Center.Add(normal.Mul(a.Radius))

	return CollisionResult{
		Collided:     true,
		Normal:       normal,
		Penetration:  penetration,
		ContactPoint: contactPoint,
	}
}
