// pkg/physics/gravity.go
package physics

import "github.com/go-gl/mathgl/mgl64"

// DefaultGravityConstant is tuned for gameplay feel, not physical accuracy.
// The real constant would make the catalog masses either inert or lethal at
// game-scale distances.
const DefaultGravityConstant = 6.674e-5

// GravityForce returns the scalar attraction between two masses at the given
// separation. A zero separation yields zero force rather than a singularity.
func GravityForce(g, m1, m2, distance float64) float64 {
	if distance == 0 {
		return 0
	}
	return g * m1 * m2 / (distance * distance)
}

// GravityAcceleration returns the acceleration imparted on a craft of
// craftMass at craftPos by a body of bodyMass at bodyPos. Coincident
// positions yield the zero vector.
func GravityAcceleration(g float64, craftPos mgl64.Vec3, craftMass float64, bodyPos mgl64.Vec3, bodyMass float64) mgl64.Vec3 {
	toBody := bodyPos.Sub(craftPos)
	distance := toBody.Len()
	if distance == 0 || craftMass == 0 {
		return mgl64.Vec3{}
	}
	force := GravityForce(g, craftMass, bodyMass, distance)
	return toBody.Mul(1 / distance).Mul(force / craftMass)
}

// DragAcceleration returns the deceleration opposing vel inside an
// atmosphere band. The magnitude falls off quadratically with altitude: full
// strength at the surface, zero at atmosphereHeight and above. Negative
// altitude (below the surface) is treated as surface density.
func DragAcceleration(vel mgl64.Vec3, altitude, atmosphereHeight, coefficient float64) mgl64.Vec3 {
	if atmosphereHeight <= 0 || altitude >= atmosphereHeight {
		return mgl64.Vec3{}
	}
	if altitude < 0 {
		altitude = 0
	}
	density := 1 - altitude/atmosphereHeight
	return vel.Mul(-coefficient * density * density)
}
