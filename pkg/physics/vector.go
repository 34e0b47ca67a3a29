// pkg/physics/vector.go
package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// SafeNormalize returns the unit vector of v, or the zero vector when v has
// no length. mgl64.Vec3.Normalize divides by the length and would propagate
// NaN through the simulation on a zero vector.
func SafeNormalize(v mgl64.Vec3) mgl64.Vec3 {
	if v.Len() == 0 {
		return mgl64.Vec3{}
	}
	return v.Normalize()
}

// Lerp interpolates from a toward b by factor t, clamped to [0, 1].
func Lerp(a, b mgl64.Vec3, t float64) mgl64.Vec3 {
	t = Clamp(t, 0, 1)
	return a.Add(b.Sub(a).Mul(t))
}

// Clamp limits x to the range [min, max].
func Clamp(x, min, max float64) float64 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}

// Finite reports whether every component of v is a finite number.
func Finite(v mgl64.Vec3) bool {
	for i := 0; i < 3; i++ {
		if math.IsNaN(v[i]) || math.IsInf(v[i], 0) {
			return false
		}
	}
	return true
}

// RotateBy advances an orientation by an angular velocity over dt and
// renormalizes. A near-zero angular velocity leaves the orientation
// untouched, avoiding a degenerate rotation axis.
func RotateBy(q mgl64.Quat, angularVel mgl64.Vec3, dt float64) mgl64.Quat {
	speed := angularVel.Len()
	if speed*dt < 1e-12 {
		return q
	}
	step := mgl64.QuatRotate(speed*dt, angularVel.Mul(1/speed))
	return step.Mul(q).Normalize()
}
