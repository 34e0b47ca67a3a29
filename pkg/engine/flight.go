// pkg/engine/flight.go
package engine

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/marvinvr/rockets/pkg/config"
	"github.com/marvinvr/rockets/pkg/entity"
	"github.com/marvinvr/rockets/pkg/physics"
)

// Command is the normalized per-tick input record. The core never reads
// input devices; hosts translate whatever they poll into this.
type Command struct {
	Forward    bool    `json:"forward"`
	Backward   bool    `json:"backward"`
	Left       bool    `json:"left"`
	Right      bool    `json:"right"`
	Boost      bool    `json:"boost"`
	Decelerate bool    `json:"decelerate"`
	DeltaTime  float64 `json:"deltaTime"`
}

// FlightModel advances the craft's physical state one tick at a time:
// thrust, reaction control, gravity superposition, atmospheric drag,
// integration, landing gear and near-surface auto-orientation.
//
// rcsAlwaysOn is the per-scene activation strategy: the system-wide scene
// gates RCS and steering on a minimum speed, the single-planet scene does
// not. The asymmetry is configuration here, not duplicated logic.
type FlightModel struct {
	gravityConstant float64
	maxDeltaTime    float64
	cfg             config.FlightConfig
	rcsAlwaysOn     bool
}

// NewFlightModel builds a flight model from game configuration.
func NewFlightModel(game *config.GameConfig, rcsAlwaysOn bool) *FlightModel {
	return &FlightModel{
		gravityConstant: game.GravityConstant,
		maxDeltaTime:    game.MaxDeltaTime,
		cfg:             game.Flight,
		rcsAlwaysOn:     rcsAlwaysOn,
	}
}

// Step advances the craft by one tick against the given bodies and returns
// the delta time actually integrated (the command's delta clamped to the
// configured maximum, bounding integration error during frame hitches).
func (f *FlightModel) Step(r *entity.Rocket, cmd Command, bodies []*entity.Body) float64 {
	dt := physics.Clamp(cmd.DeltaTime, 0, f.maxDeltaTime)
	if dt == 0 || r.Status == entity.StatusDestroyed {
		return dt
	}

	accel := f.thrustAcceleration(r, cmd, dt)

	rcsActive := f.rcsAlwaysOn || r.Speed() >= f.cfg.RCSMinSpeed
	if rcsActive {
		accel = accel.Add(f.rcsAcceleration(r, cmd))
		f.applySteering(r, cmd, dt)
	}

	for _, b := range bodies {
		accel = accel.Add(physics.GravityAcceleration(
			f.gravityConstant, r.Position, r.Mass, b.Position, b.Mass))
		accel = accel.Add(physics.DragAcceleration(
			r.Velocity, b.Altitude(r.Position), b.AtmosphereHeight, b.DragCoefficient))
	}

	// Semi-implicit Euler: velocity first, then position from the new
	// velocity.
	r.Velocity = r.Velocity.Add(accel.Mul(dt))
	r.AngularVelocity = r.AngularVelocity.Mul(math.Max(0, 1-f.cfg.AngularDamping*dt))
	r.Update(dt)

	nearest, altitude := NearestBody(bodies, r.Position)
	if nearest != nil {
		f.updateGear(r, altitude)
		f.autoOrient(r, nearest, altitude)
	}

	return dt
}

// thrustAcceleration fires the main engine along the nose while fuel lasts.
// When the tank runs dry mid-tick the thrust is scaled by the fraction of
// the burn that was actually fed.
func (f *FlightModel) thrustAcceleration(r *entity.Rocket, cmd Command, dt float64) mgl64.Vec3 {
	if !cmd.Forward || r.Fuel <= 0 {
		return mgl64.Vec3{}
	}
	thrust := f.cfg.MainThrust
	burn := f.cfg.FuelBurnRate
	if cmd.Boost {
		thrust *= f.cfg.BoostFactor
		burn *= f.cfg.BoostFactor
	}

	wanted := burn * dt
	consumed := r.ConsumeFuel(wanted)
	if consumed == 0 {
		return mgl64.Vec3{}
	}
	return r.Forward().Mul(thrust * consumed / wanted)
}

// rcsAcceleration composites the small reaction-control burns. RCS does not
// consume fuel; only the main engine does.
func (f *FlightModel) rcsAcceleration(r *entity.Rocket, cmd Command) mgl64.Vec3 {
	accel := mgl64.Vec3{}
	right := r.Orientation.Rotate(mgl64.Vec3{1, 0, 0})

	if cmd.Backward {
		accel = accel.Sub(r.Forward().Mul(f.cfg.RCSThrust))
	}
	if cmd.Left {
		accel = accel.Sub(right.Mul(f.cfg.RCSThrust))
	}
	if cmd.Right {
		accel = accel.Add(right.Mul(f.cfg.RCSThrust))
	}
	if cmd.Decelerate {
		accel = accel.Sub(physics.SafeNormalize(r.Velocity).Mul(f.cfg.RCSThrust))
	}
	return accel
}

// applySteering turns the nose with left/right torque about the craft's
// local steering axis.
func (f *FlightModel) applySteering(r *entity.Rocket, cmd Command, dt float64) {
	if cmd.Left == cmd.Right {
		return
	}
	axis := r.Orientation.Rotate(mgl64.Vec3{0, 0, 1})
	rate := f.cfg.TurnRate
	if cmd.Right {
		rate = -rate
	}
	r.AngularVelocity = r.AngularVelocity.Add(axis.Mul(rate * dt))
}

// updateGear deploys the landing gear purely as a function of altitude.
func (f *FlightModel) updateGear(r *entity.Rocket, altitude float64) {
	if altitude < f.cfg.GearDeployAltitude {
		r.DeployGear()
	} else {
		r.RetractGear()
	}
}

// autoOrient blends the craft upright when it is low and slow, easing
// touchdowns without snapping the orientation.
func (f *FlightModel) autoOrient(r *entity.Rocket, body *entity.Body, altitude float64) {
	if altitude >= f.cfg.OrientAltitude || r.Speed() >= f.cfg.OrientMaxSpeed {
		return
	}
	upright := body.SurfaceOrientation(r.Position)
	r.Orientation = mgl64.QuatSlerp(r.Orientation, upright, f.cfg.OrientBlend).Normalize()
}

// NearestBody returns the body with the smallest altitude to the given
// point, along with that altitude.
func NearestBody(bodies []*entity.Body, point mgl64.Vec3) (*entity.Body, float64) {
	var nearest *entity.Body
	best := math.Inf(1)
	for _, b := range bodies {
		if alt := b.Altitude(point); alt < best {
			best = alt
			nearest = b
		}
	}
	return nearest, best
}
