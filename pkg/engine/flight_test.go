// pkg/engine/flight_test.go
package engine

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/marvinvr/rockets/pkg/config"
	"github.com/marvinvr/rockets/pkg/entity"
)

func testRocket(pose entity.Pose) *entity.Rocket {
	cfg := config.DefaultConfig()
	return entity.NewRocket(entity.GenerateID(),
		cfg.Rocket.Mass, cfg.Rocket.MaxFuel, cfg.Rocket.ColliderRadius, pose)
}

func upPose(position mgl64.Vec3) entity.Pose {
	return entity.Pose{Position: position, Orientation: mgl64.QuatIdent()}
}

func TestStepClampsDeltaTime(t *testing.T) {
	cfg := config.DefaultConfig()
	model := NewFlightModel(cfg, false)
	r := testRocket(upPose(mgl64.Vec3{}))

	used := model.Step(r, Command{DeltaTime: 1.0}, nil)
	if used != cfg.MaxDeltaTime {
		t.Errorf("Step used dt %v, want clamp to %v", used, cfg.MaxDeltaTime)
	}

	used = model.Step(r, Command{DeltaTime: -0.5}, nil)
	if used != 0 {
		t.Errorf("Step used dt %v for negative input, want 0", used)
	}
}

func TestMainThrustAcceleratesAlongNose(t *testing.T) {
	cfg := config.DefaultConfig()
	model := NewFlightModel(cfg, false)
	r := testRocket(upPose(mgl64.Vec3{}))
	dt := cfg.MaxDeltaTime

	model.Step(r, Command{Forward: true, DeltaTime: dt}, nil)

	wantSpeed := cfg.Flight.MainThrust * dt
	if math.Abs(r.Velocity.Y()-wantSpeed) > 1e-12 {
		t.Errorf("velocity.Y = %v, want %v", r.Velocity.Y(), wantSpeed)
	}
	wantFuel := cfg.Rocket.MaxFuel - cfg.Flight.FuelBurnRate*dt
	if math.Abs(r.Fuel-wantFuel) > 1e-12 {
		t.Errorf("fuel = %v, want %v", r.Fuel, wantFuel)
	}
}

func TestBoostMultipliesThrustAndBurn(t *testing.T) {
	cfg := config.DefaultConfig()
	model := NewFlightModel(cfg, false)
	dt := cfg.MaxDeltaTime

	plain := testRocket(upPose(mgl64.Vec3{}))
	model.Step(plain, Command{Forward: true, DeltaTime: dt}, nil)

	boosted := testRocket(upPose(mgl64.Vec3{}))
	model.Step(boosted, Command{Forward: true, Boost: true, DeltaTime: dt}, nil)

	factor := cfg.Flight.BoostFactor
	if math.Abs(boosted.Velocity.Y()-plain.Velocity.Y()*factor) > 1e-12 {
		t.Errorf("boost velocity = %v, want %v", boosted.Velocity.Y(), plain.Velocity.Y()*factor)
	}
	plainBurn := cfg.Rocket.MaxFuel - plain.Fuel
	boostBurn := cfg.Rocket.MaxFuel - boosted.Fuel
	if math.Abs(boostBurn-plainBurn*factor) > 1e-12 {
		t.Errorf("boost burn = %v, want %v", boostBurn, plainBurn*factor)
	}
}

func TestNoThrustWithEmptyTank(t *testing.T) {
	cfg := config.DefaultConfig()
	model := NewFlightModel(cfg, false)
	r := testRocket(upPose(mgl64.Vec3{}))
	r.Fuel = 0

	model.Step(r, Command{Forward: true, Boost: true, DeltaTime: cfg.MaxDeltaTime}, nil)

	if r.Velocity.Len() != 0 {
		t.Errorf("velocity = %v after burning an empty tank, want zero", r.Velocity)
	}
}

func TestRCSGatedOnMinimumSpeed(t *testing.T) {
	cfg := config.DefaultConfig()
	dt := cfg.MaxDeltaTime

	// System-wide model: a craft below the RCS floor gets no lateral
	// authority.
	gated := NewFlightModel(cfg, false)
	slow := testRocket(upPose(mgl64.Vec3{}))
	gated.Step(slow, Command{Left: true, DeltaTime: dt}, nil)
	if slow.Velocity.Len() != 0 {
		t.Errorf("gated RCS moved a resting craft: velocity %v", slow.Velocity)
	}

	// Planet-scene model: RCS works from a standstill.
	always := NewFlightModel(cfg, true)
	resting := testRocket(upPose(mgl64.Vec3{}))
	always.Step(resting, Command{Left: true, DeltaTime: dt}, nil)
	if resting.Velocity.X() >= 0 {
		t.Errorf("velocity.X = %v, want negative lateral burn", resting.Velocity.X())
	}
}

func TestRCSConsumesNoFuel(t *testing.T) {
	cfg := config.DefaultConfig()
	model := NewFlightModel(cfg, true)
	r := testRocket(upPose(mgl64.Vec3{}))

	model.Step(r, Command{Backward: true, Left: true, Decelerate: true, DeltaTime: cfg.MaxDeltaTime}, nil)

	if r.Fuel != cfg.Rocket.MaxFuel {
		t.Errorf("fuel = %v after RCS only, want untouched %v", r.Fuel, cfg.Rocket.MaxFuel)
	}
}

func TestGravityPullsTowardBody(t *testing.T) {
	cfg := config.DefaultConfig()
	model := NewFlightModel(cfg, false)
	body := entity.NewBody(entity.GenerateID(), "Earth", 5e7, 60, mgl64.Vec3{})
	r := testRocket(upPose(mgl64.Vec3{0, 200, 0}))

	model.Step(r, Command{DeltaTime: cfg.MaxDeltaTime}, []*entity.Body{body})

	if r.Velocity.Y() >= 0 {
		t.Errorf("velocity.Y = %v, want pull toward the body", r.Velocity.Y())
	}
	if r.Velocity.X() != 0 || r.Velocity.Z() != 0 {
		t.Errorf("off-axis velocity %v from radial gravity", r.Velocity)
	}
}

func TestGearFollowsAltitude(t *testing.T) {
	cfg := config.DefaultConfig()
	model := NewFlightModel(cfg, false)
	// Massless body: altitude drives the gear without gravity muddying
	// the motion.
	body := entity.NewBody(entity.GenerateID(), "pad", 0, 60, mgl64.Vec3{})
	bodies := []*entity.Body{body}

	r := testRocket(upPose(mgl64.Vec3{0, 60 + cfg.Flight.GearDeployAltitude - 5, 0}))
	model.Step(r, Command{DeltaTime: cfg.MaxDeltaTime}, bodies)
	if !r.GearDeployed {
		t.Error("gear stowed below the deploy altitude")
	}

	r.Position = mgl64.Vec3{0, 60 + cfg.Flight.GearDeployAltitude + 50, 0}
	model.Step(r, Command{DeltaTime: cfg.MaxDeltaTime}, bodies)
	if r.GearDeployed {
		t.Error("gear deployed well above the deploy altitude")
	}
}

func TestAutoOrientLevelsSlowLowCraft(t *testing.T) {
	cfg := config.DefaultConfig()
	model := NewFlightModel(cfg, false)
	body := entity.NewBody(entity.GenerateID(), "pad", 0, 60, mgl64.Vec3{})

	tilted := mgl64.QuatRotate(1.0, mgl64.Vec3{1, 0, 0})
	r := testRocket(entity.Pose{Position: mgl64.Vec3{0, 80, 0}, Orientation: tilted})

	for i := 0; i < 300; i++ {
		model.Step(r, Command{DeltaTime: cfg.MaxDeltaTime}, []*entity.Body{body})
		r.Position = mgl64.Vec3{0, 80, 0} // hold station under the blend
		r.Velocity = mgl64.Vec3{}
	}

	if dot := r.Forward().Dot(mgl64.Vec3{0, 1, 0}); dot < 0.999 {
		t.Errorf("nose-to-up dot = %v after blending, want near 1", dot)
	}
}

func TestAutoOrientSkipsFastCraft(t *testing.T) {
	cfg := config.DefaultConfig()
	model := NewFlightModel(cfg, false)
	body := entity.NewBody(entity.GenerateID(), "pad", 0, 60, mgl64.Vec3{})

	tilted := mgl64.QuatRotate(1.0, mgl64.Vec3{1, 0, 0})
	r := testRocket(entity.Pose{Position: mgl64.Vec3{0, 80, 0}, Orientation: tilted})
	r.Velocity = mgl64.Vec3{cfg.Flight.OrientMaxSpeed + 5, 0, 0}

	before := r.Forward()
	model.Step(r, Command{DeltaTime: cfg.MaxDeltaTime}, []*entity.Body{body})

	if dot := r.Forward().Dot(before); dot < 0.9999 {
		t.Errorf("orientation blended at speed: dot %v", dot)
	}
}

func TestNearestBody(t *testing.T) {
	near := entity.NewBody(entity.GenerateID(), "near", 1, 10, mgl64.Vec3{0, 50, 0})
	far := entity.NewBody(entity.GenerateID(), "far", 1, 10, mgl64.Vec3{0, 500, 0})

	body, altitude := NearestBody([]*entity.Body{far, near}, mgl64.Vec3{})
	if body != near {
		t.Fatalf("nearest = %q, want %q", body.Name, near.Name)
	}
	if altitude != 40 {
		t.Errorf("altitude = %v, want 40", altitude)
	}

	if body, _ := NearestBody(nil, mgl64.Vec3{}); body != nil {
		t.Errorf("nearest of empty set = %v, want nil", body)
	}
}
