// pkg/engine/scene_test.go
package engine

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/marvinvr/rockets/pkg/config"
	"github.com/marvinvr/rockets/pkg/entity"
)

func TestNewSystemSceneBuildsCatalog(t *testing.T) {
	cfg := config.DefaultConfig()
	scene := NewSystemScene(cfg)

	if len(scene.Bodies) != len(cfg.Bodies) {
		t.Fatalf("built %d bodies, want %d", len(scene.Bodies), len(cfg.Bodies))
	}
	if scene.Home == nil || scene.Home.Name != "Earth" {
		t.Fatalf("home body = %v, want Earth", scene.Home)
	}
	if len(scene.Hazards.Asteroids) != cfg.Hazards.Count {
		t.Errorf("belt has %d asteroids, want %d", len(scene.Hazards.Asteroids), cfg.Hazards.Count)
	}

	// Earth starts its orbit at phase 0: straight out along +X from the Sun.
	earth := scene.Body("Earth")
	want := mgl64.Vec3{3000, 0, 0}
	if earth.Position.Sub(want).Len() > 1e-9 {
		t.Errorf("Earth position = %v, want %v", earth.Position, want)
	}

	// The Moon orbits Earth, not the Sun.
	moon := scene.Body("Moon")
	if moon.Parent != earth {
		t.Fatalf("Moon parent = %v, want Earth", moon.Parent)
	}
	if d := moon.Position.Sub(earth.Position).Len(); math.Abs(d-220) > 1e-9 {
		t.Errorf("Moon distance from Earth = %v, want 220", d)
	}
}

func TestSystemSceneMoonTracksEarth(t *testing.T) {
	scene := NewSystemScene(config.DefaultConfig())
	earth := scene.Body("Earth")
	moon := scene.Body("Moon")

	for i := 0; i < 600; i++ {
		scene.Update(1.0 / 60)
	}

	if d := moon.Position.Sub(earth.Position).Len(); math.Abs(d-220) > 1e-6 {
		t.Errorf("Moon drifted to %v from Earth after orbiting, want 220", d)
	}
}

func TestSystemSceneBeltIsDeterministic(t *testing.T) {
	cfg := config.DefaultConfig()
	a := NewSystemScene(cfg)
	b := NewSystemScene(cfg)

	for i := range a.Hazards.Asteroids {
		pa := a.Hazards.Asteroids[i].Position
		pb := b.Hazards.Asteroids[i].Position
		if pa != pb {
			t.Fatalf("asteroid %d differs across identical seeds: %v vs %v", i, pa, pb)
		}
	}
}

func TestNewPlanetSceneScalesBody(t *testing.T) {
	cfg := config.DefaultConfig()
	bc := *cfg.HomeBody()
	scene := NewPlanetScene(cfg, bc)

	scale := cfg.PlanetScene.RadiusScale
	if scene.Body.Radius != bc.Radius*scale {
		t.Errorf("radius = %v, want %v", scene.Body.Radius, bc.Radius*scale)
	}
	if scene.Body.Mass != bc.Mass*scale*scale {
		t.Errorf("mass = %v, want %v", scene.Body.Mass, bc.Mass*scale*scale)
	}
	if scene.Body.ContactThreshold != bc.ContactThreshold*scale {
		t.Errorf("contact threshold = %v, want %v", scene.Body.ContactThreshold, bc.ContactThreshold*scale)
	}

	// Surface gravity must feel identical to the system-wide scene.
	systemSurface := bc.Mass / (bc.Radius * bc.Radius)
	sceneSurface := scene.Body.Mass / (scene.Body.Radius * scene.Body.Radius)
	if math.Abs(systemSurface-sceneSurface) > 1e-9 {
		t.Errorf("surface gravity changed under scaling: %v vs %v", systemSurface, sceneSurface)
	}
}

func TestPlanetScenePhaseCycle(t *testing.T) {
	cfg := config.DefaultConfig()
	scene := NewPlanetScene(cfg, *cfg.HomeBody())
	radius := scene.Body.Radius
	r := entity.NewRocket(entity.GenerateID(), 100, 1000, 2, scene.EntryPose())

	if scene.Phase != ScenePhaseApproaching {
		t.Fatalf("initial phase = %v, want approaching", scene.Phase)
	}

	// Descend inside the landing band.
	r.Position = mgl64.Vec3{0, radius + radius*cfg.PlanetScene.LandingFactor*0.5, 0}
	scene.UpdatePhase(r)
	if scene.Phase != ScenePhaseLanding {
		t.Fatalf("phase = %v after descending, want landing", scene.Phase)
	}

	// Touch down slowly.
	r.Position = mgl64.Vec3{0, radius + cfg.PlanetScene.LandedAltitude*0.5, 0}
	r.Velocity = mgl64.Vec3{}
	scene.UpdatePhase(r)
	if scene.Phase != ScenePhaseLanded {
		t.Fatalf("phase = %v after touchdown, want landed", scene.Phase)
	}

	// Throttle up off the pad.
	r.Velocity = mgl64.Vec3{0, cfg.PlanetScene.LiftoffSpeed + 1, 0}
	scene.UpdatePhase(r)
	if scene.Phase != ScenePhaseLaunching {
		t.Fatalf("phase = %v after liftoff, want launching", scene.Phase)
	}

	// Climb back out of the landing band.
	r.Position = mgl64.Vec3{0, radius + radius*cfg.PlanetScene.LandingFactor + 10, 0}
	scene.UpdatePhase(r)
	if scene.Phase != ScenePhaseApproaching {
		t.Fatalf("phase = %v after climbing out, want approaching", scene.Phase)
	}

	// Keep climbing to the exit threshold.
	r.Position = mgl64.Vec3{0, radius + radius*cfg.PlanetScene.ExitFactor + 10, 0}
	if exit := scene.UpdatePhase(r); !exit {
		t.Error("no exit above the exit threshold")
	}
}

func TestEntryPoseStandsOffAboveSurface(t *testing.T) {
	cfg := config.DefaultConfig()
	scene := NewPlanetScene(cfg, *cfg.HomeBody())

	pose := scene.EntryPose()
	want := scene.Body.Radius * cfg.PlanetScene.ApproachOffsetFactor
	if math.Abs(pose.Position.Len()-want) > 1e-9 {
		t.Errorf("entry distance = %v, want %v", pose.Position.Len(), want)
	}

	// Nose points away from the body.
	nose := pose.Orientation.Rotate(mgl64.Vec3{0, 1, 0})
	if dot := nose.Dot(mgl64.Vec3{0, 1, 0}); dot < 0.999 {
		t.Errorf("entry nose-to-radial dot = %v, want near 1", dot)
	}
}

func TestSurfaceAndApproachPoses(t *testing.T) {
	body := entity.NewBody(entity.GenerateID(), "pad", 1e6, 50, mgl64.Vec3{100, 0, -30})

	surface := SurfacePose(body, 2)
	if d := surface.Position.Sub(body.Position).Len(); math.Abs(d-52) > 1e-9 {
		t.Errorf("surface pose distance = %v, want 52", d)
	}

	approach := ApproachPose(body, 4)
	if d := approach.Position.Sub(body.Position).Len(); math.Abs(d-200) > 1e-9 {
		t.Errorf("approach pose distance = %v, want 200", d)
	}

	for _, pose := range []entity.Pose{surface, approach} {
		nose := pose.Orientation.Rotate(mgl64.Vec3{0, 1, 0})
		up := pose.Position.Sub(body.Position).Normalize()
		if dot := nose.Dot(up); dot < 0.999 {
			t.Errorf("nose-to-radial dot = %v, want near 1", dot)
		}
	}
}
