// pkg/engine/scene.go
package engine

import (
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/marvinvr/rockets/pkg/config"
	"github.com/marvinvr/rockets/pkg/entity"
)

// ScenePhase is the sub-state of the single-planet scene.
type ScenePhase int

const (
	ScenePhaseApproaching ScenePhase = iota
	ScenePhaseLanding
	ScenePhaseLanded
	ScenePhaseLaunching
)

// String returns the wire form of the scene phase.
func (p ScenePhase) String() string {
	switch p {
	case ScenePhaseLanding:
		return "landing"
	case ScenePhaseLanded:
		return "landed"
	case ScenePhaseLaunching:
		return "launching"
	default:
		return "approaching"
	}
}

// SystemScene is the solar-system-wide scene. It exclusively owns its body
// set and hazard field; the craft is handed in by the game.
type SystemScene struct {
	Bodies  []*entity.Body
	Home    *entity.Body
	Hazards *entity.HazardField
	Flight  *FlightModel

	byName map[string]*entity.Body
}

// NewSystemScene builds the scene from the immutable catalog. Two passes:
// all bodies first, then orbits, so a moon can reference a planet defined
// after it.
func NewSystemScene(cfg *config.GameConfig) *SystemScene {
	scene := &SystemScene{
		Flight: NewFlightModel(cfg, false),
		byName: make(map[string]*entity.Body, len(cfg.Bodies)),
	}

	for _, bc := range cfg.Bodies {
		body := entity.NewBody(entity.GenerateID(), bc.Name, bc.Mass, bc.Radius, mgl64.Vec3{})
		body.GravityRating = bc.GravityRating
		body.Difficulty = bc.Difficulty
		body.Description = bc.Description
		body.SpinRate = bc.SpinRate
		body.AtmosphereHeight = bc.AtmosphereHeight
		body.DragCoefficient = bc.DragCoefficient
		body.ContactThreshold = bc.ContactThreshold
		body.Limits = entity.LandingLimits{
			MaxVerticalSpeed:   bc.MaxVerticalSpeed,
			MaxHorizontalSpeed: bc.MaxHorizontalSpeed,
		}
		scene.Bodies = append(scene.Bodies, body)
		scene.byName[bc.Name] = body
		if bc.Home {
			scene.Home = body
		}
	}

	for i, bc := range cfg.Bodies {
		if bc.Parent == "" {
			continue
		}
		scene.Bodies[i].SetOrbit(scene.byName[bc.Parent], bc.OrbitDistance, bc.OrbitSpeed, bc.OrbitPhase)
	}

	rng := rand.New(rand.NewPCG(cfg.Hazards.Seed, cfg.Hazards.Seed))
	scene.Hazards = entity.NewBeltField(rng, cfg.Hazards.Count,
		cfg.Hazards.InnerRadius, cfg.Hazards.OuterRadius,
		cfg.Hazards.AsteroidRadius, cfg.Hazards.DriftSpeed)

	return scene
}

// Body returns a body by catalog name, or nil.
func (s *SystemScene) Body(name string) *entity.Body {
	return s.byName[name]
}

// Update advances scripted orbital motion and the hazard field.
func (s *SystemScene) Update(deltaTime float64) {
	for _, b := range s.Bodies {
		b.Update(deltaTime)
	}
	s.Hazards.Update(deltaTime)
}

// PlanetScene is the enlarged single-body scene entered for a landing
// attempt. It owns its own scaled copy of the catalog body; thresholds
// scale with the enlarged radius.
type PlanetScene struct {
	Body   *entity.Body
	Phase  ScenePhase
	Flight *FlightModel
	Target string // catalog name of the body this scene represents

	cfg config.PlanetSceneConfig
}

// NewPlanetScene builds the enlarged scene for the named catalog body. The
// body is centered at the origin. Its mass scales with the square of the
// radius scale so surface gravity matches the system-wide scene.
func NewPlanetScene(cfg *config.GameConfig, bc config.BodyConfig) *PlanetScene {
	scale := cfg.PlanetScene.RadiusScale
	body := entity.NewBody(entity.GenerateID(), bc.Name, bc.Mass*scale*scale, bc.Radius*scale, mgl64.Vec3{})
	body.GravityRating = bc.GravityRating
	body.Difficulty = bc.Difficulty
	body.Description = bc.Description
	body.SpinRate = bc.SpinRate
	body.AtmosphereHeight = bc.AtmosphereHeight * scale
	body.DragCoefficient = bc.DragCoefficient
	body.ContactThreshold = bc.ContactThreshold * scale
	body.Limits = entity.LandingLimits{
		MaxVerticalSpeed:   bc.MaxVerticalSpeed,
		MaxHorizontalSpeed: bc.MaxHorizontalSpeed,
	}

	return &PlanetScene{
		Body:   body,
		Phase:  ScenePhaseApproaching,
		Flight: NewFlightModel(cfg, true),
		Target: bc.Name,
		cfg:    cfg.PlanetScene,
	}
}

// EntryPose is the initial pose for a craft transferred into this scene: an
// approach position at a safe offset above the surface, nose pointing away
// from the body. Velocity is zeroed by the transfer, not here.
func (p *PlanetScene) EntryPose() entity.Pose {
	position := mgl64.Vec3{0, p.Body.Radius * p.cfg.ApproachOffsetFactor, 0}
	return entity.Pose{
		Position:    position,
		Orientation: p.Body.SurfaceOrientation(position),
	}
}

// UpdatePhase advances the sub-scene state machine from the craft's current
// altitude and speed, and reports whether the craft has climbed past the
// exit threshold and should transfer back to the system-wide scene.
func (p *PlanetScene) UpdatePhase(r *entity.Rocket) (exit bool) {
	altitude := p.Body.Altitude(r.Position)
	speed := r.Speed()
	landingAltitude := p.Body.Radius * p.cfg.LandingFactor

	switch p.Phase {
	case ScenePhaseApproaching:
		if altitude < landingAltitude {
			p.Phase = ScenePhaseLanding
		}
	case ScenePhaseLanding:
		if altitude < p.cfg.LandedAltitude && speed < p.cfg.LandedMaxSpeed {
			p.Phase = ScenePhaseLanded
		}
	case ScenePhaseLanded:
		if speed > p.cfg.LiftoffSpeed {
			p.Phase = ScenePhaseLaunching
		}
	case ScenePhaseLaunching:
		if altitude > landingAltitude {
			p.Phase = ScenePhaseApproaching
		}
	}

	return altitude > p.Body.Radius*p.cfg.ExitFactor
}

// SurfacePose returns a resting pose on top of the given body: feet on the
// surface at the point straight above the body along +Y, nose up.
func SurfacePose(body *entity.Body, clearance float64) entity.Pose {
	up := mgl64.Vec3{0, 1, 0}
	position := body.Position.Add(up.Mul(body.Radius + clearance))
	return entity.Pose{
		Position:    position,
		Orientation: body.SurfaceOrientation(position),
	}
}

// ApproachPose returns a pose at a safe standoff from the given body, used
// when dropping the craft back into the system-wide scene near a remote
// body.
func ApproachPose(body *entity.Body, offsetFactor float64) entity.Pose {
	up := mgl64.Vec3{0, 1, 0}
	position := body.Position.Add(up.Mul(body.Radius * offsetFactor))
	return entity.Pose{
		Position:    position,
		Orientation: body.SurfaceOrientation(position),
	}
}
