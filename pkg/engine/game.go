// pkg/engine/game.go
package engine

import (
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/marvinvr/rockets/pkg/camera"
	"github.com/marvinvr/rockets/pkg/config"
	"github.com/marvinvr/rockets/pkg/entity"
	"github.com/marvinvr/rockets/pkg/event"
	"github.com/marvinvr/rockets/pkg/physics"
)

// Phase is the top-level mission phase.
type Phase int

const (
	PhaseLaunch Phase = iota
	PhaseSpace
	PhaseLanding
	PhaseGameOver
)

// String returns the wire form of the phase.
func (p Phase) String() string {
	switch p {
	case PhaseSpace:
		return "space"
	case PhaseLanding:
		return "landing"
	case PhaseGameOver:
		return "gameOver"
	default:
		return "launch"
	}
}

// ViewMode selects between the overhead map view and the chase view.
type ViewMode int

const (
	ViewTwoD ViewMode = iota
	ViewThreeD
)

// String returns the wire form of the view mode.
func (v ViewMode) String() string {
	if v == ViewThreeD {
		return "3d"
	}
	return "2d"
}

// Telemetry is the per-tick snapshot handed to hosts. Everything a
// renderer or a remote client needs is here; the game itself is never
// exposed directly.
type Telemetry struct {
	Tick     uint64  `json:"tick"`
	Time     float64 `json:"time"`
	Phase    string  `json:"phase"`
	ViewMode string  `json:"viewMode"`

	Scene      string `json:"scene"`
	ScenePhase string `json:"scenePhase,omitempty"`
	TargetBody string `json:"targetBody,omitempty"`

	Position    [3]float64 `json:"position"`
	Velocity    [3]float64 `json:"velocity"`
	Orientation [4]float64 `json:"orientation"` // x, y, z, w

	Speed        float64 `json:"speed"`
	Altitude     float64 `json:"altitude"`
	NearestBody  string  `json:"nearestBody"`
	FuelFraction float64 `json:"fuelFraction"`
	GearDeployed bool    `json:"gearDeployed"`

	CameraPosition [3]float64 `json:"cameraPosition"`
	CameraTarget   [3]float64 `json:"cameraTarget"`

	Score          int    `json:"score"`
	Event          string `json:"event,omitempty"`
	GameOverReason string `json:"gameOverReason,omitempty"`
}

// Game owns the whole simulation: scenes, craft, camera and the phase
// machine tying them together. It is not safe for concurrent use; hosts
// serialize access around Update.
type Game struct {
	Config *config.GameConfig
	Events *event.Bus

	Rocket *entity.Rocket
	System *SystemScene
	Planet *PlanetScene // nil while in the system-wide scene
	Camera *camera.Controller

	Phase    Phase
	ViewMode ViewMode
	Tick     uint64
	SimTime  float64

	Score          int
	GameOverReason entity.Outcome

	targets     []string // non-home bodies ordered by difficulty
	targetIndex int

	// Respawn is scheduled on simulated time so pausing the host never
	// fires it early. A negative deadline means nothing is pending.
	respawnAt   float64
	respawnBody string

	// A parked craft rides the home body's scripted orbit instead of
	// integrating, so the pad never drifts out from under it. Cleared by
	// the first burn.
	parked bool
}

// NewGame builds a fresh game from the configuration. The configuration is
// assumed validated; LoadConfig and DefaultConfig both guarantee that.
func NewGame(cfg *config.GameConfig) *Game {
	g := &Game{
		Config: cfg,
		Events: event.NewEventBus(),
	}
	g.start()
	return g
}

// Reset restarts the run from the launch pad. Event subscriptions
// survive; everything else is rebuilt.
func (g *Game) Reset() {
	g.start()
}

func (g *Game) start() {
	g.System = NewSystemScene(g.Config)
	g.Planet = nil

	pose := SurfacePose(g.System.Home, g.Config.Rocket.ColliderRadius)
	g.Rocket = entity.NewRocket(entity.GenerateID(),
		g.Config.Rocket.Mass, g.Config.Rocket.MaxFuel,
		g.Config.Rocket.ColliderRadius, pose)

	g.Camera = camera.NewController(g.Config.Camera)
	g.Camera.Reset(camera.FramingLaunch, g.Rocket.Position, g.Rocket.Orientation)

	g.Phase = PhaseLaunch
	g.ViewMode = ViewThreeD
	g.Tick = 0
	g.SimTime = 0
	g.Score = 0
	g.GameOverReason = entity.OutcomeNone
	g.respawnAt = -1
	g.respawnBody = ""
	g.parked = true

	g.targets = g.targets[:0]
	for _, bc := range g.Config.Bodies {
		if !bc.Home {
			g.targets = append(g.targets, bc.Name)
		}
	}
	difficulty := func(name string) int {
		for _, bc := range g.Config.Bodies {
			if bc.Name == name {
				return bc.Difficulty
			}
		}
		return 0
	}
	sort.SliceStable(g.targets, func(i, j int) bool {
		return difficulty(g.targets[i]) < difficulty(g.targets[j])
	})
	g.targetIndex = 0

	g.Events.Publish(&event.BaseEvent{EventType: event.GameStarted, Source: g})
}

// CurrentTarget returns the catalog name of the suggested next landing
// target, or "" once every target has been visited.
func (g *Game) CurrentTarget() string {
	if g.targetIndex >= len(g.targets) {
		return ""
	}
	return g.targets[g.targetIndex]
}

// Update advances the simulation one tick and returns the telemetry
// snapshot for it. After game over only the camera keeps moving.
func (g *Game) Update(cmd Command) Telemetry {
	dt := physics.Clamp(cmd.DeltaTime, 0, g.Config.MaxDeltaTime)
	cmd.DeltaTime = dt
	g.Tick++
	g.SimTime += dt

	if g.Phase == PhaseGameOver {
		g.Camera.Update(g.framing(), g.Rocket.Position, g.Rocket.Orientation, dt)
		return g.snapshot(entity.OutcomeNone)
	}

	var outcome entity.Outcome
	if g.Planet != nil {
		outcome = g.updatePlanet(cmd)
	} else {
		outcome = g.updateSystem(cmd, dt)
	}

	if outcome == entity.OutcomeNone {
		outcome = g.checkStranded()
	}

	if g.respawnAt >= 0 && g.SimTime >= g.respawnAt && g.Phase != PhaseGameOver {
		g.performRespawn()
	}

	g.updatePhase()
	g.updateViewMode()
	g.Camera.Update(g.framing(), g.Rocket.Position, g.Rocket.Orientation, dt)

	return g.snapshot(outcome)
}

// updateSystem runs one tick of the system-wide scene: flight, orbital
// motion, hazards, then landing classification against every body.
func (g *Game) updateSystem(cmd Command, dt float64) entity.Outcome {
	if g.parked {
		switch {
		case cmd.Forward && g.Rocket.Fuel > 0:
			// Liftoff starts in the pad's co-moving frame.
			g.Rocket.Velocity = g.System.Home.OrbitalVelocity()
			g.parked = false
		case g.System.Home.Altitude(g.Rocket.Position) <= g.System.Home.ContactThreshold:
			g.System.Update(dt)
			g.holdOnPad()
			return entity.OutcomeNone
		default:
			// Moved off the pad by other means; it is flying now.
			g.parked = false
		}
	}

	g.System.Flight.Step(g.Rocket, cmd, g.System.Bodies)
	g.System.Update(dt)

	if asteroid, hit := g.System.Hazards.CheckCollision(g.Rocket.Collider); hit {
		g.Rocket.Destroy()
		g.Events.Publish(event.NewCollisionEvent(g, uint64(asteroid.ID)))
		g.endGame(entity.OutcomeCollision)
		return entity.OutcomeCollision
	}

	// The craft starts resting on the home pad; classifying that contact
	// would award a landing for doing nothing. Contacts only count once
	// the craft has been to space.
	if g.Phase != PhaseSpace {
		return entity.OutcomeNone
	}
	for _, b := range g.System.Bodies {
		if out := b.ClassifyLanding(g.Rocket.Position, g.Rocket.Velocity); out != entity.OutcomeNone {
			return g.resolveLanding(b, out)
		}
	}
	return entity.OutcomeNone
}

// holdOnPad re-anchors a parked craft to the home body's current surface
// position, velocity zeroed in the pad frame.
func (g *Game) holdOnPad() {
	pose := SurfacePose(g.System.Home, g.Config.Rocket.ColliderRadius)
	g.Rocket.Position = pose.Position
	g.Rocket.Collider.Center = pose.Position
	g.Rocket.Orientation = pose.Orientation
	g.Rocket.Velocity = mgl64.Vec3{}
	g.Rocket.AngularVelocity = mgl64.Vec3{}
	g.Rocket.DeployGear()
}

// updatePlanet runs one tick of the single-planet scene.
func (g *Game) updatePlanet(cmd Command) entity.Outcome {
	scene := g.Planet
	scene.Flight.Step(g.Rocket, cmd, []*entity.Body{scene.Body})
	scene.Body.Update(cmd.DeltaTime)
	exit := scene.UpdatePhase(g.Rocket)

	if out := scene.Body.ClassifyLanding(g.Rocket.Position, g.Rocket.Velocity); out != entity.OutcomeNone {
		return g.resolveLanding(scene.Body, out)
	}

	if exit && g.respawnAt < 0 {
		g.exitPlanet()
	}
	return entity.OutcomeNone
}

// resolveLanding reacts to a latched contact classification: success banks
// points and schedules the trip home, crash ends the run.
func (g *Game) resolveLanding(body *entity.Body, out entity.Outcome) entity.Outcome {
	g.Events.Publish(event.NewLandingEvent(g, body.Name, out.String()))

	switch out {
	case entity.OutcomeSuccess:
		g.Score += landingPoints(body)
		if body.Name == g.CurrentTarget() {
			g.targetIndex++
		}
		g.scheduleRespawn(body.Name)
	case entity.OutcomeCrash:
		g.Rocket.Destroy()
		g.endGame(entity.OutcomeCrash)
	}
	return out
}

// landingPoints scores a touchdown: heavier gravity and harder approaches
// pay more.
func landingPoints(body *entity.Body) int {
	return int(math.Round(body.GravityRating * float64(body.Difficulty) * 100))
}

// checkStranded flags the unrecoverable state: dry tank, drifting too
// slowly to ever reach a surface.
func (g *Game) checkStranded() entity.Outcome {
	if g.Rocket.Fuel > 0 || g.Rocket.Speed() >= g.Config.Phases.StrandedSpeed {
		return entity.OutcomeNone
	}
	if g.altitude() <= g.Config.Phases.StrandedAltitude {
		return entity.OutcomeNone
	}
	g.Events.Publish(&event.BaseEvent{EventType: event.FuelExhausted, Source: g})
	g.endGame(entity.OutcomeOutOfFuel)
	return entity.OutcomeOutOfFuel
}

func (g *Game) scheduleRespawn(bodyName string) {
	delay := g.Config.Phases.RespawnDelay
	g.respawnAt = g.SimTime + delay
	g.respawnBody = bodyName
	g.Events.Publish(event.NewRespawnEvent(g, event.RespawnScheduled, bodyName, delay))
}

// performRespawn puts the craft back on the home pad with a full tank. It
// never runs after game over; endGame cancels the pending deadline.
func (g *Game) performRespawn() {
	body := g.respawnBody
	g.respawnAt = -1
	g.respawnBody = ""
	g.Planet = nil

	pose := SurfacePose(g.System.Home, g.Config.Rocket.ColliderRadius)
	g.Rocket.Reset(pose, g.Config.Rocket.MaxFuel)
	g.parked = true
	g.setPhase(PhaseLaunch)
	g.Camera.Reset(camera.FramingLaunch, g.Rocket.Position, g.Rocket.Orientation)
	g.Events.Publish(event.NewRespawnEvent(g, event.CraftRespawned, body, 0))
	g.Events.Publish(event.NewSceneEvent(g, "system", g.System.Home.Name))
}

// updatePhase advances the top-level mission phase from altitude.
func (g *Game) updatePhase() {
	if g.Phase == PhaseGameOver || g.respawnAt >= 0 {
		return
	}
	switch g.Phase {
	case PhaseLaunch:
		if g.System.Home.Altitude(g.Rocket.Position) > g.Config.Phases.ExitAltitude {
			g.setPhase(PhaseSpace)
		}
	case PhaseSpace:
		nearest, altitude := NearestBody(g.System.Bodies, g.Rocket.Position)
		if nearest != nil && altitude < g.Config.Phases.ApproachAltitude {
			g.enterPlanet(nearest)
		}
	}
}

// enterPlanet transfers the craft into the enlarged single-body scene for
// the given catalog body. Fuel carries over; velocity is zeroed so the
// approach starts controlled.
func (g *Game) enterPlanet(body *entity.Body) {
	for _, bc := range g.Config.Bodies {
		if bc.Name != body.Name {
			continue
		}
		g.Planet = NewPlanetScene(g.Config, bc)
		g.Rocket.Reset(g.Planet.EntryPose(), g.Rocket.Fuel)
		g.setPhase(PhaseLanding)
		g.Events.Publish(event.NewSceneEvent(g, "planet", bc.Name))
		return
	}
}

// exitPlanet transfers the craft back to the system-wide scene at a safe
// standoff from the body it was visiting. Fuel and climb velocity carry
// over. The standoff always clears the approach trigger, otherwise a small
// body would pull the craft straight back into its scene.
func (g *Game) exitPlanet() {
	name := g.Planet.Target
	g.Planet = nil

	body := g.System.Body(name)
	standoff := body.Radius * g.Config.PlanetScene.ApproachOffsetFactor
	if minimum := body.Radius + g.Config.Phases.ApproachAltitude*1.5; standoff < minimum {
		standoff = minimum
	}
	position := body.Position.Add(mgl64.Vec3{0, standoff, 0})
	g.Rocket.Position = position
	g.Rocket.Collider.Center = position
	g.Rocket.Orientation = body.SurfaceOrientation(position)

	g.setPhase(PhaseSpace)
	g.Events.Publish(event.NewSceneEvent(g, "system", name))
}

// updateViewMode applies the proximity hysteresis: drop into the 3D chase
// view close to a body, return to the overhead map only after climbing
// well clear of it. The single-planet scene is always 3D.
func (g *Game) updateViewMode() {
	if g.Planet != nil {
		g.setViewMode(ViewThreeD)
		return
	}
	altitude := g.altitude()
	proximity := g.Config.Phases.ViewProximity
	switch g.ViewMode {
	case ViewTwoD:
		if altitude < proximity {
			g.setViewMode(ViewThreeD)
		}
	case ViewThreeD:
		if altitude > proximity*g.Config.Phases.ViewHysteresis {
			g.setViewMode(ViewTwoD)
		}
	}
}

// endGame stops the run and cancels any pending respawn.
func (g *Game) endGame(reason entity.Outcome) {
	g.GameOverReason = reason
	g.respawnAt = -1
	g.respawnBody = ""
	g.setPhase(PhaseGameOver)
	g.Events.Publish(&event.BaseEvent{EventType: event.GameEnded, Source: g})
}

func (g *Game) setPhase(p Phase) {
	if g.Phase == p {
		return
	}
	from := g.Phase
	g.Phase = p
	g.Events.Publish(event.NewPhaseEvent(g, from.String(), p.String()))
}

func (g *Game) setViewMode(v ViewMode) {
	if g.ViewMode == v {
		return
	}
	from := g.ViewMode
	g.ViewMode = v
	g.Events.Publish(event.NewViewEvent(g, from.String(), v.String()))
}

// framing maps game state to the camera framing: fixed pad shot during
// launch, straight overhead for the 2D map, chase otherwise.
func (g *Game) framing() camera.Framing {
	switch {
	case g.Phase == PhaseLaunch:
		return camera.FramingLaunch
	case g.Planet == nil && g.ViewMode == ViewTwoD:
		return camera.FramingOverhead
	default:
		return camera.FramingFlight
	}
}

// nearest returns the reference body and craft altitude for the current
// scene.
func (g *Game) nearest() (*entity.Body, float64) {
	if g.Planet != nil {
		return g.Planet.Body, g.Planet.Body.Altitude(g.Rocket.Position)
	}
	return NearestBody(g.System.Bodies, g.Rocket.Position)
}

func (g *Game) altitude() float64 {
	_, altitude := g.nearest()
	return altitude
}

func (g *Game) snapshot(outcome entity.Outcome) Telemetry {
	r := g.Rocket
	nearest, altitude := g.nearest()

	t := Telemetry{
		Tick:     g.Tick,
		Time:     g.SimTime,
		Phase:    g.Phase.String(),
		ViewMode: g.ViewMode.String(),

		Scene:      "system",
		TargetBody: g.CurrentTarget(),

		Position: vec3Array(r.Position),
		Velocity: vec3Array(r.Velocity),
		Orientation: [4]float64{
			r.Orientation.V[0], r.Orientation.V[1], r.Orientation.V[2], r.Orientation.W,
		},

		Speed:        r.Speed(),
		Altitude:     altitude,
		FuelFraction: r.FuelFraction(),
		GearDeployed: r.GearDeployed,

		CameraPosition: vec3Array(g.Camera.Position),
		CameraTarget:   vec3Array(g.Camera.Target),

		Score: g.Score,
	}
	if nearest != nil {
		t.NearestBody = nearest.Name
	}
	if g.Planet != nil {
		t.Scene = "planet"
		t.ScenePhase = g.Planet.Phase.String()
	}
	if outcome != entity.OutcomeNone {
		t.Event = outcome.String()
	}
	if g.GameOverReason != entity.OutcomeNone {
		t.GameOverReason = g.GameOverReason.String()
	}
	return t
}

func vec3Array(v mgl64.Vec3) [3]float64 {
	return [3]float64{v[0], v[1], v[2]}
}
