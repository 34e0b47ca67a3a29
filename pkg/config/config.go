// pkg/config/config.go
package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// GameConfig contains the full configuration for a simulation run. Every
// altitude/speed threshold the state machines compare against lives here
// rather than in code.
type GameConfig struct {
	GravityConstant float64           `json:"gravityConstant"`
	MaxDeltaTime    float64           `json:"maxDeltaTime"`
	Rocket          RocketConfig      `json:"rocket"`
	Flight          FlightConfig      `json:"flight"`
	Phases          PhaseConfig       `json:"phases"`
	PlanetScene     PlanetSceneConfig `json:"planetScene"`
	Camera          CameraConfig      `json:"camera"`
	Hazards         HazardConfig      `json:"hazards"`
	Bodies          []BodyConfig      `json:"bodies"`
}

// RocketConfig describes the craft itself.
type RocketConfig struct {
	Mass           float64 `json:"mass"`
	MaxFuel        float64 `json:"maxFuel"`
	ColliderRadius float64 `json:"colliderRadius"`
}

// FlightConfig contains thrust, steering and flight-assist tuning.
type FlightConfig struct {
	MainThrust     float64 `json:"mainThrust"`   // acceleration along the nose
	BoostFactor    float64 `json:"boostFactor"`  // main thrust multiplier while boosting
	FuelBurnRate   float64 `json:"fuelBurnRate"` // fuel per second of main thrust
	RCSThrust      float64 `json:"rcsThrust"`
	RCSMinSpeed    float64 `json:"rcsMinSpeed"` // activation floor in the system scene
	TurnRate       float64 `json:"turnRate"`    // angular acceleration from steering
	AngularDamping float64 `json:"angularDamping"`

	GearDeployAltitude float64 `json:"gearDeployAltitude"`
	OrientAltitude     float64 `json:"orientAltitude"` // below this, auto-orientation engages
	OrientMaxSpeed     float64 `json:"orientMaxSpeed"`
	OrientBlend        float64 `json:"orientBlend"` // slerp factor per tick
}

// PhaseConfig contains the system-wide phase machine thresholds.
type PhaseConfig struct {
	ExitAltitude     float64 `json:"exitAltitude"`     // launch -> space
	ApproachAltitude float64 `json:"approachAltitude"` // space -> landing
	RespawnDelay     float64 `json:"respawnDelay"`     // seconds of simulated time
	ViewProximity    float64 `json:"viewProximity"`    // altitude T for the 3D view
	ViewHysteresis   float64 `json:"viewHysteresis"`   // multiplier on T to leave 3D

	// A craft below StrandedSpeed with no fuel while higher than
	// StrandedAltitude has no way home: out-of-fuel failure.
	StrandedSpeed    float64 `json:"strandedSpeed"`
	StrandedAltitude float64 `json:"strandedAltitude"`
}

// PlanetSceneConfig tunes the enlarged single-body scene. Thresholds scale
// with the body radius; the source material sizes them very differently from
// the system-wide view, so they are factors here, not absolutes.
type PlanetSceneConfig struct {
	RadiusScale          float64 `json:"radiusScale"`
	LandingFactor        float64 `json:"landingFactor"`        // approaching -> landing below radius*factor
	LandedAltitude       float64 `json:"landedAltitude"`       // landing -> landed below this altitude
	LandedMaxSpeed       float64 `json:"landedMaxSpeed"`       // ... and below this speed
	LiftoffSpeed         float64 `json:"liftoffSpeed"`         // landed -> launching above this speed
	ExitFactor           float64 `json:"exitFactor"`           // scene exit above radius*factor
	ApproachOffsetFactor float64 `json:"approachOffsetFactor"` // initial pose distance for remote bodies
}

// CameraConfig tunes framing and smoothing.
type CameraConfig struct {
	LaunchOffset   [3]float64 `json:"launchOffset"`   // world-space during launch
	FlightOffset   [3]float64 `json:"flightOffset"`   // craft-local in space/landing
	OverheadHeight float64    `json:"overheadHeight"` // straight above the craft in 2D
	Smoothing2D    float64    `json:"smoothing2D"`
	Smoothing3D    float64    `json:"smoothing3D"`
}

// HazardConfig describes the asteroid belt.
type HazardConfig struct {
	Count          int     `json:"count"`
	InnerRadius    float64 `json:"innerRadius"`
	OuterRadius    float64 `json:"outerRadius"`
	AsteroidRadius float64 `json:"asteroidRadius"`
	DriftSpeed     float64 `json:"driftSpeed"`
	Seed           uint64  `json:"seed"`
}

// BodyConfig is one row of the immutable celestial catalog.
type BodyConfig struct {
	Name          string  `json:"name"`
	Mass          float64 `json:"mass"`
	Radius        float64 `json:"radius"`
	Parent        string  `json:"parent,omitempty"` // empty means stationed at the scene origin
	OrbitDistance float64 `json:"orbitDistance"`
	OrbitSpeed    float64 `json:"orbitSpeed"`
	OrbitPhase    float64 `json:"orbitPhase"`
	SpinRate      float64 `json:"spinRate,omitempty"`
	GravityRating float64 `json:"gravityRating"`
	Difficulty    int     `json:"difficulty"`
	Description   string  `json:"description"`
	Home          bool    `json:"home"`

	AtmosphereHeight float64 `json:"atmosphereHeight"`
	DragCoefficient  float64 `json:"dragCoefficient"`

	ContactThreshold   float64 `json:"contactThreshold"`
	MaxVerticalSpeed   float64 `json:"maxVerticalSpeed"`
	MaxHorizontalSpeed float64 `json:"maxHorizontalSpeed"`
}

// LoadConfig loads a configuration from a file
func LoadConfig(path string) (*GameConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config GameConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// SaveConfig saves a configuration to a file
func SaveConfig(config *GameConfig, path string) error {
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate enforces the data-model invariants the simulation relies on.
func (c *GameConfig) Validate() error {
	if c.MaxDeltaTime <= 0 {
		return fmt.Errorf("maxDeltaTime must be positive, got %v", c.MaxDeltaTime)
	}
	if c.Rocket.Mass <= 0 {
		return fmt.Errorf("rocket mass must be positive, got %v", c.Rocket.Mass)
	}
	if c.Rocket.MaxFuel <= 0 {
		return fmt.Errorf("rocket maxFuel must be positive, got %v", c.Rocket.MaxFuel)
	}
	if c.Phases.ViewHysteresis < 1 {
		return fmt.Errorf("viewHysteresis must be >= 1, got %v", c.Phases.ViewHysteresis)
	}
	if len(c.Bodies) == 0 {
		return fmt.Errorf("catalog has no bodies")
	}

	names := make(map[string]bool, len(c.Bodies))
	home := 0
	for i, b := range c.Bodies {
		if b.Name == "" {
			return fmt.Errorf("body %d has no name", i)
		}
		if names[b.Name] {
			return fmt.Errorf("duplicate body name %q", b.Name)
		}
		names[b.Name] = true
		if b.Radius <= 0 {
			return fmt.Errorf("body %q: radius must be positive, got %v", b.Name, b.Radius)
		}
		if b.Mass <= 0 {
			return fmt.Errorf("body %q: mass must be positive, got %v", b.Name, b.Mass)
		}
		if b.Home {
			home++
		}
	}
	if home != 1 {
		return fmt.Errorf("catalog must declare exactly one home body, got %d", home)
	}
	for _, b := range c.Bodies {
		if b.Parent != "" && !names[b.Parent] {
			return fmt.Errorf("body %q orbits unknown parent %q", b.Name, b.Parent)
		}
	}
	return nil
}

// HomeBody returns the catalog row flagged as the home body.
func (c *GameConfig) HomeBody() *BodyConfig {
	for i := range c.Bodies {
		if c.Bodies[i].Home {
			return &c.Bodies[i]
		}
	}
	return nil
}

// DefaultConfig returns the stock solar-system configuration. Units are game
// units, not SI; masses and distances are tuned for flight feel.
func DefaultConfig() *GameConfig {
	return &GameConfig{
		GravityConstant: 6.674e-5,
		MaxDeltaTime:    1.0 / 60,
		Rocket: RocketConfig{
			Mass:           100,
			MaxFuel:        1000,
			ColliderRadius: 2,
		},
		Flight: FlightConfig{
			MainThrust:     6,
			BoostFactor:    2.5,
			FuelBurnRate:   12,
			RCSThrust:      1.5,
			RCSMinSpeed:    0.5,
			TurnRate:       1.2,
			AngularDamping: 0.8,

			GearDeployAltitude: 30,
			OrientAltitude:     50,
			OrientMaxSpeed:     8,
			OrientBlend:        0.08,
		},
		Phases: PhaseConfig{
			ExitAltitude:     400,
			ApproachAltitude: 150,
			RespawnDelay:     3,
			ViewProximity:    200,
			ViewHysteresis:   1.5,
			StrandedSpeed:    0.1,
			StrandedAltitude: 10,
		},
		PlanetScene: PlanetSceneConfig{
			RadiusScale:          8,
			LandingFactor:        1.5,
			LandedAltitude:       2,
			LandedMaxSpeed:       1,
			LiftoffSpeed:         3,
			ExitFactor:           6,
			ApproachOffsetFactor: 4,
		},
		Camera: CameraConfig{
			LaunchOffset:   [3]float64{0, 25, 90},
			FlightOffset:   [3]float64{0, 12, -40},
			OverheadHeight: 160,
			Smoothing2D:    2.5,
			Smoothing3D:    5,
		},
		Hazards: HazardConfig{
			Count:          48,
			InnerRadius:    5200,
			OuterRadius:    6400,
			AsteroidRadius: 6,
			DriftSpeed:     4,
			Seed:           1,
		},
		Bodies: []BodyConfig{
			{
				Name: "Sun", Mass: 2e9, Radius: 600,
				GravityRating: 28, Difficulty: 5,
				Description:      "The star anchoring the system. Landing is not survivable; its pull dominates deep space.",
				ContactThreshold: 5, MaxVerticalSpeed: 0, MaxHorizontalSpeed: 0,
			},
			{
				Name: "Mercury", Mass: 6e6, Radius: 24, Parent: "Sun",
				OrbitDistance: 1400, OrbitSpeed: 0.022, OrbitPhase: 0.4, SpinRate: 0.02,
				GravityRating: 0.38, Difficulty: 3,
				Description:      "Small, airless, fast-moving. The lack of atmosphere leaves nothing to bleed off speed.",
				ContactThreshold: 1.5, MaxVerticalSpeed: 4, MaxHorizontalSpeed: 2.5,
			},
			{
				Name: "Venus", Mass: 4.5e7, Radius: 58, Parent: "Sun",
				OrbitDistance: 2200, OrbitSpeed: 0.016, OrbitPhase: 2.1, SpinRate: -0.01,
				GravityRating: 0.9, Difficulty: 4,
				Description:      "A thick atmosphere brakes the descent hard, then hides the surface until late.",
				AtmosphereHeight: 120, DragCoefficient: 0.9,
				ContactThreshold: 2, MaxVerticalSpeed: 5, MaxHorizontalSpeed: 3,
			},
			{
				Name: "Earth", Mass: 5e7, Radius: 60, Parent: "Sun",
				OrbitDistance: 3000, OrbitSpeed: 0.012, OrbitPhase: 0, SpinRate: 0.25,
				GravityRating: 1, Difficulty: 1, Home: true,
				Description:      "Home. Launches begin on its surface and successful flights are measured from here.",
				AtmosphereHeight: 100, DragCoefficient: 0.4,
				ContactThreshold: 2, MaxVerticalSpeed: 6, MaxHorizontalSpeed: 4,
			},
			{
				Name: "Moon", Mass: 6e5, Radius: 16, Parent: "Earth",
				OrbitDistance: 220, OrbitSpeed: 0.09, OrbitPhase: 1.2, SpinRate: 0.03,
				GravityRating: 0.17, Difficulty: 2,
				Description:      "The nearest target. Weak gravity forgives a sloppy approach.",
				ContactThreshold: 1, MaxVerticalSpeed: 5, MaxHorizontalSpeed: 3.5,
			},
			{
				Name: "Mars", Mass: 7e6, Radius: 32, Parent: "Sun",
				OrbitDistance: 4300, OrbitSpeed: 0.0095, OrbitPhase: 4.4, SpinRate: 0.24,
				GravityRating: 0.38, Difficulty: 2,
				Description:      "Thin air and light gravity. A popular second stop.",
				AtmosphereHeight: 40, DragCoefficient: 0.1,
				ContactThreshold: 1.5, MaxVerticalSpeed: 5, MaxHorizontalSpeed: 3,
			},
			{
				Name: "Jupiter", Mass: 9e8, Radius: 240, Parent: "Sun",
				OrbitDistance: 7200, OrbitSpeed: 0.005, OrbitPhase: 3.0, SpinRate: 0.63,
				GravityRating: 2.5, Difficulty: 5,
				Description:      "A gas giant past the asteroid belt. Its gravity well bends every trajectory nearby.",
				AtmosphereHeight: 400, DragCoefficient: 1.2,
				ContactThreshold: 6, MaxVerticalSpeed: 3, MaxHorizontalSpeed: 2,
			},
			{
				Name: "Saturn", Mass: 3e8, Radius: 200, Parent: "Sun",
				OrbitDistance: 9000, OrbitSpeed: 0.0038, OrbitPhase: 5.5, SpinRate: 0.58,
				GravityRating: 1.06, Difficulty: 4,
				Description:      "Far out and slow to reach; fuel planning is the real obstacle.",
				AtmosphereHeight: 320, DragCoefficient: 1,
				ContactThreshold: 5, MaxVerticalSpeed: 3.5, MaxHorizontalSpeed: 2.5,
			},
			{
				Name: "Uranus", Mass: 6e7, Radius: 90, Parent: "Sun",
				OrbitDistance: 10800, OrbitSpeed: 0.0027, OrbitPhase: 1.9, SpinRate: -0.36,
				GravityRating: 0.89, Difficulty: 3,
				Description:      "An ice giant at the edge of practical range.",
				AtmosphereHeight: 150, DragCoefficient: 0.7,
				ContactThreshold: 3, MaxVerticalSpeed: 4, MaxHorizontalSpeed: 3,
			},
			{
				Name: "Neptune", Mass: 7e7, Radius: 88, Parent: "Sun",
				OrbitDistance: 12400, OrbitSpeed: 0.0022, OrbitPhase: 0.8, SpinRate: 0.38,
				GravityRating: 1.14, Difficulty: 4,
				Description:      "The last stop. Reaching it with fuel to land is the long game.",
				AtmosphereHeight: 150, DragCoefficient: 0.8,
				ContactThreshold: 3, MaxVerticalSpeed: 4, MaxHorizontalSpeed: 3,
			},
		},
	}
}
