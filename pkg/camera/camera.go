// pkg/camera/camera.go

// Package camera computes a smoothed chase-camera pose for the renderer.
// The controller owns the camera position and look-at target; hosts read
// them after each tick and never write them back.
package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/marvinvr/rockets/pkg/config"
	"github.com/marvinvr/rockets/pkg/physics"
)

// Framing selects how the desired camera pose is computed for the current
// phase and view mode.
type Framing int

const (
	// FramingLaunch uses a fixed world-space offset from the craft, so the
	// camera does not rotate with it while it is still near the pad.
	FramingLaunch Framing = iota
	// FramingFlight places the camera behind the craft in its own rotated
	// frame.
	FramingFlight
	// FramingOverhead hangs the camera directly above the craft, looking
	// straight down, ignoring the craft's rotation. This is the 2D view.
	FramingOverhead
)

// worldUp is pinned for the camera at all times to prevent roll-induced
// flipping.
var worldUp = mgl64.Vec3{0, 1, 0}

// Controller maintains the smoothed camera state.
type Controller struct {
	Position mgl64.Vec3
	Target   mgl64.Vec3

	launchOffset   mgl64.Vec3
	flightOffset   mgl64.Vec3
	overheadHeight float64
	smoothing2D    float64
	smoothing3D    float64

	initialized bool
}

// NewController creates a camera controller from configuration.
func NewController(cfg config.CameraConfig) *Controller {
	return &Controller{
		launchOffset:   mgl64.Vec3{cfg.LaunchOffset[0], cfg.LaunchOffset[1], cfg.LaunchOffset[2]},
		flightOffset:   mgl64.Vec3{cfg.FlightOffset[0], cfg.FlightOffset[1], cfg.FlightOffset[2]},
		overheadHeight: cfg.OverheadHeight,
		smoothing2D:    cfg.Smoothing2D,
		smoothing3D:    cfg.Smoothing3D,
	}
}

// Up returns the camera's up vector, pinned to the world vertical.
func (c *Controller) Up() mgl64.Vec3 {
	return worldUp
}

// Reset snaps the camera to the desired pose for the given framing. Used at
// scene initialization, the only time the camera is allowed to jump.
func (c *Controller) Reset(framing Framing, craftPos mgl64.Vec3, craftOrient mgl64.Quat) {
	c.Position, c.Target = c.desired(framing, craftPos, craftOrient)
	c.initialized = true
}

// Update moves the camera toward the framing's desired pose using an
// exponential lerp, so the approach is smooth at any tick rate and never
// overshoots. The first update after construction snaps.
func (c *Controller) Update(framing Framing, craftPos mgl64.Vec3, craftOrient mgl64.Quat, deltaTime float64) {
	desiredPos, desiredTarget := c.desired(framing, craftPos, craftOrient)

	if !c.initialized {
		c.Position = desiredPos
		c.Target = desiredTarget
		c.initialized = true
		return
	}

	smoothing := c.smoothing3D
	if framing == FramingOverhead {
		smoothing = c.smoothing2D
	}
	t := 1 - math.Exp(-smoothing*deltaTime)

	c.Position = physics.Lerp(c.Position, desiredPos, t)
	c.Target = physics.Lerp(c.Target, desiredTarget, t)
}

func (c *Controller) desired(framing Framing, craftPos mgl64.Vec3, craftOrient mgl64.Quat) (pos, target mgl64.Vec3) {
	switch framing {
	case FramingLaunch:
		return craftPos.Add(c.launchOffset), craftPos
	case FramingOverhead:
		return craftPos.Add(mgl64.Vec3{0, c.overheadHeight, 0}), craftPos
	default:
		return craftPos.Add(craftOrient.Rotate(c.flightOffset)), craftPos
	}
}
