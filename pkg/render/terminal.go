// Package render contains host-side renderers for the simulation. The
// terminal renderer projects the scene top-down onto the XZ plane as ASCII;
// it exists for headless debugging and demo runs, not gameplay.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/marvinvr/rockets/pkg/entity"
)

// TerminalRenderer draws entities into a rune buffer and flushes it as text.
type TerminalRenderer struct {
	width  int
	height int
	scale  float64
	buffer [][]rune
	center mgl64.Vec3
	out    io.Writer
}

// NewTerminalRenderer creates a renderer of the given character dimensions.
// scale is world units per character cell.
func NewTerminalRenderer(out io.Writer, width, height int, scale float64) *TerminalRenderer {
	buffer := make([][]rune, height)
	for i := range buffer {
		buffer[i] = make([]rune, width)
	}
	return &TerminalRenderer{
		width:  width,
		height: height,
		scale:  scale,
		buffer: buffer,
		out:    out,
	}
}

// SetCenter places the given world position at the middle of the view.
func (r *TerminalRenderer) SetCenter(pos mgl64.Vec3) {
	r.center = pos
}

// worldToScreen maps a world position onto the buffer, looking straight
// down: world X goes right, world Z goes down.
func (r *TerminalRenderer) worldToScreen(pos mgl64.Vec3) (int, int) {
	x := int((pos.X()-r.center.X())/r.scale + float64(r.width)/2)
	y := int((pos.Z()-r.center.Z())/r.scale + float64(r.height)/2)
	return x, y
}

func (r *TerminalRenderer) plot(pos mgl64.Vec3, symbol rune) {
	x, y := r.worldToScreen(pos)
	if x >= 0 && x < r.width && y >= 0 && y < r.height {
		r.buffer[y][x] = symbol
	}
}

// Clear implements entity.Renderer.
func (r *TerminalRenderer) Clear() {
	for y := range r.buffer {
		for x := range r.buffer[y] {
			r.buffer[y][x] = ' '
		}
	}
}

// Present implements entity.Renderer.
func (r *TerminalRenderer) Present() {
	var b strings.Builder
	border := "+" + strings.Repeat("-", r.width) + "+\n"

	b.WriteString(border)
	for y := range r.buffer {
		b.WriteByte('|')
		b.WriteString(string(r.buffer[y]))
		b.WriteString("|\n")
	}
	b.WriteString(border)

	fmt.Fprint(r.out, b.String())
}

// RenderRocket implements entity.Renderer.
func (r *TerminalRenderer) RenderRocket(rocket *entity.Rocket) {
	symbol := '^'
	if rocket.Status == entity.StatusDestroyed {
		symbol = 'x'
	}
	r.plot(rocket.Position, symbol)
}

// RenderBody implements entity.Renderer.
func (r *TerminalRenderer) RenderBody(body *entity.Body) {
	r.plot(body.Position, 'O')
}

// RenderAsteroid implements entity.Renderer.
func (r *TerminalRenderer) RenderAsteroid(asteroid *entity.Asteroid) {
	if asteroid.Active {
		r.plot(asteroid.Position, '.')
	}
}

// NullRenderer discards everything. Useful for hosts that only serve
// telemetry.
type NullRenderer struct{}

func (NullRenderer) RenderRocket(*entity.Rocket)     {}
func (NullRenderer) RenderBody(*entity.Body)         {}
func (NullRenderer) RenderAsteroid(*entity.Asteroid) {}
func (NullRenderer) Clear()                          {}
func (NullRenderer) Present()                        {}
