// pkg/entity/renderer.go
package entity

// Renderer handles drawing simulated entities. The simulation core never
// draws pixels itself; hosts supply an implementation.
type Renderer interface {
	RenderRocket(rocket *Rocket)
	RenderBody(body *Body)
	RenderAsteroid(asteroid *Asteroid)
	Clear()
	Present()
}

func (r *Rocket) Render(renderer Renderer) {
	renderer.RenderRocket(r)
}

func (b *Body) Render(renderer Renderer) {
	renderer.RenderBody(b)
}

func (a *Asteroid) Render(renderer Renderer) {
	renderer.RenderAsteroid(a)
}
