// pkg/entity/asteroid_test.go
package entity

import (
	"math/rand/v2"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/marvinvr/rockets/pkg/physics"
)

func TestAsteroid_Update(t *testing.T) {
	a := NewAsteroid(GenerateID(), mgl64.Vec3{0, 0, 0}, mgl64.Vec3{30, 0, 0}, 4)
	a.Spin = 2

	a.Update(0.5)
	if a.Position != (mgl64.Vec3{15, 0, 0}) {
		t.Errorf("position = %v, expected {15,0,0}", a.Position)
	}
	if a.Rotation != 1 {
		t.Errorf("rotation = %v, expected 1", a.Rotation)
	}

	a.Active = false
	a.Update(0.5)
	if a.Position != (mgl64.Vec3{15, 0, 0}) {
		t.Error("inactive asteroid moved")
	}
}

func TestHazardField_CheckCollision(t *testing.T) {
	field := NewHazardField()
	near := NewAsteroid(GenerateID(), mgl64.Vec3{10, 0, 0}, mgl64.Vec3{}, 4)
	far := NewAsteroid(GenerateID(), mgl64.Vec3{500, 0, 0}, mgl64.Vec3{}, 4)
	field.Add(far)
	field.Add(near)

	craft := physics.Sphere{Center: mgl64.Vec3{5, 0, 0}, Radius: 2}
	hit, ok := field.CheckCollision(craft)
	if !ok {
		t.Fatal("expected a collision")
	}
	if hit != near {
		t.Error("collision reported against the wrong asteroid")
	}

	// Inactive hazards are ignored.
	near.Active = false
	if _, ok := field.CheckCollision(craft); ok {
		t.Error("inactive asteroid still collides")
	}

	clear := physics.Sphere{Center: mgl64.Vec3{0, 1000, 0}, Radius: 2}
	near.Active = true
	if _, ok := field.CheckCollision(clear); ok {
		t.Error("collision reported with no asteroid in range")
	}
}

func TestNewBeltField_PlacesAsteroidsInRing(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 7))
	field := NewBeltField(rng, 40, 1000, 2000, 10, 5)

	if len(field.Asteroids) != 40 {
		t.Fatalf("asteroid count = %d, expected 40", len(field.Asteroids))
	}
	for i, a := range field.Asteroids {
		radial := mgl64.Vec3{a.Position.X(), 0, a.Position.Z()}.Len()
		if radial < 1000 || radial > 2000 {
			t.Errorf("asteroid %d at ring distance %v, outside [1000,2000]", i, radial)
		}
		if a.Velocity.Len() == 0 {
			t.Errorf("asteroid %d has no drift", i)
		}
	}
}

// The belt is a pure function of its random source.
func TestNewBeltField_Deterministic(t *testing.T) {
	a := NewBeltField(rand.New(rand.NewPCG(1, 2)), 10, 500, 900, 8, 3)
	b := NewBeltField(rand.New(rand.NewPCG(1, 2)), 10, 500, 900, 8, 3)
	for i := range a.Asteroids {
		if a.Asteroids[i].Position != b.Asteroids[i].Position {
			t.Fatalf("asteroid %d differs between identically seeded belts", i)
		}
	}
}
