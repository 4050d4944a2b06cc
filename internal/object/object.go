// Package object defines the game entities: the ship, asteroids, bullets and
// explosion particles. Each entity owns its update and draw step.
package object

import (
	"image"

	"github.com/tomz197/bugstroids/internal/draw"
	"github.com/tomz197/bugstroids/internal/physics"
)

// Bounds is the size of the playfield in logical units.
type Bounds struct {
	Width  float64
	Height float64
}

// Center returns the middle of the playfield.
func (b Bounds) Center() (float64, float64) {
	return b.Width / 2, b.Height / 2
}

// Assets gives entities access to shared image resources at draw time.
// A nil sprite means the image is unavailable and a procedural shape is drawn.
type Assets interface {
	AsteroidSprite() image.Image
}

// NoAssets is an Assets with nothing loaded.
type NoAssets struct{}

// AsteroidSprite implements Assets.
func (NoAssets) AsteroidSprite() image.Image { return nil }

// Collider is a circle used for collision tests.
type Collider interface {
	Position() (x, y float64)
	CollisionRadius() float64
}

// Collides reports whether two colliders overlap.
func Collides(a, b Collider) bool {
	ax, ay := a.Position()
	bx, by := b.Position()
	return physics.CirclesOverlap(ax, ay, a.CollisionRadius(), bx, by, b.CollisionRadius())
}

// Palette
var (
	ColorBackground = draw.RGB(10, 10, 26).WithAlpha(0.1)
	ColorShip       = draw.RGB(78, 205, 196)
	ColorEngine     = draw.RGB(255, 107, 107)
	ColorBullet     = draw.RGB(255, 107, 107)
	ColorParticle   = draw.RGB(255, 107, 107)
	ColorAsteroid   = draw.RGB(142, 68, 173)
	ColorStar       = draw.RGB(255, 255, 255).WithAlpha(0.8)
)
