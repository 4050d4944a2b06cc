package object

import (
	"math"

	"github.com/tomz197/bugstroids/internal/draw"
	"github.com/tomz197/bugstroids/internal/physics"
)

// Bullet tuning.
const (
	BulletSpeed    = 400.0
	BulletRadius   = 2.0
	BulletLifetime = 2.0 // Seconds
)

// Bullet is a shot fired by the ship. Bullets do not wrap.
type Bullet struct {
	X, Y     float64
	VX, VY   float64
	Radius   float64
	Lifetime float64 // Seconds remaining
	Active   bool
}

// NewBullet creates a bullet at (x, y) traveling along angle.
func NewBullet(x, y, angle float64) *Bullet {
	return &Bullet{
		X:        x,
		Y:        y,
		VX:       math.Cos(angle) * BulletSpeed,
		VY:       math.Sin(angle) * BulletSpeed,
		Radius:   BulletRadius,
		Lifetime: BulletLifetime,
		Active:   true,
	}
}

// Update moves the bullet and deactivates it once it expires or leaves the bounds.
func (bl *Bullet) Update(dt float64, b Bounds) {
	bl.X += bl.VX * dt
	bl.Y += bl.VY * dt
	bl.Lifetime -= dt

	if physics.OutOfBounds(bl.X, bl.Y, b.Width, b.Height) || bl.Lifetime <= 0 {
		bl.Active = false
	}
}

// Position implements Collider.
func (bl *Bullet) Position() (float64, float64) {
	return bl.X, bl.Y
}

// CollisionRadius implements Collider.
func (bl *Bullet) CollisionRadius() float64 {
	return bl.Radius
}

// Draw renders the bullet with a faint halo.
func (bl *Bullet) Draw(surf draw.Surface) {
	surf.FillCircle(bl.X, bl.Y, bl.Radius*2, ColorBullet.WithAlpha(0.2))
	surf.FillCircle(bl.X, bl.Y, bl.Radius, ColorBullet)
}
