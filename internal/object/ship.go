package object

import (
	"math"
	"time"

	"github.com/tomz197/bugstroids/internal/draw"
	"github.com/tomz197/bugstroids/internal/physics"
)

// Ship tuning.
const (
	ShipRadius        = 10.0
	ShipThrustPower   = 200.0 // Acceleration units per second²
	ShipRotationSpeed = 5.0   // Radians per second
	ShipFriction      = 0.99  // Velocity factor applied every tick
	ShipMaxSpeed      = 300.0
	ShotCooldown      = 200 * time.Millisecond

	// InputStep is the fixed pseudo-timestep thrust and rotation use when
	// the caller does not pass the real frame delta.
	InputStep = 0.016
)

// Ship is the player-controlled spaceship.
type Ship struct {
	X, Y   float64 // Position (center of ship)
	VX, VY float64 // Velocity
	Angle  float64 // Heading in radians (0 = pointing right, increases clockwise on screen)
	Radius float64

	ThrustPower   float64
	RotationSpeed float64
	Friction      float64
	MaxSpeed      float64

	ShotCooldown time.Duration
	lastShot     time.Time
}

// NewShip creates a ship at rest at the given position, pointing right.
func NewShip(x, y float64) *Ship {
	return &Ship{
		X:             x,
		Y:             y,
		Radius:        ShipRadius,
		ThrustPower:   ShipThrustPower,
		RotationSpeed: ShipRotationSpeed,
		Friction:      ShipFriction,
		MaxSpeed:      ShipMaxSpeed,
		ShotCooldown:  ShotCooldown,
	}
}

// Update applies friction, clamps speed, moves and wraps the ship.
func (s *Ship) Update(dt float64, b Bounds) {
	s.VX *= s.Friction
	s.VY *= s.Friction

	speed := math.Hypot(s.VX, s.VY)
	if speed > s.MaxSpeed {
		scale := s.MaxSpeed / speed
		s.VX *= scale
		s.VY *= scale
	}

	s.X += s.VX * dt
	s.Y += s.VY * dt

	s.X = physics.Wrap(s.X, b.Width)
	s.Y = physics.Wrap(s.Y, b.Height)
}

// Thrust accelerates along the current heading for step seconds.
func (s *Ship) Thrust(step float64) {
	s.VX += math.Cos(s.Angle) * s.ThrustPower * step
	s.VY += math.Sin(s.Angle) * s.ThrustPower * step
}

// Rotate turns the ship; direction is -1 for left and 1 for right.
func (s *Ship) Rotate(direction, step float64) {
	s.Angle += direction * s.RotationSpeed * step
}

// Shoot returns a bullet when more than the cooldown has elapsed since the
// last shot, and nil otherwise.
func (s *Ship) Shoot(now time.Time) *Bullet {
	if !s.lastShot.IsZero() && now.Sub(s.lastShot) <= s.ShotCooldown {
		return nil
	}
	s.lastShot = now
	return NewBullet(s.X, s.Y, s.Angle)
}

// Reset moves the ship to (x, y) at rest, pointing right.
func (s *Ship) Reset(x, y float64) {
	s.X = x
	s.Y = y
	s.VX = 0
	s.VY = 0
	s.Angle = 0
}

// Position implements Collider.
func (s *Ship) Position() (float64, float64) {
	return s.X, s.Y
}

// CollisionRadius implements Collider.
func (s *Ship) CollisionRadius() float64 {
	return s.Radius
}

var (
	shipHull  = []draw.Point{{X: 15, Y: 0}, {X: -10, Y: -8}, {X: -5, Y: 0}, {X: -10, Y: 8}}
	shipFlame = []draw.Point{{X: -10, Y: -3}, {X: -18, Y: 0}, {X: -10, Y: 3}}
)

// Draw renders the hull, plus the engine flame while thrusting.
func (s *Ship) Draw(surf draw.Surface, thrusting bool) {
	surf.Push(s.X, s.Y, s.Angle)
	defer surf.Pop()

	surf.StrokePolygon(shipHull, ColorShip)
	surf.FillPolygon(shipHull, ColorShip)

	if thrusting {
		surf.FillPolygon(shipFlame, ColorEngine)
	}
}
