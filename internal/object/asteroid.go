package object

import (
	"math"
	"math/rand"

	"github.com/tomz197/bugstroids/internal/draw"
	"github.com/tomz197/bugstroids/internal/physics"
)

// AsteroidSize represents the size category of an asteroid.
type AsteroidSize int

const (
	AsteroidSmall  AsteroidSize = 1
	AsteroidMedium AsteroidSize = 2
	AsteroidLarge  AsteroidSize = 3
)

type sizeClass struct {
	name      string
	radius    float64
	scale     float64 // Sprite scale
	points    int     // Score for destroying it
	particles int     // Explosion burst size
}

var sizeClasses = map[AsteroidSize]sizeClass{
	AsteroidSmall:  {name: "small", radius: 15, scale: 0.4, points: 100, particles: 5},
	AsteroidMedium: {name: "medium", radius: 25, scale: 0.6, points: 50, particles: 10},
	AsteroidLarge:  {name: "large", radius: 40, scale: 1.0, points: 20, particles: 15},
}

func (s AsteroidSize) String() string {
	if c, ok := sizeClasses[s]; ok {
		return c.name
	}
	return "unknown"
}

// Radius returns the collision radius for the size class.
func (s AsteroidSize) Radius() float64 { return sizeClasses[s].radius }

// Scale returns the sprite scale for the size class.
func (s AsteroidSize) Scale() float64 { return sizeClasses[s].scale }

// Points returns the score awarded for destroying an asteroid of this size.
// Smaller targets are worth more.
func (s AsteroidSize) Points() int { return sizeClasses[s].points }

// ExplosionParticles returns how many particles a destroyed asteroid of this size bursts into.
func (s AsteroidSize) ExplosionParticles() int { return sizeClasses[s].particles }

// Smaller returns the size fragments split into, or false for the smallest size.
func (s AsteroidSize) Smaller() (AsteroidSize, bool) {
	if s <= AsteroidSmall {
		return 0, false
	}
	return s - 1, true
}

// Asteroid speed: a random base in [50, 150) scaled up 30% per level.
const (
	asteroidBaseSpeed   = 50.0
	asteroidSpeedRange  = 100.0
	asteroidLevelFactor = 0.3
	fallbackVertices    = 8
)

// AsteroidSpeed returns the speed for an asteroid spawned at level, given a
// uniform random sample r in [0, 1).
func AsteroidSpeed(level int, r float64) float64 {
	base := asteroidBaseSpeed + r*asteroidSpeedRange
	return base * (1 + float64(level-1)*asteroidLevelFactor)
}

// Asteroid is a destructible space rock.
type Asteroid struct {
	X, Y          float64 // Position (center)
	VX, VY        float64 // Velocity
	Angle         float64 // Current rotation angle, also the initial travel direction
	RotationSpeed float64 // Radians per second
	Size          AsteroidSize
	Radius        float64
	Scale         float64
	Level         int          // Level the asteroid was spawned at
	Outline       []draw.Point // Procedural shape used when no sprite is available
}

// NewAsteroid creates an asteroid at (x, y) moving in a random direction
// with the speed for the given level.
func NewAsteroid(x, y float64, size AsteroidSize, level int, rng *rand.Rand) *Asteroid {
	angle := rng.Float64() * 2 * math.Pi
	rotSpeed := (rng.Float64() - 0.5) * 2
	speed := AsteroidSpeed(level, rng.Float64())
	radius := size.Radius()

	outline := make([]draw.Point, fallbackVertices)
	for i := range outline {
		vertAngle := float64(i) / fallbackVertices * 2 * math.Pi
		variance := 0.3 + rng.Float64()*0.4
		outline[i] = draw.Point{
			X: math.Cos(vertAngle) * radius * variance,
			Y: math.Sin(vertAngle) * radius * variance,
		}
	}

	return &Asteroid{
		X:             x,
		Y:             y,
		VX:            math.Cos(angle) * speed,
		VY:            math.Sin(angle) * speed,
		Angle:         angle,
		RotationSpeed: rotSpeed,
		Size:          size,
		Radius:        radius,
		Scale:         size.Scale(),
		Level:         level,
		Outline:       outline,
	}
}

// Update moves and spins the asteroid. It wraps with its radius as margin so
// it fully leaves the screen before reappearing on the other side.
func (a *Asteroid) Update(dt float64, b Bounds) {
	a.X += a.VX * dt
	a.Y += a.VY * dt
	a.Angle += a.RotationSpeed * dt

	a.X = physics.WrapWithMargin(a.X, b.Width, a.Radius)
	a.Y = physics.WrapWithMargin(a.Y, b.Height, a.Radius)
}

// Position implements Collider.
func (a *Asteroid) Position() (float64, float64) {
	return a.X, a.Y
}

// CollisionRadius implements Collider.
func (a *Asteroid) CollisionRadius() float64 {
	return a.Radius
}

// Draw renders the sprite from assets, or the procedural outline when the sprite is unavailable.
func (a *Asteroid) Draw(surf draw.Surface, assets Assets) {
	surf.Push(a.X, a.Y, a.Angle)
	defer surf.Pop()

	if assets != nil {
		if img := assets.AsteroidSprite(); img != nil {
			bounds := img.Bounds()
			w := float64(bounds.Dx()) * a.Scale
			h := float64(bounds.Dy()) * a.Scale
			surf.DrawImage(img, -w/2, -h/2, w, h)
			return
		}
	}

	surf.StrokePolygon(a.Outline, ColorAsteroid)
	surf.FillPolygon(a.Outline, ColorAsteroid.WithAlpha(0.3))
}
