package object

import (
	"math/rand"
	"sync"

	"github.com/tomz197/bugstroids/internal/draw"
)

// Particle tuning.
const (
	particleMaxSpeed = 200.0 // Each velocity axis is uniform in ±particleMaxSpeed/2
	particleDamping  = 0.98  // Velocity factor applied every tick
	particleMinLife  = 0.5
	particleLifeSpan = 0.5
	particleRadius   = 2.0
)

// particlePool is a sync.Pool for reusing Particle objects to reduce allocations.
var particlePool = sync.Pool{
	New: func() any {
		return &Particle{}
	},
}

// Particle is a short-lived cosmetic explosion fragment.
type Particle struct {
	X, Y        float64
	VX, VY      float64
	Lifetime    float64 // Seconds remaining
	MaxLifetime float64 // Initial lifetime (for fade calculation)
	Active      bool
}

// NewParticle creates a particle at (x, y) with a random velocity and lifetime.
func NewParticle(x, y float64, rng *rand.Rand) *Particle {
	p := particlePool.Get().(*Particle)
	p.X = x
	p.Y = y
	p.VX = (rng.Float64() - 0.5) * particleMaxSpeed
	p.VY = (rng.Float64() - 0.5) * particleMaxSpeed
	p.Lifetime = particleMinLife + rng.Float64()*particleLifeSpan
	p.MaxLifetime = p.Lifetime
	p.Active = true
	return p
}

// Release returns the particle to the pool for reuse.
// Must only be called once the particle is no longer referenced.
func (p *Particle) Release() {
	particlePool.Put(p)
}

// SpawnExplosion creates a burst of count particles at (x, y).
func SpawnExplosion(x, y float64, count int, rng *rand.Rand) []*Particle {
	particles := make([]*Particle, 0, count)
	for i := 0; i < count; i++ {
		particles = append(particles, NewParticle(x, y, rng))
	}
	return particles
}

// Update moves the particle, damps its velocity and burns its lifetime.
func (p *Particle) Update(dt float64) {
	p.X += p.VX * dt
	p.Y += p.VY * dt
	p.Lifetime -= dt
	p.VX *= particleDamping
	p.VY *= particleDamping

	if p.Lifetime <= 0 {
		p.Active = false
	}
}

// Alpha returns the fade level, from 1 at spawn down to 0 at expiry.
func (p *Particle) Alpha() float64 {
	if p.MaxLifetime <= 0 || p.Lifetime <= 0 {
		return 0
	}
	return p.Lifetime / p.MaxLifetime
}

// Draw renders the particle faded by its remaining lifetime.
func (p *Particle) Draw(surf draw.Surface) {
	surf.FillCircle(p.X, p.Y, particleRadius, ColorParticle.WithAlpha(p.Alpha()))
}
