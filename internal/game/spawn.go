package game

import (
	"math"

	"github.com/tomz197/bugstroids/internal/object"
)

// baseAsteroidCount plus the level is the size of each wave.
const baseAsteroidCount = 4

// safeZone is the per-axis distance from the ship that spawns avoid.
const safeZone = 100.0

// maxSpawnAttempts bounds the position search on playfields too small
// to hold a spawn outside the safe zone.
const maxSpawnAttempts = 1000

const fragmentsPerSplit = 2

func asteroidsForLevel(level int) int {
	return baseAsteroidCount + level
}

// spawnAsteroids adds count large asteroids at random positions away from the ship.
func (s *Session) spawnAsteroids(count int) {
	for i := 0; i < count; i++ {
		x, y := s.spawnPosition()
		s.Asteroids = append(s.Asteroids, object.NewAsteroid(x, y, object.AsteroidLarge, s.Level, s.rng))
	}
}

// spawnPosition draws random positions until one is at least safeZone away
// from the ship on both axes.
func (s *Session) spawnPosition() (float64, float64) {
	var x, y float64
	for attempt := 0; attempt < maxSpawnAttempts; attempt++ {
		x = s.rng.Float64() * s.bounds.Width
		y = s.rng.Float64() * s.bounds.Height
		if math.Abs(x-s.Ship.X) >= safeZone && math.Abs(y-s.Ship.Y) >= safeZone {
			return x, y
		}
	}
	s.logger.Warn("No asteroid spawn position outside the safe zone",
		"width", s.bounds.Width,
		"height", s.bounds.Height,
		"attempts", maxSpawnAttempts,
	)
	return x, y
}

// split returns the fragments of a destroyed asteroid: two of the next
// smaller size at its position, or none for the smallest size.
func (s *Session) split(a *object.Asteroid) []*object.Asteroid {
	size, ok := a.Size.Smaller()
	if !ok {
		return nil
	}
	fragments := make([]*object.Asteroid, fragmentsPerSplit)
	for i := range fragments {
		fragments[i] = object.NewAsteroid(a.X, a.Y, size, s.Level, s.rng)
	}
	return fragments
}

// explode bursts particles sized for an asteroid class at (x, y).
func (s *Session) explode(x, y float64, size object.AsteroidSize) {
	s.Particles = append(s.Particles, object.SpawnExplosion(x, y, size.ExplosionParticles(), s.rng)...)
}

// levelUp advances the level and spawns the next wave.
func (s *Session) levelUp() {
	s.Level++
	s.spawnAsteroids(asteroidsForLevel(s.Level))
	s.logger.Debug("Level up", "level", s.Level, "asteroids", len(s.Asteroids))
	s.emit(Event{Type: EventLevelUp})
}
