package game

import (
	"slices"

	"github.com/tomz197/bugstroids/internal/object"
)

// checkCollisions resolves bullet hits first, then the ship. Both passes walk
// their slices from the back so removals never shift unvisited elements and
// ties resolve the same way every run.
func (s *Session) checkCollisions() {
	s.checkBulletAsteroidCollisions()
	s.checkShipAsteroidCollisions()
}

// checkBulletAsteroidCollisions lets each bullet destroy at most one asteroid.
// Fragments appended by a split can be hit by bullets visited later in the same pass.
func (s *Session) checkBulletAsteroidCollisions() {
	for i := len(s.Bullets) - 1; i >= 0; i-- {
		b := s.Bullets[i]
		for j := len(s.Asteroids) - 1; j >= 0; j-- {
			if !object.Collides(b, s.Asteroids[j]) {
				continue
			}
			s.destroyAsteroid(j)
			s.Bullets = slices.Delete(s.Bullets, i, i+1)
			break
		}
	}
}

// checkShipAsteroidCollisions costs a life on the first asteroid touching the ship.
// The asteroid survives; the ship respawns at the center.
func (s *Session) checkShipAsteroidCollisions() {
	for i := len(s.Asteroids) - 1; i >= 0; i-- {
		if !object.Collides(s.Ship, s.Asteroids[i]) {
			continue
		}
		s.loseLife()
		return
	}
}

// destroyAsteroid scores the asteroid at index j, bursts it into particles,
// appends its fragments and removes it.
func (s *Session) destroyAsteroid(j int) {
	a := s.Asteroids[j]

	points := a.Size.Points()
	s.Score += points

	s.explode(a.X, a.Y, a.Size)
	s.Asteroids = append(s.Asteroids, s.split(a)...)
	s.Asteroids = slices.Delete(s.Asteroids, j, j+1)

	s.emit(Event{Type: EventScore, Points: points, Size: a.Size})
}

func (s *Session) loseLife() {
	s.Lives--
	s.explode(s.Ship.X, s.Ship.Y, object.AsteroidLarge)

	cx, cy := s.bounds.Center()
	s.Ship.Reset(cx, cy)

	s.logger.Debug("Ship lost", "lives", s.Lives, "score", s.Score)
	s.emit(Event{Type: EventLifeLost})

	if s.Lives <= 0 {
		s.logger.Debug("Game over", "score", s.Score, "level", s.Level)
		s.emit(Event{Type: EventGameOver})
		s.setPhase(PhaseGameOver)
	}
}
