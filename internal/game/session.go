// Package game implements the session controller: it owns every entity,
// runs the per-tick update pipeline and drives the
// menu → playing ⇄ paused → game over state machine.
package game

import (
	"log/slog"
	"math/rand"
	"time"

	"github.com/tomz197/bugstroids/internal/draw"
	"github.com/tomz197/bugstroids/internal/input"
	"github.com/tomz197/bugstroids/internal/object"
)

// Phase is the current state of a session.
type Phase int

const (
	PhaseMenu     Phase = iota // Title screen, leaderboard
	PhasePlaying               // Simulation advancing
	PhasePaused                // Frozen, waiting for unpause
	PhaseGameOver              // Lives exhausted, waiting for name entry or restart
)

func (p Phase) String() string {
	switch p {
	case PhaseMenu:
		return "menu"
	case PhasePlaying:
		return "playing"
	case PhasePaused:
		return "paused"
	case PhaseGameOver:
		return "gameOver"
	default:
		return "unknown"
	}
}

// Default session settings.
const (
	DefaultWidth        = 800
	DefaultHeight       = 600
	DefaultInitialLives = 1
)

// Options configures a Session. Zero values select defaults.
type Options struct {
	Bounds       object.Bounds
	InitialLives int
	// FrameDeltaInput makes thrust and rotation scale with the real frame
	// delta. When false they use the fixed object.InputStep every tick, so
	// turning and acceleration feel depends on the frame rate.
	FrameDeltaInput bool
	Assets          object.Assets
	Rand            *rand.Rand
	Clock           func() time.Time
	Logger          *slog.Logger
}

// Session is one game: the ship, every asteroid, bullet and particle, plus
// score, lives, level and phase. It is not safe for concurrent use; a single
// driver calls it once per frame.
type Session struct {
	Ship      *object.Ship
	Asteroids []*object.Asteroid
	Bullets   []*object.Bullet
	Particles []*object.Particle

	Score int
	Lives int
	Level int

	phase     Phase
	thrusting bool
	events    []Event

	bounds          object.Bounds
	initialLives    int
	frameDeltaInput bool
	assets          object.Assets
	rng             *rand.Rand
	now             func() time.Time
	logger          *slog.Logger
}

// NewSession creates a session on the menu screen with a fresh playfield.
func NewSession(opts Options) *Session {
	if opts.Bounds.Width <= 0 || opts.Bounds.Height <= 0 {
		opts.Bounds = object.Bounds{Width: DefaultWidth, Height: DefaultHeight}
	}
	if opts.InitialLives <= 0 {
		opts.InitialLives = DefaultInitialLives
	}
	if opts.Assets == nil {
		opts.Assets = object.NoAssets{}
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	s := &Session{
		phase:           PhaseMenu,
		bounds:          opts.Bounds,
		initialLives:    opts.InitialLives,
		frameDeltaInput: opts.FrameDeltaInput,
		assets:          opts.Assets,
		rng:             opts.Rand,
		now:             opts.Clock,
		logger:          opts.Logger.With("component", "session"),
	}
	s.reset()
	return s
}

// Phase returns the current phase.
func (s *Session) Phase() Phase {
	return s.phase
}

// Bounds returns the playfield size.
func (s *Session) Bounds() object.Bounds {
	return s.bounds
}

// reset clears every collection and restores the starting score, lives and level.
func (s *Session) reset() {
	for _, p := range s.Particles {
		p.Release()
	}
	s.Score = 0
	s.Lives = s.initialLives
	s.Level = 1
	s.Asteroids = nil
	s.Bullets = nil
	s.Particles = nil
	s.thrusting = false

	cx, cy := s.bounds.Center()
	s.Ship = object.NewShip(cx, cy)
	s.spawnAsteroids(asteroidsForLevel(s.Level))
}

// Start performs a full reset and begins playing. It serves both the first
// start from the menu and a restart from the game-over screen.
func (s *Session) Start() {
	s.reset()
	s.setPhase(PhasePlaying)
}

// TogglePause switches between playing and paused. It is a no-op in other phases.
func (s *Session) TogglePause() {
	switch s.phase {
	case PhasePlaying:
		s.setPhase(PhasePaused)
	case PhasePaused:
		s.setPhase(PhasePlaying)
	}
}

// BackToMenu returns to the menu screen.
func (s *Session) BackToMenu() {
	s.setPhase(PhaseMenu)
}

// KeyDown handles edge-triggered keys. P toggles pause while playing or paused.
func (s *Session) KeyDown(key input.Key) {
	if key == input.KeyP {
		s.TogglePause()
	}
}

func (s *Session) setPhase(p Phase) {
	if s.phase == p {
		return
	}
	s.logger.Debug("Phase changed", "from", s.phase, "to", p)
	s.phase = p
	s.emit(Event{Type: EventPhaseChanged, Phase: p})
}

// Tick advances the simulation by dt seconds with the given held keys.
// Only the playing phase advances; every other phase ignores ticks.
func (s *Session) Tick(dt float64, held input.Keys) {
	if s.phase != PhasePlaying {
		return
	}

	s.handleInput(dt, held)

	s.Ship.Update(dt, s.bounds)

	bullets := s.Bullets[:0]
	for _, b := range s.Bullets {
		b.Update(dt, s.bounds)
		if b.Active {
			bullets = append(bullets, b)
		}
	}
	clear(s.Bullets[len(bullets):])
	s.Bullets = bullets

	for _, a := range s.Asteroids {
		a.Update(dt, s.bounds)
	}

	particles := s.Particles[:0]
	for _, p := range s.Particles {
		p.Update(dt)
		if p.Active {
			particles = append(particles, p)
		} else {
			p.Release()
		}
	}
	clear(s.Particles[len(particles):])
	s.Particles = particles

	s.checkCollisions()

	if len(s.Asteroids) == 0 {
		s.levelUp()
	}
}

// handleInput applies held movement keys and fires when Space is held.
func (s *Session) handleInput(dt float64, held input.Keys) {
	step := object.InputStep
	if s.frameDeltaInput {
		step = dt
	}

	s.thrusting = held.Any(input.KeyArrowUp, input.KeyW)
	if s.thrusting {
		s.Ship.Thrust(step)
	}
	if held.Any(input.KeyArrowLeft, input.KeyA) {
		s.Ship.Rotate(-1, step)
	}
	if held.Any(input.KeyArrowRight, input.KeyD) {
		s.Ship.Rotate(1, step)
	}
	if held[input.KeySpace] {
		if b := s.Ship.Shoot(s.now()); b != nil {
			s.Bullets = append(s.Bullets, b)
		}
	}
}

// Render draws one frame: backdrop, ship, bullets, asteroids, then particles.
func (s *Session) Render(surf draw.Surface) {
	surf.Clear(object.ColorBackground)
	object.DrawStars(surf, s.bounds)

	s.Ship.Draw(surf, s.thrusting)
	for _, b := range s.Bullets {
		b.Draw(surf)
	}
	for _, a := range s.Asteroids {
		a.Draw(surf, s.assets)
	}
	for _, p := range s.Particles {
		p.Draw(surf)
	}
}
