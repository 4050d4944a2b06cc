package game

import (
	"io"
	"log/slog"
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/tomz197/bugstroids/internal/draw"
	"github.com/tomz197/bugstroids/internal/input"
	"github.com/tomz197/bugstroids/internal/object"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestSession(t *testing.T, opts Options) (*Session, *fakeClock) {
	t.Helper()
	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(42))
	}
	opts.Clock = clock.Now
	opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewSession(opts), clock
}

// still returns an asteroid that does not move or spin.
func still(s *Session, x, y float64, size object.AsteroidSize) *object.Asteroid {
	a := object.NewAsteroid(x, y, size, s.Level, s.rng)
	a.VX, a.VY, a.RotationSpeed = 0, 0, 0
	return a
}

// parked returns a bullet that stays where it is placed.
func parked(x, y float64) *object.Bullet {
	b := object.NewBullet(x, y, 0)
	b.VX, b.VY = 0, 0
	return b
}

func TestNewSessionStartsOnMenu(t *testing.T) {
	s, _ := newTestSession(t, Options{})

	if s.Phase() != PhaseMenu {
		t.Errorf("phase = %v, want menu", s.Phase())
	}
	if s.Score != 0 || s.Lives != DefaultInitialLives || s.Level != 1 {
		t.Errorf("score/lives/level = %d/%d/%d", s.Score, s.Lives, s.Level)
	}
	if len(s.Asteroids) != 5 {
		t.Fatalf("got %d asteroids, want 5", len(s.Asteroids))
	}
	for _, a := range s.Asteroids {
		if a.Size != object.AsteroidLarge {
			t.Errorf("initial asteroid size = %v", a.Size)
		}
		if math.Abs(a.X-s.Ship.X) < safeZone || math.Abs(a.Y-s.Ship.Y) < safeZone {
			t.Errorf("asteroid at (%f, %f) inside the safe zone", a.X, a.Y)
		}
	}
	if s.Ship.X != 400 || s.Ship.Y != 300 {
		t.Errorf("ship at (%f, %f), want center", s.Ship.X, s.Ship.Y)
	}
}

func TestInitialLivesOption(t *testing.T) {
	s, _ := newTestSession(t, Options{InitialLives: 3})
	s.Start()
	if s.Lives != 3 {
		t.Errorf("Lives = %d, want 3", s.Lives)
	}
}

func TestPhaseTransitions(t *testing.T) {
	s, _ := newTestSession(t, Options{})

	s.KeyDown(input.KeyP)
	if s.Phase() != PhaseMenu {
		t.Fatal("pause must not apply on the menu")
	}

	s.Start()
	if s.Phase() != PhasePlaying {
		t.Fatalf("phase = %v after Start", s.Phase())
	}

	s.KeyDown(input.KeyP)
	if s.Phase() != PhasePaused {
		t.Fatalf("phase = %v after P", s.Phase())
	}
	s.KeyDown(input.KeySpace)
	if s.Phase() != PhasePaused {
		t.Fatal("only P toggles pause")
	}
	s.KeyDown(input.KeyP)
	if s.Phase() != PhasePlaying {
		t.Fatalf("phase = %v after second P", s.Phase())
	}

	s.BackToMenu()
	if s.Phase() != PhaseMenu {
		t.Fatalf("phase = %v after BackToMenu", s.Phase())
	}

	var phases []Phase
	for _, e := range s.DrainEvents() {
		if e.Type == EventPhaseChanged {
			phases = append(phases, e.Phase)
		}
	}
	want := []Phase{PhasePlaying, PhasePaused, PhasePlaying, PhaseMenu}
	if len(phases) != len(want) {
		t.Fatalf("phase events = %v", phases)
	}
	for i := range want {
		if phases[i] != want[i] {
			t.Errorf("phase event %d = %v, want %v", i, phases[i], want[i])
		}
	}
}

func TestOnlyPlayingAdvances(t *testing.T) {
	for _, phase := range []Phase{PhaseMenu, PhasePaused, PhaseGameOver} {
		t.Run(phase.String(), func(t *testing.T) {
			s, _ := newTestSession(t, Options{})
			s.Start()
			switch phase {
			case PhaseMenu:
				s.BackToMenu()
			case PhasePaused:
				s.TogglePause()
			case PhaseGameOver:
				s.setPhase(PhaseGameOver)
			}

			x, y := s.Asteroids[0].X, s.Asteroids[0].Y
			s.Tick(1, input.NewKeys(input.KeyArrowUp, input.KeySpace))
			if s.Asteroids[0].X != x || s.Asteroids[0].Y != y {
				t.Error("asteroid moved while not playing")
			}
			if len(s.Bullets) != 0 || s.Ship.VX != 0 {
				t.Error("input applied while not playing")
			}
		})
	}
}

func TestBulletSplitsAsteroid(t *testing.T) {
	tests := []struct {
		size          object.AsteroidSize
		points        int
		particles     int
		fragmentSize  object.AsteroidSize
		fragmentCount int
	}{
		{object.AsteroidLarge, 20, 15, object.AsteroidMedium, 2},
		{object.AsteroidMedium, 50, 10, object.AsteroidSmall, 2},
		{object.AsteroidSmall, 100, 5, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.size.String(), func(t *testing.T) {
			s, _ := newTestSession(t, Options{})
			s.Start()
			keeper := still(s, 700, 550, object.AsteroidLarge)
			target := still(s, 100, 100, tt.size)
			s.Asteroids = []*object.Asteroid{keeper, target}
			s.Bullets = []*object.Bullet{parked(100, 100)}

			s.Tick(0, nil)

			if s.Score != tt.points {
				t.Errorf("Score = %d, want %d", s.Score, tt.points)
			}
			if len(s.Bullets) != 0 {
				t.Error("bullet should be consumed")
			}
			if len(s.Particles) != tt.particles {
				t.Errorf("particles = %d, want %d", len(s.Particles), tt.particles)
			}
			if len(s.Asteroids) != 1+tt.fragmentCount {
				t.Fatalf("asteroids = %d, want %d", len(s.Asteroids), 1+tt.fragmentCount)
			}
			if s.Asteroids[0] != keeper {
				t.Error("untouched asteroid was disturbed")
			}
			for _, f := range s.Asteroids[1:] {
				if f.Size != tt.fragmentSize || f.X != 100 || f.Y != 100 {
					t.Errorf("fragment = %v at (%f, %f)", f.Size, f.X, f.Y)
				}
			}
			if s.Level != 1 {
				t.Errorf("Level = %d, want 1", s.Level)
			}
		})
	}
}

func TestBulletHitsHighestIndexFirst(t *testing.T) {
	s, _ := newTestSession(t, Options{})
	s.Start()
	low := still(s, 100, 100, object.AsteroidLarge)
	high := still(s, 110, 100, object.AsteroidSmall)
	s.Asteroids = []*object.Asteroid{low, high}
	s.Bullets = []*object.Bullet{parked(105, 100)}

	s.Tick(0, nil)

	if s.Score != 100 {
		t.Errorf("Score = %d, want 100 for the small asteroid", s.Score)
	}
	if len(s.Asteroids) != 1 || s.Asteroids[0] != low {
		t.Error("only the highest-index asteroid should be destroyed")
	}
}

func TestSecondBulletHitsFragment(t *testing.T) {
	s, _ := newTestSession(t, Options{})
	s.Start()
	s.Asteroids = []*object.Asteroid{still(s, 100, 100, object.AsteroidLarge)}
	s.Bullets = []*object.Bullet{parked(100, 100), parked(101, 100)}

	s.Tick(0, nil)

	if s.Score != 20+50 {
		t.Errorf("Score = %d, want 70", s.Score)
	}
	if len(s.Bullets) != 0 {
		t.Errorf("bullets left = %d", len(s.Bullets))
	}
	var medium, small int
	for _, a := range s.Asteroids {
		switch a.Size {
		case object.AsteroidMedium:
			medium++
		case object.AsteroidSmall:
			small++
		}
	}
	if medium != 1 || small != 2 {
		t.Errorf("medium/small = %d/%d, want 1/2", medium, small)
	}
}

func TestShipCollisionEndsGameWithLastLife(t *testing.T) {
	s, _ := newTestSession(t, Options{})
	s.Start()
	s.Score = 120
	s.Ship.X, s.Ship.Y = 200, 200
	s.Ship.VX, s.Ship.Angle = 0, 1
	hit := still(s, 200, 200, object.AsteroidMedium)
	s.Asteroids = []*object.Asteroid{hit}
	s.DrainEvents()

	s.Tick(0, nil)

	if s.Phase() != PhaseGameOver {
		t.Fatalf("phase = %v, want gameOver", s.Phase())
	}
	if s.Score != 120 {
		t.Errorf("Score = %d, collision must not change it", s.Score)
	}
	if s.Lives != 0 {
		t.Errorf("Lives = %d", s.Lives)
	}
	if s.Ship.X != 400 || s.Ship.Y != 300 || s.Ship.Angle != 0 {
		t.Errorf("ship not reset: %+v", s.Ship)
	}
	if len(s.Particles) != 15 {
		t.Errorf("particles = %d, want 15", len(s.Particles))
	}
	if len(s.Asteroids) != 1 || s.Asteroids[0] != hit {
		t.Error("the asteroid survives a ship collision")
	}

	var gameOver bool
	for _, e := range s.DrainEvents() {
		if e.Type == EventGameOver {
			gameOver = true
			if e.Score != 120 {
				t.Errorf("game over event score = %d", e.Score)
			}
		}
	}
	if !gameOver {
		t.Error("missing game over event")
	}
}

func TestShipCollisionWithSpareLives(t *testing.T) {
	s, _ := newTestSession(t, Options{InitialLives: 3})
	s.Start()
	s.Ship.X, s.Ship.Y = 200, 200
	s.Ship.VX, s.Ship.VY = 50, 50
	s.Asteroids = []*object.Asteroid{
		still(s, 200, 200, object.AsteroidLarge),
		still(s, 205, 200, object.AsteroidLarge),
	}

	s.Tick(0, nil)

	if s.Lives != 2 {
		t.Errorf("Lives = %d, want 2 (one life per tick)", s.Lives)
	}
	if s.Phase() != PhasePlaying {
		t.Errorf("phase = %v", s.Phase())
	}
	if s.Ship.X != 400 || s.Ship.Y != 300 || s.Ship.VX != 0 || s.Ship.VY != 0 {
		t.Errorf("ship not reset: %+v", s.Ship)
	}
}

func TestLevelUpWhenFieldCleared(t *testing.T) {
	s, _ := newTestSession(t, Options{})
	s.Start()
	s.Asteroids = []*object.Asteroid{still(s, 100, 100, object.AsteroidSmall)}
	s.Bullets = []*object.Bullet{parked(100, 100)}

	s.Tick(0, nil)

	if s.Level != 2 {
		t.Fatalf("Level = %d, want 2", s.Level)
	}
	if len(s.Asteroids) != 6 {
		t.Fatalf("asteroids = %d, want 4+2", len(s.Asteroids))
	}
	for _, a := range s.Asteroids {
		if a.Size != object.AsteroidLarge || a.Level != 2 {
			t.Errorf("wave asteroid = %v level %d", a.Size, a.Level)
		}
		speed := math.Hypot(a.VX, a.VY)
		if speed < 65-1e-9 || speed > 195+1e-9 {
			t.Errorf("speed %f outside level 2 range", speed)
		}
	}
	if s.Score != 100 {
		t.Errorf("Score = %d", s.Score)
	}
}

func TestLevelUpOnlyOncePerTick(t *testing.T) {
	s, _ := newTestSession(t, Options{})
	s.Start()
	s.Asteroids = nil
	s.Tick(0.016, nil)
	if s.Level != 2 || len(s.Asteroids) != 6 {
		t.Errorf("level/asteroids = %d/%d", s.Level, len(s.Asteroids))
	}
}

func TestThrustInputStep(t *testing.T) {
	tests := []struct {
		name  string
		delta bool
		want  float64
	}{
		{"fixed step", false, 200 * object.InputStep * object.ShipFriction},
		{"frame delta", true, 200 * 0.1 * object.ShipFriction},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newTestSession(t, Options{FrameDeltaInput: tt.delta})
			s.Start()
			s.Asteroids = []*object.Asteroid{still(s, 50, 50, object.AsteroidSmall)}

			s.Tick(0.1, input.NewKeys(input.KeyW))

			if math.Abs(s.Ship.VX-tt.want) > 1e-9 {
				t.Errorf("VX = %f, want %f", s.Ship.VX, tt.want)
			}
		})
	}
}

func TestRotateInputStep(t *testing.T) {
	fixed, _ := newTestSession(t, Options{})
	fixed.Start()
	fixed.Tick(0.05, input.NewKeys(input.KeyArrowLeft))
	if want := -object.ShipRotationSpeed * object.InputStep; math.Abs(fixed.Ship.Angle-want) > 1e-9 {
		t.Errorf("fixed Angle = %f, want %f", fixed.Ship.Angle, want)
	}

	delta, _ := newTestSession(t, Options{FrameDeltaInput: true})
	delta.Start()
	delta.Tick(0.05, input.NewKeys(input.KeyD))
	if want := object.ShipRotationSpeed * 0.05; math.Abs(delta.Ship.Angle-want) > 1e-9 {
		t.Errorf("delta Angle = %f, want %f", delta.Ship.Angle, want)
	}
}

func TestShootingRespectsCooldown(t *testing.T) {
	s, clock := newTestSession(t, Options{})
	s.Start()
	s.Asteroids = []*object.Asteroid{still(s, 50, 550, object.AsteroidSmall)}
	fire := input.NewKeys(input.KeySpace)

	s.Tick(0.001, fire)
	if len(s.Bullets) != 1 {
		t.Fatalf("bullets = %d after first shot", len(s.Bullets))
	}

	clock.Advance(100 * time.Millisecond)
	s.Tick(0.001, fire)
	if len(s.Bullets) != 1 {
		t.Fatalf("bullets = %d inside cooldown", len(s.Bullets))
	}

	clock.Advance(150 * time.Millisecond)
	s.Tick(0.001, fire)
	if len(s.Bullets) != 2 {
		t.Fatalf("bullets = %d after cooldown", len(s.Bullets))
	}
}

func TestScoreMonotonicAcrossPlay(t *testing.T) {
	s, clock := newTestSession(t, Options{InitialLives: 1000, Rand: rand.New(rand.NewSource(9))})
	s.Start()
	keys := input.NewKeys(input.KeySpace, input.KeyArrowRight, input.KeyArrowUp)

	sum := 0
	last := 0
	for i := 0; i < 3000; i++ {
		clock.Advance(16 * time.Millisecond)
		s.Tick(0.016, keys)
		if s.Score < last {
			t.Fatalf("score dropped from %d to %d", last, s.Score)
		}
		last = s.Score
		for _, e := range s.DrainEvents() {
			if e.Type != EventScore {
				continue
			}
			if e.Points != e.Size.Points() {
				t.Fatalf("event awarded %d for %v", e.Points, e.Size)
			}
			sum += e.Points
		}
	}
	if sum != s.Score {
		t.Errorf("sum of awards %d != score %d", sum, s.Score)
	}
	if s.Score == 0 {
		t.Error("expected some hits over 3000 ticks")
	}
}

func TestRenderPass(t *testing.T) {
	s, _ := newTestSession(t, Options{})
	s.Start()
	s.Bullets = []*object.Bullet{parked(10, 10)}
	s.Particles = object.SpawnExplosion(20, 20, 5, s.rng)

	rec := draw.NewRecorder()
	s.Render(rec)

	if rec.Ops[0].Kind != draw.OpClear {
		t.Error("render should start with a clear")
	}
	if rec.Count(draw.OpFillRect) != 100 {
		t.Errorf("stars = %d", rec.Count(draw.OpFillRect))
	}
	// Ship stroke plus one outline per asteroid, all procedural without a sprite.
	if got := rec.Count(draw.OpStrokePolygon); got != 1+len(s.Asteroids) {
		t.Errorf("stroked polygons = %d", got)
	}
	// Two circles per bullet, one per particle.
	if got := rec.Count(draw.OpFillCircle); got != 2+5 {
		t.Errorf("circles = %d", got)
	}
	if rec.Depth() != 0 {
		t.Error("unbalanced Push/Pop")
	}
}

func TestRenderShowsEngineWhileThrusting(t *testing.T) {
	s, _ := newTestSession(t, Options{})
	s.Start()
	s.Asteroids = []*object.Asteroid{still(s, 50, 50, object.AsteroidSmall)}

	idle := draw.NewRecorder()
	s.Render(idle)

	s.Tick(0.001, input.NewKeys(input.KeyArrowUp))
	thrust := draw.NewRecorder()
	s.Render(thrust)

	if thrust.Count(draw.OpFillPolygon) != idle.Count(draw.OpFillPolygon)+1 {
		t.Error("engine flame should add one filled polygon")
	}
}
