package loop

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/tomz197/bugstroids/internal/game"
	"github.com/tomz197/bugstroids/internal/input"
	"github.com/tomz197/bugstroids/internal/object"
	"github.com/tomz197/bugstroids/internal/scores"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

type harness struct {
	t      *testing.T
	d      *Driver
	stream *input.Stream
	out    *bytes.Buffer
	now    time.Time
}

func newHarness(t *testing.T, opts Options) *harness {
	t.Helper()
	stream := input.NewStream()
	out := &bytes.Buffer{}
	opts.TermSizeFunc = func() (int, int, error) { return 80, 24, nil }
	opts.Session.Rand = rand.New(rand.NewSource(1))
	opts.Logger = quiet
	return &harness{
		t:      t,
		d:      newDriver(stream, out, opts),
		stream: stream,
		out:    out,
		now:    time.Unix(1_700_000_000, 0),
	}
}

// step feeds keys and runs one frame.
func (h *harness) step(keys string) {
	h.t.Helper()
	if keys != "" {
		h.stream.Feed([]byte(keys))
	}
	h.now = h.now.Add(16 * time.Millisecond)
	h.out.Reset()
	if err := h.d.Step(context.Background(), h.now, 0.016); err != nil {
		h.t.Fatalf("Step: %v", err)
	}
}

// stepUntil runs frames until cond holds, giving background board calls time to finish.
func (h *harness) stepUntil(cond func() bool) {
	h.t.Helper()
	for i := 0; i < 400; i++ {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
		h.step("")
	}
	h.t.Fatal("condition not reached")
}

// crash starts a game and drops an asteroid on the ship's last life while
// keys are held.
func (h *harness) crash(score int, keys string) {
	h.t.Helper()
	h.step(" ")
	s := h.d.Session()
	s.Score = score
	hit := object.NewAsteroid(s.Ship.X, s.Ship.Y, object.AsteroidLarge, 1, rand.New(rand.NewSource(2)))
	s.Asteroids = []*object.Asteroid{hit}
	h.step(keys)
	if s.Phase() != game.PhaseGameOver {
		h.t.Fatalf("phase = %v, want gameOver", s.Phase())
	}
}

// forceGameOver ends a game with score and releases every key.
func (h *harness) forceGameOver(score int) {
	h.t.Helper()
	h.crash(score, "")
	h.step("")
}

type failingBoard struct{}

func (failingBoard) TopScores(context.Context) ([]scores.Entry, error) {
	return nil, errors.New("connection refused")
}

func (failingBoard) Submit(context.Context, string, float64) (scores.Entry, error) {
	return scores.Entry{}, errors.New("connection refused")
}

func TestMenuStartsGame(t *testing.T) {
	h := newHarness(t, Options{})

	h.step("")
	if !strings.Contains(h.out.String(), "B U G S T R O I D S") {
		t.Error("menu title not drawn")
	}

	h.step(" ")
	if h.d.Session().Phase() != game.PhasePlaying {
		t.Fatalf("phase = %v", h.d.Session().Phase())
	}
	if !strings.Contains(h.out.String(), "Score: 0") || !strings.Contains(h.out.String(), "Lives: 1") {
		t.Error("HUD not drawn")
	}
}

func TestQuit(t *testing.T) {
	h := newHarness(t, Options{})
	h.step("q")
	if h.d.Running() {
		t.Error("Q on the menu should quit")
	}
}

func TestPauseAndLeave(t *testing.T) {
	h := newHarness(t, Options{})
	h.step(" ")

	h.step("p")
	if h.d.Session().Phase() != game.PhasePaused {
		t.Fatalf("phase = %v after P", h.d.Session().Phase())
	}
	if !strings.Contains(h.out.String(), "P A U S E D") {
		t.Error("pause overlay not drawn")
	}

	x := h.d.Session().Asteroids[0].X
	h.step("")
	if h.d.Session().Asteroids[0].X != x {
		t.Error("asteroids moved while paused")
	}

	h.step("\x1b")
	if h.d.Session().Phase() != game.PhasePaused {
		t.Fatalf("phase = %v, lone ESC decoded before its delay", h.d.Session().Phase())
	}
	h.now = h.now.Add(input.EscapeDelay)
	h.step("")
	if h.d.Session().Phase() != game.PhaseMenu {
		t.Fatalf("phase = %v after ESC", h.d.Session().Phase())
	}
}

func TestGameOverSubmitsScore(t *testing.T) {
	board := scores.NewService(scores.NewMemoryStore(), quiet)
	h := newHarness(t, Options{Board: board})
	h.forceGameOver(150)

	h.step("Ann\r")
	h.stepUntil(func() bool { return h.d.Session().Phase() == game.PhaseMenu })

	if h.d.status != "Saved Ann: 150" {
		t.Errorf("status = %q", h.d.status)
	}
	h.stepUntil(func() bool { return len(h.d.board.entries) == 1 })
	if !strings.Contains(h.out.String(), "Ann") {
		t.Error("leaderboard not drawn on the menu")
	}

	top, err := board.TopScores(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(top) != 1 || top[0].PlayerName != "Ann" || top[0].Score != 150 {
		t.Errorf("stored %+v", top)
	}
}

func TestEachGameStartsWithEmptyName(t *testing.T) {
	board := scores.NewService(scores.NewMemoryStore(), quiet)
	h := newHarness(t, Options{Board: board})

	h.forceGameOver(150)
	h.step("Ann\r")
	h.stepUntil(func() bool { return h.d.Session().Phase() == game.PhaseMenu })
	if len(h.d.name) != 0 {
		t.Errorf("name after return to menu = %q, want empty", h.d.name)
	}

	h.forceGameOver(20)
	if len(h.d.name) != 0 {
		t.Errorf("name on second game over = %q, want empty", h.d.name)
	}
	h.step("Bob\r")
	h.stepUntil(func() bool { return h.d.Session().Phase() == game.PhaseMenu })

	top, err := board.TopScores(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(top) != 2 || top[0].PlayerName != "Ann" || top[1].PlayerName != "Bob" || top[1].Score != 20 {
		t.Errorf("stored %+v", top)
	}
}

func TestHeldKeysDoNotTypeIntoName(t *testing.T) {
	h := newHarness(t, Options{Board: scores.NewService(scores.NewMemoryStore(), quiet)})
	h.crash(10, "w")

	// Key repeats from the thrust key still held after death.
	h.step("ww")
	h.step("w")
	if len(h.d.name) != 0 {
		t.Fatalf("name = %q, held key repeats were typed", h.d.name)
	}

	h.now = h.now.Add(200 * time.Millisecond)
	h.step("")
	h.step("Zed")
	if string(h.d.name) != "Zed" {
		t.Errorf("name = %q, want Zed once keys are released", h.d.name)
	}
}

func TestNameEditing(t *testing.T) {
	h := newHarness(t, Options{Board: scores.NewService(scores.NewMemoryStore(), quiet)})
	h.forceGameOver(10)

	h.step("Abc")
	h.step("\x7f")
	if string(h.d.name) != "Ab" {
		t.Errorf("name = %q, want Ab", h.d.name)
	}

	h.step(strings.Repeat("z", 40))
	if len(h.d.name) != scores.MaxNameLength {
		t.Errorf("name length = %d", len(h.d.name))
	}
}

func TestBlankNameNotSubmitted(t *testing.T) {
	board := scores.NewService(scores.NewMemoryStore(), quiet)
	h := newHarness(t, Options{Board: board})
	h.forceGameOver(10)

	h.step("   \r")

	if h.d.status != "Enter a name first" {
		t.Errorf("status = %q", h.d.status)
	}
	if h.d.board.submitting {
		t.Error("blank name started a submission")
	}
	if h.d.Session().Phase() != game.PhaseGameOver {
		t.Errorf("phase = %v", h.d.Session().Phase())
	}
}

func TestFailedSubmitStaysOnGameOver(t *testing.T) {
	h := newHarness(t, Options{Board: failingBoard{}})
	h.forceGameOver(90)

	h.step("Bob\r")
	if !h.d.board.submitting {
		t.Fatal("submission not started")
	}
	h.stepUntil(func() bool { return !h.d.board.submitting })

	if !strings.HasPrefix(h.d.status, "Could not save score") {
		t.Errorf("status = %q", h.d.status)
	}
	s := h.d.Session()
	if s.Phase() != game.PhaseGameOver || s.Score != 90 {
		t.Errorf("phase/score = %v/%d", s.Phase(), s.Score)
	}
	if !strings.Contains(h.out.String(), "Could not save score") {
		t.Error("failure not shown")
	}
}

func TestRestartWithoutBoard(t *testing.T) {
	h := newHarness(t, Options{})
	h.forceGameOver(40)

	h.step("\r")

	s := h.d.Session()
	if s.Phase() != game.PhasePlaying || s.Score != 0 || s.Lives != 1 {
		t.Errorf("phase/score/lives = %v/%d/%d", s.Phase(), s.Score, s.Lives)
	}
}

func TestIdleDisconnect(t *testing.T) {
	h := newHarness(t, Options{IdleTimeout: time.Second})
	h.d.lastInput = h.now

	h.now = h.now.Add(800 * time.Millisecond)
	h.step("")
	if !h.d.idle || !strings.Contains(h.out.String(), "INACTIVITY WARNING") {
		t.Error("idle warning not shown")
	}

	h.now = h.now.Add(time.Second)
	h.step("")
	if h.d.Running() {
		t.Error("idle player not disconnected")
	}
}

func TestClampTermSize(t *testing.T) {
	tests := []struct {
		w, h                   int
		rw, rh, offCol, offRow int
	}{
		{80, 24, 80, 24, 0, 0},
		{300, 24, maxTermWidth, 24, 50, 0},
		{80, 100, 80, maxTermHeight, 0, 20},
	}
	for _, tt := range tests {
		rw, rh, oc, or := clampTermSize(tt.w, tt.h)
		if rw != tt.rw || rh != tt.rh || oc != tt.offCol || or != tt.offRow {
			t.Errorf("clampTermSize(%d, %d) = %d %d %d %d", tt.w, tt.h, rw, rh, oc, or)
		}
	}
}
