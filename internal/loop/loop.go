// Package loop drives a game session on a terminal: frame pacing, keyboard
// input, the menu, pause and game-over screens, and leaderboard traffic.
package loop

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/tomz197/bugstroids/internal/config"
	"github.com/tomz197/bugstroids/internal/draw"
	"github.com/tomz197/bugstroids/internal/game"
	"github.com/tomz197/bugstroids/internal/input"
	"github.com/tomz197/bugstroids/internal/object"
	"github.com/tomz197/bugstroids/internal/scores"
)

const (
	targetFPS       = 60
	targetFrameTime = time.Second / targetFPS

	// maxFrameDelta caps the simulated time after a stall (a slow SSH link,
	// a suspended process) so entities do not jump across the field.
	maxFrameDelta = 0.25

	// Max render resolution; larger terminals get a centered, bordered area.
	maxTermWidth  = 200
	maxTermHeight = 60
)

// Options configures a Driver.
type Options struct {
	TermSizeFunc draw.TermSizeFunc
	// Board is the leaderboard. Nil hides the leaderboard and name entry.
	Board   scores.Board
	Session game.Options
	// IdleTimeout disconnects a player who pressed nothing for this long.
	// Zero disables it.
	IdleTimeout time.Duration
	Logger      *slog.Logger
}

// Driver runs one session against one terminal.
type Driver struct {
	session      *game.Session
	board        *leaderboard
	canvas       *draw.Canvas
	chunkWriter  *draw.ChunkWriter
	writer       io.Writer
	inputStream  *input.Stream
	termSizeFunc draw.TermSizeFunc
	idleTimeout  time.Duration
	logger       *slog.Logger

	running   bool
	lastInput time.Time
	idle      bool

	// Name entry on the game-over screen.
	name   []byte
	status string
	// muteText drops typed text until every key held at the moment of
	// death has been released, so key repeats never reach the name.
	muteText bool
}

// New creates a driver reading keys from r and drawing to w.
func New(r *bufio.Reader, w io.Writer, opts Options) *Driver {
	return newDriver(input.StartStream(r), w, opts)
}

func newDriver(stream *input.Stream, w io.Writer, opts Options) *Driver {
	termSizeFunc := opts.TermSizeFunc
	if termSizeFunc == nil {
		termSizeFunc = draw.DefaultTermSizeFunc
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	opts.Session.Logger = logger

	session := game.NewSession(opts.Session)
	bounds := session.Bounds()

	termWidth, termHeight, _ := termSizeFunc()
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)
	canvas := draw.NewScaledCanvas(renderWidth, renderHeight, bounds.Width, bounds.Height)
	canvas.SetOffset(offsetCol, offsetRow)

	return &Driver{
		session:      session,
		board:        newLeaderboard(opts.Board, logger),
		canvas:       canvas,
		chunkWriter:  draw.NewChunkWriter(w, offsetCol, offsetRow),
		writer:       w,
		inputStream:  stream,
		termSizeFunc: termSizeFunc,
		idleTimeout:  opts.IdleTimeout,
		logger:       logger.With("component", "driver"),
		running:      true,
		lastInput:    time.Now(),
	}
}

// Session returns the driven session.
func (d *Driver) Session() *game.Session {
	return d.session
}

// Run loops until the player quits, the input ends or ctx is cancelled.
func (d *Driver) Run(ctx context.Context) error {
	draw.HideCursor(d.writer)
	defer draw.ShowCursor(d.writer)
	draw.ClearScreen(d.writer)

	d.board.refresh(ctx)

	lastTime := time.Now()
	for d.running {
		if ctx.Err() != nil {
			break
		}

		frameStart := time.Now()
		dt := min(frameStart.Sub(lastTime).Seconds(), maxFrameDelta)
		lastTime = frameStart

		if err := d.Step(ctx, frameStart, dt); err != nil {
			return err
		}

		elapsed := time.Since(frameStart)
		if elapsed < targetFrameTime {
			time.Sleep(targetFrameTime - elapsed)
		}
	}

	draw.ClearScreen(d.writer)
	return nil
}

// Step runs one frame: input, simulation, leaderboard results, then drawing.
func (d *Driver) Step(ctx context.Context, now time.Time, dt float64) error {
	d.processInput(ctx, now, dt)
	d.processEvents()
	d.processBoardResults(ctx)
	d.updateScreen()
	return d.drawFrame(now)
}

// Running reports whether the driver still wants frames.
func (d *Driver) Running() bool {
	return d.running
}

func (d *Driver) processInput(ctx context.Context, now time.Time, dt float64) {
	in := input.ReadInput(d.inputStream, now)
	if d.inputStream.Closed() {
		d.running = false
		return
	}

	if len(in.Pressed) > 0 || len(in.Text) > 0 {
		d.lastInput = now
		d.idle = false
	} else if d.idleTimeout > 0 {
		switch since := now.Sub(d.lastInput); {
		case since > d.idleTimeout:
			d.logger.Info("Disconnecting idle player")
			d.running = false
			return
		case since > d.idleTimeout*3/4:
			d.idle = true
		}
	}

	switch d.session.Phase() {
	case game.PhaseMenu:
		d.updateMenu(in)
	case game.PhasePlaying, game.PhasePaused:
		d.updatePlaying(in, dt)
	case game.PhaseGameOver:
		d.updateGameOver(ctx, in)
	}
}

func (d *Driver) updateMenu(in input.Input) {
	for _, key := range in.Pressed {
		switch key {
		case input.KeyQ:
			d.running = false
			return
		case input.KeySpace, input.KeyEnter:
			d.startGame()
			return
		}
	}
}

func (d *Driver) updatePlaying(in input.Input, dt float64) {
	for _, key := range in.Pressed {
		switch key {
		case input.KeyQ:
			d.running = false
			return
		case input.KeyEscape:
			if d.session.Phase() == game.PhasePaused {
				d.session.BackToMenu()
				return
			}
		default:
			d.session.KeyDown(key)
		}
	}
	d.session.Tick(dt, in.Held)
}

func (d *Driver) updateGameOver(ctx context.Context, in input.Input) {
	if !d.board.enabled() {
		for _, key := range in.Pressed {
			switch key {
			case input.KeyEnter:
				d.startGame()
				return
			case input.KeyEscape:
				d.backToMenu(ctx)
				return
			case input.KeyQ:
				d.running = false
				return
			}
		}
		return
	}

	if d.muteText {
		if len(in.Held) > 0 {
			in.Text = nil
		} else {
			d.muteText = false
		}
	}
	for _, b := range in.Text {
		if len(d.name) < scores.MaxNameLength {
			d.name = append(d.name, b)
		}
	}

	for _, key := range in.Pressed {
		switch key {
		case input.KeyBackspace:
			if len(d.name) > 0 {
				d.name = d.name[:len(d.name)-1]
			}
		case input.KeyEscape:
			d.backToMenu(ctx)
			return
		case input.KeyEnter:
			d.submitScore(ctx)
		}
	}
}

func (d *Driver) submitScore(ctx context.Context) {
	if d.board.submitting {
		return
	}
	name, err := scores.NormalizeName(string(d.name))
	if err != nil {
		d.status = "Enter a name first"
		return
	}
	d.status = "Submitting..."
	d.board.submit(ctx, name, d.session.Score)
}

func (d *Driver) startGame() {
	input.ResetKeyInput(d.inputStream)
	d.status = ""
	d.session.Start()
}

func (d *Driver) backToMenu(ctx context.Context) {
	input.ResetKeyInput(d.inputStream)
	d.status = ""
	d.name = d.name[:0]
	d.session.BackToMenu()
	d.board.refresh(ctx)
}

// processEvents logs session events and prepares the game-over screen.
func (d *Driver) processEvents() {
	for _, e := range d.session.DrainEvents() {
		switch e.Type {
		case game.EventGameOver:
			input.ResetKeyInput(d.inputStream)
			d.status = ""
			d.name = d.name[:0]
			d.muteText = true
			d.logger.Info("Game over", "score", e.Score, "level", e.Level)
		case game.EventLevelUp:
			d.logger.Debug("Level up", "level", e.Level)
		}
	}
}

func (d *Driver) processBoardResults(ctx context.Context) {
	res, ok := d.board.poll()
	if !ok {
		return
	}
	if res.err != nil {
		d.status = submitErrorMessage(res.err)
		return
	}
	if d.session.Phase() == game.PhaseGameOver {
		d.backToMenu(ctx)
	}
	d.status = fmt.Sprintf("Saved %s: %d", res.entry.PlayerName, res.entry.Score)
}

// updateScreen handles terminal resize, clamping to max render resolution.
func (d *Driver) updateScreen() {
	termWidth, termHeight, err := d.termSizeFunc()
	if err != nil {
		return
	}
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)

	d.canvas.Resize(renderWidth, renderHeight)
	d.canvas.SetOffset(offsetCol, offsetRow)
	d.chunkWriter.SetOffset(offsetCol, offsetRow)
}

// clampTermSize clamps terminal dimensions to the max render resolution and computes
// the centering offset for the render area.
func clampTermSize(termWidth, termHeight int) (renderWidth, renderHeight, offsetCol, offsetRow int) {
	renderWidth = min(termWidth, maxTermWidth)
	renderHeight = min(termHeight, maxTermHeight)
	offsetCol = (termWidth - renderWidth) / 2
	offsetRow = (termHeight - renderHeight) / 2
	return
}

// SessionOptions maps game settings onto session options.
func SessionOptions(cfg config.GameConfig, assets object.Assets) game.Options {
	return game.Options{
		Bounds:          object.Bounds{Width: float64(cfg.Width), Height: float64(cfg.Height)},
		InitialLives:    cfg.InitialLives,
		FrameDeltaInput: cfg.FrameDeltaInput,
		Assets:          assets,
	}
}
