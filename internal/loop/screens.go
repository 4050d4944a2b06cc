package loop

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/tomz197/bugstroids/internal/game"
)

// drawFrame draws the playfield, then the overlay for the current phase.
// The canvas only paints lit cells, so every frame starts from a clear screen.
func (d *Driver) drawFrame(now time.Time) error {
	cw := d.chunkWriter
	cw.ClearScreen()

	d.session.Render(d.canvas)
	d.canvas.Render(cw)

	// Draw border when terminal exceeds max render resolution
	d.canvas.RenderBorder(cw)

	d.drawUI(now)

	return cw.Flush()
}

func (d *Driver) drawUI(now time.Time) {
	centerY := d.canvas.TerminalHeight() / 2

	if d.idle {
		d.drawInactivityScreen(now, centerY)
		return
	}

	switch d.session.Phase() {
	case game.PhaseMenu:
		d.drawMenu(now, centerY)
	case game.PhasePlaying:
		d.drawHUD()
	case game.PhasePaused:
		d.drawHUD()
		d.drawPaused(centerY)
	case game.PhaseGameOver:
		d.drawGameOver(now, centerY)
	}
}

// centered writes s horizontally centered on the given 1-based row.
func (d *Driver) centered(row int, s string) {
	if row < 1 || row > d.canvas.TerminalHeight() {
		return
	}
	col := (d.canvas.TerminalWidth()-utf8.RuneCountInString(s))/2 + 1
	d.chunkWriter.WriteAt(max(col, 1), row, s)
}

func blink(now time.Time) bool {
	return now.UnixMilli()/600%2 == 0
}

func (d *Driver) drawMenu(now time.Time, centerY int) {
	top := centerY - 9
	if d.board.enabled() {
		top = centerY - 13
	}

	d.centered(top, "B U G S T R O I D S")
	d.centered(top+1, "~ shoot the bugs before they get you ~")

	controls := []string{
		"W / Up  . . . . Thrust",
		"A D / < >  . .  Rotate",
		"SPACE  . . . . . Shoot",
		"P  . . . . . .  Pause",
		"Q  . . . . . . .  Quit",
	}
	row := top + 3
	for _, line := range controls {
		d.centered(row, line)
		row++
	}

	if d.board.enabled() {
		row++
		d.centered(row, "High Scores")
		row++
		for _, line := range d.leaderboardLines() {
			d.centered(row, line)
			row++
		}
	}

	row++
	if blink(now) {
		d.centered(row, ">>  Press SPACE to Start  <<")
	}
	if d.status != "" {
		d.centered(row+2, d.status)
	}
}

func (d *Driver) leaderboardLines() []string {
	switch {
	case d.board.loadErr != nil:
		return []string{"(leaderboard unavailable)"}
	case d.board.loading && d.board.entries == nil:
		return []string{"loading..."}
	case len(d.board.entries) == 0:
		return []string{"no scores yet"}
	}

	lines := make([]string, len(d.board.entries))
	for i, e := range d.board.entries {
		lines[i] = fmt.Sprintf("%2d. %-20s %8d", i+1, e.PlayerName, e.Score)
	}
	return lines
}

// drawHUD draws score, level and lives along the top row.
func (d *Driver) drawHUD() {
	cw := d.chunkWriter
	termWidth := d.canvas.TerminalWidth()

	cw.WriteAt(2, 1, fmt.Sprintf("Score: %d", d.session.Score))
	d.centered(1, fmt.Sprintf("Level: %d", d.session.Level))

	livesText := fmt.Sprintf("Lives: %d", d.session.Lives)
	cw.WriteAt(max(termWidth-len(livesText), 1), 1, livesText)
}

func (d *Driver) drawPaused(centerY int) {
	d.centered(centerY-1, "P A U S E D")
	d.centered(centerY+1, "Press P to resume, ESC for menu")
}

var gameOverArt = []string{
	`   ___   _   __  __ ___    _____   _____ ___  `,
	`  / __| /_\ |  \/  | __|  / _ \ \ / / __| _ \ `,
	` | (_ |/ _ \| |\/| | _|  | (_) \ V /| _||   / `,
	`  \___/_/ \_\_|  |_|___|  \___/ \_/ |___|_|_\ `,
}

func (d *Driver) drawGameOver(now time.Time, centerY int) {
	row := centerY - 6
	for _, line := range gameOverArt {
		d.centered(row, line)
		row++
	}

	row++
	d.centered(row, fmt.Sprintf("Score: %d   Level: %d", d.session.Score, d.session.Level))
	row += 2

	if !d.board.enabled() {
		if blink(now) {
			d.centered(row, ">>  Press ENTER to play again  <<")
		}
		d.centered(row+2, "ESC for menu, Q to quit")
		return
	}

	cursor := " "
	if blink(now) {
		cursor = "_"
	}
	d.centered(row, fmt.Sprintf("Name: %-*s", 21, string(d.name)+cursor))
	d.centered(row+2, "ENTER to save, ESC to skip")
	if d.status != "" {
		d.centered(row+4, d.status)
	}
}

func (d *Driver) drawInactivityScreen(now time.Time, centerY int) {
	left := d.idleTimeout - now.Sub(d.lastInput)
	d.centered(centerY-2, "INACTIVITY WARNING")
	d.centered(centerY, fmt.Sprintf("You will be disconnected in %d seconds.", int(left.Seconds())))
	d.centered(centerY+2, "Press any key to continue")
}
