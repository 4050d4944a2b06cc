package loop

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/tomz197/bugstroids/internal/apperr"
	"github.com/tomz197/bugstroids/internal/scores"
)

const boardTimeout = 5 * time.Second

type boardResult struct {
	list    bool
	entries []scores.Entry
	entry   scores.Entry
	err     error
}

// leaderboard runs board calls off the frame loop. Goroutines only send on
// results; every field is owned by the loop goroutine. At most one list and
// one submit are in flight, so the buffered channel never blocks a sender.
type leaderboard struct {
	board   scores.Board
	logger  *slog.Logger
	results chan boardResult

	entries    []scores.Entry
	loadErr    error
	loading    bool
	submitting bool
}

func newLeaderboard(board scores.Board, logger *slog.Logger) *leaderboard {
	return &leaderboard{
		board:   board,
		logger:  logger.With("component", "leaderboard"),
		results: make(chan boardResult, 2),
	}
}

func (l *leaderboard) enabled() bool {
	return l.board != nil
}

// refresh starts loading the top scores unless a load is already running.
func (l *leaderboard) refresh(ctx context.Context) {
	if l.board == nil || l.loading {
		return
	}
	l.loading = true
	go func() {
		ctx, cancel := context.WithTimeout(ctx, boardTimeout)
		defer cancel()
		entries, err := l.board.TopScores(ctx)
		l.results <- boardResult{list: true, entries: entries, err: err}
	}()
}

// submit starts storing a score. The caller checks submitting first.
func (l *leaderboard) submit(ctx context.Context, name string, score int) {
	l.submitting = true
	go func() {
		ctx, cancel := context.WithTimeout(ctx, boardTimeout)
		defer cancel()
		entry, err := l.board.Submit(ctx, name, float64(score))
		l.results <- boardResult{entry: entry, err: err}
	}()
}

// poll applies finished list loads and returns a finished submission, if any.
func (l *leaderboard) poll() (boardResult, bool) {
	for {
		select {
		case res := <-l.results:
			if !res.list {
				l.submitting = false
				if res.err != nil {
					l.logger.Warn("Score submission failed", "error", res.err)
				}
				return res, true
			}
			l.loading = false
			l.loadErr = res.err
			if res.err != nil {
				l.logger.Warn("Loading leaderboard failed", "error", res.err)
				continue
			}
			l.entries = res.entries
		default:
			return boardResult{}, false
		}
	}
}

func submitErrorMessage(err error) string {
	var appErr *apperr.AppError
	if apperr.GetType(err) == apperr.ErrorTypeValidation && errors.As(err, &appErr) {
		return "Rejected: " + appErr.Message
	}
	return "Could not save score. Press ENTER to retry"
}
