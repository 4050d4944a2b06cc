// Package scores is the leaderboard service: it validates submissions,
// keeps the best entries in a Store and serves them over HTTP.
package scores

import (
	"context"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/tomz197/bugstroids/internal/apperr"
)

const (
	// ListLimit is the number of entries TopScores returns.
	ListLimit = 10
	// KeepTop is how many entries survive the prune after each insert.
	KeepTop = 100
	// MaxNameLength is the name length in characters after truncation.
	MaxNameLength = 20
	// MaxScore caps absurd submissions so they fit every store.
	MaxScore = math.MaxInt32
)

// Entry is a stored leaderboard record.
type Entry struct {
	ID         string    `json:"id" msgpack:"id"`
	PlayerName string    `json:"playerName" msgpack:"playerName"`
	Score      int       `json:"score" msgpack:"score"`
	Timestamp  time.Time `json:"timestamp" msgpack:"timestamp"`
}

// Submission is the body of a score POST. Score is a pointer so a missing
// value can be told apart from zero.
type Submission struct {
	PlayerName string   `json:"playerName" msgpack:"playerName"`
	Score      *float64 `json:"score" msgpack:"score"`
}

// Board is what game drivers need from a leaderboard. Both the in-process
// Service and the HTTP Client implement it.
type Board interface {
	TopScores(ctx context.Context) ([]Entry, error)
	Submit(ctx context.Context, playerName string, score float64) (Entry, error)
}

// NormalizeName trims the name and truncates it to MaxNameLength characters.
// An empty result is a validation error.
func NormalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", apperr.Validation("playerName is required")
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		name = string([]rune(name)[:MaxNameLength])
	}
	return name, nil
}

// NormalizeScore floors the score and clamps it to [0, MaxScore].
func NormalizeScore(score float64) (int, error) {
	if math.IsNaN(score) || math.IsInf(score, 0) {
		return 0, apperr.Validation("score must be a finite number")
	}
	score = math.Floor(score)
	switch {
	case score < 0:
		return 0, nil
	case score > MaxScore:
		return MaxScore, nil
	}
	return int(score), nil
}
