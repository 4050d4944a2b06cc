package scores

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tomz197/bugstroids/internal/apperr"
)

// Service validates submissions and maintains the pruned leaderboard.
type Service struct {
	store  Store
	logger *slog.Logger
	now    func() time.Time

	// mu makes insert-then-prune atomic with respect to other submissions.
	mu sync.Mutex
}

// Compile-time check that Service implements Board.
var _ Board = (*Service)(nil)

func NewService(store Store, logger *slog.Logger) *Service {
	logger = logger.With("component", "score_service")
	logger.Debug("Initializing score service")

	return &Service{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// TopScores returns at most ListLimit entries, highest first.
func (s *Service) TopScores(ctx context.Context) ([]Entry, error) {
	entries, err := s.store.Top(ctx, ListLimit)
	if err != nil {
		return nil, apperr.WrapInternal("list scores", err)
	}
	if entries == nil {
		entries = []Entry{}
	}
	return entries, nil
}

// Submit validates and stores a score, then prunes the store to KeepTop
// entries. A rejected submission writes nothing.
func (s *Service) Submit(ctx context.Context, playerName string, score float64) (Entry, error) {
	name, err := NormalizeName(playerName)
	if err != nil {
		return Entry{}, err
	}
	points, err := NormalizeScore(score)
	if err != nil {
		return Entry{}, err
	}

	entry := Entry{
		ID:         uuid.NewString(),
		PlayerName: name,
		Score:      points,
		Timestamp:  s.now().UTC(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Insert(ctx, entry); err != nil {
		return Entry{}, apperr.WrapInternal("store score", err)
	}
	if err := s.store.Prune(ctx, KeepTop); err != nil {
		// The entry is stored; an oversized table is recoverable on the next prune.
		s.logger.Warn("Failed to prune scores", "error", err)
	}

	s.logger.Info("Score submitted", "id", entry.ID, "player", entry.PlayerName, "score", entry.Score)
	return entry, nil
}

// Submission applies a decoded request body.
func (s *Service) Submission(ctx context.Context, sub Submission) (Entry, error) {
	if sub.Score == nil {
		return Entry{}, apperr.Validation("score must be a number")
	}
	return s.Submit(ctx, sub.PlayerName, *sub.Score)
}
