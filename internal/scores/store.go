package scores

import (
	"cmp"
	"context"
	"slices"
	"sync"
)

// Store persists leaderboard entries.
type Store interface {
	Insert(ctx context.Context, e Entry) error
	// Top returns up to limit entries, highest score first. Equal scores
	// keep insertion order.
	Top(ctx context.Context, limit int) ([]Entry, error)
	// Prune drops everything outside the best keep entries.
	Prune(ctx context.Context, keep int) error
	Close() error
}

// byScore orders entries descending by score. Used with stable sorts so
// ties stay in insertion order.
func byScore(a, b Entry) int {
	return cmp.Compare(b.Score, a.Score)
}

// MemoryStore keeps entries in process memory. Everything is lost on restart.
type MemoryStore struct {
	mu      sync.RWMutex
	entries []Entry
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Insert(_ context.Context, e Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, e)
	return nil
}

func (m *MemoryStore) Top(_ context.Context, limit int) ([]Entry, error) {
	m.mu.RLock()
	sorted := slices.Clone(m.entries)
	m.mu.RUnlock()

	slices.SortStableFunc(sorted, byScore)
	if limit >= 0 && len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted, nil
}

func (m *MemoryStore) Prune(_ context.Context, keep int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.entries) <= keep {
		return nil
	}
	slices.SortStableFunc(m.entries, byScore)
	clear(m.entries[keep:])
	m.entries = m.entries[:keep]
	return nil
}

// Len returns the number of stored entries.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

func (m *MemoryStore) Close() error {
	return nil
}
