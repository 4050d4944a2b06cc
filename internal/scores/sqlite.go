package scores

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore keeps entries in a SQLite database file.
type SQLiteStore struct {
	conn *sql.DB
}

// OpenSQLite opens (or creates) the database at path and migrates it.
func OpenSQLite(path string) (*SQLiteStore, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// A single connection serializes writes and keeps ":memory:" databases
	// from splitting across the pool.
	conn.SetMaxOpenConns(1)

	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enable WAL: %w", err)
	}

	s := &SQLiteStore{conn: conn}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS scores (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		player_name TEXT NOT NULL,
		score INTEGER NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_scores_rank ON scores(score DESC, seq ASC);
	`
	if _, err := s.conn.Exec(schema); err != nil {
		return fmt.Errorf("migrate scores: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Insert(ctx context.Context, e Entry) error {
	_, err := s.conn.ExecContext(ctx,
		"INSERT INTO scores (id, player_name, score, created_at) VALUES (?, ?, ?, ?)",
		e.ID, e.PlayerName, e.Score, e.Timestamp.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert score: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Top(ctx context.Context, limit int) ([]Entry, error) {
	rows, err := s.conn.QueryContext(ctx,
		"SELECT id, player_name, score, created_at FROM scores ORDER BY score DESC, seq ASC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query scores: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var created string
		if err := rows.Scan(&e.ID, &e.PlayerName, &e.Score, &created); err != nil {
			return nil, fmt.Errorf("scan score: %w", err)
		}
		if e.Timestamp, err = time.Parse(time.RFC3339Nano, created); err != nil {
			return nil, fmt.Errorf("parse timestamp %q: %w", created, err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *SQLiteStore) Prune(ctx context.Context, keep int) error {
	_, err := s.conn.ExecContext(ctx,
		`DELETE FROM scores WHERE seq NOT IN (
			SELECT seq FROM scores ORDER BY score DESC, seq ASC LIMIT ?
		)`,
		keep,
	)
	if err != nil {
		return fmt.Errorf("prune scores: %w", err)
	}
	return nil
}

// Count returns the number of stored entries.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM scores").Scan(&n)
	return n, err
}

// Ping checks the database connection.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.conn.PingContext(ctx)
}

func (s *SQLiteStore) Close() error {
	return s.conn.Close()
}
