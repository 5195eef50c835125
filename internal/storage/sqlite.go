package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"portfolio/internal/models"

	_ "modernc.org/sqlite"
)

// SQLiteStorage implements the Storage interface on SQLite via the pure-Go
// modernc.org/sqlite driver, so no cgo is needed. The schema is created on
// startup; the upsert keeps only a player's highest score and pruning happens
// in the same transaction as the insert.
type SQLiteStorage struct {
	db *sql.DB
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS leaderboard (
	username_key TEXT PRIMARY KEY,
	id           TEXT NOT NULL,
	username     TEXT NOT NULL,
	score        INTEGER NOT NULL,
	submitted_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_leaderboard_score ON leaderboard (score DESC, submitted_at ASC);
CREATE TABLE IF NOT EXISTS likes (
	slug  TEXT PRIMARY KEY,
	count INTEGER NOT NULL DEFAULT 0
);`

// NewSQLiteStorage creates a new SQLite storage instance and initializes the
// schema.
func NewSQLiteStorage(config Config) (*SQLiteStorage, error) {
	if config.ConnectionString == "" {
		return nil, fmt.Errorf("connection string is required for SQLite storage")
	}

	db, err := sql.Open("sqlite", config.ConnectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if config.MaxOpenConns > 0 {
		db.SetMaxOpenConns(config.MaxOpenConns)
	}
	if config.MaxIdleConns > 0 {
		db.SetMaxIdleConns(config.MaxIdleConns)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteStorage{db: db}, nil
}

// TopScores returns up to limit entries ordered by score descending.
func (s *SQLiteStorage) TopScores(ctx context.Context, limit int) ([]*models.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = models.LeaderboardCapacity
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, username, score, submitted_at
		 FROM leaderboard
		 ORDER BY score DESC, submitted_at ASC
		 LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query top scores: %w", err)
	}
	defer rows.Close()

	var result []*models.LeaderboardEntry
	for rows.Next() {
		var e models.LeaderboardEntry
		var submittedAt int64
		if err := rows.Scan(&e.ID, &e.Username, &e.Score, &submittedAt); err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard row: %w", err)
		}
		e.Timestamp = time.UnixMilli(submittedAt).UTC()
		result = append(result, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read leaderboard rows: %w", err)
	}
	if result == nil {
		result = []*models.LeaderboardEntry{}
	}
	return result, nil
}

// SubmitScore upserts a score by case-insensitive username, keeping only the
// player's highest score, and prunes the board to capacity.
func (s *SQLiteStorage) SubmitScore(ctx context.Context, username string, score int) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	entry := models.NewLeaderboardEntry(username, score)
	res, err := tx.ExecContext(ctx,
		`INSERT INTO leaderboard (username_key, id, username, score, submitted_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(username_key) DO UPDATE SET
			id = excluded.id,
			username = excluded.username,
			score = excluded.score,
			submitted_at = excluded.submitted_at
		 WHERE excluded.score > leaderboard.score`,
		entry.Key(), entry.ID, entry.Username, entry.Score, entry.Timestamp.UnixMilli())
	if err != nil {
		return false, fmt.Errorf("failed to upsert score: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}

	if affected > 0 {
		_, err = tx.ExecContext(ctx,
			`DELETE FROM leaderboard WHERE username_key NOT IN (
				SELECT username_key FROM leaderboard
				ORDER BY score DESC, submitted_at ASC
				LIMIT ?)`, models.LeaderboardCapacity)
		if err != nil {
			return false, fmt.Errorf("failed to prune leaderboard: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit: %w", err)
	}
	return affected > 0, nil
}

// LikeCount returns the like counter for a slug.
func (s *SQLiteStorage) LikeCount(ctx context.Context, slug string) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT count FROM likes WHERE slug = ?`, slug).Scan(&count)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to query like count: %w", err)
	}
	return count, nil
}

// IncrementLikes atomically increments a slug's counter and returns the new
// value.
func (s *SQLiteStorage) IncrementLikes(ctx context.Context, slug string) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO likes (slug, count) VALUES (?, 1)
		 ON CONFLICT(slug) DO UPDATE SET count = count + 1
		 RETURNING count`, slug).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to increment likes: %w", err)
	}
	return count, nil
}

// Ping verifies the database connection.
func (s *SQLiteStorage) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the storage connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}
