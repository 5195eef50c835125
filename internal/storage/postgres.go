package storage

import (
	"context"
	"errors"
	"fmt"

	"portfolio/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStorage implements the Storage interface using PostgreSQL via a
// pgx connection pool. This is the backend for deployments where the
// leaderboard must survive restarts and be shared across instances.
type PostgresStorage struct {
	pool *pgxpool.Pool
}

const postgresSchema = `
CREATE TABLE IF NOT EXISTS leaderboard (
	username_key TEXT PRIMARY KEY,
	id           TEXT NOT NULL,
	username     TEXT NOT NULL,
	score        INTEGER NOT NULL,
	submitted_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_leaderboard_score ON leaderboard (score DESC, submitted_at ASC);
CREATE TABLE IF NOT EXISTS likes (
	slug  TEXT PRIMARY KEY,
	count BIGINT NOT NULL DEFAULT 0
);`

// NewPostgresStorage creates a new PostgreSQL storage instance and
// initializes the schema.
func NewPostgresStorage(config Config) (*PostgresStorage, error) {
	if config.ConnectionString == "" {
		return nil, fmt.Errorf("connection string is required for PostgreSQL storage")
	}

	poolCfg, err := pgxpool.ParseConfig(config.ConnectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}
	if config.MaxOpenConns > 0 {
		poolCfg.MaxConns = int32(config.MaxOpenConns)
	}
	if config.ConnMaxLifetime > 0 {
		poolCfg.MaxConnLifetime = config.ConnMaxLifetime
	}
	if config.ConnMaxIdleTime > 0 {
		poolCfg.MaxConnIdleTime = config.ConnMaxIdleTime
	}

	pool, err := pgxpool.NewWithConfig(context.Background(), poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(context.Background()); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if _, err := pool.Exec(context.Background(), postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &PostgresStorage{pool: pool}, nil
}

// TopScores returns up to limit entries ordered by score descending.
func (p *PostgresStorage) TopScores(ctx context.Context, limit int) ([]*models.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = models.LeaderboardCapacity
	}
	rows, err := p.pool.Query(ctx,
		`SELECT id, username, score, submitted_at
		 FROM leaderboard
		 ORDER BY score DESC, submitted_at ASC
		 LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query top scores: %w", err)
	}
	defer rows.Close()

	var result []*models.LeaderboardEntry
	for rows.Next() {
		var e models.LeaderboardEntry
		if err := rows.Scan(&e.ID, &e.Username, &e.Score, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard row: %w", err)
		}
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
func (p *PostgresStorage) SubmitScore(ctx context.Context, username string, score int) (bool, error) {
	tx, err := p.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	entry := models.NewLeaderboardEntry(username, score)
	tag, err := tx.Exec(ctx,
		`INSERT INTO leaderboard (username_key, id, username, score, submitted_at)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (username_key) DO UPDATE SET
			id = excluded.id,
			username = excluded.username,
			score = excluded.score,
			submitted_at = excluded.submitted_at
		 WHERE excluded.score > leaderboard.score`,
		entry.Key(), entry.ID, entry.Username, entry.Score, entry.Timestamp)
	if err != nil {
		return false, fmt.Errorf("failed to upsert score: %w", err)
	}
	updated := tag.RowsAffected() > 0

	if updated {
		_, err = tx.Exec(ctx,
			`DELETE FROM leaderboard WHERE username_key NOT IN (
				SELECT username_key FROM leaderboard
				ORDER BY score DESC, submitted_at ASC
				LIMIT $1)`, models.LeaderboardCapacity)
		if err != nil {
			return false, fmt.Errorf("failed to prune leaderboard: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("failed to commit: %w", err)
	}
	return updated, nil
}

// LikeCount returns the like counter for a slug.
func (p *PostgresStorage) LikeCount(ctx context.Context, slug string) (int64, error) {
	var count int64
	err := p.pool.QueryRow(ctx, `SELECT count FROM likes WHERE slug = $1`, slug).Scan(&count)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to query like count: %w", err)
	}
	return count, nil
}

// IncrementLikes atomically increments a slug's counter and returns the new
// value.
func (p *PostgresStorage) IncrementLikes(ctx context.Context, slug string) (int64, error) {
	var count int64
	err := p.pool.QueryRow(ctx,
		`INSERT INTO likes (slug, count) VALUES ($1, 1)
		 ON CONFLICT (slug) DO UPDATE SET count = likes.count + 1
		 RETURNING count`, slug).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to increment likes: %w", err)
	}
	return count, nil
}

// Ping verifies the database connection.
func (p *PostgresStorage) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

// Close closes the connection pool.
func (p *PostgresStorage) Close() error {
	p.pool.Close()
	return nil
}
