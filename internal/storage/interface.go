package storage

import (
	"context"
	"time"

	"portfolio/internal/models"
)

// Storage defines the persistence contract for the leaderboard and the
// per-page like counters. It is a document-store shaped interface: equality
// lookups, ordering by a numeric field, and atomic counter increment. It can
// be implemented by an in-memory map, a JSON file, or a real database.
type Storage interface {
	// TopScores returns up to limit entries ordered by score descending.
	TopScores(ctx context.Context, limit int) ([]*models.LeaderboardEntry, error)

	// SubmitScore upserts a score keyed by case-insensitive username, keeping
	// only the player's highest score. It reports whether the leaderboard
	// changed: false means the player already had an equal or better score.
	// Implementations prune the board to models.LeaderboardCapacity entries.
	SubmitScore(ctx context.Context, username string, score int) (bool, error)

	// LikeCount returns the like counter for a slug; never-liked slugs are 0.
	LikeCount(ctx context.Context, slug string) (int64, error)

	// IncrementLikes atomically increments a slug's counter and returns the
	// new value.
	IncrementLikes(ctx context.Context, slug string) (int64, error)

	// Ping verifies the backend is reachable, for health checks.
	Ping(ctx context.Context) error

	// Close closes the storage connection and cleans up resources.
	Close() error
}

// Config holds configuration for storage backends.
type Config struct {
	// Type specifies the storage backend type (memory, json, sqlite, postgres).
	Type string

	// Path is used for file-based storage backends.
	Path string

	// ConnectionString is used for database backends.
	ConnectionString string

	// Database pool tuning, used by database backends.
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}
