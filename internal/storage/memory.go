package storage

import (
	"context"
	"sort"
	"strings"
	"sync"

	"portfolio/internal/models"
)

// MemoryStorage implements the Storage interface using in-memory maps. This
// is the default backend: the leaderboard is explicitly allowed to reset on
// restart, so losing data on process exit is acceptable. It is also what the
// tests use.
type MemoryStorage struct {
	mu      sync.RWMutex
	entries map[string]*models.LeaderboardEntry // key: lowercase username
	likes   map[string]int64
}

// NewMemoryStorage creates a new memory-based storage instance.
func NewMemoryStorage(config Config) (*MemoryStorage, error) {
	return &MemoryStorage{
		entries: make(map[string]*models.LeaderboardEntry),
		likes:   make(map[string]int64),
	}, nil
}

// TopScores returns up to limit entries ordered by score descending.
func (m *MemoryStorage) TopScores(ctx context.Context, limit int) ([]*models.LeaderboardEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*models.LeaderboardEntry, 0, len(m.entries))
	for _, e := range m.entries {
		// Return copies to prevent external modification
		entryCopy := *e
		result = append(result, &entryCopy)
	}
	sortByScore(result)

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// SubmitScore upserts a score by case-insensitive username, keeping only the
// player's highest score.
func (m *MemoryStorage) SubmitScore(ctx context.Context, username string, score int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := strings.ToLower(username)
	if existing, ok := m.entries[key]; ok && existing.Score >= score {
		return false, nil
	}

	m.entries[key] = models.NewLeaderboardEntry(username, score)
	m.pruneLocked()
	return true, nil
}

// LikeCount returns the like counter for a slug.
func (m *MemoryStorage) LikeCount(ctx context.Context, slug string) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.likes[slug], nil
}

// IncrementLikes increments a slug's counter and returns the new value.
func (m *MemoryStorage) IncrementLikes(ctx context.Context, slug string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.likes[slug]++
	return m.likes[slug], nil
}

// Ping always succeeds for memory storage.
func (m *MemoryStorage) Ping(ctx context.Context) error {
	return nil
}

// Close is a no-op for memory storage.
func (m *MemoryStorage) Close() error {
	return nil
}

// pruneLocked evicts the lowest-ranked entries until the board is within
// capacity. Caller must hold m.mu.
func (m *MemoryStorage) pruneLocked() {
	for len(m.entries) > models.LeaderboardCapacity {
		var worst *models.LeaderboardEntry
		for _, e := range m.entries {
			if worst == nil || less(e, worst) {
				worst = e
			}
		}
		delete(m.entries, worst.Key())
	}
}

// sortByScore orders entries by score descending; ties go to the earlier
// submission.
func sortByScore(entries []*models.LeaderboardEntry) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].Timestamp.Before(entries[j].Timestamp)
	})
}

// less reports whether a ranks below b on the board.
func less(a, b *models.LeaderboardEntry) bool {
	if a.Score != b.Score {
		return a.Score < b.Score
	}
	return a.Timestamp.After(b.Timestamp)
}
