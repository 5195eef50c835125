package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"portfolio/internal/models"
)

// JSONStorage implements the Storage interface using a JSON file for
// persistence. Data is held in memory and written through on every mutation,
// which is plenty for a leaderboard this size. It survives restarts, unlike
// the memory backend, without needing a database.
type JSONStorage struct {
	filePath string
	mu       sync.RWMutex
	data     *jsonData
}

// jsonData is the on-disk document shape.
type jsonData struct {
	Leaderboard []*models.LeaderboardEntry `json:"leaderboard"`
	Likes       map[string]int64           `json:"likes"`
	LastUpdated time.Time                  `json:"last_updated"`
}

// NewJSONStorage creates a JSON-file-backed storage instance, creating the
// file with empty data if it does not exist.
func NewJSONStorage(config Config) (*JSONStorage, error) {
	if config.Path == "" {
		return nil, fmt.Errorf("path is required for JSON storage")
	}

	s := &JSONStorage{filePath: config.Path}

	if err := s.ensureFileExists(); err != nil {
		return nil, fmt.Errorf("failed to ensure file exists: %w", err)
	}
	if err := s.loadData(); err != nil {
		return nil, fmt.Errorf("failed to load initial data: %w", err)
	}
	return s, nil
}

// TopScores returns up to limit entries ordered by score descending.
func (j *JSONStorage) TopScores(ctx context.Context, limit int) ([]*models.LeaderboardEntry, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	result := make([]*models.LeaderboardEntry, 0, len(j.data.Leaderboard))
	for _, e := range j.data.Leaderboard {
		entryCopy := *e
		result = append(result, &entryCopy)
	}
	sortByScore(result)

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// SubmitScore upserts a score by case-insensitive username and persists the
// updated board.
func (j *JSONStorage) SubmitScore(ctx context.Context, username string, score int) (bool, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	key := strings.ToLower(username)
	for _, e := range j.data.Leaderboard {
		if e.Key() == key {
			if e.Score >= score {
				return false, nil
			}
			break
		}
	}

	// Drop any previous entry for this player, add the new one, keep the top.
	kept := j.data.Leaderboard[:0]
	for _, e := range j.data.Leaderboard {
		if e.Key() != key {
			kept = append(kept, e)
		}
	}
	kept = append(kept, models.NewLeaderboardEntry(username, score))
	sortByScore(kept)
	if len(kept) > models.LeaderboardCapacity {
		kept = kept[:models.LeaderboardCapacity]
	}
	j.data.Leaderboard = kept

	if err := j.saveDataLocked(); err != nil {
		return false, err
	}
	return true, nil
}

// LikeCount returns the like counter for a slug.
func (j *JSONStorage) LikeCount(ctx context.Context, slug string) (int64, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.data.Likes[slug], nil
}

// IncrementLikes increments a slug's counter and persists the new value.
func (j *JSONStorage) IncrementLikes(ctx context.Context, slug string) (int64, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.data.Likes[slug]++
	if err := j.saveDataLocked(); err != nil {
		return 0, err
	}
	return j.data.Likes[slug], nil
}

// Ping verifies the backing file is still accessible.
func (j *JSONStorage) Ping(ctx context.Context) error {
	_, err := os.Stat(j.filePath)
	return err
}

// Close is a no-op; every mutation is already flushed.
func (j *JSONStorage) Close() error {
	return nil
}

// ensureFileExists creates the JSON file with empty data if it doesn't exist.
func (j *JSONStorage) ensureFileExists() error {
	if _, err := os.Stat(j.filePath); os.IsNotExist(err) {
		if err := os.MkdirAll(filepath.Dir(j.filePath), 0700); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
		j.data = &jsonData{
			Leaderboard: []*models.LeaderboardEntry{},
			Likes:       make(map[string]int64),
			LastUpdated: time.Now(),
		}
		return j.saveDataLocked()
	}
	return nil
}

// loadData reads the file into memory.
func (j *JSONStorage) loadData() error {
	raw, err := os.ReadFile(j.filePath)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", j.filePath, err)
	}

	var data jsonData
	if err := json.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("failed to parse %s: %w", j.filePath, err)
	}
	if data.Likes == nil {
		data.Likes = make(map[string]int64)
	}
	if data.Leaderboard == nil {
		data.Leaderboard = []*models.LeaderboardEntry{}
	}
	j.data = &data
	return nil
}

// saveDataLocked writes the current data atomically via a temp file. Caller
// must hold j.mu (or be initializing).
func (j *JSONStorage) saveDataLocked() error {
	j.data.LastUpdated = time.Now()

	raw, err := json.MarshalIndent(j.data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal data: %w", err)
	}

	tmp := j.filePath + ".tmp"
	if err := os.WriteFile(tmp, raw, 0600); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := os.Rename(tmp, j.filePath); err != nil {
		return fmt.Errorf("failed to replace data file: %w", err)
	}
	return nil
}
