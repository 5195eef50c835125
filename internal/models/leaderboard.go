// Package models - Leaderboard domain types.
package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Leaderboard sizing and score bounds.
const (
	// LeaderboardSize is how many entries list endpoints return.
	LeaderboardSize = 10

	// LeaderboardCapacity bounds how many entries storage retains overall.
	// Everything below the top 50 is pruned on submit.
	LeaderboardCapacity = 50

	// MaxUsernameLength bounds submitted usernames.
	MaxUsernameLength = 20

	// MinScore and MaxScore bound submitted scores.
	MinScore = 0
	MaxScore = 100000
)

// LeaderboardEntry is a single score record. At most one entry exists per
// case-insensitive username; only the player's highest score is kept.
type LeaderboardEntry struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Score     int       `json:"score"`
	Timestamp time.Time `json:"timestamp"`
}

// NewLeaderboardEntry creates an entry with a fresh ID and timestamp.
func NewLeaderboardEntry(username string, score int) *LeaderboardEntry {
	return &LeaderboardEntry{
		ID:        uuid.New().String(),
		Username:  username,
		Score:     score,
		Timestamp: time.Now().UTC(),
	}
}

// Key returns the case-insensitive identity used for upserts.
func (e *LeaderboardEntry) Key() string {
	return strings.ToLower(e.Username)
}
