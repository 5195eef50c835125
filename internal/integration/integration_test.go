package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio/internal/api"
	"portfolio/internal/email"
	"portfolio/internal/models"
	"portfolio/internal/ratelimit"
	"portfolio/internal/storage"
	"portfolio/internal/version"
)

// Integration tests that exercise the entire system end-to-end over HTTP.

func newServer(t *testing.T, store storage.Storage, sender email.Sender, contactLimiter ratelimit.Limiter, limiters api.RateLimiters) *httptest.Server {
	t.Helper()
	handlers := api.NewHandlers(store, sender, contactLimiter, version.Info{Version: "integration-test"})
	cfg := models.NewDefaultConfig()
	router := api.SetupRoutes(handlers, cfg, limiters)
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	return resp
}

func TestIntegration_LeaderboardFlow(t *testing.T) {
	storageFile := filepath.Join(t.TempDir(), "leaderboard.json")

	store, err := storage.NewJSONStorage(storage.Config{Path: storageFile})
	require.NoError(t, err)
	defer store.Close()

	server := newServer(t, store, nil, nil, api.RateLimiters{})

	// Submit a handful of scores.
	for i := 1; i <= 12; i++ {
		resp := postJSON(t, server.URL+"/api/v1/leaderboard", models.ScoreSubmission{
			Username: fmt.Sprintf("player-%d", i),
			Score:    i * 100,
		})
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		resp.Body.Close()
	}

	// The board returns the top 10, highest first.
	resp, err := http.Get(server.URL + "/api/v1/leaderboard")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var board models.LeaderboardResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&board))
	require.Len(t, board.Leaderboard, models.LeaderboardSize)
	assert.Equal(t, "player-12", board.Leaderboard[0].Username)
	assert.Equal(t, 1200, board.Leaderboard[0].Score)

	// A lower resubmission does not displace the stored score.
	resp2 := postJSON(t, server.URL+"/api/v1/leaderboard", models.ScoreSubmission{
		Username: "PLAYER-12",
		Score:    500,
	})
	defer resp2.Body.Close()
	var submit models.SubmitScoreResponse
	require.NoError(t, json.NewDecoder(resp2.Body).Decode(&submit))
	assert.True(t, submit.Success)
	assert.False(t, submit.Updated)

	// Data survives a storage reload.
	reloaded, err := storage.NewJSONStorage(storage.Config{Path: storageFile})
	require.NoError(t, err)
	defer reloaded.Close()

	scores, err := reloaded.TopScores(t.Context(), 1)
	require.NoError(t, err)
	require.Len(t, scores, 1)
	assert.Equal(t, 1200, scores[0].Score)
}

func TestIntegration_ContactRelay(t *testing.T) {
	var received map[string]any
	sendgrid := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer sendgrid.Close()

	store, err := storage.NewMemoryStorage(storage.Config{})
	require.NoError(t, err)

	sender := email.NewSendGridSender(models.EmailConfig{
		Endpoint: sendgrid.URL,
		APIKey:   "SG.integration",
		To:       "owner@example.com",
		From:     "no-reply@example.com",
		Timeout:  5 * time.Second,
	})

	limiter := ratelimit.NewFixedWindow(ratelimit.Config{Window: time.Minute, Max: 3})
	server := newServer(t, store, sender, limiter, api.RateLimiters{})

	resp := postJSON(t, server.URL+"/api/v1/contact", models.ContactRequest{
		Name:    "Alice",
		Email:   "alice@example.com",
		Message: "Hello from the integration test",
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var ack models.ContactResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&ack))
	assert.True(t, ack.OK)

	require.NotNil(t, received)
	assert.Equal(t, "Portfolio contact from Alice", received["subject"])
}

func TestIntegration_ContactRateLimit(t *testing.T) {
	store, err := storage.NewMemoryStorage(storage.Config{})
	require.NoError(t, err)

	sendgrid := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}))
	defer sendgrid.Close()

	sender := email.NewSendGridSender(models.EmailConfig{
		Endpoint: sendgrid.URL,
		APIKey:   "SG.integration",
		To:       "owner@example.com",
		From:     "no-reply@example.com",
	})

	limiter := ratelimit.NewFixedWindow(ratelimit.Config{Window: time.Minute, Max: 3})
	server := newServer(t, store, sender, limiter, api.RateLimiters{})

	body := models.ContactRequest{Name: "Bob", Email: "bob@example.com", Message: "hi there"}
	for i := 0; i < 3; i++ {
		resp := postJSON(t, server.URL+"/api/v1/contact", body)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		resp.Body.Close()
	}

	resp := postJSON(t, server.URL+"/api/v1/contact", body)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("Retry-After"))
}

func TestIntegration_LikesFlow(t *testing.T) {
	store, err := storage.NewMemoryStorage(storage.Config{})
	require.NoError(t, err)

	server := newServer(t, store, nil, nil, api.RateLimiters{})

	for i := 1; i <= 3; i++ {
		resp := postJSON(t, server.URL+"/api/v1/likes/project-snake", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var likes models.LikesResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&likes))
		resp.Body.Close()
		assert.EqualValues(t, i, likes.Count)
	}
}

func TestIntegration_HealthAndHeaders(t *testing.T) {
	store, err := storage.NewMemoryStorage(storage.Config{})
	require.NoError(t, err)

	server := newServer(t, store, nil, nil, api.RateLimiters{})

	resp, err := http.Get(server.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var health models.HealthCheckResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	assert.Equal(t, models.StatusHealthy, health.Status)

	// API responses carry the hardening headers.
	apiResp, err := http.Get(server.URL + "/api/v1/leaderboard")
	require.NoError(t, err)
	defer apiResp.Body.Close()
	assert.Equal(t, "nosniff", apiResp.Header.Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", apiResp.Header.Get("X-Frame-Options"))
}
