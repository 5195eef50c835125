package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"portfolio/internal/email"
	"portfolio/internal/models"
	"portfolio/internal/ratelimit"
	"portfolio/internal/storage"
	"portfolio/internal/version"
)

// Handlers contains HTTP handlers for the portfolio API
type Handlers struct {
	storage storage.Storage
	sender  email.Sender
	// contactLimiter is checked inline rather than via middleware because the
	// contact endpoint reports its reset time as an RFC 3339 timestamp.
	contactLimiter ratelimit.Limiter
	version        version.Info
}

// NewHandlers creates a new handlers instance. sender may be nil when email
// delivery is not configured; contactLimiter may be nil to disable limiting.
func NewHandlers(store storage.Storage, sender email.Sender, contactLimiter ratelimit.Limiter, ver version.Info) *Handlers {
	return &Handlers{
		storage:        store,
		sender:         sender,
		contactLimiter: contactLimiter,
		version:        ver,
	}
}

// Contact handles contact-form submissions and relays them by email
// POST /api/v1/contact
func (h *Handlers) Contact(w http.ResponseWriter, r *http.Request) {
	if h.contactLimiter != nil {
		result := h.contactLimiter.Check(ratelimit.ClientIdentifier(r))

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
		w.Header().Set("X-RateLimit-Reset", result.ResetAt.UTC().Format(time.RFC3339))

		if !result.Allowed {
			retryAfterSecs := int(result.RetryAfter / time.Second)
			w.Header().Set("Retry-After", strconv.Itoa(retryAfterSecs))

			errorResp := models.NewErrorResponse("Too many contact requests, please try again later", models.ErrorCodeRateLimitExceeded)
			errorResp.RetryAfter = retryAfterSecs
			h.writeJSONResponse(w, http.StatusTooManyRequests, errorResp)
			return
		}
	}

	var req models.ContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, models.ErrorCodeInvalidRequest, "Invalid JSON body")
		return
	}

	if problems := req.Sanitize(); len(problems) > 0 {
		errorResp := models.NewErrorResponse("Validation failed", models.ErrorCodeValidation).WithDetails(problems)
		h.writeJSONResponse(w, http.StatusBadRequest, errorResp)
		return
	}

	if h.sender == nil {
		slog.Error("Contact request received but email delivery is not configured")
		h.writeErrorResponse(w, http.StatusInternalServerError, models.ErrorCodeInternalError, "Email delivery not configured")
		return
	}

	msg := email.Message{
		Name:     req.Name,
		Email:    req.Email,
		Message:  req.Message,
		Website:  req.Website,
		Timeline: req.Timeline,
		Budget:   req.Budget,
	}

	if err := h.sender.Send(r.Context(), msg); err != nil {
		var provErr *email.ProviderError
		if errors.As(err, &provErr) {
			slog.Error("Email provider rejected contact relay",
				"status", provErr.StatusCode,
				"body", provErr.Body)
			errorResp := models.NewErrorResponse("Failed to send email", models.ErrorCodeUpstreamError).WithDetail(provErr.Body)
			h.writeJSONResponse(w, http.StatusBadGateway, errorResp)
			return
		}
		slog.Error("Failed to reach email provider", "error", err)
		h.writeErrorResponse(w, http.StatusInternalServerError, models.ErrorCodeInternalError, "Failed to send email")
		return
	}

	h.writeJSONResponse(w, http.StatusOK, models.ContactResponse{OK: true})
}

// GetLeaderboard handles leaderboard read requests
// GET /api/v1/leaderboard
func (h *Handlers) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	scores, err := h.storage.TopScores(r.Context(), models.LeaderboardSize)
	if err != nil {
		slog.Error("Failed to read leaderboard", "error", err)
		h.writeErrorResponse(w, http.StatusInternalServerError, models.ErrorCodeInternalError, "Internal server error")
		return
	}

	if scores == nil {
		scores = []*models.LeaderboardEntry{}
	}
	h.writeJSONResponse(w, http.StatusOK, models.LeaderboardResponse{Leaderboard: scores})
}

// SubmitScore handles leaderboard score submissions
// POST /api/v1/leaderboard
func (h *Handlers) SubmitScore(w http.ResponseWriter, r *http.Request) {
	var req models.ScoreSubmission
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, models.ErrorCodeInvalidRequest, "Invalid JSON body")
		return
	}

	if problems := req.Sanitize(); len(problems) > 0 {
		errorResp := models.NewErrorResponse("Validation failed", models.ErrorCodeValidation).WithDetails(problems)
		h.writeJSONResponse(w, http.StatusBadRequest, errorResp)
		return
	}

	updated, err := h.storage.SubmitScore(r.Context(), req.Username, req.Score)
	if err != nil {
		slog.Error("Failed to submit score", "error", err)
		h.writeErrorResponse(w, http.StatusInternalServerError, models.ErrorCodeInternalError, "Internal server error")
		return
	}

	scores, err := h.storage.TopScores(r.Context(), models.LeaderboardSize)
	if err != nil {
		slog.Error("Failed to read leaderboard after submit", "error", err)
		h.writeErrorResponse(w, http.StatusInternalServerError, models.ErrorCodeInternalError, "Internal server error")
		return
	}
	if scores == nil {
		scores = []*models.LeaderboardEntry{}
	}

	h.writeJSONResponse(w, http.StatusOK, models.SubmitScoreResponse{
		Success:     true,
		Updated:     updated,
		Leaderboard: scores,
	})
}

// GetLikes handles like counter reads
// GET /api/v1/likes/{slug}
func (h *Handlers) GetLikes(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]
	if !models.ValidSlug(slug) {
		h.writeErrorResponse(w, http.StatusBadRequest, models.ErrorCodeValidation, "Invalid slug")
		return
	}

	count, err := h.storage.LikeCount(r.Context(), slug)
	if err != nil {
		slog.Error("Failed to read like count", "slug", slug, "error", err)
		h.writeErrorResponse(w, http.StatusInternalServerError, models.ErrorCodeInternalError, "Internal server error")
		return
	}

	h.writeJSONResponse(w, http.StatusOK, models.LikesResponse{Slug: slug, Count: count})
}

// LikePost handles like counter increments
// POST /api/v1/likes/{slug}
func (h *Handlers) LikePost(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]
	if !models.ValidSlug(slug) {
		h.writeErrorResponse(w, http.StatusBadRequest, models.ErrorCodeValidation, "Invalid slug")
		return
	}

	count, err := h.storage.IncrementLikes(r.Context(), slug)
	if err != nil {
		slog.Error("Failed to increment likes", "slug", slug, "error", err)
		h.writeErrorResponse(w, http.StatusInternalServerError, models.ErrorCodeInternalError, "Internal server error")
		return
	}

	h.writeJSONResponse(w, http.StatusOK, models.LikesResponse{Slug: slug, Count: count})
}

// HealthCheck handles health check requests
// GET /health
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response := models.NewHealthCheckResponse(models.StatusHealthy)
	response.Version = h.version.Version

	if err := h.storage.Ping(r.Context()); err != nil {
		response.Status = models.StatusDegraded
		response.AddComponent("storage", models.StatusUnhealthy, err.Error())
	} else {
		response.AddComponent("storage", models.StatusHealthy, "Storage is operational")
	}
	response.AddComponent("api", models.StatusHealthy, "API is operational")

	status := http.StatusOK
	if response.Status != models.StatusHealthy {
		status = http.StatusServiceUnavailable
	}
	h.writeJSONResponse(w, status, response)
}

// writeJSONResponse writes a JSON response
func (h *Handlers) writeJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Headers are already written; nothing to send the client at this point
		slog.Error("Error encoding JSON response", "error", err)
	}
}

// writeErrorResponse writes an error response
func (h *Handlers) writeErrorResponse(w http.ResponseWriter, statusCode int, errorCode, message string) {
	h.writeJSONResponse(w, statusCode, models.NewErrorResponse(message, errorCode))
}
