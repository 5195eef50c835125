// Package models - API response types and error handling.
//
// Response Design Principles:
// - Consistent JSON structure across all endpoints
// - Optional fields use omitempty to reduce response size
// - Machine-readable error codes plus human-readable messages
// - Generic 500/502 messages that avoid leaking internal detail, except the
//   email provider's own error text which is passed through for diagnostics
package models

import (
	"time"
)

// ContactResponse acknowledges a relayed contact-form submission.
type ContactResponse struct {
	OK bool `json:"ok"`
}

// LeaderboardResponse carries the current top scores.
type LeaderboardResponse struct {
	Leaderboard []*LeaderboardEntry `json:"leaderboard"`
}

// SubmitScoreResponse reports a score submission outcome. Updated is false
// when the player already had an equal or higher score on record.
type SubmitScoreResponse struct {
	Success     bool                `json:"success"`
	Updated     bool                `json:"updated"`
	Leaderboard []*LeaderboardEntry `json:"leaderboard"`
}

// LikesResponse carries a per-page like counter.
type LikesResponse struct {
	Slug  string `json:"slug"`
	Count int64  `json:"count"`
}

// ErrorResponse provides structured error information.
type ErrorResponse struct {
	Error     string            `json:"error"`                // Error type (always "error")
	Message   string            `json:"message"`              // Human-readable error description
	Code      string            `json:"code,omitempty"`       // Machine-readable error code
	Details   map[string]string `json:"details,omitempty"`    // Field-specific error details
	Detail    string            `json:"detail,omitempty"`     // Raw upstream error text (502 only)
	Timestamp time.Time         `json:"timestamp"`            // Error occurrence time
	RetryAfter int              `json:"retry_after,omitempty"` // Whole seconds until retry (429 only)
}

type HealthCheckResponse struct {
	Status     string                     `json:"status"`
	Timestamp  time.Time                  `json:"timestamp"`
	Version    string                     `json:"version,omitempty"`
	Uptime     string                     `json:"uptime,omitempty"`
	Components map[string]ComponentHealth `json:"components,omitempty"`
}

type ComponentHealth struct {
	Status    string    `json:"status"`
	Message   string    `json:"message,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Health status constants.
const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
	StatusDegraded  = "degraded"
)

// Standard error codes.
//
// Error Code Strategy:
// - Upper-case with underscores for consistency
// - Maps to standard HTTP status codes
// - Machine-readable for client error handling
const (
	ErrorCodeNotFound          = "NOT_FOUND"           // 404: Resource doesn't exist
	ErrorCodeInvalidRequest    = "INVALID_REQUEST"     // 400: Invalid request data
	ErrorCodeValidation        = "VALIDATION_ERROR"    // 400: Input validation failed
	ErrorCodeMethodNotAllowed  = "METHOD_NOT_ALLOWED"  // 405: Wrong HTTP method
	ErrorCodeRateLimitExceeded = "RATE_LIMIT_EXCEEDED" // 429: Too many requests
	ErrorCodeInternalError     = "INTERNAL_ERROR"      // 500: Server-side error
	ErrorCodeUpstreamError     = "UPSTREAM_ERROR"      // 502: Email provider failure
)

func NewErrorResponse(message string, code string) *ErrorResponse {
	return &ErrorResponse{
		Error:     "error",
		Message:   message,
		Code:      code,
		Timestamp: time.Now(),
	}
}

// WithDetails attaches field-specific validation problems.
func (r *ErrorResponse) WithDetails(details map[string]string) *ErrorResponse {
	r.Details = details
	return r
}

// WithDetail attaches raw upstream error text.
func (r *ErrorResponse) WithDetail(detail string) *ErrorResponse {
	r.Detail = detail
	return r
}

func NewHealthCheckResponse(status string) *HealthCheckResponse {
	return &HealthCheckResponse{
		Status:     status,
		Timestamp:  time.Now(),
		Components: make(map[string]ComponentHealth),
	}
}

func (h *HealthCheckResponse) AddComponent(name, status, message string) {
	h.Components[name] = ComponentHealth{
		Status:    status,
		Message:   message,
		Timestamp: time.Now(),
	}
}
