package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewErrorResponse(t *testing.T) {
	resp := NewErrorResponse("something went wrong", ErrorCodeInternalError)

	assert.Equal(t, "error", resp.Error)
	assert.Equal(t, "something went wrong", resp.Message)
	assert.Equal(t, ErrorCodeInternalError, resp.Code)
	assert.False(t, resp.Timestamp.IsZero())
}

func TestErrorResponse_WithDetails(t *testing.T) {
	resp := NewErrorResponse("Validation failed", ErrorCodeValidation).
		WithDetails(map[string]string{"email": "must be a valid email address"})

	data, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"details":{"email"`)
}

func TestErrorResponse_OmitsEmptyFields(t *testing.T) {
	resp := NewErrorResponse("nope", ErrorCodeNotFound)

	data, err := json.Marshal(resp)
	require.NoError(t, err)

	s := string(data)
	assert.NotContains(t, s, "details")
	assert.NotContains(t, s, "detail")
	assert.NotContains(t, s, "retry_after")
}

func TestErrorResponse_RetryAfterSerialized(t *testing.T) {
	resp := NewErrorResponse("Rate limit exceeded", ErrorCodeRateLimitExceeded)
	resp.RetryAfter = 42

	data, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"retry_after":42`)
}

func TestHealthCheckResponse(t *testing.T) {
	resp := NewHealthCheckResponse(StatusHealthy)
	resp.AddComponent("storage", StatusHealthy, "Storage is operational")
	resp.AddComponent("api", StatusDegraded, "slow")

	assert.Equal(t, StatusHealthy, resp.Status)
	require.Len(t, resp.Components, 2)
	assert.Equal(t, StatusDegraded, resp.Components["api"].Status)
	assert.Equal(t, "slow", resp.Components["api"].Message)
}
