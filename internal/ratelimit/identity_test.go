package ratelimit

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClientIdentifier_CloudflareHeaderWins(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("CF-Connecting-IP", "1.1.1.1")
	req.Header.Set("X-Real-IP", "9.9.9.9")
	req.Header.Set("X-Forwarded-For", "2.2.2.2, 3.3.3.3")

	assert.Equal(t, "1.1.1.1", ClientIdentifier(req))
}

func TestClientIdentifier_RealIPBeforeForwardedFor(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("X-Real-IP", "9.9.9.9")
	req.Header.Set("X-Forwarded-For", "2.2.2.2")

	assert.Equal(t, "9.9.9.9", ClientIdentifier(req))
}

func TestClientIdentifier_ForwardedForFirstHop(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("X-Forwarded-For", "2.2.2.2, 3.3.3.3")

	assert.Equal(t, "2.2.2.2", ClientIdentifier(req))
}

func TestClientIdentifier_ForwardedForTrimsWhitespace(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("X-Forwarded-For", "  2.2.2.2 , 3.3.3.3")

	assert.Equal(t, "2.2.2.2", ClientIdentifier(req))
}

func TestClientIdentifier_FallsBackToRemoteAddr(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "192.0.2.10:54321"

	assert.Equal(t, "192.0.2.10:54321", ClientIdentifier(req))
}

func TestClientIdentifier_Unknown(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = ""

	assert.Equal(t, "unknown", ClientIdentifier(req))
}
