package ratelimit

import (
	"net/http"
	"strings"
)

// ClientIdentifier derives a best-effort client key from the request's proxy
// headers, in the order the edge providers set them: CF-Connecting-IP, then
// X-Real-IP, then X-Forwarded-For, then the transport's remote address, then
// the literal "unknown".
//
// The result is treated as an opaque string key, not validated as an IP.
// These headers are spoofable by clients not behind the trusted proxy; that
// is a known limitation of header-based identification.
func ClientIdentifier(r *http.Request) string {
	ip := r.Header.Get("CF-Connecting-IP")
	if ip == "" {
		ip = r.Header.Get("X-Real-IP")
	}
	if ip == "" {
		ip = r.Header.Get("X-Forwarded-For")
	}
	if ip == "" {
		ip = r.RemoteAddr
	}
	if ip == "" {
		return "unknown"
	}

	// X-Forwarded-For chains grow one hop per proxy; the first entry is the
	// original client.
	if i := strings.IndexByte(ip, ','); i >= 0 {
		ip = ip[:i]
	}
	return strings.TrimSpace(ip)
}
