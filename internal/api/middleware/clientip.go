package middleware

import (
	"net"
	"net/http"
	"strings"
)

// FallbackClientIP is used when no address can be read from the request.
const FallbackClientIP = "8.8.8.8"

// ClientIP returns the caller's address: the first X-Forwarded-For entry,
// then X-Real-IP, then the host part of the peer address.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if first := strings.TrimSpace(strings.Split(xff, ",")[0]); first != "" {
			return first
		}
	}
	if real := strings.TrimSpace(r.Header.Get("X-Real-IP")); real != "" {
		return real
	}
	if r.RemoteAddr != "" {
		host, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			return r.RemoteAddr
		}
		if host != "" {
			return host
		}
	}
	return FallbackClientIP
}
