package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/safetrip/safetrip/internal/api/middleware"
)

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		xff        string
		realIP     string
		remoteAddr string
		want       string
	}{
		{"first forwarded entry wins", "49.36.10.4, 10.0.0.1", "1.1.1.1", "10.0.0.9:443", "49.36.10.4"},
		{"single forwarded entry", "203.0.113.7", "", "10.0.0.9:443", "203.0.113.7"},
		{"real ip header", "", "198.51.100.2", "10.0.0.9:443", "198.51.100.2"},
		{"peer address host", "", "", "192.0.2.10:51234", "192.0.2.10"},
		{"ipv6 peer", "", "", "[::1]:8080", "::1"},
		{"peer without port", "", "", "192.0.2.11", "192.0.2.11"},
		{"empty forwarded entry falls through", " , 10.0.0.1", "", "192.0.2.12:1", "192.0.2.12"},
		{"nothing available", "", "", "", middleware.FallbackClientIP},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/location", http.NoBody)
			req.RemoteAddr = tt.remoteAddr
			if tt.xff != "" {
				req.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.realIP != "" {
				req.Header.Set("X-Real-IP", tt.realIP)
			}

			assert.Equal(t, tt.want, middleware.ClientIP(req))
		})
	}
}
