package clientip

import (
	"net"
	"net/http"
	"strings"
)

// RealClientIP returns the client IP for a request. It trusts
// X-Forwarded-For first (leftmost hop) since the app usually sits behind a
// reverse proxy, and falls back to RemoteAddr.
func RealClientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if idx := strings.Index(fwd, ","); idx != -1 {
			fwd = fwd[:idx]
		}
		if ip := strings.TrimSpace(fwd); ip != "" {
			return ip
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return strings.TrimSpace(r.RemoteAddr)
	}
	return strings.TrimSpace(host)
}
