// Package netx contains small networking helpers for the HTTP layer.
package netx

import (
	"net"
	"net/http"
	"strings"
)

// ClientIP returns the originating client address of a request. The first
// entry of X-Forwarded-For wins when a proxy set it; otherwise the host part
// of RemoteAddr is used.
func ClientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		parts := strings.Split(fwd, ",")
		if ip := strings.TrimSpace(parts[0]); ip != "" {
			return ip
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
