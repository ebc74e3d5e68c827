package netx

import (
	"net/http/httptest"
	"testing"
)

func TestClientIP(t *testing.T) {
	t.Run("remote addr host", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/", nil)
		r.RemoteAddr = "10.1.2.3:54321"
		if got := ClientIP(r); got != "10.1.2.3" {
			t.Fatalf("ClientIP = %q, want 10.1.2.3", got)
		}
	})

	t.Run("forwarded-for wins", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/", nil)
		r.RemoteAddr = "10.1.2.3:54321"
		r.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
		if got := ClientIP(r); got != "203.0.113.7" {
			t.Fatalf("ClientIP = %q, want 203.0.113.7", got)
		}
	})

	t.Run("forwarded-for with spaces", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/", nil)
		r.RemoteAddr = "10.1.2.3:54321"
		r.Header.Set("X-Forwarded-For", "  203.0.113.7  ")
		if got := ClientIP(r); got != "203.0.113.7" {
			t.Fatalf("ClientIP = %q, want 203.0.113.7", got)
		}
	})

	t.Run("remote addr without port", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/", nil)
		r.RemoteAddr = "10.1.2.3"
		if got := ClientIP(r); got != "10.1.2.3" {
			t.Fatalf("ClientIP = %q, want 10.1.2.3", got)
		}
	})
}
