package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRateLimiterCapsPerIP(t *testing.T) {
	rl := NewRateLimiter(3, time.Minute)
	handler := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	request := func(addr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)
		req.RemoteAddr = addr
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		return rr
	}

	for i := 0; i < 3; i++ {
		if rr := request("10.0.0.1:1234"); rr.Code != http.StatusOK {
			t.Fatalf("Request %d: expected 200, got %d", i+1, rr.Code)
		}
	}

	rr := request("10.0.0.1:1234")
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("Expected 429 past the limit, got %d", rr.Code)
	}
	if rr.Header().Get("Retry-After") != "60" {
		t.Errorf("Expected Retry-After 60, got %q", rr.Header().Get("Retry-After"))
	}

	// A different client is unaffected.
	if rr := request("10.0.0.2:1234"); rr.Code != http.StatusOK {
		t.Errorf("Expected other clients unaffected, got %d", rr.Code)
	}
}

func TestRateLimiterWindowResets(t *testing.T) {
	rl := NewRateLimiter(1, 20*time.Millisecond)
	handler := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	request := func() int {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		return rr.Code
	}

	if code := request(); code != http.StatusOK {
		t.Fatalf("Expected first request allowed, got %d", code)
	}
	if code := request(); code != http.StatusTooManyRequests {
		t.Fatalf("Expected second request limited, got %d", code)
	}

	time.Sleep(30 * time.Millisecond)
	if code := request(); code != http.StatusOK {
		t.Errorf("Expected a fresh window after expiry, got %d", code)
	}
}
