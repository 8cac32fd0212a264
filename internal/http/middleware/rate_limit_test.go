package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestLocalFixedWindowLimiter(t *testing.T) {
	limiter := NewLocalFixedWindowLimiter()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		allowed, _, err := limiter.Allow(ctx, "k", 3, time.Minute)
		if err != nil {
			t.Fatal(err)
		}
		if !allowed {
			t.Fatalf("request %d should be allowed", i)
		}
	}
	allowed, retryAfter, err := limiter.Allow(ctx, "k", 3, time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	if allowed {
		t.Fatal("fourth request should be limited")
	}
	if retryAfter <= 0 {
		t.Fatalf("retry after = %v", retryAfter)
	}

	// Other keys are independent.
	if allowed, _, _ := limiter.Allow(ctx, "other", 3, time.Minute); !allowed {
		t.Fatal("independent key should be allowed")
	}
}

func TestRateLimiterMiddlewareLimits(t *testing.T) {
	rl := NewRateLimiter(NewLocalFixedWindowLimiter(), 2, time.Minute, FailClosed, "login")
	h := rl.Middleware()(okHandler())

	for i := 0; i < 2; i++ {
		rr := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/login", nil)
		r.RemoteAddr = "203.0.113.7:1000"
		h.ServeHTTP(rr, r)
		if rr.Code != http.StatusOK {
			t.Fatalf("request %d: status %d", i, rr.Code)
		}
	}

	rr := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/login", nil)
	r.RemoteAddr = "203.0.113.7:1000"
	h.ServeHTTP(rr, r)
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", rr.Code)
	}
	if rr.Header().Get("Retry-After") == "" {
		t.Fatal("expected Retry-After header")
	}

	// A different client address gets its own window.
	rr = httptest.NewRecorder()
	r = httptest.NewRequest(http.MethodPost, "/login", nil)
	r.RemoteAddr = "198.51.100.2:1000"
	h.ServeHTTP(rr, r)
	if rr.Code != http.StatusOK {
		t.Fatalf("other client: status %d", rr.Code)
	}
}

type failingLimiter struct{}

func (failingLimiter) Allow(context.Context, string, int, time.Duration) (bool, time.Duration, error) {
	return false, 0, errors.New("backend unavailable")
}

func TestRateLimiterFailureModes(t *testing.T) {
	closed := NewRateLimiter(failingLimiter{}, 10, time.Minute, FailClosed, "login")
	rr := httptest.NewRecorder()
	closed.Middleware()(okHandler()).ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/login", nil))
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("fail closed: status %d", rr.Code)
	}

	open := NewRateLimiter(failingLimiter{}, 10, time.Minute, FailOpen, "login")
	rr = httptest.NewRecorder()
	open.Middleware()(okHandler()).ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/login", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("fail open: status %d", rr.Code)
	}
}

func TestRedisFixedWindowLimiter(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	limiter := NewRedisFixedWindowLimiter(client, "rl")
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		allowed, _, err := limiter.Allow(ctx, "login:1.2.3.4", 2, time.Minute)
		if err != nil {
			t.Fatal(err)
		}
		if !allowed {
			t.Fatalf("request %d should be allowed", i)
		}
	}
	allowed, retryAfter, err := limiter.Allow(ctx, "login:1.2.3.4", 2, time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	if allowed {
		t.Fatal("third request should be limited")
	}
	if retryAfter <= 0 || retryAfter > time.Minute {
		t.Fatalf("retry after = %v", retryAfter)
	}

	// Window expiry resets the count.
	mr.FastForward(2 * time.Minute)
	if allowed, _, _ := limiter.Allow(ctx, "login:1.2.3.4", 2, time.Minute); !allowed {
		t.Fatal("request after window should be allowed")
	}
}
