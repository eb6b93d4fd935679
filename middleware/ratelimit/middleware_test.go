package ratelimit

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"resodo-gateway/middleware/ratelimit/domain"
	"resodo-gateway/middleware/ratelimit/infra"
)

func doGet(h http.Handler, remoteAddr string) *httptest.ResponseRecorder {
	r := httptest.NewRequest(http.MethodGet, "http://example/contact-info", nil)
	r.RemoteAddr = remoteAddr
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

func TestMiddleware_AllowsTenThenRejectsEleventh(t *testing.T) {
	store := infra.NewWindowStore(domain.DefaultPolicy)
	stats := infra.NewMemoryStatsStore()

	calls := 0
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, "ok")
	})

	h := Middleware(Options{
		Store:               store,
		Stats:               stats,
		AddRateLimitHeaders: true,
	})(next)

	for i := 0; i < 10; i++ {
		w := doGet(h, "10.0.0.1:1234")
		if w.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i+1, w.Code)
		}
	}

	w := doGet(h, "10.0.0.1:1234")
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", w.Code)
	}
	if got := w.Header().Get("Retry-After"); got == "" || got == "0" {
		t.Fatalf("expected positive Retry-After header, got %q", got)
	}
	if got := w.Header().Get("X-RateLimit-Limit"); got != "10" {
		t.Fatalf("expected X-RateLimit-Limit=10, got %q", got)
	}
	if got := w.Header().Get("X-RateLimit-Window"); got != "60" {
		t.Fatalf("expected X-RateLimit-Window=60, got %q", got)
	}
	if got := w.Header().Get("X-RateLimit-Remaining"); got != "0" {
		t.Fatalf("expected X-RateLimit-Remaining=0, got %q", got)
	}
	if !strings.Contains(w.Body.String(), "Maximum 10 requests per minute") {
		t.Fatalf("unexpected body %q", w.Body.String())
	}

	if calls != 10 {
		t.Fatalf("expected next handler to be called 10 times, got %d", calls)
	}
	if got := store.Count("10.0.0.1"); got != 10 {
		t.Fatalf("expected window to hold 10 hits, got %d", got)
	}
	if total := stats.Total(); total.Allowed != 10 || total.Denied != 1 {
		t.Fatalf("unexpected stats %+v", total)
	}
}

func TestMiddleware_KeyByHeader(t *testing.T) {
	store := infra.NewWindowStore(domain.Policy{Limit: 1, Window: time.Minute})

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	h := Middleware(Options{
		Store:     store,
		KeyHeader: "X-Api-Key",
	})(next)

	// duas chaves diferentes => ambas passam (cada chave tem sua própria janela)
	for _, key := range []string{"k1", "k2"} {
		r := httptest.NewRequest(http.MethodGet, "http://example/", nil)
		r.Header.Set("X-Api-Key", key)
		r.RemoteAddr = "10.0.0.1:1234"
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200 for key %s, got %d", key, w.Code)
		}
	}
}

func TestMiddleware_RetryAfterRoundsUp(t *testing.T) {
	// sem WindowStore: o limiter não sugere retry, vale o configurado
	h := Middleware(Options{
		Store:      denyAll{},
		RetryAfter: 2500 * time.Millisecond,
	})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	w := doGet(h, "10.0.0.1:1234")
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", w.Code)
	}
	if got := strings.TrimSpace(w.Header().Get("Retry-After")); got != "3" {
		t.Fatalf("expected Retry-After=3, got %q", got)
	}
}

func TestMiddleware_OnRejectAndClientKey(t *testing.T) {
	var seen string
	var rejected *domain.RateLimitError
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = ClientKey(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	store := infra.NewWindowStore(domain.Policy{Limit: 1, Window: time.Minute})
	h := Middleware(Options{
		Store: store,
		OnReject: func(w http.ResponseWriter, r *http.Request, err *domain.RateLimitError) {
			rejected = err
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = io.WriteString(w, `{"detail":"`+err.Error()+`"}`)
		},
	})(next)

	if w := doGet(h, "192.168.1.7:9000"); w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if seen != "192.168.1.7" {
		t.Fatalf("expected client key in context, got %q", seen)
	}

	w := doGet(h, "192.168.1.7:9000")
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected custom reject writer, got content-type %q", ct)
	}
	if rejected == nil || rejected.Key != "192.168.1.7" || rejected.Policy.Limit != 1 {
		t.Fatalf("expected rate limit error for the client key and store policy, got %+v", rejected)
	}
	if !errors.Is(rejected, domain.ErrRateLimitExceeded) {
		t.Fatalf("expected ErrRateLimitExceeded")
	}
}

type denyAll struct{}

func (denyAll) Get(domain.Key) domain.Limiter { return denyAll{} }

func (denyAll) Allow(context.Context) domain.Decision { return domain.Decision{Remaining: -1} }
