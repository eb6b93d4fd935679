package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"resodo-gateway/middleware/ratelimit/domain"
)

type fakeLimiter struct {
	dec   domain.Decision
	calls int
}

func (f *fakeLimiter) Allow(context.Context) domain.Decision {
	f.calls++
	return f.dec
}

type fakeStore struct {
	lim domain.Limiter
}

func (s fakeStore) Get(domain.Key) domain.Limiter { return s.lim }

func TestService_Decide_AllowsWhenNoStore(t *testing.T) {
	svc := Service{}
	dec := svc.Decide(context.Background(), "k")
	if !dec.Allowed {
		t.Fatalf("expected allowed")
	}
	if dec.RetryAfter != 0 {
		t.Fatalf("expected RetryAfter=0 when allowed, got %s", dec.RetryAfter)
	}
}

func TestService_Decide_AllowsWhenLimiterAllows(t *testing.T) {
	lim := &fakeLimiter{dec: domain.Decision{Allowed: true, Remaining: 3}}
	svc := Service{Store: fakeStore{lim: lim}, RetryAfter: 5 * time.Second}
	dec := svc.Decide(context.Background(), "k")
	if !dec.Allowed {
		t.Fatalf("expected allowed")
	}
	if dec.Remaining != 3 {
		t.Fatalf("expected Remaining=3, got %d", dec.Remaining)
	}
	if lim.calls != 1 {
		t.Fatalf("expected limiter to be consulted once, got %d", lim.calls)
	}
}

func TestService_Decide_BlocksWithRetryAfterDefault(t *testing.T) {
	svc := Service{Store: fakeStore{lim: &fakeLimiter{}}}
	dec := svc.Decide(context.Background(), "k")
	if dec.Allowed {
		t.Fatalf("expected blocked")
	}
	if dec.RetryAfter != 1*time.Second {
		t.Fatalf("expected default RetryAfter=1s, got %s", dec.RetryAfter)
	}
}

func TestService_Decide_PrefersLimiterRetryAfter(t *testing.T) {
	lim := &fakeLimiter{dec: domain.Decision{RetryAfter: 42 * time.Second}}
	svc := Service{Store: fakeStore{lim: lim}, RetryAfter: 2500 * time.Millisecond}
	dec := svc.Decide(context.Background(), "k")
	if dec.Allowed {
		t.Fatalf("expected blocked")
	}
	if dec.RetryAfter != 42*time.Second {
		t.Fatalf("expected RetryAfter=42s from limiter, got %s", dec.RetryAfter)
	}
}

func TestService_Check_ReturnsRateLimitError(t *testing.T) {
	svc := Service{Store: fakeStore{lim: &fakeLimiter{}}, Policy: domain.DefaultPolicy}
	dec, err := svc.Check(context.Background(), "10.0.0.1")
	if dec.Allowed {
		t.Fatalf("expected decision to be carried as denied")
	}
	if !errors.Is(err, domain.ErrRateLimitExceeded) {
		t.Fatalf("expected ErrRateLimitExceeded, got %v", err)
	}
	var rle *domain.RateLimitError
	if !errors.As(err, &rle) {
		t.Fatalf("expected *RateLimitError, got %T", err)
	}
	if rle.Key != "10.0.0.1" {
		t.Fatalf("expected key to be carried, got %q", rle.Key)
	}
	if got := rle.Error(); got != "Rate limit exceeded. Maximum 10 requests per minute." {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestService_Check_NilWhenAllowed(t *testing.T) {
	svc := Service{Store: fakeStore{lim: &fakeLimiter{dec: domain.Decision{Allowed: true}}}}
	if _, err := svc.Check(context.Background(), "k"); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}
