package application

import (
	"context"
	"time"

	"resodo-gateway/middleware/ratelimit/domain"
)

// Service concentra a regra de aplicação do rate limit.
//
// Ele não sabe nada sobre HTTP (headers/status), apenas retorna uma decisão.
type Service struct {
	Store      domain.LimiterStore
	Policy     domain.Policy
	RetryAfter time.Duration
}

func (s Service) Decide(ctx context.Context, key domain.Key) domain.Decision {
	if s.Store == nil {
		return domain.Decision{Allowed: true, Remaining: -1}
	}
	if s.RetryAfter <= 0 {
		s.RetryAfter = 1 * time.Second
	}

	lim := s.Store.Get(key)
	if lim == nil {
		return domain.Decision{Allowed: true, Remaining: -1}
	}
	dec := lim.Allow(ctx)
	if dec.Allowed {
		dec.RetryAfter = 0
		return dec
	}
	if dec.RetryAfter <= 0 {
		dec.RetryAfter = s.RetryAfter
	}
	return dec
}

// Check é Decide com erro: a decisão volta sempre (headers, stats) e o erro é
// nil quando permitido ou *domain.RateLimitError (errors.Is
// ErrRateLimitExceeded) quando bloqueado.
func (s Service) Check(ctx context.Context, key domain.Key) (domain.Decision, error) {
	dec := s.Decide(ctx, key)
	if dec.Allowed {
		return dec, nil
	}
	policy := s.Policy
	if policy.Limit <= 0 {
		policy = domain.DefaultPolicy
	}
	return dec, &domain.RateLimitError{Key: key, Policy: policy, RetryAfter: dec.RetryAfter}
}
