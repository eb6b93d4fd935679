package ratelimit

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	"resodo-gateway/middleware/ratelimit/application"
	"resodo-gateway/middleware/ratelimit/domain"
)

type KeyFunc func(r *http.Request) string

// RejectFunc escreve a resposta de bloqueio. Retry-After já foi definido.
type RejectFunc func(w http.ResponseWriter, r *http.Request, err *domain.RateLimitError)

type Options struct {
	Store               domain.LimiterStore
	Stats               domain.StatsStore
	Policy              domain.Policy
	KeyFn               KeyFunc
	KeyHeader           string
	TrustXForwardedFor  bool
	RetryAfter          time.Duration
	AddRateLimitHeaders bool
	OnReject            RejectFunc
}

type policyInfo interface {
	Policy() domain.Policy
}

type ctxKey struct{}

// ClientKey devolve a chave do cliente calculada pelo middleware ("" se não passou por ele).
func ClientKey(ctx context.Context) string {
	k, _ := ctx.Value(ctxKey{}).(string)
	return k
}

func DefaultKeyFunc(keyHeader string, trustXFF bool) KeyFunc {
	return func(r *http.Request) string {
		if keyHeader != "" {
			if v := strings.TrimSpace(r.Header.Get(keyHeader)); v != "" {
				return v
			}
		}

		if trustXFF {
			// pega o primeiro IP do X-Forwarded-For (cliente original)
			if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
				first, _, _ := strings.Cut(xff, ",")
				if ip := strings.TrimSpace(first); ip != "" {
					return ip
				}
			}
		}

		// fallback: RemoteAddr
		host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
		if err == nil && host != "" {
			return host
		}
		if r.RemoteAddr != "" {
			return r.RemoteAddr
		}
		return "unknown"
	}
}

func defaultReject(w http.ResponseWriter, _ *http.Request, err *domain.RateLimitError) {
	http.Error(w, err.Error(), http.StatusTooManyRequests)
}

func Middleware(opts Options) func(next http.Handler) http.Handler {
	if opts.RetryAfter == 0 {
		opts.RetryAfter = 1 * time.Second
	}
	if opts.KeyFn == nil {
		opts.KeyFn = DefaultKeyFunc(opts.KeyHeader, opts.TrustXForwardedFor)
	}
	if opts.OnReject == nil {
		opts.OnReject = defaultReject
	}
	if opts.Policy.Limit <= 0 {
		if pi, ok := opts.Store.(policyInfo); ok {
			opts.Policy = pi.Policy()
		} else {
			opts.Policy = domain.DefaultPolicy
		}
	}

	svc := application.Service{
		Store:      opts.Store,
		Policy:     opts.Policy,
		RetryAfter: opts.RetryAfter,
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := opts.KeyFn(r)

			dec, err := svc.Check(r.Context(), domain.Key(key))
			if opts.Stats != nil {
				_ = opts.Stats.Record(r.Context(), domain.StatsEvent{
					Key:     domain.Key(key),
					Allowed: dec.Allowed,
					Method:  r.Method,
					Path:    r.URL.Path,
					At:      time.Now(),
				})
			}

			if opts.AddRateLimitHeaders {
				w.Header().Set("X-RateLimit-Key", key)
				w.Header().Set("X-RateLimit-Limit", formatInt(opts.Policy.Limit))
				w.Header().Set("X-RateLimit-Window", formatSeconds(opts.Policy.Window))
				if dec.Remaining >= 0 {
					w.Header().Set("X-RateLimit-Remaining", formatInt(dec.Remaining))
				}
			}

			var rle *domain.RateLimitError
			if errors.As(err, &rle) {
				w.Header().Set("Retry-After", formatSeconds(rle.RetryAfter))
				opts.OnReject(w, r, rle)
				return
			}

			ctx := context.WithValue(r.Context(), ctxKey{}, key)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
