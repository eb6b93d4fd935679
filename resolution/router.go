package resolution

import (
	"log/slog"
	"net/http"

	"resodo-gateway/middleware/ratelimit"
	"resodo-gateway/middleware/ratelimit/domain"
	"resodo-gateway/resolution/application"

	"github.com/go-chi/chi/v5"
)

type Middleware = func(http.Handler) http.Handler

type RouterOptions struct {
	ContactInfo http.Handler
	// RateLimit e Concurrency envolvem só /contact-info. nil = desligado.
	RateLimit   Middleware
	Concurrency Middleware
	Stats       http.Handler
	Metrics     http.Handler
	Logger      *slog.Logger
}

func NewRouter(opts RouterOptions) http.Handler {
	r := chi.NewRouter()
	r.Use(RequestID(opts.Logger), AccessLog(opts.Logger), Recover(opts.Logger))

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"message": "ALL SYSTEMS ONLINE", "status": "running"})
	})

	r.Group(func(g chi.Router) {
		// rate limit antes da validação: request inválido também conta
		if opts.RateLimit != nil {
			g.Use(opts.RateLimit)
		}
		if opts.Concurrency != nil {
			g.Use(opts.Concurrency)
		}
		g.Method(http.MethodGet, "/contact-info", opts.ContactInfo)
	})

	if opts.Stats != nil {
		r.Method(http.MethodGet, "/stats", opts.Stats)
	}
	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics)
	}
	return r
}

// RejectRateLimited é o ratelimit.RejectFunc da API: 429 com {"detail": ...}.
func RejectRateLimited(w http.ResponseWriter, r *http.Request, err *domain.RateLimitError) {
	application.LoggerFrom(r.Context(), nil).Info("rate limited",
		"client", string(err.Key), "retry_after", err.RetryAfter)
	writeDetail(w, http.StatusTooManyRequests, err.Error())
}

var _ ratelimit.RejectFunc = RejectRateLimited

// StatsHandler serve o snapshot devolvido por snapshot() como JSON.
func StatsHandler[T any](snapshot func() T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, snapshot())
	})
}
