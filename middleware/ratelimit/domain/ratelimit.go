package domain

// Camada de domínio do rate limit.
//
// Regras e contratos (interfaces/tipos) sem dependência de net/http.

import (
	"context"
	"errors"
	"fmt"
	"time"
)

type Key string

// ErrRateLimitExceeded é o sinal de bloqueio. Use errors.Is para detectar.
var ErrRateLimitExceeded = errors.New("rate limit exceeded")

// Limiter decide se a tentativa atual é permitida e, se for, já a contabiliza.
//
// Tentativas bloqueadas não são registradas: a janela continua com o que já
// tinha, então quem insiste não empurra o próprio desbloqueio para frente.
type Limiter interface {
	Allow(ctx context.Context) Decision
}

// LimiterStore obtém um limiter por chave (ex: IP, API key, usuário).
// A implementação é dona do estado (mapa em memória, Redis, etc.).
type LimiterStore interface {
	Get(Key) Limiter
}

type Decision struct {
	Allowed bool
	// RetryAfter é o valor a ser retornado em Retry-After quando bloquear.
	// Se 0, não há recomendação.
	RetryAfter time.Duration
	// Remaining é quantas requisições ainda cabem na janela (-1 = desconhecido).
	Remaining int
}

// Policy descreve a janela deslizante: no máximo Limit requisições em Window.
type Policy struct {
	Limit  int
	Window time.Duration
}

// DefaultPolicy: 10 requisições por minuto por cliente.
var DefaultPolicy = Policy{Limit: 10, Window: time.Minute}

// RateLimitError carrega a decisão de bloqueio até a borda HTTP.
type RateLimitError struct {
	Key        Key
	Policy     Policy
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("Rate limit exceeded. Maximum %d requests per %s.", e.Policy.Limit, windowLabel(e.Policy.Window))
}

func (e *RateLimitError) Unwrap() error { return ErrRateLimitExceeded }

func windowLabel(d time.Duration) string {
	if d == time.Minute {
		return "minute"
	}
	return d.String()
}
