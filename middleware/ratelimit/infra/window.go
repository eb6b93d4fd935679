package infra

import (
	"context"
	"sync"
	"time"

	"resodo-gateway/middleware/ratelimit/domain"
)

// WindowStore é o limiter de janela deslizante em memória: para cada chave
// guarda os instantes das requisições aceitas nos últimos Policy.Window.
//
// O estado é do próprio store (nada global). Não é compartilhado entre
// processos; para isso use RedisWindowStore.
type WindowStore struct {
	mu           sync.Mutex
	entries      map[string]*windowEntry
	policy       domain.Policy
	idleTTL      time.Duration
	cleanupEvery time.Duration
	now          func() time.Time
}

type windowEntry struct {
	hits     []time.Time
	lastSeen time.Time
}

type WindowOption func(*WindowStore)

// WithIdleTTL define após quanto tempo sem requisições a chave é descartada.
// O padrão é a própria janela: depois disso ela estaria vazia de qualquer forma.
func WithIdleTTL(d time.Duration) WindowOption {
	return func(s *WindowStore) { s.idleTTL = d }
}

func WithCleanupEvery(d time.Duration) WindowOption {
	return func(s *WindowStore) { s.cleanupEvery = d }
}

// WithClock troca o relógio (testes).
func WithClock(now func() time.Time) WindowOption {
	return func(s *WindowStore) { s.now = now }
}

func NewWindowStore(policy domain.Policy, opts ...WindowOption) *WindowStore {
	if policy.Limit <= 0 || policy.Window <= 0 {
		policy = domain.DefaultPolicy
	}
	s := &WindowStore{
		entries:      make(map[string]*windowEntry),
		policy:       policy,
		idleTTL:      policy.Window,
		cleanupEvery: 2 * time.Minute,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *WindowStore) Policy() domain.Policy       { return s.policy }
func (s *WindowStore) CleanupEvery() time.Duration { return s.cleanupEvery }

// Get implementa domain.LimiterStore.
func (s *WindowStore) Get(key domain.Key) domain.Limiter {
	return windowLimiter{store: s, key: string(key)}
}

type windowLimiter struct {
	store *WindowStore
	key   string
}

func (l windowLimiter) Allow(context.Context) domain.Decision {
	return l.store.allow(l.key)
}

func (s *WindowStore) allow(key string) domain.Decision {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	ent, ok := s.entries[key]
	if !ok {
		ent = &windowEntry{}
		s.entries[key] = ent
	}
	ent.prune(now.Add(-s.policy.Window))
	ent.lastSeen = now

	if len(ent.hits) >= s.policy.Limit {
		// bloqueado: não registra o instante
		return domain.Decision{
			Allowed:    false,
			RetryAfter: ent.hits[0].Add(s.policy.Window).Sub(now),
			Remaining:  0,
		}
	}

	ent.hits = append(ent.hits, now)
	return domain.Decision{Allowed: true, Remaining: s.policy.Limit - len(ent.hits)}
}

// prune descarta instantes em ou antes de cutoff (idade >= janela).
func (e *windowEntry) prune(cutoff time.Time) {
	i := 0
	for i < len(e.hits) && !e.hits[i].After(cutoff) {
		i++
	}
	if i > 0 {
		e.hits = append(e.hits[:0], e.hits[i:]...)
	}
}

// Count devolve quantas requisições da chave estão dentro da janela agora.
func (s *WindowStore) Count(key domain.Key) int {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	ent, ok := s.entries[string(key)]
	if !ok {
		return 0
	}
	ent.prune(now.Add(-s.policy.Window))
	return len(ent.hits)
}

// Len devolve quantas chaves estão sendo rastreadas.
func (s *WindowStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *WindowStore) Cleanup() {
	cutoff := s.now().Add(-s.idleTTL)

	s.mu.Lock()
	defer s.mu.Unlock()

	for k, ent := range s.entries {
		if !ent.lastSeen.After(cutoff) {
			delete(s.entries, k)
		}
	}
}

// StartJanitor inicia uma goroutine que limpa chaves inativas periodicamente.
// Pare cancelando o contexto.
func (s *WindowStore) StartJanitor(ctx context.Context) {
	if s.cleanupEvery <= 0 {
		return
	}

	t := time.NewTicker(s.cleanupEvery)
	go func() {
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				s.Cleanup()
			}
		}
	}()
}
