// Package ratelimit fornece adapters HTTP (net/http) para rate limit e limite de concorrência
// na frente do endpoint de contato.
//
// Visão geral (camadas):
//
//   - domain: contratos e tipos do domínio (sem dependência de net/http)
//   - application: casos de uso (decisão allow/deny, acquire/timeout) sem net/http
//   - infra: janela deslizante (memória/Redis), estatísticas, semáforo
//   - ratelimit (este pacote): middlewares HTTP + extração de chave + tradução para status/headers
//
// Fluxo:
//
//  1. Extrai a chave do cliente (header/XFF/IP)
//  2. Chama a camada application para obter a decisão
//  3. Se bloqueado, responde 429 (rate limit) ou 503 (concorrência)
//  4. Se permitido, chama o próximo handler com a chave no contexto (ClientKey)
//
// Variáveis de ambiente do binário (cmd/resodo) controlam o comportamento,
// como RATE_LIMIT, RATE_WINDOW, CONCURRENCY_MAX e CONCURRENCY_TIMEOUT.
package ratelimit
