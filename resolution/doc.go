// Package resolution é a borda HTTP do pipeline de contato: lê os parâmetros
// de GET /contact-info, chama o pipeline e responde com o PDF ou com o JSON
// degradado. Também monta o roteador chi com rate limit, limite de
// concorrência, /stats e /metrics.
package resolution
