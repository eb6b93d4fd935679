// Package application contém os casos de uso para rate limit e limite de
// concorrência do gateway de contato.
//
// Ele depende apenas do pacote domain e não conhece net/http.
// Ex.: Service.Check(ctx, key) devolve a decisão e, se bloqueado, um
// *domain.RateLimitError.
package application
