// Package domain define contratos e tipos de domínio para rate limit e concorrência.
//
// Este pacote não depende de net/http nem de implementações concretas.
// O limite padrão é uma janela deslizante de 10 requisições por minuto por IP.
package domain
