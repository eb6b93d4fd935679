// Package domain define os tipos do pipeline de contato/resolução: entradas
// de contato, o request validado, a resposta JSON, a taxonomia de erros e as
// portas para os colaboradores externos (crawler, modelo, compositor de PDF).
//
// Não depende de net/http nem de bibliotecas de infraestrutura.
package domain
