// Package application implementa o pipeline de contato sem conhecer HTTP nem
// as bibliotecas de infraestrutura:
//
//   - validação do request (ValidateRequest e validadores por campo)
//   - janela de contato (ExtractContactWindow) que limita o texto enviado ao modelo
//   - parser de contatos (ParseContacts), função total sobre a saída do modelo
//   - formatação de contatos para o documento (NormalizeContacts/FormatContacts)
//   - orquestração (Service.Run): crawl → janela → contatos → minuta → PDF | JSON
package application
