// Package infra implementa as portas de resolution/domain: crawler (colly),
// completer (API compatível com OpenAI), compositor de PDF (fpdf + pdfcpu),
// além das métricas Prometheus do pipeline e do arquivo de configuração YAML.
package infra
