// Package infra contém implementações concretas (infraestrutura) para os contratos
// definidos no pacote domain.
//
//   - WindowStore: janela deslizante por chave em memória, com janitor
//   - RedisWindowStore: a mesma janela em Redis (sorted set + script Lua)
//   - MemoryStatsStore / RedisStatsStore / PrometheusStatsStore: contadores de decisão
//   - ChanPool: semáforo simples para limite de pipelines simultâneos
package infra
