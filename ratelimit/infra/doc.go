// Package infra contém implementações concretas dos contratos do pacote domain.
//
//   - SlidingWindow: gate em processo (log deslizante + fila FIFO)
//   - RedisWindow: gate compartilhado entre instâncias (sorted set + Lua)
//   - Store: token bucket por chave usando golang.org/x/time/rate
//   - ChanPool: semáforo simples para limite de concorrência
//   - MemoryStatsStore / RedisStatsStore / MultiStats: estatísticas
package infra
