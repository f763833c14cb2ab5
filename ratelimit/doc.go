// Package ratelimit fornece os middlewares HTTP de proteção da API admin.
//
// Camadas:
//
//   - domain: contratos (Gate, Limiter, SlotPool, StatsStore), sem net/http
//   - application: casos de uso (Dispatcher, Decide, Acquire), sem net/http
//   - infra: implementações (janela deslizante, Redis, token bucket, semáforo)
//   - ratelimit (este pacote): middlewares + extração de chave + tradução para envelope/status
//
// Fluxo de um request admin:
//
//  1. Extrai a chave do chamador (header/XFF/RemoteAddr)
//  2. Decide allow/deny; bloqueado => 429 RATE_LIMITED
//  3. Tenta uma vaga de concorrência; sem vaga => 503 SERVER_BUSY
//  4. Chama o próximo handler
//
// O controle de vazão das chamadas para a plataforma remota não passa por aqui:
// ele fica em application.Dispatcher, usado pelo pacote mux.
package ratelimit
