// Package domain define contratos e tipos de domínio para controle de vazão e concorrência.
//
// Há dois lados:
//
//   - saída: Gate controla a vazão de chamadas para a plataforma remota
//     (no máximo Capacity permissões em qualquer janela de Interval)
//   - entrada: Limiter/LimiterStore e SlotPool protegem a própria API admin
//
// Este pacote não depende de net/http nem de implementações concretas.
package domain
