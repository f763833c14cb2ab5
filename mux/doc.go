// Package mux é o cliente da plataforma de vídeo (API estilo Mux: /video/v1 e /data/v1).
//
// A plataforma aceita no máximo 20 chamadas por segundo por conta. Nada aqui
// chama Client diretamente a partir de handlers: a montagem é
//
//	NewBreaker(NewRateLimited(NewClient(...), dispatcher), cfg)
//
// de forma que todas as chamadas passam pelo mesmo gate.
package mux
