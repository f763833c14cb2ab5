// Package application contém os casos de uso de controle de vazão e concorrência.
//
// Ele depende apenas do pacote domain e não conhece net/http.
//
//   - Dispatcher.Do: pede permissão ao Gate e só então executa a chamada remota
//   - Service.Decide: decisão allow/deny por chamador (entrada)
//   - ConcurrencyService.Acquire: vaga com timeout
package application
