// Package respond traduz um result.Result concluído em uma resposta HTTP.
//
// Map é pura: mesmo input, mesmo output, sem log e sem redação.
// Write é o passo com efeito colateral (serializa no http.ResponseWriter).
//
// Cada endpoint declara seu conjunto fechado de códigos e uma Table código->status.
// NewTable/MustTable recusam uma tabela que não cobre todos os códigos declarados,
// então um código esquecido quebra no boot (e nos testes), não em produção.
// Se mesmo assim um código sem entrada chegar a Map, o status cai para 500.
package respond
