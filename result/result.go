package result

// Error é a variante de falha: um código de um conjunto fechado e uma mensagem legível.
type Error[E ~string] struct {
	Code    E      `json:"code"`
	Message string `json:"message"`
}

// Result é imutável: os campos não são exportados e todos os métodos usam receiver por valor.
type Result[T any, E ~string] struct {
	ok   bool
	data T
	err  Error[E]
}

func Ok[T any, E ~string](data T) Result[T, E] {
	return Result[T, E]{ok: true, data: data}
}

// Err cria a variante de falha. A mensagem é opcional; sem ela, a mensagem é o próprio código.
func Err[T any, E ~string](code E, message ...string) Result[T, E] {
	msg := string(code)
	if len(message) > 0 {
		msg = message[0]
	}
	return Result[T, E]{err: Error[E]{Code: code, Message: msg}}
}

func (r Result[T, E]) OK() bool { return r.ok }

// Data retorna o payload. Em uma falha retorna o zero value de T.
func (r Result[T, E]) Data() T { return r.data }

// Error retorna {code, message}. Em um sucesso retorna o zero value.
func (r Result[T, E]) Error() Error[E] { return r.err }

// Unwrap devolve as duas variantes de uma vez, no estilo "comma ok".
func (r Result[T, E]) Unwrap() (T, Error[E], bool) {
	return r.data, r.err, r.ok
}

// Map transforma o payload de um sucesso; falhas passam adiante sem alteração.
func Map[T, U any, E ~string](r Result[T, E], fn func(T) U) Result[U, E] {
	if !r.ok {
		return Result[U, E]{err: r.err}
	}
	return Ok[U, E](fn(r.data))
}

// Recode troca o tipo de código de uma falha (ex.: de um conjunto por operação para o do endpoint).
func Recode[T any, E ~string, F ~string](r Result[T, E]) Result[T, F] {
	if r.ok {
		return Ok[T, F](r.data)
	}
	return Result[T, F]{err: Error[F]{Code: F(r.err.Code), Message: r.err.Message}}
}
