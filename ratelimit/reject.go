package ratelimit

import (
	"net/http"

	"videoadmin/respond"
	"videoadmin/result"
)

// Code é o conjunto de códigos que os middlewares podem devolver.
type Code string

const (
	CodeRateLimited Code = "RATE_LIMITED"
	CodeServerBusy  Code = "SERVER_BUSY"
)

// rejectTable é montada uma vez por middleware: o status de rejeição é configurável.
func rejectTable(code Code, status int) respond.Table[Code] {
	return respond.MustTable(map[Code]int{code: status}, code)
}

// reject escreve o mesmo envelope de erro que os handlers usam.
func reject(w http.ResponseWriter, table respond.Table[Code], code Code, message string, header http.Header) {
	_ = respond.Write(w, respond.Map(result.Err[struct{}](code, message), table, header))
}
