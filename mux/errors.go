package mux

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Error é uma resposta não-2xx da plataforma.
type Error struct {
	Status   int
	Type     string
	Messages []string
}

func (e *Error) Error() string {
	msg := strings.Join(e.Messages, "; ")
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	if e.Type != "" {
		return fmt.Sprintf("mux: %d %s: %s", e.Status, e.Type, msg)
	}
	return fmt.Sprintf("mux: %d: %s", e.Status, msg)
}

// StatusOf devolve o status HTTP remoto, ou 0 se err não veio da plataforma.
func StatusOf(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Status
	}
	return 0
}

func IsNotFound(err error) bool { return StatusOf(err) == http.StatusNotFound }

// IsClientError: 4xx remoto (entrada rejeitada, recurso inexistente).
func IsClientError(err error) bool {
	s := StatusOf(err)
	return s >= 400 && s < 500
}
