package respond

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

var ErrIncompleteTable = errors.New("status table missing codes")

// Table é a função total código->status de um endpoint.
type Table[E ~string] struct {
	statuses map[E]int
}

// NewTable monta a tabela só com os códigos declarados; o resto de statuses é ignorado,
// então um código não declarado cai em FallbackStatus. Código declarado sem status, ou
// com status fora de 400..599, é recusado.
func NewTable[E ~string](statuses map[E]int, declared ...E) (Table[E], error) {
	var missing []string
	for _, c := range declared {
		if _, ok := statuses[c]; !ok {
			missing = append(missing, string(c))
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return Table[E]{}, fmt.Errorf("%w: %s", ErrIncompleteTable, strings.Join(missing, ", "))
	}

	out := make(map[E]int, len(declared))
	for _, c := range declared {
		st := statuses[c]
		if st < 400 || st > 599 {
			return Table[E]{}, fmt.Errorf("invalid status %d for code %s", st, c)
		}
		out[c] = st
	}
	return Table[E]{statuses: out}, nil
}

// MustTable é NewTable para inicialização de pacote: panic em tabela incompleta.
func MustTable[E ~string](statuses map[E]int, declared ...E) Table[E] {
	t, err := NewTable(statuses, declared...)
	if err != nil {
		panic(err)
	}
	return t
}

// Status devolve o status mapeado e se havia entrada.
func (t Table[E]) Status(code E) (int, bool) {
	st, ok := t.statuses[code]
	return st, ok
}

// Covers reporta quais códigos não têm entrada (nil quando a tabela cobre todos).
func (t Table[E]) Covers(codes ...E) []E {
	var missing []E
	for _, c := range codes {
		if _, ok := t.statuses[c]; !ok {
			missing = append(missing, c)
		}
	}
	return missing
}

// Codes lista os códigos mapeados em ordem estável.
func (t Table[E]) Codes() []E {
	out := make([]E, 0, len(t.statuses))
	for c := range t.statuses {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// FallbackStatus é usado quando um código não tem entrada na tabela.
const FallbackStatus = http.StatusInternalServerError
