package respond

import (
	"net/http"

	"github.com/goccy/go-json"

	"videoadmin/result"
)

// Response é a resposta de wire já decidida: status, headers e o corpo (o próprio Result).
type Response struct {
	Status int
	Header http.Header
	Body   json.Marshaler
}

// Map converte um Result em Response.
//
//   - Ok  -> 200 sempre, corpo {ok:true,data}
//   - Err -> table[code] (ou 500 se ausente), corpo {ok:false,error}
//
// headers é copiado; o Result não é inspecionado além de OK()/Error().Code.
func Map[T any, E ~string](res result.Result[T, E], table Table[E], headers http.Header) Response {
	h := make(http.Header, len(headers))
	for k, v := range headers {
		h[k] = append([]string(nil), v...)
	}

	status := http.StatusOK
	if !res.OK() {
		st, ok := table.Status(res.Error().Code)
		if !ok {
			st = FallbackStatus
		}
		status = st
	}

	return Response{Status: status, Header: h, Body: res}
}

// Write serializa a Response. O erro de escrita é devolvido para o chamador registrar.
func Write(w http.ResponseWriter, resp Response) error {
	body, err := json.Marshal(resp.Body)
	if err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"ok":false,"error":{"code":"ENCODE_FAILED","message":"ENCODE_FAILED"}}`))
		return err
	}

	for k, v := range resp.Header {
		for _, vv := range v {
			w.Header().Add(k, vv)
		}
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(resp.Status)
	_, err = w.Write(append(body, '\n'))
	return err
}
