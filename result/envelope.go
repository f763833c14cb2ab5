package result

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/goccy/go-json"
)

var (
	ErrNotJSON           = errors.New("body is not valid JSON")
	ErrMalformedEnvelope = errors.New("malformed envelope")
	ErrMissingData       = errors.New("envelope missing data")
	ErrMissingError      = errors.New("envelope missing error")
)

type okEnvelope[T any] struct {
	OK   bool `json:"ok"`
	Data T    `json:"data"`
}

type errEnvelope[E ~string] struct {
	OK    bool     `json:"ok"`
	Error Error[E] `json:"error"`
}

// MarshalJSON escreve o envelope de wire. data é sempre emitido em um sucesso, mesmo quando zero.
func (r Result[T, E]) MarshalJSON() ([]byte, error) {
	if r.ok {
		return json.Marshal(okEnvelope[T]{OK: true, Data: r.data})
	}
	return json.Marshal(errEnvelope[E]{OK: false, Error: r.err})
}

// Envelope é o corpo cru: JSON válido, forma ainda não verificada.
// Os campos guardam o valor bruto de cada chave (nil quando ausente).
type Envelope struct {
	OK    json.RawMessage
	Data  json.RawMessage
	Error json.RawMessage

	// object é falso quando o valor de topo não é um objeto JSON.
	object bool
}

type rawError struct {
	Code    *string `json:"code"`
	Message *string `json:"message"`
}

// ParseEnvelope só exige JSON sintaticamente válido. Forma e tipos ficam para Decode.
func ParseEnvelope(body []byte) (Envelope, error) {
	if !json.Valid(body) {
		return Envelope{}, ErrNotJSON
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil || fields == nil {
		return Envelope{}, nil
	}
	return Envelope{OK: fields["ok"], Data: fields["data"], Error: fields["error"], object: true}, nil
}

// absent trata chave ausente e null da mesma forma.
func absent(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) == 0 || bytes.Equal(raw, []byte("null"))
}

// Decode valida a forma do envelope e decodifica data em T.
// É o schema único "envelope de resultado" parametrizado pelo tipo do payload.
// Todo erro de forma ou tipo embrulha ErrMalformedEnvelope, ErrMissingData ou ErrMissingError.
func Decode[T any](env Envelope) (Result[T, string], error) {
	if !env.object {
		return Result[T, string]{}, fmt.Errorf("%w: body is not a JSON object", ErrMalformedEnvelope)
	}
	if absent(env.OK) {
		return Result[T, string]{}, fmt.Errorf("%w: ok field absent", ErrMalformedEnvelope)
	}
	var ok bool
	if err := json.Unmarshal(env.OK, &ok); err != nil {
		return Result[T, string]{}, fmt.Errorf("%w: ok must be a boolean", ErrMalformedEnvelope)
	}

	if ok {
		raw := bytes.TrimSpace(env.Data)
		if len(raw) == 0 {
			return Result[T, string]{}, ErrMissingData
		}
		var data T
		if err := json.Unmarshal(raw, &data); err != nil {
			return Result[T, string]{}, fmt.Errorf("%w: data: %v", ErrMalformedEnvelope, err)
		}
		return Ok[T, string](data), nil
	}

	if absent(env.Error) {
		return Result[T, string]{}, ErrMissingError
	}
	var e rawError
	if err := json.Unmarshal(env.Error, &e); err != nil {
		return Result[T, string]{}, fmt.Errorf("%w: error: %v", ErrMalformedEnvelope, err)
	}
	if e.Code == nil || e.Message == nil {
		return Result[T, string]{}, ErrMissingError
	}
	if *e.Code == "" {
		return Result[T, string]{}, fmt.Errorf("%w: empty error code", ErrMalformedEnvelope)
	}
	return Err[T](*e.Code, *e.Message), nil
}
