// Package fetch é o lado cliente da API admin: faz a requisição, valida o
// envelope {ok,data|error} e devolve um Result com uma taxonomia de erro mais
// fina que a do servidor.
//
// A ordem de classificação importa: o corpo é interpretado e validado antes de
// olhar o status HTTP, então um envelope de erro bem formado vira API_ERROR
// mesmo quando o status também indica falha.
package fetch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"videoadmin/result"
)

type Kind string

const (
	KindNetwork    Kind = "NETWORK_ERROR"
	KindHTTP       Kind = "HTTP_ERROR"
	KindValidation Kind = "VALIDATION_ERROR"
	KindAPI        Kind = "API_ERROR"
)

// maxBody limita a leitura da resposta.
const maxBody = 8 << 20

// Error é a falha do lado cliente.
//
//   - NETWORK_ERROR: a requisição não completou (DNS, conexão, ctx)
//   - HTTP_ERROR: corpo não é JSON, ou ok=true com status de erro; Status preenchido
//   - VALIDATION_ERROR: JSON fora do formato esperado
//   - API_ERROR: envelope ok=false; Code e Message vêm do servidor
type Error struct {
	Kind    Kind   `json:"kind"`
	Status  int    `json:"status,omitempty"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindAPI:
		return fmt.Sprintf("%s %s: %s", e.Kind, e.Code, e.Message)
	case KindHTTP:
		return fmt.Sprintf("%s %d: %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Is permite errors.Is(err, &fetch.Error{Kind: fetch.KindAPI}).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Code == "" || t.Code == e.Code)
}

// Result espelha result.Result, com *Error no lugar de {code,message}.
type Result[T any] struct {
	ok   bool
	data T
	err  *Error
}

func (r Result[T]) OK() bool      { return r.ok }
func (r Result[T]) Data() T       { return r.data }
func (r Result[T]) Error() *Error { return r.err }

// Unwrap devolve (data, nil) ou (zero, *Error) no estilo Go.
func (r Result[T]) Unwrap() (T, error) {
	if r.ok {
		return r.data, nil
	}
	return r.data, r.err
}

func success[T any](data T) Result[T] { return Result[T]{ok: true, data: data} }

func failure[T any](e *Error) Result[T] { return Result[T]{err: e} }

type Client struct {
	BaseURL string
	HTTP    *http.Client
	// Header é enviado em toda requisição (ex.: Authorization).
	Header http.Header
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.HTTP = h }
}

func WithBearer(token string) Option {
	return func(c *Client) { c.Header.Set("Authorization", "Bearer "+token) }
}

func WithHeader(key, value string) Option {
	return func(c *Client) { c.Header.Set(key, value) }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: 30 * time.Second},
		Header:  make(http.Header),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Do executa a requisição e classifica a resposta. body nil => sem corpo.
func Do[T any](ctx context.Context, c *Client, method, path string, body any) Result[T] {
	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return failure[T](&Error{Kind: KindNetwork, Message: err.Error(), Err: err})
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return failure[T](&Error{Kind: KindNetwork, Message: err.Error(), Err: err})
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return failure[T](&Error{Kind: KindNetwork, Message: "read response: " + err.Error(), Err: err})
	}

	env, err := result.ParseEnvelope(raw)
	if err != nil {
		return failure[T](&Error{Kind: KindHTTP, Status: resp.StatusCode, Message: httpMessage(resp), Err: err})
	}

	res, err := result.Decode[T](env)
	if err != nil {
		return failure[T](&Error{Kind: KindValidation, Status: resp.StatusCode, Message: err.Error(), Err: err})
	}
	if res.OK() {
		if err := validateData(res.Data()); err != nil {
			return failure[T](&Error{Kind: KindValidation, Status: resp.StatusCode, Message: err.Error(), Err: err})
		}
	}

	if !res.OK() {
		e := res.Error()
		return failure[T](&Error{Kind: KindAPI, Status: resp.StatusCode, Code: e.Code, Message: e.Message})
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return failure[T](&Error{Kind: KindHTTP, Status: resp.StatusCode, Message: httpMessage(resp)})
	}
	return success(res.Data())
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	rd := io.Reader(http.NoBody)
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, rd)
	if err != nil {
		return nil, err
	}
	for k, v := range c.Header {
		req.Header[k] = append([]string(nil), v...)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

func httpMessage(resp *http.Response) string {
	if resp.Status != "" {
		return resp.Status
	}
	return http.StatusText(resp.StatusCode)
}

// IsKind informa se err é um *Error do tipo k.
func IsKind(err error, k Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == k
}
