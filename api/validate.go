package api

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"

	"videoadmin/result"
)

// maxBody limita o corpo das requisições JSON.
const maxBody = 1 << 20

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// getValidator devolve o validator compartilhado (thread-safe, cacheia as structs).
func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		// mensagens usam o nome do campo como o cliente o vê
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			for _, tag := range []string{"json", "query"} {
				name, _, _ := strings.Cut(f.Tag.Get(tag), ",")
				if name == "-" {
					return ""
				}
				if name != "" {
					return name
				}
			}
			return f.Name
		})
	})
	return validate
}

var messageTemplates = map[string]string{
	"required": "%s is required",
	"url":      "%s must be a valid URL",
	"http_url": "%s must be a valid http(s) URL",
	"uuid":     "%s must be a valid UUID",
	"alphanum": "%s must be alphanumeric",
	"dive":     "%s has an invalid item",
}

var paramTemplates = map[string]string{
	"oneof": "%s must be one of: %s",
	"gte":   "%s must be greater than or equal to %s",
	"lte":   "%s must be less than or equal to %s",
}

func translate(fe validator.FieldError, field string) string {
	if t, ok := messageTemplates[fe.Tag()]; ok {
		return fmt.Sprintf(t, field)
	}
	if t, ok := paramTemplates[fe.Tag()]; ok {
		return fmt.Sprintf(t, field, fe.Param())
	}

	unit := ""
	switch fe.Kind() {
	case reflect.String:
		unit = " characters"
	case reflect.Slice, reflect.Map:
		unit = " items"
	}
	switch fe.Tag() {
	case "min":
		return fmt.Sprintf("%s must be at least %s%s", field, fe.Param(), unit)
	case "max":
		return fmt.Sprintf("%s must be at most %s%s", field, fe.Param(), unit)
	}
	return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
}

// checkStruct valida v. Em falha devolve todas as mensagens juntas, separadas por "; ".
func checkStruct(v any) (string, bool) {
	return describe(getValidator().Struct(v))
}

// checkVar valida um valor solto (path param) com as tags dadas.
func checkVar(name, value, tags string) (string, bool) {
	err := getValidator().Var(value, tags)
	if err == nil {
		return "", true
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return translate(verrs[0], name), false
	}
	return err.Error(), false
}

func describe(err error) (string, bool) {
	if err == nil {
		return "", true
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error(), false
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, translate(fe, fe.Field()))
	}
	return strings.Join(msgs, "; "), false
}

// errBadJSON marca corpos que não são JSON: vazio, truncado, grande demais ou com lixo após o valor.
var errBadJSON = errors.New("request body must be a valid JSON object")

// decodeJSON lê o corpo em dst. Só erros embrulhando errBadJSON são de sintaxe;
// os demais (tipo errado, campo desconhecido) vêm de um JSON bem formado.
func decodeJSON(r *http.Request, dst any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBody+1))
	if err != nil {
		return fmt.Errorf("%w: %v", errBadJSON, err)
	}
	if len(body) > maxBody {
		return fmt.Errorf("%w: body exceeds %d bytes", errBadJSON, maxBody)
	}
	if len(bytes.TrimSpace(body)) == 0 || !json.Valid(body) {
		return errBadJSON
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// bodyFailure classifica um erro de decodeJSON: sintaxe => INVALID_JSON, forma => INVALID_INPUT.
func bodyFailure[T any](err error) result.Result[T, Code] {
	if errors.Is(err, errBadJSON) {
		return result.Err[T](CodeInvalidJSON, "Request body must be a valid JSON object")
	}
	var te *json.UnmarshalTypeError
	switch {
	case errors.As(err, &te) && te.Field != "":
		return result.Err[T](CodeInvalidInput, fmt.Sprintf("%s has the wrong type", te.Field))
	case errors.As(err, &te):
		return result.Err[T](CodeInvalidInput, "Request body must be a JSON object")
	}
	return result.Err[T](CodeInvalidInput, strings.TrimPrefix(err.Error(), "json: "))
}

// queryInt lê um inteiro da query string; ausente => def.
func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", name)
	}
	return v, nil
}
