package backend

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/nextmeal/backoffice/internal/domain"
)

type statusRange int

const (
	status1xx statusRange = iota + 1
	status2xx
	status3xx
	status4xx
	status5xx
)

func rangeOf(code int) statusRange {
	switch {
	case code < 200:
		return status1xx
	case code < 300:
		return status2xx
	case code < 400:
		return status3xx
	case code < 500:
		return status4xx
	default:
		return status5xx
	}
}

// APIError respuesta no 2xx del backend. Error() es el mensaje del servidor cuando lo hay.
type APIError struct {
	Method  string
	Path    string
	Status  int
	Message string
	Errors  []string
}

func (e *APIError) Error() string {
	return e.Message
}

// Details mensajes individuales del servidor; si no hubo lista, el mensaje principal.
func (e *APIError) Details() []string {
	if len(e.Errors) > 0 {
		return append([]string(nil), e.Errors...)
	}
	return []string{e.Message}
}

// Unwrap traduce el código HTTP al error de dominio equivalente.
func (e *APIError) Unwrap() error {
	switch {
	case e.Status == http.StatusUnauthorized:
		return domain.ErrUnauthorized
	case e.Status == http.StatusForbidden:
		return domain.ErrForbidden
	case e.Status == http.StatusNotFound:
		return domain.ErrNotFound
	case e.Status == http.StatusConflict:
		return domain.ErrConflict
	case rangeOf(e.Status) == status4xx:
		return domain.ErrInvalidInput
	default:
		return domain.ErrTransport
	}
}

func newAPIError(method, path string, status int, body []byte) *APIError {
	msg, list := parseErrorMessage(body)
	if msg == "" {
		msg = fmt.Sprintf("error HTTP %d", status)
	}
	return &APIError{Method: method, Path: path, Status: status, Message: msg, Errors: list}
}

// parseErrorMessage extrae mensaje | message | error y la lista errores[], que puede traer
// cadenas u objetos con msg / mensaje / message.
func parseErrorMessage(body []byte) (string, []string) {
	var payload struct {
		Mensaje string            `json:"mensaje"`
		Message string            `json:"message"`
		Error   json.RawMessage   `json:"error"`
		Errores []json.RawMessage `json:"errores"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", nil
	}

	var list []string
	for _, item := range payload.Errores {
		if s := errorItem(item); s != "" {
			list = append(list, s)
		}
	}

	switch {
	case payload.Mensaje != "":
		return payload.Mensaje, list
	case payload.Message != "":
		return payload.Message, list
	case len(list) > 0:
		return strings.Join(list, "; "), list
	}
	var s string
	if json.Unmarshal(payload.Error, &s) == nil && s != "" {
		return s, list
	}
	return "", list
}

func errorItem(raw json.RawMessage) string {
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s
	}
	var obj struct {
		Msg     string `json:"msg"`
		Mensaje string `json:"mensaje"`
		Message string `json:"message"`
	}
	if json.Unmarshal(raw, &obj) != nil {
		return ""
	}
	switch {
	case obj.Msg != "":
		return obj.Msg
	case obj.Mensaje != "":
		return obj.Mensaje
	default:
		return obj.Message
	}
}
