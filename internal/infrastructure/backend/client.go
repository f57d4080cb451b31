// Package backend es el cliente REST del backend de pedidos: una llamada HTTP por operación,
// normalización del sobre de respuesta y enriquecimiento de errores con el mensaje del servidor.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/nextmeal/backoffice/internal/domain"
	"github.com/nextmeal/backoffice/internal/domain/repository"
)

const maxBodyBytes = 4 << 20

// Config ubicación del backend. Timeout 0 deja el del transporte.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client cliente HTTP compartido por todos los recursos.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        zerolog.Logger

	mu             sync.RWMutex
	onUnauthorized func(ctx context.Context)
}

// New crea el cliente con una única URL base para todos los recursos.
func New(cfg Config, log zerolog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        log,
	}
}

// OnUnauthorized registra el manejador global de 401. No se invoca para rutas de permisos,
// que se sondean durante la carga de la sesión, ni con repository.WithoutUnauthorizedHook.
func (c *Client) OnUnauthorized(fn func(ctx context.Context)) {
	c.mu.Lock()
	c.onUnauthorized = fn
	c.mu.Unlock()
}

// WithToken adjunta el bearer del backend al contexto de la llamada.
func WithToken(ctx context.Context, token string) context.Context {
	return repository.WithToken(ctx, token)
}

// call emite una petición y devuelve el cuerpo de éxito ya sin sobre.
func (c *Client) call(ctx context.Context, method, path string, query url.Values, in any) (json.RawMessage, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("backend: serializar request: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("backend: crear HTTP request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok := repository.TokenFrom(ctx); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error().Err(err).Str("metodo", method).Str("ruta", path).Msg("backend no disponible")
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrTransport, ctx.Err())
		}
		return nil, fmt.Errorf("%w: %s %s", domain.ErrTransport, method, path)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: leer respuesta: %v", domain.ErrTransport, err)
	}
	c.log.Debug().
		Str("metodo", method).
		Str("ruta", path).
		Int("status", resp.StatusCode).
		Dur("duracion", time.Since(start)).
		Msg("backend")

	if rangeOf(resp.StatusCode) == status2xx {
		return unwrapEnvelope(raw), nil
	}

	apiErr := newAPIError(method, path, resp.StatusCode, raw)
	switch resp.StatusCode {
	case http.StatusUnauthorized:
		if !isPermissionPath(path) && !repository.UnauthorizedHookSuppressed(ctx) {
			c.mu.RLock()
			hook := c.onUnauthorized
			c.mu.RUnlock()
			if hook != nil {
				hook(ctx)
			}
		}
	case http.StatusForbidden:
		c.log.Warn().Str("metodo", method).Str("ruta", path).Str("mensaje", apiErr.Message).Msg("backend rechazó la operación por permisos")
	}
	return nil, apiErr
}

// do emite la petición y decodifica el resultado en out (si out no es nil).
func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	raw, err := c.call(ctx, method, path, query, in)
	if err != nil {
		return err
	}
	return decode(raw, out)
}

func decode(raw json.RawMessage, out any) error {
	if out == nil || len(bytes.TrimSpace(raw)) == 0 || string(raw) == "null" {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("backend: deserializar respuesta: %w", err)
	}
	return nil
}

// unwrapEnvelope acepta {data: X}, {data: {data: X}} y X.
func unwrapEnvelope(raw []byte) json.RawMessage {
	for i := 0; i < 2; i++ {
		var env map[string]json.RawMessage
		if err := json.Unmarshal(raw, &env); err != nil {
			return raw
		}
		inner, ok := env["data"]
		if !ok {
			return raw
		}
		raw = inner
	}
	return raw
}

func isPermissionPath(path string) bool {
	return path == "/permiso" || strings.HasPrefix(path, "/permiso/")
}

func idPath(base string, id int64, suffix ...string) string {
	p := fmt.Sprintf("%s/%d", base, id)
	for _, s := range suffix {
		p += "/" + s
	}
	return p
}

// IsStatus indica si err es un *APIError con alguno de los códigos dados.
func IsStatus(err error, codes ...int) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	for _, code := range codes {
		if apiErr.Status == code {
			return true
		}
	}
	return false
}
