package http

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/nextmeal/backoffice/internal/application/dto"
	"github.com/nextmeal/backoffice/internal/application/session"
	"github.com/nextmeal/backoffice/internal/domain"
	"github.com/nextmeal/backoffice/internal/domain/authz"
	"github.com/nextmeal/backoffice/internal/domain/entity"
	"github.com/nextmeal/backoffice/pkg/jwt"
)

// Locals keys para la sesión y su política en Fiber.
const (
	LocalSession = "session"
	LocalPolicy  = "policy"
)

// sessionRestorer lo implementa *session.Manager.
type sessionRestorer interface {
	Restore(ctx context.Context, sid string) (*entity.Session, error)
}

// AuthMiddleware valida el JWT del back-office, restaura la sesión a la que apunta y deja en
// el contexto el bearer del backend para las llamadas siguientes.
// expired (opcional) se llama con el id de una sesión que ya no existe.
func AuthMiddleware(sessions sessionRestorer, jwtSecret string, expired func(sid string)) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return unauthorized(c, "UNAUTHORIZED", "Authorization header requerido")
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			return unauthorized(c, "UNAUTHORIZED", "formato: Bearer <token>")
		}
		claims, err := jwt.Parse(jwtSecret, strings.TrimSpace(parts[1]))
		if err != nil {
			return unauthorized(c, "UNAUTHORIZED", "token inválido o expirado")
		}

		s, err := sessions.Restore(c.UserContext(), claims.SessionID)
		if err != nil {
			if errors.Is(err, domain.ErrSessionNotFound) {
				if expired != nil {
					expired(claims.SessionID)
				}
				return unauthorized(c, "SESSION_EXPIRED", "la sesión expiró, inicie sesión de nuevo")
			}
			return writeError(c, err)
		}

		c.SetUserContext(session.Bind(c.UserContext(), s))
		c.Locals(LocalSession, s)
		c.Locals(LocalPolicy, session.Identity(s))
		return c.Next()
	}
}

func unauthorized(c *fiber.Ctx, code, msg string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: code, Message: msg})
}

// GetSession devuelve la sesión del contexto (después del middleware de auth).
func GetSession(c *fiber.Ctx) *entity.Session {
	s, _ := c.Locals(LocalSession).(*entity.Session)
	return s
}

// GetSessionID devuelve el id de la sesión del contexto o "".
func GetSessionID(c *fiber.Ctx) string {
	if s := GetSession(c); s != nil {
		return s.ID
	}
	return ""
}

// GetPolicy devuelve la política de autorización; anónima si no pasó por el middleware.
func GetPolicy(c *fiber.Ctx) authz.Policy {
	p, ok := c.Locals(LocalPolicy).(authz.Policy)
	if !ok {
		return authz.Anonymous()
	}
	return p
}
