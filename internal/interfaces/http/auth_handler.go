package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/nextmeal/backoffice/internal/application/dto"
	"github.com/nextmeal/backoffice/internal/application/listing"
	"github.com/nextmeal/backoffice/internal/application/session"
	"github.com/nextmeal/backoffice/internal/domain/entity"
)

// AuthHandler inicio y cierre de sesión, identidad actual y recuperación de contraseña.
type AuthHandler struct {
	sessions *session.Manager
	views    *listing.Registry
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(sessions *session.Manager, views *listing.Registry) *AuthHandler {
	return &AuthHandler{sessions: sessions, views: views}
}

// Login godoc
// @Summary      Iniciar sesión
// @Description  Valida contra el backend, carga los permisos y devuelve el token del back-office.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "correo, password"
// @Success      200   {object}  dto.LoginResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if !bind(c, &in) {
		return nil
	}
	res, err := h.sessions.Signin(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.LoginResponse{
		Token:       res.Token,
		User:        res.Session.User,
		Permissions: permissionsOrEmpty(res.Session.Permissions),
		Source:      res.Session.PermissionSource,
	})
}

// Logout godoc
// @Summary      Cerrar sesión
// @Tags         auth
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.MessageResponse
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	sid := GetSessionID(c)
	if err := h.sessions.Signout(c.UserContext(), sid); err != nil {
		return writeError(c, err)
	}
	if h.views != nil {
		h.views.Drop(sid)
	}
	return c.JSON(dto.MessageResponse{Message: "Sesión cerrada"})
}

// Session godoc
// @Summary      Identidad actual
// @Tags         auth
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.SessionResponse
// @Router       /api/auth/sesion [get]
func (h *AuthHandler) Session(c *fiber.Ctx) error {
	s := GetSession(c)
	if s == nil {
		return unauthorized(c, "UNAUTHORIZED", "sesión requerida")
	}
	return c.JSON(dto.SessionResponse{
		User:        s.User,
		Permissions: permissionsOrEmpty(s.Permissions),
		Source:      s.PermissionSource,
		Degraded:    GetPolicy(c).Degraded(),
	})
}

// RequestPasswordReset godoc
// @Summary      Solicitar recuperación de contraseña
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PasswordResetRequest  true  "correo"
// @Success      200   {object}  dto.MessageResponse
// @Router       /api/auth/recuperar-password [post]
func (h *AuthHandler) RequestPasswordReset(c *fiber.Ctx) error {
	var in dto.PasswordResetRequest
	if !bind(c, &in) {
		return nil
	}
	if err := h.sessions.RequestPasswordReset(c.UserContext(), in); err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Si el correo está registrado recibirá las instrucciones"})
}

// ResetPassword godoc
// @Summary      Restablecer contraseña
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PasswordChangeRequest  true  "token, password"
// @Success      200   {object}  dto.MessageResponse
// @Router       /api/auth/restablecer-password [post]
func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var in dto.PasswordChangeRequest
	if !bind(c, &in) {
		return nil
	}
	if err := h.sessions.ResetPassword(c.UserContext(), in); err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Contraseña actualizada"})
}

func permissionsOrEmpty(p []entity.Permission) []entity.Permission {
	if p == nil {
		return []entity.Permission{}
	}
	return p
}
