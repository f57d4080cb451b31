package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/nextmeal/backoffice/internal/application/dto"
	"github.com/nextmeal/backoffice/internal/domain/authz"
)

// RequirePermission exige el par (recurso, acción). Debe usarse DESPUÉS de AuthMiddleware.
//
// Comportamiento:
//   - 401 si no hay sesión en el contexto.
//   - 403 FORBIDDEN si la política no concede el permiso.
func RequirePermission(resource, action string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p := GetPolicy(c)
		if !p.Authenticated() {
			return unauthorized(c, "UNAUTHORIZED", "sesión requerida")
		}
		if !p.HasPermission(resource, action) {
			return forbidden(c, "no tiene permiso para "+action+" "+resource)
		}
		return c.Next()
	}
}

// RequireRole exige uno de los roles indicados.
func RequireRole(roleIDs ...int64) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p := GetPolicy(c)
		if !p.Authenticated() {
			return unauthorized(c, "UNAUTHORIZED", "sesión requerida")
		}
		for _, id := range roleIDs {
			if p.HasRole(id) {
				return c.Next()
			}
		}
		return forbidden(c, "su rol no tiene acceso a este recurso")
	}
}

// RequireAdmin atajo para RequireRole(authz.AdminRoleID). Eliminar siempre pasa por aquí.
func RequireAdmin() fiber.Handler {
	return RequireRole(authz.AdminRoleID)
}

func forbidden(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: msg})
}
