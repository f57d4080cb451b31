package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/nextmeal/backoffice/internal/application/dto"
	"github.com/nextmeal/backoffice/internal/application/usecase"
)

// RoleHandler editor de la matriz de permisos de un rol.
type RoleHandler struct {
	uc *usecase.RoleUseCase
}

// NewRoleHandler construye el handler.
func NewRoleHandler(uc *usecase.RoleUseCase) *RoleHandler {
	return &RoleHandler{uc: uc}
}

// Matrix godoc
// @Summary      Matriz de permisos de un rol
// @Tags         roles
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID del rol"
// @Success      200  {object}  dto.RoleMatrixResponse
// @Router       /api/roles/{id}/permisos [get]
func (h *RoleHandler) Matrix(c *fiber.Ctx) error {
	id, ok := idParam(c)
	if !ok {
		return nil
	}
	out, err := h.uc.Matrix(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// SaveMatrix godoc
// @Summary      Guardar matriz de permisos
// @Description  Crea los pares nuevos y actualiza los que cambiaron; el resto no se toca.
// @Tags         roles
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int                   true  "ID del rol"
// @Param        body  body  dto.PermissionMatrix  true  "recurso → acción → concedido"
// @Success      200   {object}  dto.RoleMatrixResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/roles/{id}/permisos [put]
func (h *RoleHandler) SaveMatrix(c *fiber.Ctx) error {
	id, ok := idParam(c)
	if !ok {
		return nil
	}
	var in dto.PermissionMatrix
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	out, err := h.uc.SaveMatrix(c.UserContext(), id, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
