package http

import (
	"slices"

	"github.com/gofiber/fiber/v2"

	"github.com/nextmeal/backoffice/internal/application/dto"
	"github.com/nextmeal/backoffice/internal/domain/authz"
)

var gatedResources = []string{
	authz.ResourceClients, authz.ResourceProducts, authz.ResourceSales, authz.ResourceOrders,
	authz.ResourceCategories, authz.ResourceUsers, authz.ResourceRoles,
}

// Menu godoc
// @Summary      Barra lateral
// @Description  Entradas visibles para la sesión actual.
// @Tags         ui
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  authz.MenuItem
// @Router       /api/ui/menu [get]
func Menu(c *fiber.Ctx) error {
	return c.JSON(authz.Menu(GetPolicy(c)))
}

// Gates godoc
// @Summary      Compuertas de botones de un recurso
// @Description  Con ?estado= devuelve las de una fila concreta (pedidos finales quedan bloqueados).
// @Tags         ui
// @Security     Bearer
// @Produce      json
// @Param        recurso  path   string  true   "Recurso"
// @Param        estado   query  string  false  "Estado de la fila"
// @Success      200  {array}  authz.Gate
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/ui/gates/{recurso} [get]
func Gates(c *fiber.Ctx) error {
	resource := c.Params("recurso")
	if !slices.Contains(gatedResources, resource) {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso desconocido"})
	}
	p := GetPolicy(c)
	if status := c.Query("estado"); status != "" {
		return c.JSON(authz.ItemGates(p, resource, status))
	}
	return c.JSON(authz.Gates(p, resource))
}
