package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/nextmeal/backoffice/internal/application/dto"
	"github.com/nextmeal/backoffice/internal/application/listing"
	"github.com/nextmeal/backoffice/internal/domain"
)

// ViewHandler vistas de listado con estado por sesión: búsqueda con debounce, página y orden
// se conservan entre peticiones.
type ViewHandler struct {
	views *listing.Registry
}

// NewViewHandler construye el handler.
func NewViewHandler(views *listing.Registry) *ViewHandler {
	return &ViewHandler{views: views}
}

// Get godoc
// @Summary      Estado de una vista de listado
// @Description  Abre la vista en el primer acceso y la carga desde el backend.
// @Tags         vistas
// @Security     Bearer
// @Produce      json
// @Param        recurso  path  string  true  "Recurso"
// @Success      200  {object}  listing.State[any]
// @Router       /api/vistas/{recurso} [get]
func (h *ViewHandler) Get(c *fiber.Ctx) error {
	v, ok := h.open(c)
	if !ok {
		return nil
	}
	return c.JSON(v.Snapshot())
}

// Update godoc
// @Summary      Cambiar búsqueda, página u orden de una vista
// @Description  La búsqueda se aplica tras el debounce salvo que asentar=true.
// @Tags         vistas
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        recurso  path  string                 true  "Recurso"
// @Param        body     body  dto.ViewUpdateRequest  true  "Cambios"
// @Success      200  {object}  listing.State[any]
// @Router       /api/vistas/{recurso} [patch]
func (h *ViewHandler) Update(c *fiber.Ctx) error {
	var in dto.ViewUpdateRequest
	if !bind(c, &in) {
		return nil
	}
	v, ok := h.open(c)
	if !ok {
		return nil
	}
	if in.Search != nil {
		v.SetSearch(*in.Search)
	}
	if in.Settle {
		v.SettleSearch()
	}
	if in.Sort != nil {
		v.SetSort(*in.Sort, in.Dir == "desc")
	}
	if in.Page != nil {
		v.SetPage(*in.Page)
	}
	return c.JSON(v.Snapshot())
}

// Reload godoc
// @Summary      Recargar una vista desde el backend
// @Tags         vistas
// @Security     Bearer
// @Produce      json
// @Param        recurso  path  string  true  "Recurso"
// @Success      200  {object}  listing.State[any]
// @Router       /api/vistas/{recurso}/recargar [post]
func (h *ViewHandler) Reload(c *fiber.Ctx) error {
	v, ok := h.open(c)
	if !ok {
		return nil
	}
	if err := v.Reload(c.UserContext()); err != nil {
		return writeError(c, err)
	}
	return c.JSON(v.Snapshot())
}

func (h *ViewHandler) open(c *fiber.Ctx) (listing.Handle, bool) {
	resource := c.Params("recurso")
	if !GetPolicy(c).CanAccess(resource) {
		_ = forbidden(c, "no tiene acceso a "+resource)
		return nil, false
	}
	v, err := h.views.Open(c.UserContext(), GetSessionID(c), resource)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			_ = c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso desconocido"})
			return nil, false
		}
		_ = writeError(c, err)
		return nil, false
	}
	return v, true
}
