package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/nextmeal/backoffice/internal/application/dto"
	"github.com/nextmeal/backoffice/internal/application/forms"
	"github.com/nextmeal/backoffice/internal/application/listing"
	"github.com/nextmeal/backoffice/internal/application/usecase"
	"github.com/nextmeal/backoffice/internal/domain/authz"
)

// OrderHandler rutas propias de pedidos: cambio de estado, tablero kanban y borrador.
type OrderHandler struct {
	uc    *usecase.OrderUseCase
	views *listing.Registry
	log   zerolog.Logger
}

// NewOrderHandler construye el handler.
func NewOrderHandler(uc *usecase.OrderUseCase, views *listing.Registry, log zerolog.Logger) *OrderHandler {
	return &OrderHandler{uc: uc, views: views, log: log}
}

// ChangeStatus godoc
// @Summary      Cambiar estado de un pedido
// @Description  Solo transiciones permitidas: pendiente → preparacion|cancelado, preparacion → terminado|cancelado.
// @Tags         pedidos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int                true  "ID del pedido"
// @Param        body  body  dto.StatusRequest  true  "Estado destino"
// @Success      200   {object}  entity.Order
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/pedidos/{id}/estado [patch]
func (h *OrderHandler) ChangeStatus(c *fiber.Ctx) error {
	id, ok := idParam(c)
	if !ok {
		return nil
	}
	var in dto.StatusRequest
	if !bind(c, &in) {
		return nil
	}
	if in.Estado == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code: "VALIDATION", Message: "Revise los campos marcados",
			Fields: map[string]string{"estado": "Seleccione un estado"},
		})
	}
	out, err := h.uc.ChangeStatus(c.UserContext(), id, in.Estado)
	if err != nil {
		return writeError(c, err)
	}
	refreshView(c, h.views, authz.ResourceOrders, h.log)
	return c.JSON(out)
}

// NextStates godoc
// @Summary      Estados siguientes de un pedido
// @Tags         pedidos
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID del pedido"
// @Success      200  {object}  dto.NextStatesResponse
// @Router       /api/pedidos/{id}/siguientes-estados [get]
func (h *OrderHandler) NextStates(c *fiber.Ctx) error {
	id, ok := idParam(c)
	if !ok {
		return nil
	}
	out, err := h.uc.NextStates(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Board godoc
// @Summary      Tablero kanban de pedidos
// @Tags         pedidos
// @Security     Bearer
// @Produce      json
// @Param        buscar  query  string  false  "Término de búsqueda"
// @Success      200  {array}  listing.Column[entity.Order]
// @Router       /api/pedidos/tablero [get]
func (h *OrderHandler) Board(c *fiber.Ctx) error {
	cols, err := h.uc.Board(c.UserContext(), c.Query("buscar"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(cols)
}

// MoveCard godoc
// @Summary      Mover tarjeta del tablero
// @Description  Las tarjetas en columnas finales no se pueden arrastrar.
// @Tags         pedidos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.MoveCardRequest  true  "Pedido y columna destino"
// @Success      200   {object}  entity.Order
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/pedidos/tablero/mover [post]
func (h *OrderHandler) MoveCard(c *fiber.Ctx) error {
	var in dto.MoveCardRequest
	if !bind(c, &in) {
		return nil
	}
	if in.ID <= 0 {
		return badRequest(c, "MISSING_ID", "id inválido")
	}
	out, err := h.uc.MoveCard(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	refreshView(c, h.views, authz.ResourceOrders, h.log)
	return c.JSON(out)
}

type orderDraftResponse struct {
	ClientID        int64             `json:"id_cliente"`
	ShippingAddress string            `json:"direccion_envio"`
	Lines           []forms.DraftLine `json:"detalles"`
	Total           decimal.Decimal   `json:"total"`
}

// Draft godoc
// @Summary      Calcular borrador de pedido
// @Description  Toma los precios del catálogo y recalcula subtotales y total sin crear el pedido.
// @Tags         pedidos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.OrderRequest  true  "Pedido en construcción"
// @Success      200   {object}  orderDraftResponse
// @Router       /api/pedidos/borrador [post]
func (h *OrderHandler) Draft(c *fiber.Ctx) error {
	var in dto.OrderRequest
	if !bind(c, &in) {
		return nil
	}
	d, err := h.uc.Draft(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	lines := d.Lines()
	if lines == nil {
		lines = []forms.DraftLine{}
	}
	return c.JSON(orderDraftResponse{
		ClientID:        d.ClientID,
		ShippingAddress: d.ShippingAddress,
		Lines:           lines,
		Total:           d.Total(),
	})
}
