package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/nextmeal/backoffice/internal/application/usecase"
)

// SaleHandler rutas propias de ventas.
type SaleHandler struct {
	uc *usecase.SaleUseCase
}

// NewSaleHandler construye el handler.
func NewSaleHandler(uc *usecase.SaleUseCase) *SaleHandler {
	return &SaleHandler{uc: uc}
}

// Form godoc
// @Summary      Formulario de venta
// @Description  Solo ofrece pedidos terminados.
// @Tags         ventas
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.SaleFormResponse
// @Router       /api/ventas/formulario [get]
func (h *SaleHandler) Form(c *fiber.Ctx) error {
	f, err := h.uc.Form(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(f.Response())
}

// Receipt godoc
// @Summary      Comprobante PDF de una venta
// @Tags         ventas
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  int  true  "ID de la venta"
// @Success      200  {file}  file
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/ventas/{id}/comprobante [get]
func (h *SaleHandler) Receipt(c *fiber.Ctx) error {
	id, ok := idParam(c)
	if !ok {
		return nil
	}
	pdf, err := h.uc.Receipt(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("inline; filename=comprobante-venta-%d.pdf", id))
	return c.Send(pdf)
}
