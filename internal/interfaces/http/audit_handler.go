package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/nextmeal/backoffice/internal/application/dto"
	"github.com/nextmeal/backoffice/internal/domain/repository"
)

// AuditHandler consulta del registro de auditoría (solo administrador).
type AuditHandler struct {
	repo repository.AuditRepository
}

// NewAuditHandler construye el handler. repo nil = auditoría no persistida.
func NewAuditHandler(repo repository.AuditRepository) *AuditHandler {
	return &AuditHandler{repo: repo}
}

// List godoc
// @Summary      Registro de auditoría
// @Tags         auditoria
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Máximo de entradas (por defecto 50)"
// @Param        offset  query  int  false  "Desplazamiento"
// @Success      200  {array}  dto.AuditEventResponse
// @Router       /api/auditoria [get]
func (h *AuditHandler) List(c *fiber.Ctx) error {
	out := []dto.AuditEventResponse{}
	if h.repo == nil {
		return c.JSON(out)
	}
	limit := c.QueryInt("limit", 50)
	offset := c.QueryInt("offset", 0)
	if limit <= 0 || limit > 500 || offset < 0 {
		return badRequest(c, "INVALID_QUERY", "limit debe estar entre 1 y 500 y offset no puede ser negativo")
	}
	events, err := h.repo.List(c.UserContext(), limit, offset)
	if err != nil {
		return writeError(c, err)
	}
	for _, ev := range events {
		out = append(out, dto.AuditEventResponse{
			ID:         ev.ID.String(),
			UserID:     ev.UserID,
			Resource:   ev.Resource,
			ResourceID: ev.ResourceID,
			Action:     ev.Action,
			Detail:     ev.Detail,
			Amount:     ev.Amount,
			CreatedAt:  ev.CreatedAt,
		})
	}
	return c.JSON(out)
}
