package http

import (
	"context"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/nextmeal/backoffice/internal/application/dto"
	"github.com/nextmeal/backoffice/internal/application/listing"
	"github.com/nextmeal/backoffice/internal/domain/entity"
)

// crudService lo implementan los casos de uso de cada recurso del tablero.
type crudService[T any, In any] interface {
	List(ctx context.Context, q listing.Query) (listing.Page[T], error)
	Get(ctx context.Context, id int64) (*T, error)
	Create(ctx context.Context, in In) (*T, error)
	Update(ctx context.Context, id int64, in In) (*T, error)
	Delete(ctx context.Context, id int64) error
}

type statusToggler interface {
	ToggleStatus(ctx context.Context, id int64) (entity.Estado, error)
}

type stepValidator[In any] interface {
	ValidateStep(in In, step int) error
}

// ResourceHandler CRUD HTTP común a clientes, productos, categorías, pedidos, ventas,
// usuarios y roles. Tras cada mutación recarga la vista abierta por la sesión.
type ResourceHandler[T any, In any] struct {
	svc      crudService[T, In]
	resource string
	deleted  string
	views    *listing.Registry
	log      zerolog.Logger
}

// NewResourceHandler construye el handler. deleted es el mensaje de confirmación al eliminar.
func NewResourceHandler[T any, In any](svc crudService[T, In], resource, deleted string, views *listing.Registry, log zerolog.Logger) *ResourceHandler[T, In] {
	return &ResourceHandler[T, In]{svc: svc, resource: resource, deleted: deleted, views: views, log: log}
}

// List GET /api/{recurso}?buscar=&pagina=&orden=&dir=
func (h *ResourceHandler[T, In]) List(c *fiber.Ctx) error {
	var req dto.ListRequest
	if err := c.QueryParser(&req); err != nil {
		return badRequest(c, "INVALID_QUERY", "parámetros de consulta inválidos")
	}
	if !checkStruct(c, &req) {
		return nil
	}
	page, err := h.svc.List(c.UserContext(), listing.Query{
		Search: req.Search,
		Page:   req.Page,
		Sort:   req.Sort,
		Desc:   req.Desc(),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(page)
}

// Get GET /api/{recurso}/:id
func (h *ResourceHandler[T, In]) Get(c *fiber.Ctx) error {
	id, ok := idParam(c)
	if !ok {
		return nil
	}
	out, err := h.svc.Get(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Create POST /api/{recurso}
func (h *ResourceHandler[T, In]) Create(c *fiber.Ctx) error {
	var in In
	if !bind(c, &in) {
		return nil
	}
	out, err := h.svc.Create(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	h.reload(c)
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update PUT /api/{recurso}/:id
func (h *ResourceHandler[T, In]) Update(c *fiber.Ctx) error {
	id, ok := idParam(c)
	if !ok {
		return nil
	}
	var in In
	if !bind(c, &in) {
		return nil
	}
	out, err := h.svc.Update(c.UserContext(), id, in)
	if err != nil {
		return writeError(c, err)
	}
	h.reload(c)
	return c.JSON(out)
}

// Delete DELETE /api/{recurso}/:id
func (h *ResourceHandler[T, In]) Delete(c *fiber.Ctx) error {
	id, ok := idParam(c)
	if !ok {
		return nil
	}
	if err := h.svc.Delete(c.UserContext(), id); err != nil {
		return writeError(c, err)
	}
	h.reload(c)
	return c.JSON(dto.MessageResponse{Message: h.deleted})
}

// ToggleStatus PATCH /api/{recurso}/:id/estado
func (h *ResourceHandler[T, In]) ToggleStatus(c *fiber.Ctx) error {
	t, ok := h.svc.(statusToggler)
	if !ok {
		return c.Status(fiber.StatusMethodNotAllowed).JSON(dto.ErrorResponse{Code: "NOT_SUPPORTED", Message: "el recurso no tiene estado activo/inactivo"})
	}
	id, ok := idParam(c)
	if !ok {
		return nil
	}
	estado, err := t.ToggleStatus(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	h.reload(c)
	return c.JSON(dto.StatusResponse{ID: id, Estado: string(estado)})
}

// ValidateStep POST /api/{recurso}/validar?paso=N valida un paso del formulario sin enviarlo.
func (h *ResourceHandler[T, In]) ValidateStep(c *fiber.Ctx) error {
	v, ok := h.svc.(stepValidator[In])
	if !ok {
		return c.Status(fiber.StatusMethodNotAllowed).JSON(dto.ErrorResponse{Code: "NOT_SUPPORTED", Message: "el formulario no tiene pasos"})
	}
	step, err := strconv.Atoi(c.Query("paso", "1"))
	if err != nil || step < 1 {
		return badRequest(c, "INVALID_STEP", "paso inválido")
	}
	var in In
	if !bind(c, &in) {
		return nil
	}
	if err := v.ValidateStep(in, step); err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "paso " + strconv.Itoa(step) + " válido"})
}

func (h *ResourceHandler[T, In]) reload(c *fiber.Ctx) {
	refreshView(c, h.views, h.resource, h.log)
}

// refreshView recarga la vista del recurso para la sesión actual. Un fallo no deshace la
// mutación: la vista conserva la lista anterior.
func refreshView(c *fiber.Ctx, views *listing.Registry, resource string, log zerolog.Logger) {
	if views == nil {
		return
	}
	sid := GetSessionID(c)
	if sid == "" {
		return
	}
	if err := views.Refresh(c.UserContext(), sid, resource); err != nil {
		log.Warn().Err(err).Str("recurso", resource).Msg("no se pudo recargar la vista")
	}
}
