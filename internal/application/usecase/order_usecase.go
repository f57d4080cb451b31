package usecase

import (
	"cmp"
	"context"
	"fmt"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/nextmeal/backoffice/internal/application/dto"
	"github.com/nextmeal/backoffice/internal/application/forms"
	"github.com/nextmeal/backoffice/internal/application/listing"
	"github.com/nextmeal/backoffice/internal/application/ports"
	"github.com/nextmeal/backoffice/internal/domain"
	"github.com/nextmeal/backoffice/internal/domain/entity"
	"github.com/nextmeal/backoffice/internal/domain/order"
	"github.com/nextmeal/backoffice/internal/domain/repository"
)

// OrderSpec búsqueda por número, dirección de envío y estado.
var OrderSpec = listing.Spec[entity.Order]{
	Haystack: func(o entity.Order) string {
		return listing.Join(strconv.FormatInt(o.ID, 10), o.ShippingAddress, o.Status)
	},
	Sorts: map[string]func(a, b entity.Order) int{
		"id":     func(a, b entity.Order) int { return cmp.Compare(a.ID, b.ID) },
		"fecha":  func(a, b entity.Order) int { return a.OrderedAt.Compare(b.OrderedAt) },
		"total":  func(a, b entity.Order) int { return a.Total.Cmp(b.Total) },
		"estado": func(a, b entity.Order) int { return cmp.Compare(a.Status, b.Status) },
	},
}

// OrderUseCase flujo de pedidos: alta en dos pasos, tablero y máquina de estados.
// Toda transición se valida aquí antes de llamar al backend.
type OrderUseCase struct {
	orders   repository.OrderRepository
	products repository.ProductRepository
	clients  repository.ClientRepository
	pageSize int
	audit    recorder
	log      zerolog.Logger
}

// NewOrderUseCase construye el caso de uso.
func NewOrderUseCase(
	orders repository.OrderRepository,
	products repository.ProductRepository,
	clients repository.ClientRepository,
	pageSize int,
	audit ports.AuditSink,
	log zerolog.Logger,
) *OrderUseCase {
	return &OrderUseCase{
		orders:   orders,
		products: products,
		clients:  clients,
		pageSize: pageSize,
		audit:    newRecorder(audit, "pedidos"),
		log:      log,
	}
}

func (uc *OrderUseCase) List(ctx context.Context, q listing.Query) (listing.Page[entity.Order], error) {
	items, err := uc.orders.FetchAll(ctx)
	if err != nil {
		return listing.Page[entity.Order]{}, err
	}
	return listing.Apply(items, q, OrderSpec, uc.pageSize), nil
}

// Loader fuente de la vista de pedidos.
func (uc *OrderUseCase) Loader() listing.Loader[entity.Order] {
	return uc.orders.FetchAll
}

func (uc *OrderUseCase) Get(ctx context.Context, id int64) (*entity.Order, error) {
	return uc.orders.FetchByID(ctx, id)
}

// ValidateStep valida un paso del formulario sin llamar al backend.
func (uc *OrderUseCase) ValidateStep(in dto.OrderRequest, step int) error {
	return forms.OrderForm.ValidateStep(in, step)
}

// Draft calcula líneas y total con los precios del catálogo actual, sin crear el pedido.
func (uc *OrderUseCase) Draft(ctx context.Context, in dto.OrderRequest) (*forms.OrderDraft, error) {
	catalog, err := uc.products.FetchAll(ctx)
	if err != nil {
		return nil, err
	}
	return forms.DraftFromRequest(in, catalog)
}

// Create valida ambos pasos y crea el pedido en estado pendiente.
func (uc *OrderUseCase) Create(ctx context.Context, in dto.OrderRequest) (*entity.Order, error) {
	if err := forms.OrderForm.ValidateAll(in); err != nil {
		return nil, err
	}
	if _, err := uc.clients.FetchByID(ctx, in.ClientID); err != nil {
		if IsNotFound(err) {
			return nil, &forms.ValidationError{Fields: map[string]string{"id_cliente": "El cliente no existe"}}
		}
		return nil, err
	}
	draft, err := uc.Draft(ctx, in)
	if err != nil {
		return nil, err
	}
	o := draft.Order()
	created, err := uc.orders.Create(ctx, &o)
	if err != nil {
		return nil, err
	}
	uc.audit.recordAmount(ctx, created.ID, "crear", created.Status, &created.Total)
	return created, nil
}

// Update reemplaza cliente, envío y líneas. Un pedido en estado final no se edita.
func (uc *OrderUseCase) Update(ctx context.Context, id int64, in dto.OrderRequest) (*entity.Order, error) {
	current, err := uc.editable(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := forms.OrderForm.ValidateAll(in); err != nil {
		return nil, err
	}
	draft, err := uc.Draft(ctx, in)
	if err != nil {
		return nil, err
	}
	o := draft.Order()
	o.ID = id
	o.Status = current.Status
	o.OrderedAt = current.OrderedAt
	updated, err := uc.orders.Update(ctx, &o)
	if err != nil {
		return nil, err
	}
	uc.audit.recordAmount(ctx, id, "editar", updated.Status, &updated.Total)
	return updated, nil
}

// Delete un pedido en estado final no se elimina.
func (uc *OrderUseCase) Delete(ctx context.Context, id int64) error {
	if _, err := uc.editable(ctx, id); err != nil {
		return err
	}
	if err := uc.orders.Delete(ctx, id); err != nil {
		return err
	}
	uc.audit.record(ctx, id, "eliminar", "")
	return nil
}

// ChangeStatus aplica la transición si la máquina de estados la permite. Si no, no hay llamada HTTP.
func (uc *OrderUseCase) ChangeStatus(ctx context.Context, id int64, to string) (*entity.Order, error) {
	current, err := uc.orders.FetchByID(ctx, id)
	if err != nil {
		return nil, err
	}
	from := order.Status(current.Status)
	if err := order.CanTransition(from, order.Status(to)); err != nil {
		return nil, err
	}
	if err := uc.orders.ChangeStatus(ctx, id, to); err != nil {
		return nil, err
	}
	uc.log.Info().Int64("id", id).Str("desde", string(from)).Str("hacia", to).Msg("pedido cambió de estado")
	uc.audit.record(ctx, id, "cambiar-estado", fmt.Sprintf("%s → %s", from, to))
	current.Status = to
	return current, nil
}

// NextStates opciones del control de cambio de estado.
func (uc *OrderUseCase) NextStates(ctx context.Context, id int64) (dto.NextStatesResponse, error) {
	o, err := uc.orders.FetchByID(ctx, id)
	if err != nil {
		return dto.NextStatesResponse{}, err
	}
	s := order.Status(o.Status)
	opts := []string{}
	for _, n := range order.NextStates(s) {
		opts = append(opts, string(n))
	}
	return dto.NextStatesResponse{ID: o.ID, Estado: o.Status, Terminal: s.IsTerminal(), Options: opts}, nil
}

// Board tablero kanban del conjunto filtrado por la búsqueda.
func (uc *OrderUseCase) Board(ctx context.Context, search string) ([]listing.Column[entity.Order], error) {
	items, err := uc.orders.FetchAll(ctx)
	if err != nil {
		return nil, err
	}
	filtered := listing.Filter(items, search, OrderSpec.Haystack)
	filtered = listing.SortBy(filtered, OrderSpec.Sorts["id"], false)
	return listing.Board(filtered, func(o entity.Order) string { return o.Status }), nil
}

// MoveCard arrastre de una tarjeta a otra columna. Las tarjetas en estado final no se arrastran.
func (uc *OrderUseCase) MoveCard(ctx context.Context, in dto.MoveCardRequest) (*entity.Order, error) {
	current, err := uc.orders.FetchByID(ctx, in.ID)
	if err != nil {
		return nil, err
	}
	if !order.CanDrag(order.Status(current.Status)) {
		return nil, fmt.Errorf("%w: %s", domain.ErrTerminalState, current.Status)
	}
	return uc.ChangeStatus(ctx, in.ID, in.Estado)
}

func (uc *OrderUseCase) editable(ctx context.Context, id int64) (*entity.Order, error) {
	o, err := uc.orders.FetchByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.Status(o.Status).IsTerminal() {
		return nil, fmt.Errorf("%w: %s", domain.ErrTerminalState, o.Status)
	}
	return o, nil
}
