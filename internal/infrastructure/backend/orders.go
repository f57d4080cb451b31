package backend

import (
	"context"
	"net/http"
	"net/url"

	"github.com/nextmeal/backoffice/internal/domain/entity"
	"github.com/nextmeal/backoffice/internal/domain/repository"
)

// OrderRepository implementa repository.OrderRepository sobre /pedidos.
type OrderRepository struct {
	r resource[entity.Order]
}

var _ repository.OrderRepository = (*OrderRepository)(nil)

// NewOrderRepository crea el repositorio de pedidos.
func NewOrderRepository(c *Client) *OrderRepository {
	return &OrderRepository{r: resource[entity.Order]{c: c, path: "/pedidos"}}
}

func (x *OrderRepository) FetchAll(ctx context.Context) ([]entity.Order, error) {
	return x.r.list(ctx)
}

func (x *OrderRepository) FetchByID(ctx context.Context, id int64) (*entity.Order, error) {
	return x.r.get(ctx, id)
}

// FetchByStatus GET /pedidos/pedido?estado=<status>.
func (x *OrderRepository) FetchByStatus(ctx context.Context, status string) ([]entity.Order, error) {
	var out []entity.Order
	q := url.Values{"estado": {status}}
	if err := x.r.c.do(ctx, http.MethodGet, x.r.path+"/pedido", q, nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []entity.Order{}
	}
	return out, nil
}

func (x *OrderRepository) Create(ctx context.Context, order *entity.Order) (*entity.Order, error) {
	return x.r.create(ctx, order)
}

func (x *OrderRepository) Update(ctx context.Context, order *entity.Order) (*entity.Order, error) {
	return x.r.update(ctx, order.ID, order)
}

func (x *OrderRepository) Delete(ctx context.Context, id int64) error {
	return x.r.delete(ctx, id)
}

func (x *OrderRepository) ChangeStatus(ctx context.Context, id int64, status string) error {
	return x.r.c.do(ctx, http.MethodPatch, idPath(x.r.path, id, "estado"), nil, statusBody{Estado: status}, nil)
}

// SaleRepository implementa repository.SaleRepository sobre /ventas.
type SaleRepository struct {
	r resource[entity.Sale]
}

var _ repository.SaleRepository = (*SaleRepository)(nil)

// NewSaleRepository crea el repositorio de ventas.
func NewSaleRepository(c *Client) *SaleRepository {
	return &SaleRepository{r: resource[entity.Sale]{c: c, path: "/ventas"}}
}

func (x *SaleRepository) FetchAll(ctx context.Context) ([]entity.Sale, error) {
	return x.r.list(ctx)
}

func (x *SaleRepository) FetchByID(ctx context.Context, id int64) (*entity.Sale, error) {
	return x.r.get(ctx, id)
}

func (x *SaleRepository) Create(ctx context.Context, sale *entity.Sale) (*entity.Sale, error) {
	return x.r.create(ctx, sale)
}

func (x *SaleRepository) Update(ctx context.Context, sale *entity.Sale) (*entity.Sale, error) {
	return x.r.update(ctx, sale.ID, sale)
}

func (x *SaleRepository) Delete(ctx context.Context, id int64) error {
	return x.r.delete(ctx, id)
}
