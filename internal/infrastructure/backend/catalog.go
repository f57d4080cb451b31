package backend

import (
	"context"
	"net/http"

	"github.com/nextmeal/backoffice/internal/domain/entity"
	"github.com/nextmeal/backoffice/internal/domain/repository"
)

// ClientRepository implementa repository.ClientRepository sobre /clientes.
type ClientRepository struct {
	r resource[entity.Client]
}

var _ repository.ClientRepository = (*ClientRepository)(nil)

// NewClientRepository crea el repositorio de clientes.
func NewClientRepository(c *Client) *ClientRepository {
	return &ClientRepository{r: resource[entity.Client]{c: c, path: "/clientes"}}
}

func (x *ClientRepository) FetchAll(ctx context.Context) ([]entity.Client, error) {
	return x.r.list(ctx)
}

func (x *ClientRepository) FetchByID(ctx context.Context, id int64) (*entity.Client, error) {
	return x.r.get(ctx, id)
}

func (x *ClientRepository) Create(ctx context.Context, client *entity.Client) (*entity.Client, error) {
	return x.r.create(ctx, client)
}

func (x *ClientRepository) Update(ctx context.Context, client *entity.Client) (*entity.Client, error) {
	return x.r.update(ctx, client.ID, client)
}

func (x *ClientRepository) Delete(ctx context.Context, id int64) error {
	return x.r.delete(ctx, id)
}

func (x *ClientRepository) ToggleStatus(ctx context.Context, id int64, current entity.Estado) (entity.Estado, error) {
	return x.r.toggle(ctx, id, current)
}

// CategoryRepository implementa repository.CategoryRepository sobre /categoria.
type CategoryRepository struct {
	r resource[entity.Category]
}

var _ repository.CategoryRepository = (*CategoryRepository)(nil)

// NewCategoryRepository crea el repositorio de categorías.
func NewCategoryRepository(c *Client) *CategoryRepository {
	return &CategoryRepository{r: resource[entity.Category]{c: c, path: "/categoria"}}
}

func (x *CategoryRepository) FetchAll(ctx context.Context) ([]entity.Category, error) {
	return x.r.list(ctx)
}

func (x *CategoryRepository) FetchByID(ctx context.Context, id int64) (*entity.Category, error) {
	return x.r.get(ctx, id)
}

func (x *CategoryRepository) Create(ctx context.Context, category *entity.Category) (*entity.Category, error) {
	return x.r.create(ctx, category)
}

func (x *CategoryRepository) Update(ctx context.Context, category *entity.Category) (*entity.Category, error) {
	return x.r.update(ctx, category.ID, category)
}

func (x *CategoryRepository) Delete(ctx context.Context, id int64) error {
	return x.r.delete(ctx, id)
}

func (x *CategoryRepository) ToggleStatus(ctx context.Context, id int64, current entity.Estado) (entity.Estado, error) {
	return x.r.toggle(ctx, id, current)
}

// ProductRepository implementa repository.ProductRepository sobre /productos.
type ProductRepository struct {
	r resource[entity.Product]
}

var _ repository.ProductRepository = (*ProductRepository)(nil)

// NewProductRepository crea el repositorio de productos.
func NewProductRepository(c *Client) *ProductRepository {
	return &ProductRepository{r: resource[entity.Product]{c: c, path: "/productos"}}
}

func (x *ProductRepository) FetchAll(ctx context.Context) ([]entity.Product, error) {
	return x.r.list(ctx)
}

func (x *ProductRepository) FetchByID(ctx context.Context, id int64) (*entity.Product, error) {
	return x.r.get(ctx, id)
}

func (x *ProductRepository) Create(ctx context.Context, product *entity.Product) (*entity.Product, error) {
	return x.r.create(ctx, product)
}

func (x *ProductRepository) Update(ctx context.Context, product *entity.Product) (*entity.Product, error) {
	return x.r.update(ctx, product.ID, product)
}

func (x *ProductRepository) Delete(ctx context.Context, id int64) error {
	return x.r.delete(ctx, id)
}

// ToggleStatus intenta PATCH /productos/:id/estado; si el backend no acepta PATCH (404/405)
// repite la operación con PUT /productos/:id.
func (x *ProductRepository) ToggleStatus(ctx context.Context, id int64, current entity.Estado) (entity.Estado, error) {
	next, err := x.r.toggle(ctx, id, current)
	if err == nil || !IsStatus(err, http.StatusNotFound, http.StatusMethodNotAllowed) {
		return next, err
	}
	if err := x.r.c.do(ctx, http.MethodPut, idPath(x.r.path, id), nil, statusBody{Estado: string(current.Toggle())}, nil); err != nil {
		return current, err
	}
	return current.Toggle(), nil
}
