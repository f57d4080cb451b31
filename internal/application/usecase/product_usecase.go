package usecase

import (
	"cmp"
	"context"
	"strings"

	"github.com/nextmeal/backoffice/internal/application/dto"
	"github.com/nextmeal/backoffice/internal/application/forms"
	"github.com/nextmeal/backoffice/internal/application/listing"
	"github.com/nextmeal/backoffice/internal/application/ports"
	"github.com/nextmeal/backoffice/internal/domain/entity"
	"github.com/nextmeal/backoffice/internal/domain/repository"
)

// ProductSpec búsqueda por nombre y descripción.
var ProductSpec = listing.Spec[entity.Product]{
	Haystack: func(p entity.Product) string { return listing.Join(p.Name, p.Description) },
	Sorts: map[string]func(a, b entity.Product) int{
		"id":       func(a, b entity.Product) int { return cmp.Compare(a.ID, b.ID) },
		"nombre":   func(a, b entity.Product) int { return cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)) },
		"precio":   func(a, b entity.Product) int { return a.Price.Cmp(b.Price) },
		"cantidad": func(a, b entity.Product) int { return cmp.Compare(a.Quantity, b.Quantity) },
	},
}

// ProductUseCase casos de uso de productos. La unicidad del nombre se comprueba contra la
// lista recién obtenida; el backend decide en última instancia.
type ProductUseCase struct {
	repo     repository.ProductRepository
	pageSize int
	audit    recorder
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository, pageSize int, audit ports.AuditSink) *ProductUseCase {
	return &ProductUseCase{repo: repo, pageSize: pageSize, audit: newRecorder(audit, "productos")}
}

func (uc *ProductUseCase) List(ctx context.Context, q listing.Query) (listing.Page[entity.Product], error) {
	items, err := uc.repo.FetchAll(ctx)
	if err != nil {
		return listing.Page[entity.Product]{}, err
	}
	return listing.Apply(items, q, ProductSpec, uc.pageSize), nil
}

// Loader fuente de la vista de productos.
func (uc *ProductUseCase) Loader() listing.Loader[entity.Product] {
	return uc.repo.FetchAll
}

func (uc *ProductUseCase) Get(ctx context.Context, id int64) (*entity.Product, error) {
	return uc.repo.FetchByID(ctx, id)
}

func (uc *ProductUseCase) Create(ctx context.Context, in dto.ProductRequest) (*entity.Product, error) {
	if err := uc.validate(ctx, in, 0); err != nil {
		return nil, err
	}
	p := productFromRequest(in)
	p.Status = statusOrDefault(in.Status)
	created, err := uc.repo.Create(ctx, &p)
	if err != nil {
		return nil, err
	}
	uc.audit.recordAmount(ctx, created.ID, "crear", created.Name, &created.Price)
	return created, nil
}

// Update sin estado conserva el actual.
func (uc *ProductUseCase) Update(ctx context.Context, id int64, in dto.ProductRequest) (*entity.Product, error) {
	err := uc.validate(ctx, in, id)
	if err != nil {
		return nil, err
	}
	p := productFromRequest(in)
	p.ID = id
	p.Status, err = keepStatus(ctx, in.Status, func(ctx context.Context) (entity.Estado, error) {
		current, err := uc.repo.FetchByID(ctx, id)
		if err != nil {
			return "", err
		}
		return current.Status, nil
	})
	if err != nil {
		return nil, err
	}
	updated, err := uc.repo.Update(ctx, &p)
	if err != nil {
		return nil, err
	}
	uc.audit.recordAmount(ctx, id, "editar", updated.Name, &updated.Price)
	return updated, nil
}

func (uc *ProductUseCase) Delete(ctx context.Context, id int64) error {
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	uc.audit.record(ctx, id, "eliminar", "")
	return nil
}

// ToggleStatus invierte activo/inactivo partiendo del estado actual en el backend.
func (uc *ProductUseCase) ToggleStatus(ctx context.Context, id int64) (entity.Estado, error) {
	p, err := uc.repo.FetchByID(ctx, id)
	if err != nil {
		return "", err
	}
	if p.Status == entity.EstadoInactivo {
		// reactivar no puede duplicar el nombre de otro activo
		all, err := uc.repo.FetchAll(ctx)
		if err != nil {
			return "", err
		}
		if forms.NameTaken(all, p.Name, p.ID) {
			return "", &forms.ValidationError{Fields: map[string]string{"nombre": "Ya existe un producto activo con ese nombre"}}
		}
	}
	next, err := uc.repo.ToggleStatus(ctx, id, p.Status)
	if err != nil {
		return "", err
	}
	uc.audit.record(ctx, id, "cambiar-estado", string(next))
	return next, nil
}

func (uc *ProductUseCase) validate(ctx context.Context, in dto.ProductRequest, editingID int64) error {
	loaded, err := uc.repo.FetchAll(ctx)
	if err != nil {
		return err
	}
	return forms.ProductForm(loaded, editingID).ValidateAll(in)
}

func productFromRequest(in dto.ProductRequest) entity.Product {
	return entity.Product{
		Name:        strings.TrimSpace(in.Name),
		Price:       in.Price,
		Quantity:    in.Quantity,
		Description: strings.TrimSpace(in.Description),
		CategoryID:  in.CategoryID,
	}
}
