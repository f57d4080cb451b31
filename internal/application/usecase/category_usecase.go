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

// CategorySpec búsqueda por nombre y descripción.
var CategorySpec = listing.Spec[entity.Category]{
	Haystack: func(c entity.Category) string { return listing.Join(c.Name, c.Description) },
	Sorts: map[string]func(a, b entity.Category) int{
		"id":     func(a, b entity.Category) int { return cmp.Compare(a.ID, b.ID) },
		"nombre": func(a, b entity.Category) int { return cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)) },
	},
}

// CategoryUseCase casos de uso de categorías. La imagen se normaliza antes de enviarla.
type CategoryUseCase struct {
	repo     repository.CategoryRepository
	images   ports.ImageEncoder
	pageSize int
	audit    recorder
}

// NewCategoryUseCase construye el caso de uso. images puede ser nil: la imagen se envía tal cual.
func NewCategoryUseCase(repo repository.CategoryRepository, images ports.ImageEncoder, pageSize int, audit ports.AuditSink) *CategoryUseCase {
	return &CategoryUseCase{repo: repo, images: images, pageSize: pageSize, audit: newRecorder(audit, "categorias")}
}

func (uc *CategoryUseCase) List(ctx context.Context, q listing.Query) (listing.Page[entity.Category], error) {
	items, err := uc.repo.FetchAll(ctx)
	if err != nil {
		return listing.Page[entity.Category]{}, err
	}
	return listing.Apply(items, q, CategorySpec, uc.pageSize), nil
}

// Loader fuente de la vista de categorías.
func (uc *CategoryUseCase) Loader() listing.Loader[entity.Category] {
	return uc.repo.FetchAll
}

func (uc *CategoryUseCase) Get(ctx context.Context, id int64) (*entity.Category, error) {
	return uc.repo.FetchByID(ctx, id)
}

func (uc *CategoryUseCase) Create(ctx context.Context, in dto.CategoryRequest) (*entity.Category, error) {
	c, err := uc.build(ctx, in)
	if err != nil {
		return nil, err
	}
	c.Status = statusOrDefault(in.Status)
	created, err := uc.repo.Create(ctx, c)
	if err != nil {
		return nil, err
	}
	uc.audit.record(ctx, created.ID, "crear", created.Name)
	return created, nil
}

// Update sin imagen ni estado conserva los actuales; quitar_imagen borra la imagen.
func (uc *CategoryUseCase) Update(ctx context.Context, id int64, in dto.CategoryRequest) (*entity.Category, error) {
	c, err := uc.build(ctx, in)
	if err != nil {
		return nil, err
	}
	c.ID = id
	keepImage := c.Image == "" && !in.RemoveImage
	if keepImage || in.Status == "" {
		current, err := uc.repo.FetchByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if keepImage {
			c.Image = current.Image
		}
		if in.Status == "" {
			c.Status = current.Status
		}
	}
	updated, err := uc.repo.Update(ctx, c)
	if err != nil {
		return nil, err
	}
	uc.audit.record(ctx, id, "editar", updated.Name)
	return updated, nil
}

func (uc *CategoryUseCase) Delete(ctx context.Context, id int64) error {
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	uc.audit.record(ctx, id, "eliminar", "")
	return nil
}

// ToggleStatus invierte activo/inactivo partiendo del estado actual en el backend.
func (uc *CategoryUseCase) ToggleStatus(ctx context.Context, id int64) (entity.Estado, error) {
	c, err := uc.repo.FetchByID(ctx, id)
	if err != nil {
		return "", err
	}
	next, err := uc.repo.ToggleStatus(ctx, id, c.Status)
	if err != nil {
		return "", err
	}
	uc.audit.record(ctx, id, "cambiar-estado", string(next))
	return next, nil
}

func (uc *CategoryUseCase) build(ctx context.Context, in dto.CategoryRequest) (*entity.Category, error) {
	if err := forms.CategoryForm.ValidateAll(in); err != nil {
		return nil, err
	}
	c := &entity.Category{
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		Status:      entity.Estado(in.Status),
	}
	if in.RemoveImage {
		return c, nil
	}
	if img := strings.TrimSpace(in.Image); img != "" {
		if uc.images == nil {
			c.Image = img
		} else {
			encoded, err := uc.images.Encode(ctx, img)
			if err != nil {
				return nil, &forms.ValidationError{Fields: map[string]string{"imagen": "La imagen no es válida o es demasiado grande"}}
			}
			c.Image = encoded
		}
	}
	return c, nil
}
