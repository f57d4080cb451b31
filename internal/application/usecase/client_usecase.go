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

// ClientSpec búsqueda por nombre, documento, correo y teléfono.
var ClientSpec = listing.Spec[entity.Client]{
	Haystack: func(c entity.Client) string {
		return listing.Join(c.FullName, c.DocumentNumber, c.Email, c.Phone)
	},
	Sorts: map[string]func(a, b entity.Client) int{
		"id": func(a, b entity.Client) int { return cmp.Compare(a.ID, b.ID) },
		"nombre": func(a, b entity.Client) int {
			return cmp.Compare(strings.ToLower(a.FullName), strings.ToLower(b.FullName))
		},
		"estado": func(a, b entity.Client) int { return cmp.Compare(a.Status, b.Status) },
	},
}

// ClientUseCase casos de uso de clientes.
type ClientUseCase struct {
	repo     repository.ClientRepository
	pageSize int
	audit    recorder
}

// NewClientUseCase construye el caso de uso.
func NewClientUseCase(repo repository.ClientRepository, pageSize int, audit ports.AuditSink) *ClientUseCase {
	return &ClientUseCase{repo: repo, pageSize: pageSize, audit: newRecorder(audit, "clientes")}
}

// List recarga desde el backend y pagina.
func (uc *ClientUseCase) List(ctx context.Context, q listing.Query) (listing.Page[entity.Client], error) {
	items, err := uc.repo.FetchAll(ctx)
	if err != nil {
		return listing.Page[entity.Client]{}, err
	}
	return listing.Apply(items, q, ClientSpec, uc.pageSize), nil
}

// Loader fuente de la vista de clientes.
func (uc *ClientUseCase) Loader() listing.Loader[entity.Client] {
	return uc.repo.FetchAll
}

func (uc *ClientUseCase) Get(ctx context.Context, id int64) (*entity.Client, error) {
	return uc.repo.FetchByID(ctx, id)
}

// ValidateStep valida un paso del formulario sin llamar al backend.
func (uc *ClientUseCase) ValidateStep(in dto.ClientRequest, step int) error {
	return forms.ClientForm.ValidateStep(in, step)
}

// Create valida todos los pasos y registra el cliente activo.
func (uc *ClientUseCase) Create(ctx context.Context, in dto.ClientRequest) (*entity.Client, error) {
	if err := forms.ClientForm.ValidateAll(in); err != nil {
		return nil, err
	}
	c := clientFromRequest(in)
	c.Status = statusOrDefault(in.Status)
	created, err := uc.repo.Create(ctx, &c)
	if err != nil {
		return nil, err
	}
	uc.audit.record(ctx, created.ID, "crear", created.FullName)
	return created, nil
}

// Update sin estado conserva el actual.
func (uc *ClientUseCase) Update(ctx context.Context, id int64, in dto.ClientRequest) (*entity.Client, error) {
	err := forms.ClientForm.ValidateAll(in)
	if err != nil {
		return nil, err
	}
	c := clientFromRequest(in)
	c.ID = id
	c.Status, err = keepStatus(ctx, in.Status, func(ctx context.Context) (entity.Estado, error) {
		current, err := uc.repo.FetchByID(ctx, id)
		if err != nil {
			return "", err
		}
		return current.Status, nil
	})
	if err != nil {
		return nil, err
	}
	updated, err := uc.repo.Update(ctx, &c)
	if err != nil {
		return nil, err
	}
	uc.audit.record(ctx, id, "editar", updated.FullName)
	return updated, nil
}

func (uc *ClientUseCase) Delete(ctx context.Context, id int64) error {
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	uc.audit.record(ctx, id, "eliminar", "")
	return nil
}

// ToggleStatus invierte activo/inactivo partiendo del estado actual en el backend.
func (uc *ClientUseCase) ToggleStatus(ctx context.Context, id int64) (entity.Estado, error) {
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

func clientFromRequest(in dto.ClientRequest) entity.Client {
	return entity.Client{
		FullName:       strings.TrimSpace(in.FullName),
		DocumentType:   in.DocumentType,
		DocumentNumber: in.DocumentNumber,
		Email:          strings.TrimSpace(in.Email),
		Phone:          in.Phone,
		Address:        strings.TrimSpace(in.Address),
		Gender:         in.Gender,
	}
}
