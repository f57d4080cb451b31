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

// UserSpec búsqueda por nombre y correo.
var UserSpec = listing.Spec[entity.User]{
	Haystack: func(u entity.User) string { return listing.Join(u.Name, u.Email) },
	Sorts: map[string]func(a, b entity.User) int{
		"id":     func(a, b entity.User) int { return cmp.Compare(a.ID, b.ID) },
		"nombre": func(a, b entity.User) int { return cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)) },
		"rol":    func(a, b entity.User) int { return cmp.Compare(a.RoleID, b.RoleID) },
	},
}

// UserUseCase gestión de usuarios del tablero.
type UserUseCase struct {
	repo     repository.UserRepository
	pageSize int
	audit    recorder
}

// NewUserUseCase construye el caso de uso.
func NewUserUseCase(repo repository.UserRepository, pageSize int, audit ports.AuditSink) *UserUseCase {
	return &UserUseCase{repo: repo, pageSize: pageSize, audit: newRecorder(audit, "usuarios")}
}

func (uc *UserUseCase) List(ctx context.Context, q listing.Query) (listing.Page[entity.User], error) {
	items, err := uc.repo.FetchAll(ctx)
	if err != nil {
		return listing.Page[entity.User]{}, err
	}
	return listing.Apply(items, q, UserSpec, uc.pageSize), nil
}

// Loader fuente de la vista de usuarios.
func (uc *UserUseCase) Loader() listing.Loader[entity.User] {
	return uc.repo.FetchAll
}

func (uc *UserUseCase) Get(ctx context.Context, id int64) (*entity.User, error) {
	return uc.repo.FetchByID(ctx, id)
}

// Create registra el usuario; la contraseña es obligatoria.
func (uc *UserUseCase) Create(ctx context.Context, in dto.UserRequest) (*entity.User, error) {
	if err := forms.UserForm(true).ValidateAll(in); err != nil {
		return nil, err
	}
	u := userFromRequest(in)
	u.Status = statusOrDefault(in.Status)
	created, err := uc.repo.Create(ctx, &u)
	if err != nil {
		return nil, err
	}
	uc.audit.record(ctx, created.ID, "crear", created.Email)
	return created, nil
}

// Update sin contraseña ni estado se conservan los actuales.
func (uc *UserUseCase) Update(ctx context.Context, id int64, in dto.UserRequest) (*entity.User, error) {
	err := forms.UserForm(false).ValidateAll(in)
	if err != nil {
		return nil, err
	}
	u := userFromRequest(in)
	u.ID = id
	u.Status, err = keepStatus(ctx, in.Status, func(ctx context.Context) (entity.Estado, error) {
		current, err := uc.repo.FetchByID(ctx, id)
		if err != nil {
			return "", err
		}
		return current.Status, nil
	})
	if err != nil {
		return nil, err
	}
	updated, err := uc.repo.Update(ctx, &u)
	if err != nil {
		return nil, err
	}
	uc.audit.record(ctx, id, "editar", updated.Email)
	return updated, nil
}

// Delete es idempotente: un usuario inexistente cuenta como eliminado.
func (uc *UserUseCase) Delete(ctx context.Context, id int64) error {
	if err := uc.repo.Delete(ctx, id); err != nil && !IsNotFound(err) {
		return err
	}
	uc.audit.record(ctx, id, "eliminar", "")
	return nil
}

// ToggleStatus invierte activo/inactivo partiendo del estado actual en el backend.
func (uc *UserUseCase) ToggleStatus(ctx context.Context, id int64) (entity.Estado, error) {
	u, err := uc.repo.FetchByID(ctx, id)
	if err != nil {
		return "", err
	}
	next, err := uc.repo.ToggleStatus(ctx, id, u.Status)
	if err != nil {
		return "", err
	}
	uc.audit.record(ctx, id, "cambiar-estado", string(next))
	return next, nil
}

func userFromRequest(in dto.UserRequest) entity.User {
	return entity.User{
		Name:     strings.TrimSpace(in.Name),
		Email:    strings.TrimSpace(in.Email),
		Password: in.Password,
		RoleID:   in.RoleID,
	}
}
