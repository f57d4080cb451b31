package backend

import (
	"context"
	"errors"
	"net/http"

	"github.com/nextmeal/backoffice/internal/domain"
	"github.com/nextmeal/backoffice/internal/domain/entity"
	"github.com/nextmeal/backoffice/internal/domain/repository"
)

// UserRepository implementa repository.UserRepository sobre /autenticacion/usuarios.
type UserRepository struct {
	r resource[entity.User]
}

var _ repository.UserRepository = (*UserRepository)(nil)

// NewUserRepository crea el repositorio de usuarios.
func NewUserRepository(c *Client) *UserRepository {
	return &UserRepository{r: resource[entity.User]{c: c, path: "/autenticacion/usuarios"}}
}

func (x *UserRepository) FetchAll(ctx context.Context) ([]entity.User, error) {
	return x.r.list(ctx)
}

func (x *UserRepository) FetchByID(ctx context.Context, id int64) (*entity.User, error) {
	return x.r.get(ctx, id)
}

// Create POST /autenticacion/register. La contraseña no se devuelve.
func (x *UserRepository) Create(ctx context.Context, user *entity.User) (*entity.User, error) {
	out := *user
	if err := x.r.c.do(ctx, http.MethodPost, "/autenticacion/register", nil, user, &out); err != nil {
		return nil, err
	}
	out.Password = ""
	return &out, nil
}

func (x *UserRepository) Update(ctx context.Context, user *entity.User) (*entity.User, error) {
	out, err := x.r.update(ctx, user.ID, user)
	if err != nil {
		return nil, err
	}
	out.Password = ""
	return out, nil
}

// Delete un 404 significa que el usuario ya no existe: se trata como éxito.
func (x *UserRepository) Delete(ctx context.Context, id int64) error {
	err := x.r.delete(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	return err
}

func (x *UserRepository) ToggleStatus(ctx context.Context, id int64, current entity.Estado) (entity.Estado, error) {
	return x.r.toggle(ctx, id, current)
}
