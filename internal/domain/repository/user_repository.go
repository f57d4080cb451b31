package repository

import (
	"context"

	"github.com/nextmeal/backoffice/internal/domain/entity"
)

// UserRepository define el puerto de acceso a usuarios del backend (DIP).
type UserRepository interface {
	FetchAll(ctx context.Context) ([]entity.User, error)
	FetchByID(ctx context.Context, id int64) (*entity.User, error)
	// Create registra el usuario por el endpoint de registro.
	Create(ctx context.Context, user *entity.User) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) (*entity.User, error)
	// Delete trata "no encontrado" como éxito.
	Delete(ctx context.Context, id int64) error
	// ToggleStatus envía el inverso de current y devuelve el estado resultante.
	ToggleStatus(ctx context.Context, id int64, current entity.Estado) (entity.Estado, error)
}
