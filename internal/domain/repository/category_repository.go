package repository

import (
	"context"

	"github.com/nextmeal/backoffice/internal/domain/entity"
)

// CategoryRepository define el puerto de acceso a categorías del backend (DIP).
type CategoryRepository interface {
	FetchAll(ctx context.Context) ([]entity.Category, error)
	FetchByID(ctx context.Context, id int64) (*entity.Category, error)
	Create(ctx context.Context, category *entity.Category) (*entity.Category, error)
	Update(ctx context.Context, category *entity.Category) (*entity.Category, error)
	Delete(ctx context.Context, id int64) error
	// ToggleStatus envía el inverso de current y devuelve el estado resultante.
	ToggleStatus(ctx context.Context, id int64, current entity.Estado) (entity.Estado, error)
}
