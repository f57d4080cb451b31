package repository

import (
	"context"

	"github.com/nextmeal/backoffice/internal/domain/entity"
)

// ProductRepository define el puerto de acceso a productos del backend (DIP).
type ProductRepository interface {
	FetchAll(ctx context.Context) ([]entity.Product, error)
	FetchByID(ctx context.Context, id int64) (*entity.Product, error)
	Create(ctx context.Context, product *entity.Product) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) (*entity.Product, error)
	Delete(ctx context.Context, id int64) error
	// ToggleStatus envía el inverso de current y devuelve el estado resultante.
	ToggleStatus(ctx context.Context, id int64, current entity.Estado) (entity.Estado, error)
}
