package repository

import (
	"context"

	"github.com/nextmeal/backoffice/internal/domain/entity"
)

// OrderRepository define el puerto de acceso a pedidos del backend (DIP).
type OrderRepository interface {
	FetchAll(ctx context.Context) ([]entity.Order, error)
	FetchByID(ctx context.Context, id int64) (*entity.Order, error)
	// FetchByStatus filtra en el servidor por estado.
	FetchByStatus(ctx context.Context, status string) ([]entity.Order, error)
	Create(ctx context.Context, order *entity.Order) (*entity.Order, error)
	Update(ctx context.Context, order *entity.Order) (*entity.Order, error)
	Delete(ctx context.Context, id int64) error
	// ChangeStatus persiste solo el estado. No valida la transición.
	ChangeStatus(ctx context.Context, id int64, status string) error
}

// SaleRepository define el puerto de acceso a ventas del backend (DIP).
type SaleRepository interface {
	FetchAll(ctx context.Context) ([]entity.Sale, error)
	FetchByID(ctx context.Context, id int64) (*entity.Sale, error)
	Create(ctx context.Context, sale *entity.Sale) (*entity.Sale, error)
	Update(ctx context.Context, sale *entity.Sale) (*entity.Sale, error)
	Delete(ctx context.Context, id int64) error
}
