package repository

import (
	"context"

	"github.com/nextmeal/backoffice/internal/domain/entity"
)

// ClientRepository define el puerto de acceso a clientes del backend (DIP).
type ClientRepository interface {
	FetchAll(ctx context.Context) ([]entity.Client, error)
	FetchByID(ctx context.Context, id int64) (*entity.Client, error)
	Create(ctx context.Context, client *entity.Client) (*entity.Client, error)
	Update(ctx context.Context, client *entity.Client) (*entity.Client, error)
	Delete(ctx context.Context, id int64) error
	// ToggleStatus envía el inverso de current y devuelve el estado resultante.
	ToggleStatus(ctx context.Context, id int64, current entity.Estado) (entity.Estado, error)
}
