package repository

import (
	"context"

	"github.com/nextmeal/backoffice/internal/domain/entity"
)

// RoleRepository define el puerto de acceso a roles del backend (DIP).
type RoleRepository interface {
	FetchAll(ctx context.Context) ([]entity.Role, error)
	FetchByID(ctx context.Context, id int64) (*entity.Role, error)
	Create(ctx context.Context, role *entity.Role) (*entity.Role, error)
	Update(ctx context.Context, role *entity.Role) (*entity.Role, error)
	Delete(ctx context.Context, id int64) error
}

// PermissionRepository define el puerto de acceso a permisos del backend (DIP).
type PermissionRepository interface {
	FetchAll(ctx context.Context) ([]entity.Permission, error)
	ByRole(ctx context.Context, roleID int64) ([]entity.Permission, error)
	ByUser(ctx context.Context, userID int64) ([]entity.Permission, error)
	Create(ctx context.Context, p *entity.Permission) (*entity.Permission, error)
	Update(ctx context.Context, p *entity.Permission) (*entity.Permission, error)
	Delete(ctx context.Context, id int64) error
}
