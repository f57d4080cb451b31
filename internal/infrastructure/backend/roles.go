package backend

import (
	"context"
	"fmt"
	"net/http"

	"github.com/nextmeal/backoffice/internal/domain/entity"
	"github.com/nextmeal/backoffice/internal/domain/repository"
)

// RoleRepository implementa repository.RoleRepository sobre /rol.
type RoleRepository struct {
	r resource[entity.Role]
}

var _ repository.RoleRepository = (*RoleRepository)(nil)

// NewRoleRepository crea el repositorio de roles.
func NewRoleRepository(c *Client) *RoleRepository {
	return &RoleRepository{r: resource[entity.Role]{c: c, path: "/rol"}}
}

func (x *RoleRepository) FetchAll(ctx context.Context) ([]entity.Role, error) {
	return x.r.list(ctx)
}

func (x *RoleRepository) FetchByID(ctx context.Context, id int64) (*entity.Role, error) {
	return x.r.get(ctx, id)
}

func (x *RoleRepository) Create(ctx context.Context, role *entity.Role) (*entity.Role, error) {
	return x.r.create(ctx, role)
}

func (x *RoleRepository) Update(ctx context.Context, role *entity.Role) (*entity.Role, error) {
	return x.r.update(ctx, role.ID, role)
}

func (x *RoleRepository) Delete(ctx context.Context, id int64) error {
	return x.r.delete(ctx, id)
}

// PermissionRepository implementa repository.PermissionRepository sobre /permiso.
// Sus 401 no disparan el cierre global de sesión.
type PermissionRepository struct {
	r resource[entity.Permission]
}

var _ repository.PermissionRepository = (*PermissionRepository)(nil)

// NewPermissionRepository crea el repositorio de permisos.
func NewPermissionRepository(c *Client) *PermissionRepository {
	return &PermissionRepository{r: resource[entity.Permission]{c: c, path: "/permiso"}}
}

func (x *PermissionRepository) FetchAll(ctx context.Context) ([]entity.Permission, error) {
	return x.r.list(ctx)
}

func (x *PermissionRepository) ByRole(ctx context.Context, roleID int64) ([]entity.Permission, error) {
	return x.listAt(ctx, fmt.Sprintf("/permiso/rol/%d", roleID))
}

func (x *PermissionRepository) ByUser(ctx context.Context, userID int64) ([]entity.Permission, error) {
	return x.listAt(ctx, fmt.Sprintf("/permiso/usuario/%d", userID))
}

func (x *PermissionRepository) Create(ctx context.Context, p *entity.Permission) (*entity.Permission, error) {
	return x.r.create(ctx, p)
}

func (x *PermissionRepository) Update(ctx context.Context, p *entity.Permission) (*entity.Permission, error) {
	return x.r.update(ctx, p.ID, p)
}

func (x *PermissionRepository) Delete(ctx context.Context, id int64) error {
	return x.r.delete(ctx, id)
}

func (x *PermissionRepository) listAt(ctx context.Context, path string) ([]entity.Permission, error) {
	var out []entity.Permission
	if err := x.r.c.do(ctx, http.MethodGet, path, nil, nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []entity.Permission{}
	}
	return out, nil
}
