package usecase

import (
	"cmp"
	"context"
	"fmt"
	"strings"

	"github.com/nextmeal/backoffice/internal/application/dto"
	"github.com/nextmeal/backoffice/internal/application/forms"
	"github.com/nextmeal/backoffice/internal/application/listing"
	"github.com/nextmeal/backoffice/internal/application/ports"
	"github.com/nextmeal/backoffice/internal/domain"
	"github.com/nextmeal/backoffice/internal/domain/authz"
	"github.com/nextmeal/backoffice/internal/domain/entity"
	"github.com/nextmeal/backoffice/internal/domain/repository"
)

// RoleSpec búsqueda por nombre.
var RoleSpec = listing.Spec[entity.Role]{
	Haystack: func(r entity.Role) string { return r.Name },
	Sorts: map[string]func(a, b entity.Role) int{
		"id":     func(a, b entity.Role) int { return cmp.Compare(a.ID, b.ID) },
		"nombre": func(a, b entity.Role) int { return cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)) },
	},
}

// RoleUseCase roles y editor de la matriz de permisos.
type RoleUseCase struct {
	roles    repository.RoleRepository
	perms    repository.PermissionRepository
	pageSize int
	audit    recorder
}

// NewRoleUseCase construye el caso de uso.
func NewRoleUseCase(roles repository.RoleRepository, perms repository.PermissionRepository, pageSize int, audit ports.AuditSink) *RoleUseCase {
	return &RoleUseCase{roles: roles, perms: perms, pageSize: pageSize, audit: newRecorder(audit, "roles")}
}

func (uc *RoleUseCase) List(ctx context.Context, q listing.Query) (listing.Page[entity.Role], error) {
	items, err := uc.roles.FetchAll(ctx)
	if err != nil {
		return listing.Page[entity.Role]{}, err
	}
	return listing.Apply(items, q, RoleSpec, uc.pageSize), nil
}

// Loader fuente de la vista de roles.
func (uc *RoleUseCase) Loader() listing.Loader[entity.Role] {
	return uc.roles.FetchAll
}

func (uc *RoleUseCase) Get(ctx context.Context, id int64) (*entity.Role, error) {
	return uc.roles.FetchByID(ctx, id)
}

func (uc *RoleUseCase) Create(ctx context.Context, in dto.RoleRequest) (*entity.Role, error) {
	if err := forms.RoleForm.ValidateAll(in); err != nil {
		return nil, err
	}
	created, err := uc.roles.Create(ctx, &entity.Role{Name: strings.TrimSpace(in.Name)})
	if err != nil {
		return nil, err
	}
	uc.audit.record(ctx, created.ID, "crear", created.Name)
	return created, nil
}

func (uc *RoleUseCase) Update(ctx context.Context, id int64, in dto.RoleRequest) (*entity.Role, error) {
	if err := forms.RoleForm.ValidateAll(in); err != nil {
		return nil, err
	}
	updated, err := uc.roles.Update(ctx, &entity.Role{ID: id, Name: strings.TrimSpace(in.Name)})
	if err != nil {
		return nil, err
	}
	uc.audit.record(ctx, id, "editar", updated.Name)
	return updated, nil
}

// Delete el rol administrador no se elimina.
func (uc *RoleUseCase) Delete(ctx context.Context, id int64) error {
	if id == authz.AdminRoleID {
		return fmt.Errorf("%w: el rol administrador no se puede eliminar", domain.ErrConflict)
	}
	if err := uc.roles.Delete(ctx, id); err != nil {
		return err
	}
	uc.audit.record(ctx, id, "eliminar", "")
	return nil
}

// Matrix matriz recurso × acción del rol con lo que hoy tiene concedido en el servidor.
func (uc *RoleUseCase) Matrix(ctx context.Context, roleID int64) (dto.RoleMatrixResponse, error) {
	role, err := uc.roles.FetchByID(ctx, roleID)
	if err != nil {
		return dto.RoleMatrixResponse{}, err
	}
	granted, err := uc.perms.ByRole(ctx, roleID)
	if err != nil {
		return dto.RoleMatrixResponse{}, err
	}
	m := emptyMatrix()
	for _, p := range granted {
		if row, ok := m[p.Resource]; ok {
			if _, ok := row[p.Action]; ok {
				row[p.Action] = p.Active
			}
		}
	}
	role.Permissions = nil
	return dto.RoleMatrixResponse{
		Role:      *role,
		Resources: authz.ConfigurableResources(),
		Actions:   authz.ConfigurableActions(),
		Matrix:    m,
	}, nil
}

// SaveMatrix compara con los permisos del servidor y solo envía las diferencias:
// crea los pares nuevos concedidos y actualiza la bandera de los existentes.
// Devuelve la matriz resultante.
func (uc *RoleUseCase) SaveMatrix(ctx context.Context, roleID int64, in dto.PermissionMatrix) (dto.RoleMatrixResponse, error) {
	if err := validateMatrix(in); err != nil {
		return dto.RoleMatrixResponse{}, err
	}
	if _, err := uc.roles.FetchByID(ctx, roleID); err != nil {
		return dto.RoleMatrixResponse{}, err
	}
	current, err := uc.perms.ByRole(ctx, roleID)
	if err != nil {
		return dto.RoleMatrixResponse{}, err
	}
	existing := make(map[string]entity.Permission, len(current))
	for _, p := range current {
		existing[p.Resource+"/"+p.Action] = p
	}
	changes := 0
	for resource, row := range in {
		for action, want := range row {
			p, ok := existing[resource+"/"+action]
			switch {
			case !ok && want:
				_, err = uc.perms.Create(ctx, &entity.Permission{RoleID: roleID, Resource: resource, Action: action, Active: true})
			case ok && p.Active != want:
				p.Active = want
				_, err = uc.perms.Update(ctx, &p)
			default:
				continue
			}
			if err != nil {
				return dto.RoleMatrixResponse{}, err
			}
			changes++
		}
	}
	if changes > 0 {
		uc.audit.record(ctx, roleID, "editar-permisos", fmt.Sprintf("%d cambios", changes))
	}
	return uc.Matrix(ctx, roleID)
}

func emptyMatrix() dto.PermissionMatrix {
	m := dto.PermissionMatrix{}
	for _, r := range authz.ConfigurableResources() {
		m[r] = map[string]bool{}
		for _, a := range authz.ConfigurableActions() {
			m[r][a] = false
		}
	}
	return m
}

func validateMatrix(in dto.PermissionMatrix) error {
	known := emptyMatrix()
	errs := map[string]string{}
	for resource, row := range in {
		kr, ok := known[resource]
		if !ok {
			errs[resource] = "Recurso no configurable"
			continue
		}
		for action := range row {
			if _, ok := kr[action]; !ok {
				errs[resource+"."+action] = "Acción no configurable"
			}
		}
	}
	if len(errs) > 0 {
		return &forms.ValidationError{Fields: errs}
	}
	return nil
}
