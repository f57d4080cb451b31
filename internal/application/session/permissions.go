package session

import (
	"context"
	"fmt"

	"github.com/nextmeal/backoffice/internal/domain/authz"
	"github.com/nextmeal/backoffice/internal/domain/entity"
	"github.com/nextmeal/backoffice/internal/domain/repository"
)

type permissionSource struct {
	name  string
	fetch func(ctx context.Context, s *entity.Session) ([]entity.Permission, error)
}

// sources formas del servicio de permisos, en orden de prioridad.
func (m *Manager) sources() []permissionSource {
	return []permissionSource{
		{name: "permiso/usuario", fetch: func(ctx context.Context, s *entity.Session) ([]entity.Permission, error) {
			return m.perms.ByUser(ctx, s.User.ID)
		}},
		{name: "permiso/rol", fetch: func(ctx context.Context, s *entity.Session) ([]entity.Permission, error) {
			return m.perms.ByRole(ctx, s.User.RoleID)
		}},
		{name: "permiso", fetch: func(ctx context.Context, s *entity.Session) ([]entity.Permission, error) {
			all, err := m.perms.FetchAll(ctx)
			if err != nil {
				return nil, err
			}
			out := make([]entity.Permission, 0, len(all))
			for _, p := range all {
				if p.RoleID == s.User.RoleID {
					out = append(out, p)
				}
			}
			return out, nil
		}},
		{name: "rol", fetch: func(ctx context.Context, s *entity.Session) ([]entity.Permission, error) {
			role, err := m.roles.FetchByID(ctx, s.User.RoleID)
			if err != nil {
				return nil, err
			}
			if role.Permissions == nil {
				return []entity.Permission{}, nil
			}
			return role.Permissions, nil
		}},
	}
}

// loadPermissions usa la primera forma que responda. Si ninguna responde y el modo degradado
// está habilitado, aplica los permisos por defecto del rol y marca la sesión como degradada.
func (m *Manager) loadPermissions(ctx context.Context, s *entity.Session) error {
	ctx = repository.WithoutUnauthorizedHook(ctx)
	var lastErr error
	for _, src := range m.sources() {
		perms, err := src.fetch(ctx, s)
		if err != nil {
			m.log.Debug().Err(err).Str("fuente", src.name).Int64("usuario", s.User.ID).Msg("fuente de permisos no disponible")
			lastErr = err
			continue
		}
		s.Permissions = perms
		s.PermissionSource = string(authz.SourceServer)
		s.PermissionsLoaded = true
		return nil
	}

	if !m.cfg.Fallback {
		return fmt.Errorf("cargar permisos: %w", lastErr)
	}
	s.Permissions = authz.DegradedPermissions(s.User.RoleID)
	s.PermissionSource = string(authz.SourceDegraded)
	s.PermissionsLoaded = true
	m.log.Warn().
		Err(lastErr).
		Str("fuente", string(authz.SourceDegraded)).
		Int64("usuario", s.User.ID).
		Int64("rol", s.User.RoleID).
		Msg("servicio de permisos no disponible; se asumen los permisos por defecto del rol")
	return nil
}
