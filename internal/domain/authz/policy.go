// Package authz contiene el modelo de autorización del tablero: la política de permisos de
// la identidad actual, los permisos por defecto del modo degradado y las compuertas de UI.
package authz

import "github.com/nextmeal/backoffice/internal/domain/entity"

// AdminRoleID rol de administrador: tiene todos los permisos.
const AdminRoleID int64 = 1

// Recursos gestionados por el tablero.
const (
	ResourceClients    = "clientes"
	ResourceProducts   = "productos"
	ResourceSales      = "ventas"
	ResourceOrders     = "pedidos"
	ResourceCategories = "categorias"
	ResourceUsers      = "usuarios"
	ResourceRoles      = "roles"
)

// Acciones. Los permisos configurables por rol solo usan crear y editar.
const (
	ActionView   = "ver"
	ActionCreate = "crear"
	ActionEdit   = "editar"
	ActionDelete = "eliminar"
)

// ConfigurableResources recursos que aparecen en la matriz de permisos de un rol.
func ConfigurableResources() []string {
	return []string{ResourceClients, ResourceProducts, ResourceSales, ResourceOrders, ResourceCategories}
}

// ConfigurableActions acciones que aparecen en la matriz de permisos de un rol.
func ConfigurableActions() []string {
	return []string{ActionCreate, ActionEdit}
}

// baseViewResources siempre se pueden ver por cualquier usuario autenticado.
var baseViewResources = map[string]bool{
	ResourceProducts:   true,
	ResourceCategories: true,
	ResourceSales:      true,
	ResourceOrders:     true,
	ResourceClients:    true,
}

// adminOnlyResources solo existen para el administrador.
var adminOnlyResources = map[string]bool{
	ResourceUsers: true,
	ResourceRoles: true,
}

// Source origen del conjunto de permisos cargado.
type Source string

const (
	SourceServer   Source = "servidor"
	SourceDegraded Source = "degradado"
	SourceNone     Source = ""
)

// Policy identidad actual más su conjunto de permisos. Es el único punto de decisión de
// autorización; nadie más interpreta la lista de permisos.
type Policy struct {
	UserID      int64
	RoleID      int64
	Permissions []entity.Permission
	Source      Source
}

// Anonymous política sin identidad: no concede nada.
func Anonymous() Policy {
	return Policy{}
}

// Authenticated indica si hay un usuario detrás de la política.
func (p Policy) Authenticated() bool {
	return p.UserID != 0
}

// HasRole comparación directa con el rol del usuario.
func (p Policy) HasRole(roleID int64) bool {
	return p.Authenticated() && p.RoleID == roleID
}

// IsAdmin atajo para HasRole(AdminRoleID).
func (p Policy) IsAdmin() bool {
	return p.HasRole(AdminRoleID)
}

// Degraded indica si los permisos provienen de los valores por defecto y no del servidor.
func (p Policy) Degraded() bool {
	return p.Source == SourceDegraded
}

// HasPermission decide si la identidad puede ejecutar action sobre resource.
//
// Orden de evaluación: administrador siempre; "ver" sobre recursos base siempre; recursos
// exclusivos de administrador nunca; por último búsqueda del par (recurso, acción) activo.
func (p Policy) HasPermission(resource, action string) bool {
	if !p.Authenticated() {
		return false
	}
	if p.IsAdmin() {
		return true
	}
	if action == ActionView && baseViewResources[resource] {
		return true
	}
	// Las negaciones van antes de la búsqueda: ningún permiso cargado concede eliminar ni
	// abre un recurso exclusivo de administrador. Las compuertas de ruta y de elemento
	// (RequireAdmin, Gates) dependen de esta precedencia.
	if adminOnlyResources[resource] || action == ActionDelete {
		return false
	}
	for _, perm := range p.Permissions {
		if perm.Active && perm.Resource == resource && perm.Action == action {
			return true
		}
	}
	return false
}

// CanAccess regla de la guardia de rutas: poder ver el recurso.
func (p Policy) CanAccess(resource string) bool {
	return p.HasPermission(resource, ActionView)
}
