package authz

import "github.com/nextmeal/backoffice/internal/domain/entity"

// Roles conocidos para el modo degradado.
const (
	EmployeeRoleID int64 = 2
	CourierRoleID  int64 = 3
)

// DegradedPermissions permisos asumidos por el cliente cuando ningún endpoint de permisos
// responde. Cambia la garantía de "verificado por el servidor" a "asumido por el cliente";
// quien lo use debe marcar la política con SourceDegraded.
func DegradedPermissions(roleID int64) []entity.Permission {
	var grants map[string][]string
	switch roleID {
	case AdminRoleID:
		grants = make(map[string][]string)
		for _, r := range ConfigurableResources() {
			grants[r] = ConfigurableActions()
		}
	case EmployeeRoleID:
		grants = map[string][]string{
			ResourceClients: {ActionCreate, ActionEdit},
			ResourceOrders:  {ActionCreate, ActionEdit},
			ResourceSales:   {ActionCreate},
		}
	case CourierRoleID:
		grants = map[string][]string{
			ResourceOrders: {ActionEdit},
		}
	default:
		return nil
	}

	var out []entity.Permission
	for _, r := range ConfigurableResources() {
		for _, a := range grants[r] {
			out = append(out, entity.Permission{RoleID: roleID, Resource: r, Action: a, Active: true})
		}
	}
	return out
}
