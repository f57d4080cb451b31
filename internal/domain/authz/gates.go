package authz

import "github.com/nextmeal/backoffice/internal/domain/order"

// Elementos de UI sujetos a compuerta.
const (
	ElementCreate = "crear"
	ElementEdit   = "editar"
	ElementStatus = "cambiar-estado"
	ElementDelete = "eliminar"
)

const (
	tooltipNoPermission = "No tiene permisos para esta acción"
	tooltipAdminOnly    = "Solo el administrador puede eliminar"
	tooltipTerminal     = "El pedido está en un estado final"
)

// Gate estado de un botón o ítem de menú: deshabilitado con tooltip en lugar de oculto,
// salvo eliminar, que solo existe para el administrador.
type Gate struct {
	Element string `json:"elemento"`
	Visible bool   `json:"visible"`
	Enabled bool   `json:"habilitado"`
	Tooltip string `json:"tooltip,omitempty"`
}

// Gates compuertas de la vista de listado de un recurso.
func Gates(p Policy, resource string) []Gate {
	return []Gate{
		permissionGate(p, ElementCreate, resource, ActionCreate),
		permissionGate(p, ElementEdit, resource, ActionEdit),
		permissionGate(p, ElementStatus, resource, ActionEdit),
		deleteGate(p),
	}
}

// ItemGates compuertas de una fila concreta. Para pedidos añade la restricción de estado final.
func ItemGates(p Policy, resource, status string) []Gate {
	gates := Gates(p, resource)
	if resource != ResourceOrders || !order.Status(status).IsTerminal() {
		return gates
	}
	for i := range gates {
		switch gates[i].Element {
		case ElementEdit, ElementStatus, ElementDelete:
			gates[i].Enabled = false
			gates[i].Tooltip = tooltipTerminal
		}
	}
	return gates
}

// Find devuelve la compuerta del elemento indicado.
func Find(gates []Gate, element string) (Gate, bool) {
	for _, g := range gates {
		if g.Element == element {
			return g, true
		}
	}
	return Gate{}, false
}

func permissionGate(p Policy, element, resource, action string) Gate {
	g := Gate{Element: element, Visible: true, Enabled: p.HasPermission(resource, action)}
	if !g.Enabled {
		g.Tooltip = tooltipNoPermission
	}
	return g
}

func deleteGate(p Policy) Gate {
	if p.IsAdmin() {
		return Gate{Element: ElementDelete, Visible: true, Enabled: true}
	}
	return Gate{Element: ElementDelete, Visible: false, Enabled: false, Tooltip: tooltipAdminOnly}
}
