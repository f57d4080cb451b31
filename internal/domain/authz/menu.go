package authz

// MenuItem entrada de la barra lateral.
type MenuItem struct {
	Resource string `json:"recurso"`
	Label    string `json:"titulo"`
	Path     string `json:"ruta"`
}

var menu = []MenuItem{
	{Resource: "", Label: "Inicio", Path: "/dashboard"},
	{Resource: ResourceClients, Label: "Clientes", Path: "/clientes"},
	{Resource: ResourceCategories, Label: "Categorías", Path: "/categorias"},
	{Resource: ResourceProducts, Label: "Productos", Path: "/productos"},
	{Resource: ResourceOrders, Label: "Pedidos", Path: "/pedidos"},
	{Resource: ResourceSales, Label: "Ventas", Path: "/ventas"},
	{Resource: ResourceUsers, Label: "Usuarios", Path: "/usuarios"},
	{Resource: ResourceRoles, Label: "Roles", Path: "/roles"},
}

// Menu entradas visibles para la política. Inicio siempre está.
func Menu(p Policy) []MenuItem {
	if !p.Authenticated() {
		return nil
	}
	out := make([]MenuItem, 0, len(menu))
	for _, item := range menu {
		if item.Resource == "" || p.CanAccess(item.Resource) {
			out = append(out, item)
		}
	}
	return out
}
