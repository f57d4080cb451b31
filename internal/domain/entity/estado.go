package entity

// Estado activo/inactivo compartido por clientes, productos, categorías y usuarios.
type Estado string

const (
	EstadoActivo   Estado = "activo"
	EstadoInactivo Estado = "inactivo"
)

// Toggle devuelve el estado inverso. Cualquier valor distinto de activo se considera inactivo.
func (e Estado) Toggle() Estado {
	if e == EstadoActivo {
		return EstadoInactivo
	}
	return EstadoActivo
}

// Valid indica si el estado es uno de los dos conocidos.
func (e Estado) Valid() bool {
	return e == EstadoActivo || e == EstadoInactivo
}
