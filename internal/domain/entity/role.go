package entity

// Role rol con su conjunto de permisos.
type Role struct {
	ID          int64        `json:"id"`
	Name        string       `json:"nombre"`
	Permissions []Permission `json:"permisos,omitempty"`
}

// Permission par (recurso, acción) con bandera de activo, otorgado a un rol.
type Permission struct {
	ID       int64  `json:"id,omitempty"`
	RoleID   int64  `json:"id_rol"`
	Resource string `json:"recurso"`
	Action   string `json:"accion"`
	Active   bool   `json:"activo"`
}
