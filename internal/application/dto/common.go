package dto

// ListRequest parámetros de listado desde la query string.
type ListRequest struct {
	Search string `query:"buscar"`
	Page   int    `query:"pagina"`
	Sort   string `query:"orden"`
	Dir    string `query:"dir" validate:"omitempty,oneof=asc desc"`
}

// Desc indica orden descendente.
func (r ListRequest) Desc() bool {
	return r.Dir == "desc"
}

// ErrorResponse cuerpo de error HTTP. Fields trae el error de cada campo en fallos de validación.
type ErrorResponse struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
	Details []string          `json:"detalles,omitempty"`
}

// MessageResponse confirmación de una acción (el "toast" de éxito).
type MessageResponse struct {
	Message string `json:"message"`
}

// StatusRequest cambio de estado de un recurso.
type StatusRequest struct {
	Estado string `json:"estado"`
}

// StatusResponse estado resultante tras el cambio.
type StatusResponse struct {
	ID     int64  `json:"id"`
	Estado string `json:"estado"`
}

// ViewUpdateRequest cambios sobre una vista abierta. Los campos nulos no se tocan.
type ViewUpdateRequest struct {
	Search *string `json:"buscar"`
	Page   *int    `json:"pagina" validate:"omitempty,min=1"`
	Sort   *string `json:"orden"`
	Dir    string  `json:"dir" validate:"omitempty,oneof=asc desc"`
	Settle bool    `json:"asentar"`
}

// HealthResponse estado del servicio.
type HealthResponse struct {
	Status string `json:"status"`
	Store  string `json:"almacen_sesiones"`
}
