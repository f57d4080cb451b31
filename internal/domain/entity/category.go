package entity

// Category representa una categoría de productos.
// Image viaja como data URI base64 (vacío si no tiene imagen).
type Category struct {
	ID          int64  `json:"id"`
	Name        string `json:"nombre"`
	Description string `json:"descripcion"`
	Image       string `json:"imagen"`
	Status      Estado `json:"estado"`
}
