package dto

import "github.com/shopspring/decimal"

// ClientRequest formulario de cliente (dos pasos: datos personales, contacto).
type ClientRequest struct {
	FullName       string `json:"nombre_completo"`
	DocumentType   string `json:"tipo_documento"`
	DocumentNumber string `json:"numero_documento"`
	Email          string `json:"correo"`
	Phone          string `json:"telefono"`
	Address        string `json:"direccion"`
	Gender         string `json:"genero"`
	Status         string `json:"estado"`
}

// ProductRequest formulario de producto.
type ProductRequest struct {
	Name        string          `json:"nombre"`
	Price       decimal.Decimal `json:"precio"`
	Quantity    int             `json:"cantidad"`
	Description string          `json:"descripcion"`
	CategoryID  int64           `json:"id_categoria"`
	Status      string          `json:"estado"`
}

// CategoryRequest formulario de categoría. Image es un data URI o base64 sin prefijo; vacío = sin imagen
// al crear y la imagen actual al editar. RemoveImage la borra al editar.
type CategoryRequest struct {
	Name        string `json:"nombre"`
	Description string `json:"descripcion"`
	Image       string `json:"imagen"`
	RemoveImage bool   `json:"quitar_imagen"`
	Status      string `json:"estado"`
}
