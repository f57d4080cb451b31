package entity

// Client representa un cliente del negocio.
type Client struct {
	ID             int64  `json:"id"`
	FullName       string `json:"nombre_completo"`
	DocumentType   string `json:"tipo_documento"` // CC, CE, TI, NIT, PAS
	DocumentNumber string `json:"numero_documento"`
	Email          string `json:"correo"`
	Phone          string `json:"telefono"`
	Address        string `json:"direccion"`
	Gender         string `json:"genero"` // masculino, femenino, otro
	Status         Estado `json:"estado"`
}
