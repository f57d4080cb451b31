package entity

import "github.com/shopspring/decimal"

// Product representa un producto del menú.
// El nombre debe ser único entre productos activos; el backend es la autoridad final.
type Product struct {
	ID          int64           `json:"id"`
	Name        string          `json:"nombre"`
	Price       decimal.Decimal `json:"precio"`
	Quantity    int             `json:"cantidad"`
	Description string          `json:"descripcion"`
	CategoryID  int64           `json:"id_categoria"`
	Status      Estado          `json:"estado"`
}
