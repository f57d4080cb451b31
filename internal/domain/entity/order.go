package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order cabecera de un pedido con sus líneas.
type Order struct {
	ID              int64           `json:"id"`
	ClientID        int64           `json:"id_cliente"`
	ShippingAddress string          `json:"direccion_envio"`
	Status          string          `json:"estado"` // ver internal/domain/order
	Total           decimal.Decimal `json:"total"`
	OrderedAt       time.Time       `json:"fecha_pedido"`
	Items           []OrderItem     `json:"detalles"`
}

// OrderItem línea de pedido. Subtotal = Quantity × UnitPrice.
type OrderItem struct {
	ProductID int64           `json:"id_producto"`
	Quantity  int             `json:"cantidad"`
	UnitPrice decimal.Decimal `json:"precio_unitario"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// LineSubtotal recalcula el subtotal de la línea.
func (i OrderItem) LineSubtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
