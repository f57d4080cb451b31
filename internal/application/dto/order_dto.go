package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderLineRequest línea solicitada; el precio unitario sale del catálogo.
type OrderLineRequest struct {
	ProductID int64 `json:"id_producto"`
	Quantity  int   `json:"cantidad"`
}

// OrderRequest formulario de pedido (dos pasos: cliente y envío, productos).
type OrderRequest struct {
	ClientID        int64              `json:"id_cliente"`
	ShippingAddress string             `json:"direccion_envio"`
	Items           []OrderLineRequest `json:"detalles"`
}

// MoveCardRequest arrastre de una tarjeta del tablero a otra columna.
type MoveCardRequest struct {
	ID     int64  `json:"id"`
	Estado string `json:"estado"`
}

// NextStatesResponse estados a los que puede pasar un pedido.
type NextStatesResponse struct {
	ID       int64    `json:"id"`
	Estado   string   `json:"estado"`
	Terminal bool     `json:"terminal"`
	Options  []string `json:"opciones"`
}

// SaleRequest formulario de venta.
type SaleRequest struct {
	OrderID       int64  `json:"id_pedido"`
	PaymentMethod string `json:"metodo_pago"`
}

// SaleOption opción del selector de pedidos del formulario de venta.
type SaleOption struct {
	OrderID int64           `json:"id_pedido"`
	Label   string          `json:"etiqueta"`
	Total   decimal.Decimal `json:"total"`
}

// SaleFormResponse estado del formulario de venta.
type SaleFormResponse struct {
	Placeholder    string       `json:"placeholder"`
	Options        []SaleOption `json:"opciones"`
	PaymentMethods []string     `json:"metodos_pago"`
	CanSubmit      bool         `json:"puede_enviar"`
}

// AuditEventResponse entrada del registro de auditoría.
type AuditEventResponse struct {
	ID         string           `json:"id"`
	UserID     int64            `json:"id_usuario"`
	Resource   string           `json:"recurso"`
	ResourceID int64            `json:"id_recurso"`
	Action     string           `json:"accion"`
	Detail     string           `json:"detalle,omitempty"`
	Amount     *decimal.Decimal `json:"monto,omitempty"`
	CreatedAt  time.Time        `json:"fecha"`
}
