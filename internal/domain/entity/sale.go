package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Métodos de pago aceptados.
const (
	PaymentCash     = "efectivo"
	PaymentTransfer = "transferencia"
)

// Sale venta registrada contra un pedido terminado.
type Sale struct {
	ID            int64           `json:"id"`
	OrderID       int64           `json:"id_pedido"`
	PaymentMethod string          `json:"metodo_pago"`
	Total         decimal.Decimal `json:"total"`
	SoldAt        time.Time       `json:"fecha_venta"`
}

// ValidPaymentMethod indica si el método de pago es efectivo o transferencia.
func ValidPaymentMethod(m string) bool {
	return m == PaymentCash || m == PaymentTransfer
}
