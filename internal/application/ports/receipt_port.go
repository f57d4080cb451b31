package ports

import (
	"github.com/nextmeal/backoffice/internal/domain/entity"
)

// ReceiptData datos del comprobante de una venta.
type ReceiptData struct {
	Sale     entity.Sale
	Order    entity.Order
	Client   *entity.Client
	Products map[int64]entity.Product
}

// ReceiptGenerator genera el PDF del comprobante de venta.
type ReceiptGenerator interface {
	Generate(data ReceiptData) ([]byte, error)
}
