package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AuditEvent acción de un usuario del tablero sobre un recurso.
type AuditEvent struct {
	ID         uuid.UUID        `json:"id"`
	UserID     int64            `json:"id_usuario"`
	Resource   string           `json:"recurso"`
	ResourceID int64            `json:"id_recurso"`
	Action     string           `json:"accion"`
	Detail     string           `json:"detalle,omitempty"`
	Amount     *decimal.Decimal `json:"monto,omitempty"`
	CreatedAt  time.Time        `json:"fecha"`
}
