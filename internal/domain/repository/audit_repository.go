package repository

import (
	"context"

	"github.com/nextmeal/backoffice/internal/domain/entity"
)

// AuditRepository define el puerto de persistencia del registro de auditoría.
type AuditRepository interface {
	Save(ctx context.Context, ev *entity.AuditEvent) error
	List(ctx context.Context, limit, offset int) ([]entity.AuditEvent, error)
}
