package repository

import (
	"context"
	"time"

	"github.com/nextmeal/backoffice/internal/domain/entity"
)

// SessionStore define el puerto de persistencia de sesiones del back-office.
// Get devuelve domain.ErrSessionNotFound si no existe o expiró.
type SessionStore interface {
	Get(ctx context.Context, id string) (*entity.Session, error)
	Put(ctx context.Context, s *entity.Session, ttl time.Duration) error
	Delete(ctx context.Context, id string) error
}
