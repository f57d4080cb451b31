package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nextmeal/backoffice/internal/domain"
	"github.com/nextmeal/backoffice/internal/domain/entity"
	"github.com/nextmeal/backoffice/internal/domain/repository"
)

var _ repository.AuditRepository = (*AuditRepo)(nil)

const auditSchema = `
	CREATE TABLE IF NOT EXISTS audit_events (
		id          UUID PRIMARY KEY,
		user_id     BIGINT NOT NULL DEFAULT 0,
		resource    TEXT NOT NULL,
		resource_id BIGINT NOT NULL DEFAULT 0,
		action      TEXT NOT NULL,
		detail      TEXT NOT NULL DEFAULT '',
		amount      NUMERIC(14,2),
		created_at  TIMESTAMPTZ NOT NULL
	);
	CREATE INDEX IF NOT EXISTS audit_events_created_idx ON audit_events (created_at DESC)`

// AuditRepo implementación de AuditRepository (usable con pool o tx).
type AuditRepo struct {
	q Querier
}

// NewAuditRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAuditRepository(q Querier) *AuditRepo {
	return &AuditRepo{q: q}
}

// EnsureSchema crea la tabla si no existe.
func (r *AuditRepo) EnsureSchema(ctx context.Context) error {
	if _, err := r.q.Exec(ctx, auditSchema); err != nil {
		return fmt.Errorf("crear tabla de auditoría: %w", err)
	}
	return nil
}

// Save persiste un evento.
func (r *AuditRepo) Save(ctx context.Context, ev *entity.AuditEvent) error {
	amount := decimal.NullDecimal{}
	if ev.Amount != nil {
		amount = decimal.NewNullDecimal(*ev.Amount)
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO audit_events (id, user_id, resource, resource_id, action, detail, amount, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		ev.ID.String(), ev.UserID, ev.Resource, ev.ResourceID, ev.Action, ev.Detail, amount, ev.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

// List eventos del más reciente al más antiguo.
func (r *AuditRepo) List(ctx context.Context, limit, offset int) ([]entity.AuditEvent, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.q.Query(ctx, `
		SELECT id::text, user_id, resource, resource_id, action, detail, amount, created_at
		FROM audit_events
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list audit events: %w", err)
	}
	defer rows.Close()

	out := []entity.AuditEvent{}
	for rows.Next() {
		var (
			ev     entity.AuditEvent
			id     string
			amount decimal.NullDecimal
		)
		if err := rows.Scan(&id, &ev.UserID, &ev.Resource, &ev.ResourceID, &ev.Action, &ev.Detail, &amount, &ev.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		if ev.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("audit event id: %w", err)
		}
		if amount.Valid {
			a := amount.Decimal
			ev.Amount = &a
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}
