package sessionstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nextmeal/backoffice/internal/domain"
	"github.com/nextmeal/backoffice/internal/domain/entity"
	"github.com/nextmeal/backoffice/internal/domain/repository"
)

var _ repository.SessionStore = (*Postgres)(nil)

const sessionSchema = `
	CREATE TABLE IF NOT EXISTS backoffice_sessions (
		id         TEXT PRIMARY KEY,
		payload    BYTEA NOT NULL,
		expires_at TIMESTAMPTZ NOT NULL
	);
	CREATE INDEX IF NOT EXISTS backoffice_sessions_expires_idx ON backoffice_sessions (expires_at)`

// Postgres almacén sobre la tabla backoffice_sessions.
type Postgres struct {
	pool   *pgxpool.Pool
	sealer *Sealer
}

// NewPostgres construye el almacén. Llamar a EnsureSchema antes de usarlo.
func NewPostgres(pool *pgxpool.Pool, sealer *Sealer) *Postgres {
	return &Postgres{pool: pool, sealer: sealer}
}

// EnsureSchema crea la tabla si no existe.
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	if _, err := p.pool.Exec(ctx, sessionSchema); err != nil {
		return fmt.Errorf("crear tabla de sesiones: %w", err)
	}
	return nil
}

func (p *Postgres) Get(ctx context.Context, id string) (*entity.Session, error) {
	var raw []byte
	err := p.pool.QueryRow(ctx,
		`SELECT payload FROM backoffice_sessions WHERE id = $1 AND expires_at > now()`, id,
	).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select sesión: %w", err)
	}
	s, err := p.sealer.decode(raw)
	if errors.Is(err, ErrSealBroken) {
		return nil, domain.ErrSessionNotFound
	}
	return s, err
}

// Put ttl <= 0 se guarda por 24 horas.
func (p *Postgres) Put(ctx context.Context, s *entity.Session, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	raw, err := p.sealer.encode(s)
	if err != nil {
		return err
	}
	_, err = p.pool.Exec(ctx, `
		INSERT INTO backoffice_sessions (id, payload, expires_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET payload = EXCLUDED.payload, expires_at = EXCLUDED.expires_at`,
		s.ID, raw, time.Now().Add(ttl),
	)
	if err != nil {
		return fmt.Errorf("upsert sesión: %w", err)
	}
	return nil
}

func (p *Postgres) Delete(ctx context.Context, id string) error {
	if _, err := p.pool.Exec(ctx, `DELETE FROM backoffice_sessions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete sesión: %w", err)
	}
	return nil
}

// PurgeExpired borra las sesiones vencidas y devuelve cuántas eran.
func (p *Postgres) PurgeExpired(ctx context.Context) (int64, error) {
	tag, err := p.pool.Exec(ctx, `DELETE FROM backoffice_sessions WHERE expires_at <= now()`)
	if err != nil {
		return 0, fmt.Errorf("purgar sesiones: %w", err)
	}
	return tag.RowsAffected(), nil
}
