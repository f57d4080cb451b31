package sessionstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/nextmeal/backoffice/internal/domain"
	"github.com/nextmeal/backoffice/internal/domain/entity"
	"github.com/nextmeal/backoffice/internal/domain/repository"
)

var _ repository.SessionStore = (*Redis)(nil)

const redisPrefix = "backoffice:sesion:"

// Redis almacén compartido entre instancias; la expiración la aplica Redis.
type Redis struct {
	rdb    *redis.Client
	sealer *Sealer
}

// NewRedis conecta y verifica con PING.
func NewRedis(ctx context.Context, addr, password string, db int, sealer *Sealer) (*Redis, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &Redis{rdb: rdb, sealer: sealer}, nil
}

func (r *Redis) Get(ctx context.Context, id string) (*entity.Session, error) {
	raw, err := r.rdb.Get(ctx, redisPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get sesión: %w", err)
	}
	s, err := r.sealer.decode(raw)
	if errors.Is(err, ErrSealBroken) {
		return nil, domain.ErrSessionNotFound
	}
	return s, err
}

func (r *Redis) Put(ctx context.Context, s *entity.Session, ttl time.Duration) error {
	raw, err := r.sealer.encode(s)
	if err != nil {
		return err
	}
	if err := r.rdb.Set(ctx, redisPrefix+s.ID, raw, ttl).Err(); err != nil {
		return fmt.Errorf("redis set sesión: %w", err)
	}
	return nil
}

func (r *Redis) Delete(ctx context.Context, id string) error {
	if err := r.rdb.Del(ctx, redisPrefix+id).Err(); err != nil {
		return fmt.Errorf("redis del sesión: %w", err)
	}
	return nil
}

// Close cierra la conexión.
func (r *Redis) Close() error {
	return r.rdb.Close()
}
