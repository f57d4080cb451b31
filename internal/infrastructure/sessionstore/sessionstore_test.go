package sessionstore_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nextmeal/backoffice/internal/domain"
	"github.com/nextmeal/backoffice/internal/domain/entity"
	"github.com/nextmeal/backoffice/internal/domain/repository"
	"github.com/nextmeal/backoffice/internal/infrastructure/postgres"
	"github.com/nextmeal/backoffice/internal/infrastructure/sessionstore"
	"github.com/nextmeal/backoffice/pkg/config"
)

func TestSealer_AbreLoQueSella(t *testing.T) {
	s, err := sessionstore.NewSealer("clave-de-prueba")
	require.NoError(t, err)

	sealed, err := s.Seal([]byte("tok-backend"))
	require.NoError(t, err)
	assert.NotContains(t, string(sealed), "tok-backend")

	plain, err := s.Open(sealed)
	require.NoError(t, err)
	assert.Equal(t, "tok-backend", string(plain))
}

func TestSealer_OtraClaveNoAbre(t *testing.T) {
	a, _ := sessionstore.NewSealer("clave-a")
	b, _ := sessionstore.NewSealer("clave-b")
	sealed, err := a.Seal([]byte("secreto"))
	require.NoError(t, err)

	_, err = b.Open(sealed)
	assert.ErrorIs(t, err, sessionstore.ErrSealBroken)

	_, err = a.Open([]byte("corto"))
	assert.ErrorIs(t, err, sessionstore.ErrSealBroken)
}

func TestSealer_ClaveVacia(t *testing.T) {
	_, err := sessionstore.NewSealer("")
	assert.Error(t, err)
}

func TestMemory_GetDevuelveCopia(t *testing.T) {
	ctx := context.Background()
	m := sessionstore.NewMemory()
	in := &entity.Session{ID: "s1", Token: "tok", User: entity.User{ID: 3, RoleID: 2}}
	require.NoError(t, m.Put(ctx, in, time.Minute))

	got, err := m.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), got.User.ID)

	got.Token = "modificado"
	again, _ := m.Get(ctx, "s1")
	assert.Equal(t, "tok", again.Token)
}

func TestMemory_ExpiraYBorra(t *testing.T) {
	ctx := context.Background()
	m := sessionstore.NewMemory()
	require.NoError(t, m.Put(ctx, &entity.Session{ID: "vieja"}, time.Nanosecond))
	time.Sleep(time.Millisecond)
	_, err := m.Get(ctx, "vieja")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	assert.Zero(t, m.Len(), "leer una sesión vencida la borra")

	require.NoError(t, m.Put(ctx, &entity.Session{ID: "s2"}, 0))
	require.NoError(t, m.Delete(ctx, "s2"))
	_, err = m.Get(ctx, "s2")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestMemory_PurgeExpiredBorraSoloLasVencidas(t *testing.T) {
	ctx := context.Background()
	m := sessionstore.NewMemory()
	require.NoError(t, m.Put(ctx, &entity.Session{ID: "a"}, time.Nanosecond))
	require.NoError(t, m.Put(ctx, &entity.Session{ID: "b"}, time.Nanosecond))
	require.NoError(t, m.Put(ctx, &entity.Session{ID: "viva"}, time.Hour))
	time.Sleep(time.Millisecond)

	n, err := m.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.Equal(t, 1, m.Len())

	_, err = m.Get(ctx, "viva")
	assert.NoError(t, err)
}

// ── Contrato común de los almacenes ──────────────────────────────────────────

func sampleSession() *entity.Session {
	return &entity.Session{
		ID:                uuid.NewString(),
		Token:             "tok-backend-secreto",
		User:              entity.User{ID: 10, Name: "Eva", Email: "eva@nextmeal.co", RoleID: 2},
		Permissions:       []entity.Permission{{RoleID: 2, Resource: "pedidos", Action: "crear", Active: true}},
		PermissionSource:  "servidor",
		PermissionsLoaded: true,
	}
}

func storeContract(t *testing.T, store repository.SessionStore) {
	t.Helper()
	ctx := context.Background()
	in := sampleSession()
	require.NoError(t, store.Put(ctx, in, time.Hour))

	got, err := store.Get(ctx, in.ID)
	require.NoError(t, err)
	assert.Equal(t, in.Token, got.Token)
	assert.Equal(t, in.User.ID, got.User.ID)
	assert.Equal(t, in.Permissions, got.Permissions)
	assert.True(t, got.PermissionsLoaded)

	in.PermissionSource = "degradado"
	require.NoError(t, store.Put(ctx, in, time.Hour), "Put sobre una sesión existente la reemplaza")
	got, err = store.Get(ctx, in.ID)
	require.NoError(t, err)
	assert.Equal(t, "degradado", got.PermissionSource)

	require.NoError(t, store.Delete(ctx, in.ID))
	_, err = store.Get(ctx, in.ID)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	assert.NoError(t, store.Delete(ctx, in.ID), "borrar dos veces no falla")

	_, err = store.Get(ctx, "no-existe")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestMemory_Contrato(t *testing.T) {
	storeContract(t, sessionstore.NewMemory())
}

// ── Redis ────────────────────────────────────────────────────────────────────

func newRedis(t *testing.T, mr *miniredis.Miniredis, key string) *sessionstore.Redis {
	t.Helper()
	sealer, err := sessionstore.NewSealer(key)
	require.NoError(t, err)
	r, err := sessionstore.NewRedis(context.Background(), mr.Addr(), "", 0, sealer)
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })
	return r
}

func TestRedis_Contrato(t *testing.T) {
	storeContract(t, newRedis(t, miniredis.RunT(t), "clave-redis"))
}

func TestRedis_GuardaSelladoYExpiraConElTTL(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	store := newRedis(t, mr, "clave-redis")
	in := sampleSession()
	require.NoError(t, store.Put(ctx, in, time.Minute))

	raw, err := mr.Get("backoffice:sesion:" + in.ID)
	require.NoError(t, err)
	assert.NotContains(t, raw, in.Token, "el bearer no se guarda en claro")
	assert.NotContains(t, raw, "eva@nextmeal.co")
	assert.Equal(t, time.Minute, mr.TTL("backoffice:sesion:"+in.ID))

	mr.FastForward(2 * time.Minute)
	_, err = store.Get(ctx, in.ID)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestRedis_OtraClaveNoAbreLaSesion(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	in := sampleSession()
	require.NoError(t, newRedis(t, mr, "clave-a").Put(ctx, in, time.Hour))

	_, err := newRedis(t, mr, "clave-b").Get(ctx, in.ID)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestRedis_SinServidorFallaAlConectar(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()
	sealer, _ := sessionstore.NewSealer("clave")

	_, err := sessionstore.NewRedis(context.Background(), addr, "", 0, sealer)
	assert.Error(t, err)
}

// ── PostgreSQL (requiere BACKOFFICE_TEST_DATABASE_URL) ───────────────────────

func newPostgres(t *testing.T) *sessionstore.Postgres {
	t.Helper()
	url := os.Getenv("BACKOFFICE_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("BACKOFFICE_TEST_DATABASE_URL no definido")
	}
	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, config.DBConfig{DatabaseURL: url})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	sealer, err := sessionstore.NewSealer("clave-postgres")
	require.NoError(t, err)
	store := sessionstore.NewPostgres(pool, sealer)
	require.NoError(t, store.EnsureSchema(ctx))
	return store
}

func TestPostgres_Contrato(t *testing.T) {
	storeContract(t, newPostgres(t))
}

func TestPostgres_PurgeExpiredBorraLasVencidas(t *testing.T) {
	ctx := context.Background()
	store := newPostgres(t)
	old, live := sampleSession(), sampleSession()
	require.NoError(t, store.Put(ctx, old, time.Millisecond))
	require.NoError(t, store.Put(ctx, live, time.Hour))
	time.Sleep(10 * time.Millisecond)

	_, err := store.Get(ctx, old.ID)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound, "vencida aunque siga en la tabla")

	n, err := store.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, n, int64(1))

	_, err = store.Get(ctx, live.ID)
	assert.NoError(t, err)
	require.NoError(t, store.Delete(ctx, live.ID))
}
