package session_test

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nextmeal/backoffice/internal/application/dto"
	"github.com/nextmeal/backoffice/internal/application/forms"
	"github.com/nextmeal/backoffice/internal/application/session"
	"github.com/nextmeal/backoffice/internal/domain"
	"github.com/nextmeal/backoffice/internal/domain/authz"
	"github.com/nextmeal/backoffice/internal/domain/entity"
	"github.com/nextmeal/backoffice/internal/infrastructure/backend"
	"github.com/nextmeal/backoffice/internal/infrastructure/backend/backendtest"
	"github.com/nextmeal/backoffice/internal/infrastructure/sessionstore"
	pkgjwt "github.com/nextmeal/backoffice/pkg/jwt"
)

const jwtSecret = "test-secret-key-for-unit-tests"

type fixture struct {
	srv    *backendtest.Server
	client *backend.Client
	store  *sessionstore.Memory
	mgr    *session.Manager
	cfg    session.Config
}

func newFixture(t *testing.T, fallback bool) *fixture {
	t.Helper()
	srv := backendtest.New(t)
	srv.AddRole(entity.Role{ID: 1, Name: "Administrador"})
	srv.AddRole(entity.Role{ID: 2, Name: "Empleado"})
	srv.AddUser(entity.User{ID: 10, Name: "Eva", Email: "eva@nextmeal.co", RoleID: 2}, "clave123")
	srv.AddPermission(entity.Permission{RoleID: 2, Resource: "pedidos", Action: "crear", Active: true})

	f := &fixture{
		srv:    srv,
		client: backend.New(backend.Config{BaseURL: srv.URL}, zerolog.Nop()),
		store:  sessionstore.NewMemory(),
		cfg: session.Config{
			JWTSecret:     jwtSecret,
			JWTIssuer:     "test",
			JWTExpMinutes: 60,
			TTL:           time.Hour,
			Fallback:      fallback,
		},
	}
	f.mgr = f.newManager()
	f.client.OnUnauthorized(f.mgr.InvalidateOnUnauthorized)
	return f
}

// newManager otro proceso sobre el mismo almacén.
func (f *fixture) newManager() *session.Manager {
	return session.NewManager(
		backend.NewAuthRepository(f.client),
		backend.NewPermissionRepository(f.client),
		backend.NewRoleRepository(f.client),
		f.store, nil, f.cfg, zerolog.Nop(),
	)
}

func (f *fixture) signin(t *testing.T) *session.Result {
	t.Helper()
	res, err := f.mgr.Signin(context.Background(), dto.LoginRequest{Email: "eva@nextmeal.co", Password: "clave123"})
	require.NoError(t, err)
	return res
}

// ── Inicio de sesión ─────────────────────────────────────────────────────────

func TestSignin_GuardaSesionYEmiteJWT(t *testing.T) {
	f := newFixture(t, true)
	res := f.signin(t)

	claims, err := pkgjwt.Parse(jwtSecret, res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.Session.ID, claims.SessionID)
	assert.Equal(t, int64(10), claims.UserID)
	assert.Equal(t, int64(2), claims.RoleID)
	assert.NotContains(t, res.Token, res.Session.Token, "el bearer del backend no viaja en el JWT")

	stored, err := f.store.Get(context.Background(), res.Session.ID)
	require.NoError(t, err)
	assert.True(t, stored.PermissionsLoaded)
	assert.Equal(t, string(authz.SourceServer), stored.PermissionSource)
	assert.Equal(t, 1, f.srv.Count("GET /permiso/usuario/{id}"))
	assert.Zero(t, f.srv.Count("GET /permiso/rol/{id}"), "la primera fuente respondió")

	p := session.Identity(stored)
	assert.True(t, p.HasPermission("pedidos", "crear"))
	assert.False(t, p.HasPermission("productos", "crear"))
}

func TestSignin_CredencialesInvalidasNoGuardaNada(t *testing.T) {
	f := newFixture(t, true)
	_, err := f.mgr.Signin(context.Background(), dto.LoginRequest{Email: "eva@nextmeal.co", Password: "mala"})

	var serr *session.SigninError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, []string{"Credenciales inválidas"}, serr.Messages)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.Zero(t, f.store.Len())
}

func TestSignin_CamposVaciosNoLlamaAlBackend(t *testing.T) {
	f := newFixture(t, true)
	_, err := f.mgr.Signin(context.Background(), dto.LoginRequest{})

	var verr *forms.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Zero(t, f.srv.Total())
}

func TestSignin_UsuarioInactivo(t *testing.T) {
	f := newFixture(t, true)
	f.srv.AddUser(entity.User{ID: 11, Email: "baja@nextmeal.co", RoleID: 2, Status: entity.EstadoInactivo}, "clave123")

	_, err := f.mgr.Signin(context.Background(), dto.LoginRequest{Email: "baja@nextmeal.co", Password: "clave123"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.Zero(t, f.store.Len())
}

// ── Carga de permisos ────────────────────────────────────────────────────────

func TestPermisos_SiguienteFuenteEnOrden(t *testing.T) {
	f := newFixture(t, true)
	f.srv.Fail("GET /permiso/usuario/{id}", http.StatusNotFound, map[string]string{"mensaje": "Ruta no encontrada"})
	f.srv.Fail("GET /permiso/rol/{id}", http.StatusInternalServerError, nil)

	res := f.signin(t)
	assert.Equal(t, string(authz.SourceServer), res.Session.PermissionSource)
	assert.Equal(t, 1, f.srv.Count("GET /permiso"))
	require.Len(t, res.Session.Permissions, 1)
	assert.Equal(t, "pedidos", res.Session.Permissions[0].Resource)
}

func TestPermisos_TodasFallanModoDegradado(t *testing.T) {
	f := newFixture(t, true)
	for _, p := range []string{"GET /permiso/usuario/{id}", "GET /permiso/rol/{id}", "GET /permiso", "GET /rol/{id}"} {
		f.srv.Fail(p, http.StatusServiceUnavailable, nil)
	}

	res := f.signin(t)
	assert.Equal(t, string(authz.SourceDegraded), res.Session.PermissionSource)
	p := session.Identity(res.Session)
	assert.True(t, p.Degraded())
	assert.True(t, p.HasPermission("ventas", "crear"), "permiso por defecto del empleado")
}

func TestPermisos_SinModoDegradadoFallaElInicio(t *testing.T) {
	f := newFixture(t, false)
	for _, p := range []string{"GET /permiso/usuario/{id}", "GET /permiso/rol/{id}", "GET /permiso", "GET /rol/{id}"} {
		f.srv.Fail(p, http.StatusServiceUnavailable, nil)
	}

	_, err := f.mgr.Signin(context.Background(), dto.LoginRequest{Email: "eva@nextmeal.co", Password: "clave123"})
	assert.Error(t, err)
	assert.Zero(t, f.store.Len())
}

// ── Restauración ─────────────────────────────────────────────────────────────

func TestRestore_VerificaUnaSolaVez(t *testing.T) {
	f := newFixture(t, true)
	res := f.signin(t)

	_, err := f.mgr.Restore(context.Background(), res.Session.ID)
	require.NoError(t, err)
	assert.Zero(t, f.srv.Count("GET /autenticacion/usuario-autenticado"), "recién iniciada ya está verificada")

	other := f.newManager()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := other.Restore(context.Background(), res.Session.ID)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	_, err = other.Restore(context.Background(), res.Session.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, f.srv.Count("GET /autenticacion/usuario-autenticado"))
}

func TestRestore_TokenRevocadoCierraLaSesion(t *testing.T) {
	f := newFixture(t, true)
	res := f.signin(t)
	f.srv.Revoke(res.Session.Token)

	_, err := f.newManager().Restore(context.Background(), res.Session.ID)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	_, err = f.store.Get(context.Background(), res.Session.ID)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestRestore_SesionDesconocida(t *testing.T) {
	f := newFixture(t, true)
	_, err := f.mgr.Restore(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestRefresh_ActualizaPermisos(t *testing.T) {
	f := newFixture(t, true)
	f.cfg.RefreshEvery = time.Nanosecond
	f.mgr = f.newManager()
	res := f.signin(t)

	f.srv.AddPermission(entity.Permission{RoleID: 2, Resource: "productos", Action: "crear", Active: true})
	time.Sleep(time.Millisecond)
	require.NoError(t, f.mgr.Refresh(context.Background(), res.Session.ID))

	stored, err := f.store.Get(context.Background(), res.Session.ID)
	require.NoError(t, err)
	assert.True(t, session.Identity(stored).HasPermission("productos", "crear"))
	assert.True(t, stored.RefreshedAt.After(res.Session.RefreshedAt))
}

func TestRefresh_401AlCargarPermisosNoCierraLaSesion(t *testing.T) {
	f := newFixture(t, true)
	f.cfg.RefreshEvery = time.Nanosecond
	f.mgr = f.newManager()
	f.client.OnUnauthorized(f.mgr.InvalidateOnUnauthorized)
	var dropped []string
	f.mgr.OnInvalidate(func(sid string) { dropped = append(dropped, sid) })
	res := f.signin(t)

	for _, p := range []string{"GET /permiso/usuario/{id}", "GET /permiso/rol/{id}", "GET /permiso"} {
		f.srv.Fail(p, http.StatusServiceUnavailable, nil)
	}
	f.srv.Fail("GET /rol/{id}", http.StatusUnauthorized, map[string]string{"mensaje": "Token inválido o expirado"})
	time.Sleep(time.Millisecond)
	require.NoError(t, f.mgr.Refresh(context.Background(), res.Session.ID))

	stored, err := f.store.Get(context.Background(), res.Session.ID)
	require.NoError(t, err, "la sesión sigue en el almacén")
	assert.Equal(t, string(authz.SourceDegraded), stored.PermissionSource)
	assert.Equal(t, 1, f.srv.Count("GET /rol/{id}"))
	assert.Empty(t, dropped)
}

// ── Cierre ───────────────────────────────────────────────────────────────────

func TestSignout_FalloDelBackendNoImpideCerrar(t *testing.T) {
	f := newFixture(t, true)
	res := f.signin(t)
	f.srv.Fail("POST /autenticacion/logout", http.StatusInternalServerError, nil)

	require.NoError(t, f.mgr.Signout(context.Background(), res.Session.ID))
	assert.Equal(t, 1, f.srv.Count("POST /autenticacion/logout"))
	assert.Zero(t, f.store.Len())
}

func TestUnauthorized_DelBackendBorraLaSesion(t *testing.T) {
	f := newFixture(t, true)
	f.srv.RequireAuth = true
	res := f.signin(t)
	f.srv.Revoke(res.Session.Token)

	_, err := backend.NewClientRepository(f.client).FetchAll(session.Bind(context.Background(), res.Session))
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = f.store.Get(context.Background(), res.Session.ID)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestUnauthorized_AvisaALosSuscriptores(t *testing.T) {
	f := newFixture(t, true)
	f.srv.RequireAuth = true
	var dropped []string
	f.mgr.OnInvalidate(func(sid string) { dropped = append(dropped, sid) })
	res := f.signin(t)
	f.srv.Revoke(res.Session.Token)

	_, err := backend.NewProductRepository(f.client).FetchAll(session.Bind(context.Background(), res.Session))
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.Equal(t, []string{res.Session.ID}, dropped)
}

func TestRecuperarPassword(t *testing.T) {
	f := newFixture(t, true)
	err := f.mgr.RequestPasswordReset(context.Background(), dto.PasswordResetRequest{Email: "no-es-correo"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Zero(t, f.srv.Total())

	require.NoError(t, f.mgr.RequestPasswordReset(context.Background(), dto.PasswordResetRequest{Email: "eva@nextmeal.co"}))
	require.NoError(t, f.mgr.ResetPassword(context.Background(), dto.PasswordChangeRequest{Token: "reset-valido", Password: "nueva123"}))
}
