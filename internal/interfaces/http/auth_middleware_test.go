package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nextmeal/backoffice/internal/application/dto"
	"github.com/nextmeal/backoffice/internal/domain"
	"github.com/nextmeal/backoffice/internal/domain/authz"
	"github.com/nextmeal/backoffice/internal/domain/entity"
	"github.com/nextmeal/backoffice/internal/domain/repository"
	apphttp "github.com/nextmeal/backoffice/internal/interfaces/http"
	pkgjwt "github.com/nextmeal/backoffice/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testIssuer    = "nextmeal-backoffice-test"
	testExpMin    = 60
)

// stubSessions sesiones en memoria indexadas por id.
type stubSessions map[string]*entity.Session

func (s stubSessions) Restore(_ context.Context, sid string) (*entity.Session, error) {
	if v, ok := s[sid]; ok {
		return v, nil
	}
	return nil, domain.ErrSessionNotFound
}

func adminSession() *entity.Session {
	return &entity.Session{ID: "sid-admin", Token: "tok-admin", User: entity.User{ID: 1, RoleID: authz.AdminRoleID}, PermissionsLoaded: true}
}

// employeeSession empleado (rol 2) que solo puede crear pedidos.
func employeeSession() *entity.Session {
	return &entity.Session{
		ID:    "sid-empleado",
		Token: "tok-empleado",
		User:  entity.User{ID: 10, RoleID: 2},
		Permissions: []entity.Permission{
			{RoleID: 2, Resource: authz.ResourceOrders, Action: authz.ActionCreate, Active: true},
			{RoleID: 2, Resource: authz.ResourceOrders, Action: authz.ActionEdit, Active: false},
		},
		PermissionSource:  string(authz.SourceServer),
		PermissionsLoaded: true,
	}
}

// buildTestApp aplicación Fiber mínima con AuthMiddleware y los middlewares indicados delante de
// un handler que devuelve el token del backend que quedó en el contexto.
func buildTestApp(sessions stubSessions, expired func(string), guards ...fiber.Handler) *fiber.App {
	app := fiber.New()
	handlers := []fiber.Handler{apphttp.AuthMiddleware(sessions, testJWTSecret, expired)}
	handlers = append(handlers, guards...)
	handlers = append(handlers, func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"ok":      true,
			"sesion":  apphttp.GetSessionID(c),
			"bearer":  repository.TokenFrom(c.UserContext()),
			"usuario": apphttp.GetPolicy(c).UserID,
		})
	})
	app.Get("/protected", handlers...)
	return app
}

func tokenFor(t *testing.T, s *entity.Session) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, s.ID, s.User.ID, s.User.RoleID, testIssuer, testExpMin)
	require.NoError(t, err, "debe generarse un token JWT válido")
	return "Bearer " + tok
}

func doRequest(t *testing.T, app *fiber.App, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeError(t *testing.T, resp *http.Response) dto.ErrorResponse {
	t.Helper()
	defer resp.Body.Close()
	var body dto.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests AuthMiddleware
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_SinAuthHeader_Retorna401(t *testing.T) {
	app := buildTestApp(stubSessions{}, nil)
	resp := doRequest(t, app, "")

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "UNAUTHORIZED", decodeError(t, resp).Code)
}

func TestAuthMiddleware_FormatoInvalido_Retorna401(t *testing.T) {
	app := buildTestApp(stubSessions{}, nil)
	for _, h := range []string{"Token abc", "Bearer", "Bearer    "} {
		resp := doRequest(t, app, h)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, h)
		resp.Body.Close()
	}
}

func TestAuthMiddleware_FirmaIncorrecta_Retorna401(t *testing.T) {
	s := adminSession()
	tok, err := pkgjwt.Generate("otro-secret-completamente-distinto", s.ID, 1, 1, testIssuer, testExpMin)
	require.NoError(t, err)

	app := buildTestApp(stubSessions{s.ID: s}, nil)
	resp := doRequest(t, app, "Bearer "+tok)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func TestAuthMiddleware_SesionInexistente_AvisaYRetornaExpirada(t *testing.T) {
	var expiredSID string
	app := buildTestApp(stubSessions{}, func(sid string) { expiredSID = sid })

	resp := doRequest(t, app, tokenFor(t, adminSession()))
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "SESSION_EXPIRED", decodeError(t, resp).Code)
	assert.Equal(t, "sid-admin", expiredSID, "las vistas de la sesión expirada se liberan")
}

func TestAuthMiddleware_CargaSesionYBearerDelBackend(t *testing.T) {
	s := employeeSession()
	app := buildTestApp(stubSessions{s.ID: s}, nil)

	resp := doRequest(t, app, tokenFor(t, s))
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "sid-empleado", body["sesion"])
	assert.Equal(t, "tok-empleado", body["bearer"], "el bearer sale del almacén, no del JWT")
	assert.EqualValues(t, 10, body["usuario"])
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests RequirePermission / RequireRole
// ──────────────────────────────────────────────────────────────────────────────

func TestRequirePermission_EmpleadoConPermisoActivo(t *testing.T) {
	s := employeeSession()
	app := buildTestApp(stubSessions{s.ID: s}, nil, apphttp.RequirePermission(authz.ResourceOrders, authz.ActionCreate))

	resp := doRequest(t, app, tokenFor(t, s))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func TestRequirePermission_PermisoInactivoNoCuenta(t *testing.T) {
	s := employeeSession()
	app := buildTestApp(stubSessions{s.ID: s}, nil, apphttp.RequirePermission(authz.ResourceOrders, authz.ActionEdit))

	resp := doRequest(t, app, tokenFor(t, s))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "FORBIDDEN", decodeError(t, resp).Code)
}

func TestRequirePermission_VerRecursoBaseSiempre(t *testing.T) {
	s := employeeSession()
	app := buildTestApp(stubSessions{s.ID: s}, nil, apphttp.RequirePermission(authz.ResourceProducts, authz.ActionView))

	resp := doRequest(t, app, tokenFor(t, s))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func TestRequirePermission_AdministradorPasaSinPermisos(t *testing.T) {
	s := adminSession()
	app := buildTestApp(stubSessions{s.ID: s}, nil, apphttp.RequirePermission(authz.ResourceRoles, authz.ActionEdit))

	resp := doRequest(t, app, tokenFor(t, s))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func TestRequireAdmin_EmpleadoBloqueado(t *testing.T) {
	s := employeeSession()
	app := buildTestApp(stubSessions{s.ID: s}, nil, apphttp.RequireAdmin())

	resp := doRequest(t, app, tokenFor(t, s))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()
}

func TestRequireRole_CualquieraDeLosIndicados(t *testing.T) {
	s := employeeSession()
	app := buildTestApp(stubSessions{s.ID: s}, nil, apphttp.RequireRole(authz.AdminRoleID, 2))

	resp := doRequest(t, app, tokenFor(t, s))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func TestRequirePermission_SinAuthMiddleware_Retorna401(t *testing.T) {
	app := fiber.New()
	app.Get("/protected", apphttp.RequirePermission(authz.ResourceOrders, authz.ActionView), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	resp := doRequest(t, app, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}
