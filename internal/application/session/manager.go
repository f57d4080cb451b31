// Package session gestiona las sesiones del back-office: inicio y cierre contra el backend,
// restauración con verificación única del token, carga de permisos con modo degradado y
// refresco en segundo plano.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/nextmeal/backoffice/internal/application/dto"
	"github.com/nextmeal/backoffice/internal/application/forms"
	"github.com/nextmeal/backoffice/internal/application/ports"
	"github.com/nextmeal/backoffice/internal/domain"
	"github.com/nextmeal/backoffice/internal/domain/authz"
	"github.com/nextmeal/backoffice/internal/domain/entity"
	"github.com/nextmeal/backoffice/internal/domain/repository"
	"github.com/nextmeal/backoffice/pkg/jwt"
)

// Config parámetros de sesión y de los JWT emitidos.
type Config struct {
	JWTSecret     string
	JWTIssuer     string
	JWTExpMinutes int
	TTL           time.Duration
	RefreshEvery  time.Duration // 0 = sin refresco en segundo plano
	Fallback      bool          // permisos por defecto del rol si el servicio de permisos no responde
}

// Manager punto único de acceso a la identidad actual.
type Manager struct {
	auth  repository.AuthRepository
	perms repository.PermissionRepository
	roles repository.RoleRepository
	store repository.SessionStore
	audit ports.AuditSink
	cfg   Config
	log   zerolog.Logger
	now   func() time.Time

	group    singleflight.Group
	verified sync.Map // id de sesión → verificada por este proceso

	mu          sync.RWMutex
	invalidated []func(sid string)
}

// NewManager construye el gestor de sesiones.
func NewManager(
	auth repository.AuthRepository,
	perms repository.PermissionRepository,
	roles repository.RoleRepository,
	store repository.SessionStore,
	audit ports.AuditSink,
	cfg Config,
	log zerolog.Logger,
) *Manager {
	if audit == nil {
		audit = ports.NopAudit{}
	}
	return &Manager{
		auth:  auth,
		perms: perms,
		roles: roles,
		store: store,
		audit: audit,
		cfg:   cfg,
		log:   log,
		now:   time.Now,
	}
}

// SigninError el backend rechazó las credenciales. Messages son los mensajes del servidor.
type SigninError struct {
	Messages []string
	Err      error
}

func (e *SigninError) Error() string {
	return strings.Join(e.Messages, "; ")
}

func (e *SigninError) Unwrap() error {
	return e.Err
}

// Result sesión iniciada y el JWT del back-office que la identifica.
type Result struct {
	Token   string
	Session *entity.Session
}

type detailer interface {
	Details() []string
}

// Signin inicia sesión. Si falla no se guarda nada.
func (m *Manager) Signin(ctx context.Context, in dto.LoginRequest) (*Result, error) {
	if err := forms.LoginForm.ValidateAll(in); err != nil {
		return nil, err
	}

	res, err := m.auth.Login(ctx, strings.TrimSpace(in.Email), in.Password)
	if err != nil {
		if errors.Is(err, domain.ErrTransport) {
			return nil, err
		}
		msgs := []string{err.Error()}
		var d detailer
		if errors.As(err, &d) {
			msgs = d.Details()
		}
		m.log.Info().Str("correo", in.Email).Msg("inicio de sesión rechazado")
		return nil, &SigninError{Messages: msgs, Err: err}
	}

	now := m.now()
	s := &entity.Session{
		ID:          uuid.NewString(),
		Token:       res.Token,
		User:        res.User,
		CreatedAt:   now,
		RefreshedAt: now,
	}
	if err := m.loadPermissions(Bind(ctx, s), s); err != nil {
		return nil, err
	}
	if err := m.store.Put(ctx, s, m.cfg.TTL); err != nil {
		return nil, fmt.Errorf("guardar sesión: %w", err)
	}
	m.verified.Store(s.ID, true)

	token, err := jwt.Generate(m.cfg.JWTSecret, s.ID, s.User.ID, s.User.RoleID, m.cfg.JWTIssuer, m.cfg.JWTExpMinutes)
	if err != nil {
		_ = m.store.Delete(ctx, s.ID)
		return nil, err
	}

	m.log.Info().Int64("usuario", s.User.ID).Int64("rol", s.User.RoleID).Str("fuente", s.PermissionSource).Msg("sesión iniciada")
	m.audit.Record(entity.AuditEvent{UserID: s.User.ID, Resource: "sesion", ResourceID: s.User.ID, Action: "iniciar"})
	return &Result{Token: token, Session: s}, nil
}

// Signout cierra la sesión. El logout en el backend es de mejor esfuerzo.
func (m *Manager) Signout(ctx context.Context, sid string) error {
	s, err := m.store.Get(ctx, sid)
	if err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
		return err
	}
	if s != nil {
		if err := m.auth.Logout(Bind(ctx, s)); err != nil {
			m.log.Warn().Err(err).Int64("usuario", s.User.ID).Msg("logout en el backend falló; se cierra la sesión local")
		}
		m.audit.Record(entity.AuditEvent{UserID: s.User.ID, Resource: "sesion", ResourceID: s.User.ID, Action: "cerrar"})
	}
	m.verified.Delete(sid)
	return m.store.Delete(ctx, sid)
}

// Restore recupera la sesión. La primera vez que este proceso la ve verifica el token contra
// el backend; si los permisos no están cargados los carga. Ambas cosas ocurren una sola vez
// aunque lleguen peticiones concurrentes.
func (m *Manager) Restore(ctx context.Context, sid string) (*entity.Session, error) {
	s, err := m.store.Get(ctx, sid)
	if err != nil {
		return nil, err
	}

	if _, ok := m.verified.Load(sid); !ok {
		v, err, _ := m.group.Do("verificar:"+sid, func() (any, error) {
			if _, done := m.verified.Load(sid); done {
				return s, nil
			}
			return m.verify(ctx, s)
		})
		if err != nil {
			return nil, err
		}
		s = v.(*entity.Session)
	}

	if !s.PermissionsLoaded {
		v, err, _ := m.group.Do("permisos:"+sid, func() (any, error) {
			if err := m.loadPermissions(Bind(ctx, s), s); err != nil {
				return nil, err
			}
			return s, m.store.Put(ctx, s, m.cfg.TTL)
		})
		if err != nil {
			return nil, err
		}
		s = v.(*entity.Session)
	}

	if s.Stale(m.now(), m.cfg.RefreshEvery) {
		go func(ctx context.Context) {
			if err := m.Refresh(ctx, sid); err != nil {
				m.log.Warn().Err(err).Str("sesion", sid).Msg("refresco de sesión falló")
			}
		}(context.WithoutCancel(ctx))
	}
	return s, nil
}

func (m *Manager) verify(ctx context.Context, s *entity.Session) (*entity.Session, error) {
	u, err := m.auth.CurrentUser(Bind(ctx, s))
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			if err := m.forget(ctx, s.ID); err != nil {
				m.log.Error().Err(err).Str("sesion", s.ID).Msg("no se pudo borrar la sesión revocada")
			}
			return nil, domain.ErrSessionNotFound
		}
		return nil, err
	}
	if u.ID != 0 {
		s.User = *u
	}
	m.verified.Store(s.ID, true)
	return s, nil
}

// Refresh vuelve a pedir usuario y permisos. Un 401 cierra la sesión.
func (m *Manager) Refresh(ctx context.Context, sid string) error {
	_, err, _ := m.group.Do("refrescar:"+sid, func() (any, error) {
		s, err := m.store.Get(ctx, sid)
		if err != nil {
			return nil, err
		}
		if !s.Stale(m.now(), m.cfg.RefreshEvery) {
			return nil, nil
		}
		if _, err := m.verify(ctx, s); err != nil {
			return nil, err
		}
		if err := m.loadPermissions(Bind(ctx, s), s); err != nil {
			return nil, err
		}
		s.RefreshedAt = m.now()
		return nil, m.store.Put(ctx, s, m.cfg.TTL)
	})
	return err
}

// InvalidateOnUnauthorized manejador de 401 del cliente del backend: borra la sesión que
// originó la llamada.
func (m *Manager) InvalidateOnUnauthorized(ctx context.Context) {
	sid := repository.SessionIDFrom(ctx)
	if sid == "" {
		return
	}
	if err := m.forget(context.WithoutCancel(ctx), sid); err != nil {
		m.log.Error().Err(err).Str("sesion", sid).Msg("no se pudo borrar la sesión tras 401")
		return
	}
	m.log.Info().Str("sesion", sid).Msg("sesión invalidada: el backend rechazó el token")
}

// OnInvalidate registra fn para cuando una sesión se invalida por un 401 del backend,
// p. ej. para soltar las vistas en caché de esa sesión.
func (m *Manager) OnInvalidate(fn func(sid string)) {
	m.mu.Lock()
	m.invalidated = append(m.invalidated, fn)
	m.mu.Unlock()
}

// forget borra la sesión del almacén y avisa a los interesados.
func (m *Manager) forget(ctx context.Context, sid string) error {
	m.verified.Delete(sid)
	if err := m.store.Delete(ctx, sid); err != nil {
		return err
	}
	m.mu.RLock()
	hooks := m.invalidated
	m.mu.RUnlock()
	for _, fn := range hooks {
		fn(sid)
	}
	return nil
}

// RequestPasswordReset pide al backend el correo de recuperación.
func (m *Manager) RequestPasswordReset(ctx context.Context, in dto.PasswordResetRequest) error {
	check := forms.NewValidator(forms.Field[dto.PasswordResetRequest]{
		Name:  "correo",
		Check: forms.Tag(func(r dto.PasswordResetRequest) any { return r.Email }, "required,email", "Ingrese un correo válido"),
	})
	if err := check.ValidateAll(in); err != nil {
		return err
	}
	return m.auth.RequestPasswordReset(ctx, strings.TrimSpace(in.Email))
}

// ResetPassword fija la nueva contraseña con el token recibido por correo.
func (m *Manager) ResetPassword(ctx context.Context, in dto.PasswordChangeRequest) error {
	if err := forms.PasswordChangeForm.ValidateAll(in); err != nil {
		return err
	}
	return m.auth.ResetPassword(ctx, in.Token, in.Password)
}

// Bind contexto para llamar al backend en nombre de la sesión.
func Bind(ctx context.Context, s *entity.Session) context.Context {
	ctx = repository.WithToken(ctx, s.Token)
	ctx = repository.WithSessionID(ctx, s.ID)
	return repository.WithActor(ctx, s.User.ID)
}

// Identity política de autorización de la sesión.
func Identity(s *entity.Session) authz.Policy {
	if s == nil {
		return authz.Anonymous()
	}
	return authz.Policy{
		UserID:      s.User.ID,
		RoleID:      s.User.RoleID,
		Permissions: s.Permissions,
		Source:      authz.Source(s.PermissionSource),
	}
}
