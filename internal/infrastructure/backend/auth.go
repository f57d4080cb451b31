package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/nextmeal/backoffice/internal/domain/entity"
	"github.com/nextmeal/backoffice/internal/domain/repository"
)

// AuthRepository implementa repository.AuthRepository sobre /autenticacion.
type AuthRepository struct {
	c *Client
}

var _ repository.AuthRepository = (*AuthRepository)(nil)

// NewAuthRepository crea el repositorio de autenticación.
func NewAuthRepository(c *Client) *AuthRepository {
	return &AuthRepository{c: c}
}

type loginRequest struct {
	Email    string `json:"correo"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token   string       `json:"token"`
	Usuario *entity.User `json:"usuario"`
	User    *entity.User `json:"user"`
}

func (a *AuthRepository) Login(ctx context.Context, email, password string) (*repository.LoginResult, error) {
	var out loginResponse
	if err := a.c.do(ctx, http.MethodPost, "/autenticacion/login", nil, loginRequest{Email: email, Password: password}, &out); err != nil {
		return nil, err
	}
	if out.Token == "" {
		return nil, fmt.Errorf("backend: login sin token")
	}
	res := &repository.LoginResult{Token: out.Token}
	switch {
	case out.Usuario != nil:
		res.User = *out.Usuario
	case out.User != nil:
		res.User = *out.User
	}
	res.User.Password = ""
	return res, nil
}

func (a *AuthRepository) Logout(ctx context.Context) error {
	return a.c.do(ctx, http.MethodPost, "/autenticacion/logout", nil, nil, nil)
}

// CurrentUser acepta {usuario: U} o U.
func (a *AuthRepository) CurrentUser(ctx context.Context) (*entity.User, error) {
	raw, err := a.c.call(ctx, http.MethodGet, "/autenticacion/usuario-autenticado", nil, nil)
	if err != nil {
		return nil, err
	}
	var wrapped struct {
		Usuario *entity.User `json:"usuario"`
	}
	if json.Unmarshal(raw, &wrapped) == nil && wrapped.Usuario != nil {
		return wrapped.Usuario, nil
	}
	u := new(entity.User)
	if err := decode(raw, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (a *AuthRepository) RequestPasswordReset(ctx context.Context, email string) error {
	body := map[string]string{"correo": email}
	return a.c.do(ctx, http.MethodPost, "/autenticacion/recuperar-password", nil, body, nil)
}

func (a *AuthRepository) ResetPassword(ctx context.Context, token, password string) error {
	body := map[string]string{"token": token, "password": password}
	return a.c.do(ctx, http.MethodPost, "/autenticacion/restablecer-password", nil, body, nil)
}
