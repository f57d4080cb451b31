package repository

import (
	"context"

	"github.com/nextmeal/backoffice/internal/domain/entity"
)

// LoginResult respuesta del backend a un inicio de sesión.
type LoginResult struct {
	Token string
	User  entity.User
}

// AuthRepository define el puerto de autenticación contra el backend (DIP).
type AuthRepository interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	Logout(ctx context.Context) error
	// CurrentUser valida el token del contexto y devuelve su usuario.
	CurrentUser(ctx context.Context) (*entity.User, error)
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, password string) error
}
