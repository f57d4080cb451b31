package dto

import "github.com/nextmeal/backoffice/internal/domain/entity"

// UserRequest formulario de usuario. Password obligatorio solo al crear.
type UserRequest struct {
	Name     string `json:"nombre"`
	Email    string `json:"correo"`
	Password string `json:"password"`
	RoleID   int64  `json:"id_rol"`
	Status   string `json:"estado"`
}

// RoleRequest formulario de rol.
type RoleRequest struct {
	Name string `json:"nombre"`
}

// PermissionMatrix recurso → acción → concedido.
type PermissionMatrix map[string]map[string]bool

// RoleMatrixResponse editor de permisos de un rol.
type RoleMatrixResponse struct {
	Role      entity.Role      `json:"rol"`
	Resources []string         `json:"recursos"`
	Actions   []string         `json:"acciones"`
	Matrix    PermissionMatrix `json:"matriz"`
}

// LoginRequest credenciales de inicio de sesión.
type LoginRequest struct {
	Email    string `json:"correo"`
	Password string `json:"password"`
}

// LoginResponse sesión iniciada: token del back-office (no el del backend) y usuario.
type LoginResponse struct {
	Token       string              `json:"token"`
	User        entity.User         `json:"usuario"`
	Permissions []entity.Permission `json:"permisos"`
	Source      string              `json:"fuente_permisos"`
}

// SessionResponse identidad actual.
type SessionResponse struct {
	User        entity.User         `json:"usuario"`
	Permissions []entity.Permission `json:"permisos"`
	Source      string              `json:"fuente_permisos"`
	Degraded    bool                `json:"degradado"`
}

// PasswordResetRequest solicitud de recuperación de contraseña.
type PasswordResetRequest struct {
	Email string `json:"correo"`
}

// PasswordChangeRequest nueva contraseña con el token recibido por correo.
type PasswordChangeRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}
