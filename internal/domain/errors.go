package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrTransport         = errors.New("no se pudo conectar con el servidor")
	ErrInvalidTransition = errors.New("transición de estado no permitida")
	ErrTerminalState     = errors.New("el pedido está en un estado final")
	ErrOrderNotCompleted = errors.New("el pedido no está terminado")
	ErrSessionNotFound   = errors.New("sesión no encontrada o expirada")
)
