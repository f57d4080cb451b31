package repository

import "context"

type tokenKey struct{}
type sessionKey struct{}

// WithToken adjunta el bearer del backend; los adaptadores lo envían en Authorization.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

// TokenFrom devuelve el bearer del contexto o "".
func TokenFrom(ctx context.Context) string {
	tok, _ := ctx.Value(tokenKey{}).(string)
	return tok
}

// WithSessionID identifica la sesión del back-office que origina la llamada.
func WithSessionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, sessionKey{}, id)
}

// SessionIDFrom devuelve el id de sesión del contexto o "".
func SessionIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(sessionKey{}).(string)
	return id
}

type actorKey struct{}

// WithActor usuario del tablero que ejecuta la operación (para auditoría).
func WithActor(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, actorKey{}, userID)
}

// ActorFrom devuelve el usuario del contexto o 0.
func ActorFrom(ctx context.Context) int64 {
	id, _ := ctx.Value(actorKey{}).(int64)
	return id
}

type quietKey struct{}

// WithoutUnauthorizedHook marca llamadas cuyo 401 no debe cerrar la sesión, como la carga
// de permisos: quien llama decide qué hacer con el error.
func WithoutUnauthorizedHook(ctx context.Context) context.Context {
	return context.WithValue(ctx, quietKey{}, true)
}

// UnauthorizedHookSuppressed indica si ctx viene de WithoutUnauthorizedHook.
func UnauthorizedHookSuppressed(ctx context.Context) bool {
	quiet, _ := ctx.Value(quietKey{}).(bool)
	return quiet
}
