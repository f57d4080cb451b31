package ports

import "context"

// ImageEncoder normaliza la imagen de una categoría y la devuelve como data URI base64.
// La entrada puede ser un data URI o base64 sin prefijo.
type ImageEncoder interface {
	Encode(ctx context.Context, image string) (string, error)
}
