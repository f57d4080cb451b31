package usecase

import (
	"errors"

	"github.com/nextmeal/backoffice/internal/domain"
)

// IsNotFound indica si el error corresponde a un recurso inexistente.
func IsNotFound(err error) bool {
	return errors.Is(err, domain.ErrNotFound)
}
