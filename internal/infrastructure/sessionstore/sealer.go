// Package sessionstore implementa repository.SessionStore en memoria, Redis y PostgreSQL.
// Fuera del proceso la sesión se guarda sellada: contiene el bearer del backend.
package sessionstore

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/nacl/secretbox"

	"github.com/nextmeal/backoffice/internal/domain/entity"
)

const nonceSize = 24

// ErrSealBroken el contenido no se pudo abrir con la clave actual.
var ErrSealBroken = errors.New("sesión sellada inválida")

// Sealer cifra y autentica sesiones con secretbox. La clave se deriva del secreto con SHA-256.
type Sealer struct {
	key [32]byte
}

// NewSealer crea un sellador. El secreto no puede estar vacío.
func NewSealer(secret string) (*Sealer, error) {
	if secret == "" {
		return nil, fmt.Errorf("sessionstore: clave de sellado vacía")
	}
	return &Sealer{key: sha256.Sum256([]byte(secret))}, nil
}

// Seal nonce || caja.
func (s *Sealer) Seal(plain []byte) ([]byte, error) {
	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return nil, fmt.Errorf("sessionstore: generar nonce: %w", err)
	}
	return secretbox.Seal(nonce[:], plain, &nonce, &s.key), nil
}

// Open inverso de Seal.
func (s *Sealer) Open(sealed []byte) ([]byte, error) {
	if len(sealed) < nonceSize+secretbox.Overhead {
		return nil, ErrSealBroken
	}
	var nonce [nonceSize]byte
	copy(nonce[:], sealed[:nonceSize])
	plain, ok := secretbox.Open(nil, sealed[nonceSize:], &nonce, &s.key)
	if !ok {
		return nil, ErrSealBroken
	}
	return plain, nil
}

// encode serializa y sella la sesión.
func (s *Sealer) encode(sess *entity.Session) ([]byte, error) {
	raw, err := json.Marshal(sess)
	if err != nil {
		return nil, fmt.Errorf("sessionstore: serializar sesión: %w", err)
	}
	return s.Seal(raw)
}

func (s *Sealer) decode(sealed []byte) (*entity.Session, error) {
	raw, err := s.Open(sealed)
	if err != nil {
		return nil, err
	}
	sess := new(entity.Session)
	if err := json.Unmarshal(raw, sess); err != nil {
		return nil, fmt.Errorf("sessionstore: deserializar sesión: %w", err)
	}
	return sess, nil
}
