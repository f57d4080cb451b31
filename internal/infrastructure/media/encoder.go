// Package media normaliza las imágenes de categorías antes de enviarlas al backend.
package media

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/rs/zerolog"

	"github.com/nextmeal/backoffice/internal/application/ports"
	"github.com/nextmeal/backoffice/internal/domain"
)

var _ ports.ImageEncoder = (*Encoder)(nil)

const (
	// MaxDimension lado mayor tras redimensionar.
	MaxDimension = 800
	// MaxBytes tamaño máximo de la imagen decodificada que se acepta.
	MaxBytes = 5 << 20
	// DefaultMaxPixels ancho × alto máximo si no se configura otro.
	DefaultMaxPixels = 40_000_000
	jpegQuality      = 75
	dataURIJPEG      = "data:image/jpeg;base64,"
)

var (
	// ErrTooLarge la imagen supera MaxBytes.
	ErrTooLarge = fmt.Errorf("%w: imagen demasiado grande", domain.ErrInvalidInput)
	// ErrTooManyPixels la cabecera declara más píxeles de los permitidos.
	ErrTooManyPixels = fmt.Errorf("%w: imagen con demasiados píxeles", domain.ErrInvalidInput)
)

// Encoder convierte cualquier formato soportado a JPEG de como máximo MaxDimension px
// y lo devuelve como data URI.
type Encoder struct {
	log       zerolog.Logger
	maxPixels int
}

// NewEncoder maxPixels <= 0 usa DefaultMaxPixels.
func NewEncoder(log zerolog.Logger, maxPixels int) *Encoder {
	if maxPixels <= 0 {
		maxPixels = DefaultMaxPixels
	}
	return &Encoder{log: log, maxPixels: maxPixels}
}

// Encode acepta un data URI o base64 sin prefijo.
func (e *Encoder) Encode(ctx context.Context, in string) (string, error) {
	raw, err := decodePayload(in)
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	// las dimensiones se leen de la cabecera antes de reservar el lienzo completo
	cfg, _, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("%w: decodificar cabecera: %v", domain.ErrInvalidInput, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || int64(cfg.Width)*int64(cfg.Height) > int64(e.maxPixels) {
		e.log.Warn().Int("ancho", cfg.Width).Int("alto", cfg.Height).Msg("imagen rechazada por dimensiones")
		return "", ErrTooManyPixels
	}
	img, err := imaging.Decode(bytes.NewReader(raw), imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("decodificar imagen: %w", err)
	}
	b := img.Bounds()
	if b.Dx() > MaxDimension || b.Dy() > MaxDimension {
		img = imaging.Fit(img, MaxDimension, MaxDimension, imaging.Lanczos)
	}
	// JPEG no tiene canal alfa: se aplana sobre blanco
	flat := imaging.New(img.Bounds().Dx(), img.Bounds().Dy(), color.White)
	flat = imaging.Overlay(flat, img, image.Pt(0, 0), 1)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, flat, imaging.JPEG, imaging.JPEGQuality(jpegQuality)); err != nil {
		return "", fmt.Errorf("codificar JPEG: %w", err)
	}
	e.log.Debug().
		Int("ancho", flat.Bounds().Dx()).
		Int("alto", flat.Bounds().Dy()).
		Int("bytes", buf.Len()).
		Msg("imagen de categoría normalizada")
	return dataURIJPEG + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

func decodePayload(in string) ([]byte, error) {
	s := strings.TrimSpace(in)
	if strings.HasPrefix(s, "data:") {
		i := strings.Index(s, ",")
		if i < 0 || !strings.Contains(s[:i], ";base64") {
			return nil, fmt.Errorf("data URI sin base64")
		}
		s = s[i+1:]
	}
	if base64.StdEncoding.DecodedLen(len(s)) > MaxBytes {
		return nil, ErrTooLarge
	}
	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("base64 inválido: %w", err)
	}
	return raw, nil
}
