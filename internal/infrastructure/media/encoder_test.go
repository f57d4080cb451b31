package media_test

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nextmeal/backoffice/internal/domain"
	"github.com/nextmeal/backoffice/internal/infrastructure/media"
)

func pngBase64(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.NRGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

func decodeResult(t *testing.T, uri string) image.Image {
	t.Helper()
	require.True(t, strings.HasPrefix(uri, "data:image/jpeg;base64,"))
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(uri, "data:image/jpeg;base64,"))
	require.NoError(t, err)
	img, err := imaging.Decode(bytes.NewReader(raw))
	require.NoError(t, err)
	return img
}

func TestEncode_ReduceAlLadoMaximo(t *testing.T) {
	enc := media.NewEncoder(zerolog.Nop(), 0)
	out, err := enc.Encode(context.Background(), "data:image/png;base64,"+pngBase64(t, 1600, 400))
	require.NoError(t, err)

	img := decodeResult(t, out)
	assert.Equal(t, media.MaxDimension, img.Bounds().Dx())
	assert.Equal(t, 200, img.Bounds().Dy())
}

func TestEncode_PequenaConservaTamano(t *testing.T) {
	enc := media.NewEncoder(zerolog.Nop(), 0)
	out, err := enc.Encode(context.Background(), pngBase64(t, 64, 48))
	require.NoError(t, err)

	img := decodeResult(t, out)
	assert.Equal(t, 64, img.Bounds().Dx())
	assert.Equal(t, 48, img.Bounds().Dy())
}

func TestEncode_EntradaInvalida(t *testing.T) {
	enc := media.NewEncoder(zerolog.Nop(), 0)
	for _, in := range []string{"no-es-base64!!", "data:image/png,sinbase64", base64.StdEncoding.EncodeToString([]byte("texto plano"))} {
		_, err := enc.Encode(context.Background(), in)
		assert.Error(t, err, in)
	}
}

// ── Límite de píxeles ────────────────────────────────────────────────────────

// inflatedPNG PNG pequeño cuya cabecera IHDR declara w×h.
func inflatedPNG(t *testing.T, w, h uint32) string {
	t.Helper()
	raw, err := base64.StdEncoding.DecodeString(pngBase64(t, 4, 4))
	require.NoError(t, err)
	// firma (8) + longitud (4) + "IHDR" (4) + ancho (4) + alto (4) ... CRC en 29:33
	binary.BigEndian.PutUint32(raw[16:20], w)
	binary.BigEndian.PutUint32(raw[20:24], h)
	binary.BigEndian.PutUint32(raw[29:33], crc32.ChecksumIEEE(raw[12:29]))
	return base64.StdEncoding.EncodeToString(raw)
}

func TestEncode_CabeceraGiganteSeRechazaSinDecodificar(t *testing.T) {
	enc := media.NewEncoder(zerolog.Nop(), 0)
	in := inflatedPNG(t, 50_000, 50_000)
	assert.Less(t, len(in), 1024, "la carga útil es diminuta")

	_, err := enc.Encode(context.Background(), in)
	assert.ErrorIs(t, err, media.ErrTooManyPixels)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestEncode_LimiteDePixelesConfigurable(t *testing.T) {
	enc := media.NewEncoder(zerolog.Nop(), 100*100)

	_, err := enc.Encode(context.Background(), pngBase64(t, 101, 100))
	assert.ErrorIs(t, err, media.ErrTooManyPixels)

	_, err = enc.Encode(context.Background(), pngBase64(t, 100, 100))
	assert.NoError(t, err)
}
