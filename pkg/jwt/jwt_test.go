package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgjwt "github.com/nextmeal/backoffice/pkg/jwt"
)

const (
	testSecret    = "test-secret-key-for-unit-tests"
	testSessionID = "5b1f8a0e-0000-4000-8000-000000000001"
	testIssuer    = "nextmeal-backoffice-test"
)

func TestJWT_GenerateAndParse(t *testing.T) {
	tok, err := pkgjwt.Generate(testSecret, testSessionID, 42, 2, testIssuer, 60)
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	claims, err := pkgjwt.Parse(testSecret, tok)
	require.NoError(t, err)
	assert.Equal(t, testSessionID, claims.SessionID)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, int64(2), claims.RoleID)
	assert.Equal(t, testIssuer, claims.Issuer)
}

func TestJWT_TokenExpirado_RetornaError(t *testing.T) {
	tok, err := pkgjwt.Generate(testSecret, testSessionID, 1, 1, testIssuer, -1)
	require.NoError(t, err)

	_, err = pkgjwt.Parse(testSecret, tok)
	assert.Error(t, err, "token expirado debe retornar error")
}

func TestJWT_SecretIncorrecto_RetornaError(t *testing.T) {
	tok, err := pkgjwt.Generate(testSecret, testSessionID, 1, 1, testIssuer, 60)
	require.NoError(t, err)

	_, err = pkgjwt.Parse("otro-secret-completamente-distinto", tok)
	assert.Error(t, err)
}

func TestJWT_SinSesion_NoSeGenera(t *testing.T) {
	_, err := pkgjwt.Generate(testSecret, "", 1, 1, testIssuer, 60)
	assert.Error(t, err)
}
